package normalize

// streetSuffixes maps street-suffix spelling variants to USPS standard
// abbreviations (USPS Publication 28, Appendix C1).
var streetSuffixes = map[string]string{
	"ALLEY":      "ALY",
	"ALLEE":      "ALY",
	"ALLY":       "ALY",
	"ANNEX":      "ANX",
	"ANEX":       "ANX",
	"ANNX":       "ANX",
	"ARCADE":     "ARC",
	"AVENUE":     "AVE",
	"AVENU":      "AVE",
	"AVEN":       "AVE",
	"AVNUE":      "AVE",
	"AV":         "AVE",
	"BAYOU":      "BYU",
	"BAYOO":      "BYU",
	"BEACH":      "BCH",
	"BEND":       "BND",
	"BLUFF":      "BLF",
	"BLUF":       "BLF",
	"BLUFFS":     "BLFS",
	"BOTTOM":     "BTM",
	"BOTTM":      "BTM",
	"BOT":        "BTM",
	"BOULEVARD":  "BLVD",
	"BOUL":       "BLVD",
	"BOULV":      "BLVD",
	"BRANCH":     "BR",
	"BRNCH":      "BR",
	"BRIDGE":     "BRG",
	"BRDGE":      "BRG",
	"BROOK":      "BRK",
	"BRROK":      "BRK",
	"BROOKS":     "BRKS",
	"BURG":       "BG",
	"BURGS":      "BGS",
	"BYPASS":     "BYP",
	"BYPA":       "BYP",
	"BYPAS":      "BYP",
	"BYPS":       "BYP",
	"CAMP":       "CP",
	"CMP":        "CP",
	"CANYON":     "CYN",
	"CANYN":      "CYN",
	"CNYN":       "CYN",
	"CAPE":       "CPE",
	"CAUSEWAY":   "CSWY",
	"CAUSWA":     "CSWY",
	"CENTER":     "CTR",
	"CENT":       "CTR",
	"CENTR":      "CTR",
	"CENTRE":     "CTR",
	"CNTER":      "CTR",
	"CNTR":       "CTR",
	"CENTERS":    "CTRS",
	"CIRCLE":     "CIR",
	"CIRC":       "CIR",
	"CIRCL":      "CIR",
	"CRCL":       "CIR",
	"CRCLE":      "CIR",
	"CIRCLES":    "CIRS",
	"CLIFF":      "CLF",
	"CLIFFS":     "CLFS",
	"CLUB":       "CLB",
	"COMMON":     "CMN",
	"COMMONS":    "CMNS",
	"CORNER":     "COR",
	"CORNERS":    "CORS",
	"COURSE":     "CRSE",
	"COURT":      "CT",
	"CRT":        "CT",
	"COURTS":     "CTS",
	"COVE":       "CV",
	"COVES":      "CVS",
	"CREEK":      "CRK",
	"CK":         "CRK",
	"CR":         "CRK",
	"CRESCENT":   "CRES",
	"CRSENT":     "CRES",
	"CRSNT":      "CRES",
	"CREST":      "CRST",
	"CROSSING":   "XING",
	"CRSSNG":     "XING",
	"CROSSROAD":  "XRD",
	"CROSSROADS": "XRDS",
	"CURVE":      "CURV",
	"DALE":       "DL",
	"DAM":        "DM",
	"DIVIDE":     "DV",
	"DIV":        "DV",
	"DVD":        "DV",
	"DRIVE":      "DR",
	"DRIV":       "DR",
	"DRV":        "DR",
	"DRIVES":     "DRS",
	"ESTATE":     "EST",
	"ESTATES":    "ESTS",
	"EXPRESSWAY": "EXPY",
	"EXP":        "EXPY",
	"EXPR":       "EXPY",
	"EXPRESS":    "EXPY",
	"EXPW":       "EXPY",
	"EXTENSION":  "EXT",
	"EXTN":       "EXT",
	"EXTNSN":     "EXT",
	"EXTENSIONS": "EXTS",
	"FALL":       "FALL",
	"FALLS":      "FLS",
	"FERRY":      "FRY",
	"FRRY":       "FRY",
	"FIELD":      "FLD",
	"FIELDS":     "FLDS",
	"FLAT":       "FLT",
	"FLATS":      "FLTS",
	"FORD":       "FRD",
	"FORDS":      "FRDS",
	"FOREST":     "FRST",
	"FORESTS":    "FRST",
	"FORGE":      "FRG",
	"FORG":       "FRG",
	"FORGES":     "FRGS",
	"FORK":       "FRK",
	"FORKS":      "FRKS",
	"FORT":       "FT",
	"FRT":        "FT",
	"FREEWAY":    "FWY",
	"FREEWY":     "FWY",
	"FRWAY":      "FWY",
	"FRWY":       "FWY",
	"GARDEN":     "GDN",
	"GARDN":      "GDN",
	"GRDEN":      "GDN",
	"GRDN":       "GDN",
	"GARDENS":    "GDNS",
	"GRDNS":      "GDNS",
	"GATEWAY":    "GTWY",
	"GATEWY":     "GTWY",
	"GATWAY":     "GTWY",
	"GTWAY":      "GTWY",
	"GLEN":       "GLN",
	"GLENS":      "GLNS",
	"GREEN":      "GRN",
	"GREENS":     "GRNS",
	"GROVE":      "GRV",
	"GROV":       "GRV",
	"GROVES":     "GRVS",
	"HARBOR":     "HBR",
	"HARB":       "HBR",
	"HARBR":      "HBR",
	"HRBOR":      "HBR",
	"HARBORS":    "HBRS",
	"HAVEN":      "HVN",
	"HAVN":       "HVN",
	"HEIGHTS":    "HTS",
	"HEIGHT":     "HTS",
	"HGTS":       "HTS",
	"HT":         "HTS",
	"HIGHWAY":    "HWY",
	"HIGHWY":     "HWY",
	"HIWAY":      "HWY",
	"HIWY":       "HWY",
	"HWAY":       "HWY",
	"HILL":       "HL",
	"HILLS":      "HLS",
	"HOLLOW":     "HOLW",
	"HLLW":       "HOLW",
	"HOLLOWS":    "HOLW",
	"HOLWS":      "HOLW",
	"INLET":      "INLT",
	"ISLAND":     "IS",
	"ISLND":      "IS",
	"ISLANDS":    "ISS",
	"ISLNDS":     "ISS",
	"ISLE":       "ISLE",
	"ISLES":      "ISLE",
	"JUNCTION":   "JCT",
	"JCTION":     "JCT",
	"JCTN":       "JCT",
	"JUNCTN":     "JCT",
	"JUNCTON":    "JCT",
	"JUNCTIONS":  "JCTS",
	"JCTNS":      "JCTS",
	"KEY":        "KY",
	"KEYS":       "KYS",
	"KNOLL":      "KNL",
	"KNOL":       "KNL",
	"KNOLLS":     "KNLS",
	"LAKE":       "LK",
	"LAKES":      "LKS",
	"LAND":       "LAND",
	"LANDING":    "LNDG",
	"LNDNG":      "LNDG",
	"LANE":       "LN",
	"LANES":      "LN",
	"LIGHT":      "LGT",
	"LIGHTS":     "LGTS",
	"LOAF":       "LF",
	"LOCK":       "LCK",
	"LOCKS":      "LCKS",
	"LODGE":      "LDG",
	"LDGE":       "LDG",
	"LODG":       "LDG",
	"LOOP":       "LOOP",
	"LOOPS":      "LOOP",
	"MALL":       "MALL",
	"MANOR":      "MNR",
	"MANORS":     "MNRS",
	"MEADOW":     "MDW",
	"MEADOWS":    "MDWS",
	"MEDOWS":     "MDWS",
	"MEWS":       "MEWS",
	"MILL":       "ML",
	"MILLS":      "MLS",
	"MISSION":    "MSN",
	"MISSN":      "MSN",
	"MSSN":       "MSN",
	"MOTORWAY":   "MTWY",
	"MOUNT":      "MT",
	"MNT":        "MT",
	"MOUNTAIN":   "MTN",
	"MNTAIN":     "MTN",
	"MNTN":       "MTN",
	"MOUNTIN":    "MTN",
	"MTIN":       "MTN",
	"MOUNTAINS":  "MTNS",
	"MNTNS":      "MTNS",
	"NECK":       "NCK",
	"ORCHARD":    "ORCH",
	"ORCHRD":     "ORCH",
	"OVAL":       "OVAL",
	"OVL":        "OVAL",
	"OVERPASS":   "OPAS",
	"PARK":       "PARK",
	"PRK":        "PARK",
	"PARKS":      "PARK",
	"PARKWAY":    "PKWY",
	"PARKWY":     "PKWY",
	"PKWAY":      "PKWY",
	"PKY":        "PKWY",
	"PARKWAYS":   "PKWY",
	"PKWYS":      "PKWY",
	"PASS":       "PASS",
	"PASSAGE":    "PSGE",
	"PATH":       "PATH",
	"PATHS":      "PATH",
	"PIKE":       "PIKE",
	"PIKES":      "PIKE",
	"PINE":       "PNE",
	"PINES":      "PNES",
	"PLACE":      "PL",
	"PLAIN":      "PLN",
	"PLAINS":     "PLNS",
	"PLAZA":      "PLZ",
	"PLZA":       "PLZ",
	"POINT":      "PT",
	"POINTS":     "PTS",
	"PORT":       "PRT",
	"PORTS":      "PRTS",
	"PRAIRIE":    "PR",
	"PRR":        "PR",
	"RADIAL":     "RADL",
	"RAD":        "RADL",
	"RADIEL":     "RADL",
	"RAMP":       "RAMP",
	"RANCH":      "RNCH",
	"RANCHES":    "RNCH",
	"RNCHS":      "RNCH",
	"RAPID":      "RPD",
	"RAPIDS":     "RPDS",
	"REST":       "RST",
	"RIDGE":      "RDG",
	"RDGE":       "RDG",
	"RIDGES":     "RDGS",
	"RIVER":      "RIV",
	"RVR":        "RIV",
	"RIVR":       "RIV",
	"ROAD":       "RD",
	"ROADS":      "RDS",
	"ROUTE":      "RTE",
	"ROW":        "ROW",
	"RUE":        "RUE",
	"RUN":        "RUN",
	"SHOAL":      "SHL",
	"SHOALS":     "SHLS",
	"SHORE":      "SHR",
	"SHOAR":      "SHR",
	"SHORES":     "SHRS",
	"SHOARS":     "SHRS",
	"SKYWAY":     "SKWY",
	"SPRING":     "SPG",
	"SPNG":       "SPG",
	"SPRNG":      "SPG",
	"SPRINGS":    "SPGS",
	"SPNGS":      "SPGS",
	"SPRNGS":     "SPGS",
	"SPUR":       "SPUR",
	"SPURS":      "SPUR",
	"SQUARE":     "SQ",
	"SQR":        "SQ",
	"SQRE":       "SQ",
	"SQU":        "SQ",
	"SQUARES":    "SQS",
	"SQRS":       "SQS",
	"STATION":    "STA",
	"STATN":      "STA",
	"STN":        "STA",
	"STRAVENUE":  "STRA",
	"STRAV":      "STRA",
	"STRAVEN":    "STRA",
	"STRAVN":     "STRA",
	"STRVN":      "STRA",
	"STRVNUE":    "STRA",
	"STREAM":     "STRM",
	"STREME":     "STRM",
	"STREET":     "ST",
	"STRT":       "ST",
	"STR":        "ST",
	"STREETS":    "STS",
	"SUMMIT":     "SMT",
	"SUMIT":      "SMT",
	"SUMITT":     "SMT",
	"TERRACE":    "TER",
	"TERR":       "TER",
	"THROUGHWAY": "TRWY",
	"TRACE":      "TRCE",
	"TRACES":     "TRCE",
	"TRACK":      "TRAK",
	"TRACKS":     "TRAK",
	"TRK":        "TRAK",
	"TRKS":       "TRAK",
	"TRAFFICWAY": "TRFY",
	"TRAIL":      "TRL",
	"TRAILS":     "TRL",
	"TRLS":       "TRL",
	"TRAILER":    "TRLR",
	"TRLRS":      "TRLR",
	"TUNNEL":     "TUNL",
	"TUNEL":      "TUNL",
	"TUNLS":      "TUNL",
	"TUNNELS":    "TUNL",
	"TUNNL":      "TUNL",
	"TURNPIKE":   "TPKE",
	"TRNPK":      "TPKE",
	"TURNPK":     "TPKE",
	"UNDERPASS":  "UPAS",
	"UNION":      "UN",
	"UNIONS":     "UNS",
	"VALLEY":     "VLY",
	"VALLY":      "VLY",
	"VLLY":       "VLY",
	"VALLEYS":    "VLYS",
	"VIADUCT":    "VIA",
	"VDCT":       "VIA",
	"VIADCT":     "VIA",
	"VIEW":       "VW",
	"VIEWS":      "VWS",
	"VILLAGE":    "VLG",
	"VILL":       "VLG",
	"VILLAG":     "VLG",
	"VILLG":      "VLG",
	"VILLIAGE":   "VLG",
	"VILLAGES":   "VLGS",
	"VILLE":      "VL",
	"VISTA":      "VIS",
	"VIST":       "VIS",
	"VST":        "VIS",
	"VSTA":       "VIS",
	"WALK":       "WALK",
	"WALKS":      "WALK",
	"WALL":       "WALL",
	"WAY":        "WAY",
	"WAYS":       "WAYS",
	"WELL":       "WL",
	"WELLS":      "WLS",
}

var directionals = map[string]string{
	"NORTH":     "N",
	"SOUTH":     "S",
	"EAST":      "E",
	"WEST":      "W",
	"NORTHEAST": "NE",
	"NORTHWEST": "NW",
	"SOUTHEAST": "SE",
	"SOUTHWEST": "SW",
}

var unitDesignators = map[string]string{
	"APARTMENT":  "APT",
	"BASEMENT":   "BSMT",
	"BUILDING":   "BLDG",
	"DEPARTMENT": "DEPT",
	"FLOOR":      "FL",
	"FRONT":      "FRNT",
	"HANGAR":     "HNGR",
	"LOBBY":      "LBBY",
	"LOT":        "LOT",
	"LOWER":      "LOWR",
	"OFFICE":     "OFC",
	"PENTHOUSE":  "PH",
	"PIER":       "PIER",
	"REAR":       "REAR",
	"ROOM":       "RM",
	"SIDE":       "SIDE",
	"SLIP":       "SLIP",
	"SPACE":      "SPC",
	"STOP":       "STOP",
	"SUITE":      "STE",
	"TRAILER":    "TRLR",
	"UNIT":       "UNIT",
	"UPPER":      "UPPR",
}

// stateCodes maps full state names to USPS 2-letter codes. Covers the 50
// states, DC, and the 5 inhabited territories.
var stateCodes = map[string]string{
	"ALABAMA":                  "AL",
	"ALASKA":                   "AK",
	"ARIZONA":                  "AZ",
	"ARKANSAS":                 "AR",
	"CALIFORNIA":               "CA",
	"COLORADO":                 "CO",
	"CONNECTICUT":              "CT",
	"DELAWARE":                 "DE",
	"FLORIDA":                  "FL",
	"GEORGIA":                  "GA",
	"HAWAII":                   "HI",
	"IDAHO":                    "ID",
	"ILLINOIS":                 "IL",
	"INDIANA":                  "IN",
	"IOWA":                     "IA",
	"KANSAS":                   "KS",
	"KENTUCKY":                 "KY",
	"LOUISIANA":                "LA",
	"MAINE":                    "ME",
	"MARYLAND":                 "MD",
	"MASSACHUSETTS":            "MA",
	"MICHIGAN":                 "MI",
	"MINNESOTA":                "MN",
	"MISSISSIPPI":              "MS",
	"MISSOURI":                 "MO",
	"MONTANA":                  "MT",
	"NEBRASKA":                 "NE",
	"NEVADA":                   "NV",
	"NEW HAMPSHIRE":            "NH",
	"NEW JERSEY":               "NJ",
	"NEW MEXICO":               "NM",
	"NEW YORK":                 "NY",
	"NORTH CAROLINA":           "NC",
	"NORTH DAKOTA":             "ND",
	"OHIO":                     "OH",
	"OKLAHOMA":                 "OK",
	"OREGON":                   "OR",
	"PENNSYLVANIA":             "PA",
	"RHODE ISLAND":             "RI",
	"SOUTH CAROLINA":           "SC",
	"SOUTH DAKOTA":             "SD",
	"TENNESSEE":                "TN",
	"TEXAS":                    "TX",
	"UTAH":                     "UT",
	"VERMONT":                  "VT",
	"VIRGINIA":                 "VA",
	"WASHINGTON":               "WA",
	"WEST VIRGINIA":            "WV",
	"WISCONSIN":                "WI",
	"WYOMING":                  "WY",
	"DISTRICT OF COLUMBIA":     "DC",
	"PUERTO RICO":              "PR",
	"GUAM":                     "GU",
	"VIRGIN ISLANDS":           "VI",
	"AMERICAN SAMOA":           "AS",
	"NORTHERN MARIANA ISLANDS": "MP",
}

// validStateCodes is the closed set of acceptable 2-letter codes, derived
// from stateCodes values.
var validStateCodes = func() map[string]bool {
	codes := make(map[string]bool, len(stateCodes))
	for _, code := range stateCodes {
		codes[code] = true
	}
	return codes
}()
