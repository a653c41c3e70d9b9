package load

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/permit-registry/internal/model"
)

// Mapping translates one portal's export layout into canonical permit
// records. Columns map canonical field names to the portal's headers (or
// JSON keys); Defaults supply values missing from the export, typically
// state_code for single-state portals.
type Mapping struct {
	Portal    string            `yaml:"portal"`
	Format    string            `yaml:"format"`
	Sheet     string            `yaml:"sheet,omitempty"`
	Delimiter string            `yaml:"delimiter,omitempty"`
	Columns   map[string]string `yaml:"columns"`
	Defaults  map[string]string `yaml:"defaults,omitempty"`
}

// LoadMapping reads a column-mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "load: read mapping %s", path)
	}

	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "load: parse mapping %s", path)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Mapping) validate() error {
	if m.Portal == "" {
		return eris.New("load: mapping missing portal code")
	}
	switch m.Format {
	case "csv", "xlsx", "json":
	default:
		return eris.Errorf("load: mapping format %q not supported", m.Format)
	}
	if len(m.Columns) == 0 {
		return eris.New("load: mapping has no columns")
	}
	for field := range m.Columns {
		if _, ok := recordSetters[field]; !ok {
			return eris.Errorf("load: mapping column %q is not a permit field", field)
		}
	}
	for field := range m.Defaults {
		if _, ok := recordSetters[field]; !ok {
			return eris.Errorf("load: mapping default %q is not a permit field", field)
		}
	}
	if _, mapped := m.Columns["state_code"]; !mapped {
		if _, defaulted := m.Defaults["state_code"]; !defaulted {
			return eris.New("load: mapping must supply state_code via columns or defaults")
		}
	}
	return nil
}

// DelimiterRune returns the CSV delimiter, defaulting to a comma.
func (m *Mapping) DelimiterRune() rune {
	if m.Delimiter == "" {
		return ','
	}
	return []rune(m.Delimiter)[0]
}

// Record maps one tabular row to a permit record using the header for
// column positions. Empty cells leave fields nil.
func (m *Mapping) Record(header, row []string) (*model.PermitRecord, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	rec := &model.PermitRecord{}
	if err := m.applyDefaults(rec); err != nil {
		return nil, err
	}
	for field, column := range m.Columns {
		i, ok := index[strings.ToLower(strings.TrimSpace(column))]
		if !ok || i >= len(row) {
			continue
		}
		if err := setField(rec, field, row[i]); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// RecordFromObject maps one JSON export object to a permit record.
func (m *Mapping) RecordFromObject(obj map[string]any) (*model.PermitRecord, error) {
	rec := &model.PermitRecord{}
	if err := m.applyDefaults(rec); err != nil {
		return nil, err
	}
	for field, key := range m.Columns {
		val, ok := obj[key]
		if !ok || val == nil {
			continue
		}
		if err := setField(rec, field, stringify(val)); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// applyDefaults seeds the record before column mapping; mapped non-empty
// values overwrite these.
func (m *Mapping) applyDefaults(rec *model.PermitRecord) error {
	for field, val := range m.Defaults {
		if err := setField(rec, field, val); err != nil {
			return err
		}
	}
	return nil
}

// recordSetters maps canonical field names to assignment functions.
// Blank values are ignored; unparseable numbers are input errors.
var recordSetters = map[string]func(*model.PermitRecord, string) error{
	"permit_number":     func(r *model.PermitRecord, v string) error { r.PermitNumber = &v; return nil },
	"state_code":        func(r *model.PermitRecord, v string) error { r.StateCode = v; return nil },
	"county_name":       func(r *model.PermitRecord, v string) error { r.CountyName = &v; return nil },
	"address":           func(r *model.PermitRecord, v string) error { r.Address = &v; return nil },
	"city":              func(r *model.PermitRecord, v string) error { r.City = &v; return nil },
	"zip_code":          func(r *model.PermitRecord, v string) error { r.ZipCode = &v; return nil },
	"parcel_number":     func(r *model.PermitRecord, v string) error { r.ParcelNumber = &v; return nil },
	"latitude":          func(r *model.PermitRecord, v string) error { return setFloat(&r.Latitude, "latitude", v) },
	"longitude":         func(r *model.PermitRecord, v string) error { return setFloat(&r.Longitude, "longitude", v) },
	"owner_name":        func(r *model.PermitRecord, v string) error { r.OwnerName = &v; return nil },
	"applicant_name":    func(r *model.PermitRecord, v string) error { r.ApplicantName = &v; return nil },
	"contractor_name":   func(r *model.PermitRecord, v string) error { r.ContractorName = &v; return nil },
	"install_date":      func(r *model.PermitRecord, v string) error { r.InstallDate = &v; return nil },
	"permit_date":       func(r *model.PermitRecord, v string) error { r.PermitDate = &v; return nil },
	"expiration_date":   func(r *model.PermitRecord, v string) error { r.ExpirationDate = &v; return nil },
	"system_type":       func(r *model.PermitRecord, v string) error { r.SystemType = &v; return nil },
	"tank_size_gallons": func(r *model.PermitRecord, v string) error { return setInt(&r.TankSizeGallons, "tank_size_gallons", v) },
	"drainfield_size_sqft": func(r *model.PermitRecord, v string) error {
		return setInt(&r.DrainfieldSizeSqft, "drainfield_size_sqft", v)
	},
	"bedrooms":       func(r *model.PermitRecord, v string) error { return setInt(&r.Bedrooms, "bedrooms", v) },
	"daily_flow_gpd": func(r *model.PermitRecord, v string) error { return setInt(&r.DailyFlowGPD, "daily_flow_gpd", v) },
	"pdf_url":        func(r *model.PermitRecord, v string) error { r.PDFURL = &v; return nil },
	"permit_url":     func(r *model.PermitRecord, v string) error { r.PermitURL = &v; return nil },
	"scraped_at":     func(r *model.PermitRecord, v string) error { r.ScrapedAt = &v; return nil },
}

func setField(rec *model.PermitRecord, field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return recordSetters[field](rec, value)
}

func setInt(dst **int, field, v string) error {
	n, err := strconv.Atoi(strings.TrimSuffix(v, ".0"))
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return eris.Errorf("load: %s value %q is not a number", field, v)
		}
		n = int(f)
	}
	*dst = &n
	return nil
}

func setFloat(dst **float64, field, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return eris.Errorf("load: %s value %q is not a number", field, v)
	}
	*dst = &f
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
