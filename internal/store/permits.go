package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/model"
)

// permitColumns is the standard column list for permit queries.
const permitColumns = `id, permit_number, state_id, county_id,
	address, address_normalized, address_hash, city, zip_code,
	parcel_number, latitude, longitude,
	owner_name, owner_name_normalized, applicant_name, contractor_name,
	install_date, permit_date, expiration_date,
	system_type_id, system_type_raw, tank_size_gallons, drainfield_size_sqft, bedrooms, daily_flow_gpd,
	pdf_url, permit_url,
	source_portal_id, source_portal_code, scraped_at, raw_data,
	is_active, data_quality_score, duplicate_of_id, version, record_hash,
	created_at, updated_at`

// PermitDests returns scan destinations matching permitColumns order.
func PermitDests(p *model.Permit) []any {
	return []any{
		&p.ID, &p.PermitNumber, &p.StateID, &p.CountyID,
		&p.Address, &p.AddressNormalized, &p.AddressHash, &p.City, &p.ZipCode,
		&p.ParcelNumber, &p.Latitude, &p.Longitude,
		&p.OwnerName, &p.OwnerNameNormalized, &p.ApplicantName, &p.ContractorName,
		&p.InstallDate, &p.PermitDate, &p.ExpirationDate,
		&p.SystemTypeID, &p.SystemTypeRaw, &p.TankSizeGallons, &p.DrainfieldSizeSqft, &p.Bedrooms, &p.DailyFlowGPD,
		&p.PDFURL, &p.PermitURL,
		&p.SourcePortalID, &p.SourcePortalCode, &p.ScrapedAt, &p.RawData,
		&p.IsActive, &p.DataQualityScore, &p.DuplicateOfID, &p.Version, &p.RecordHash,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

func scanPermits(rows pgx.Rows) ([]model.Permit, error) {
	var permits []model.Permit
	for rows.Next() {
		var p model.Permit
		if err := rows.Scan(PermitDests(&p)...); err != nil {
			return nil, eris.Wrap(err, "store: scan permit")
		}
		permits = append(permits, p)
	}
	return permits, rows.Err()
}

// InsertPermit persists a new permit row and fills in its timestamps.
func (s *Store) InsertPermit(ctx context.Context, p *model.Permit) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO septic_permits (
			id, permit_number, state_id, county_id,
			address, address_normalized, address_hash, city, zip_code,
			parcel_number, latitude, longitude,
			owner_name, owner_name_normalized, applicant_name, contractor_name,
			install_date, permit_date, expiration_date,
			system_type_id, system_type_raw, tank_size_gallons, drainfield_size_sqft, bedrooms, daily_flow_gpd,
			pdf_url, permit_url,
			source_portal_id, source_portal_code, scraped_at, raw_data,
			is_active, data_quality_score, version, record_hash
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19,
			$20, $21, $22, $23, $24, $25,
			$26, $27,
			$28, $29, $30, $31,
			$32, $33, $34, $35
		) RETURNING created_at, updated_at`,
		p.ID, p.PermitNumber, p.StateID, p.CountyID,
		p.Address, p.AddressNormalized, p.AddressHash, p.City, p.ZipCode,
		p.ParcelNumber, p.Latitude, p.Longitude,
		p.OwnerName, p.OwnerNameNormalized, p.ApplicantName, p.ContractorName,
		p.InstallDate, p.PermitDate, p.ExpirationDate,
		p.SystemTypeID, p.SystemTypeRaw, p.TankSizeGallons, p.DrainfieldSizeSqft, p.Bedrooms, p.DailyFlowGPD,
		p.PDFURL, p.PermitURL,
		p.SourcePortalID, p.SourcePortalCode, p.ScrapedAt, p.RawData,
		p.IsActive, p.DataQualityScore, p.Version, p.RecordHash,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return eris.Wrap(err, "store: insert permit")
	}
	return nil
}

// UpdatePermit overwrites a permit's content fields, version, and hash.
func (s *Store) UpdatePermit(ctx context.Context, p *model.Permit) error {
	err := s.q.QueryRow(ctx, `
		UPDATE septic_permits SET
			permit_number=$2, county_id=$3,
			address=$4, address_normalized=$5, address_hash=$6, city=$7, zip_code=$8,
			parcel_number=$9, latitude=$10, longitude=$11,
			owner_name=$12, owner_name_normalized=$13, applicant_name=$14, contractor_name=$15,
			install_date=$16, permit_date=$17, expiration_date=$18,
			system_type_id=$19, system_type_raw=$20, tank_size_gallons=$21, drainfield_size_sqft=$22, bedrooms=$23, daily_flow_gpd=$24,
			pdf_url=$25, permit_url=$26,
			source_portal_id=$27, source_portal_code=$28, scraped_at=$29, raw_data=$30,
			data_quality_score=$31, version=$32, record_hash=$33,
			updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		p.ID,
		p.PermitNumber, p.CountyID,
		p.Address, p.AddressNormalized, p.AddressHash, p.City, p.ZipCode,
		p.ParcelNumber, p.Latitude, p.Longitude,
		p.OwnerName, p.OwnerNameNormalized, p.ApplicantName, p.ContractorName,
		p.InstallDate, p.PermitDate, p.ExpirationDate,
		p.SystemTypeID, p.SystemTypeRaw, p.TankSizeGallons, p.DrainfieldSizeSqft, p.Bedrooms, p.DailyFlowGPD,
		p.PDFURL, p.PermitURL,
		p.SourcePortalID, p.SourcePortalCode, p.ScrapedAt, p.RawData,
		p.DataQualityScore, p.Version, p.RecordHash,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return eris.Wrapf(err, "store: update permit %s", p.ID)
	}
	return nil
}

// GetPermit fetches a permit by ID. Returns nil when not found.
func (s *Store) GetPermit(ctx context.Context, id string) (*model.Permit, error) {
	p := &model.Permit{}
	err := s.q.QueryRow(ctx, `SELECT `+permitColumns+` FROM septic_permits WHERE id=$1`, id).
		Scan(PermitDests(p)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get permit %s", id)
	}
	return p, nil
}

// FindActiveByAddressKey looks up the active permit matching the canonical
// location key. A nil countyID matches rows with no county.
func (s *Store) FindActiveByAddressKey(ctx context.Context, addressHash string, countyID *int, stateID int) (*model.Permit, error) {
	p := &model.Permit{}
	err := s.q.QueryRow(ctx, `
		SELECT `+permitColumns+`
		FROM septic_permits
		WHERE address_hash=$1 AND county_id IS NOT DISTINCT FROM $2 AND state_id=$3 AND is_active
		LIMIT 1`, addressHash, countyID, stateID).
		Scan(PermitDests(p)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "store: find by address key")
	}
	return p, nil
}

// FindActiveByPermitNumber looks up the active permit for a permit number
// within a state.
func (s *Store) FindActiveByPermitNumber(ctx context.Context, permitNumber string, stateID int) (*model.Permit, error) {
	p := &model.Permit{}
	err := s.q.QueryRow(ctx, `
		SELECT `+permitColumns+`
		FROM septic_permits
		WHERE permit_number=$1 AND state_id=$2 AND is_active
		LIMIT 1`, permitNumber, stateID).
		Scan(PermitDests(p)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: find by permit number %s", permitNumber)
	}
	return p, nil
}

// LookupPermit fetches the active permit for (permit_number, state_code).
func (s *Store) LookupPermit(ctx context.Context, permitNumber, stateCode string) (*model.Permit, error) {
	p := &model.Permit{}
	err := s.q.QueryRow(ctx, `
		SELECT `+QualifiedPermitColumns+`
		FROM septic_permits p
		JOIN states s ON s.id = p.state_id
		WHERE p.permit_number=$1 AND s.code=$2 AND p.is_active
		LIMIT 1`, permitNumber, stateCode).
		Scan(PermitDests(p)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: lookup permit %s/%s", permitNumber, stateCode)
	}
	return p, nil
}

// PermitDetail is a permit joined with its reference-data display names.
type PermitDetail struct {
	model.Permit
	StateCode      string  `json:"state_code"`
	StateName      string  `json:"state_name"`
	CountyName     *string `json:"county_name,omitempty"`
	SystemTypeName *string `json:"system_type_name,omitempty"`
	PortalName     *string `json:"portal_name,omitempty"`
}

// QualifiedPermitColumns is permitColumns with every column prefixed for
// joined queries.
const QualifiedPermitColumns = `p.id, p.permit_number, p.state_id, p.county_id,
	p.address, p.address_normalized, p.address_hash, p.city, p.zip_code,
	p.parcel_number, p.latitude, p.longitude,
	p.owner_name, p.owner_name_normalized, p.applicant_name, p.contractor_name,
	p.install_date, p.permit_date, p.expiration_date,
	p.system_type_id, p.system_type_raw, p.tank_size_gallons, p.drainfield_size_sqft, p.bedrooms, p.daily_flow_gpd,
	p.pdf_url, p.permit_url,
	p.source_portal_id, p.source_portal_code, p.scraped_at, p.raw_data,
	p.is_active, p.data_quality_score, p.duplicate_of_id, p.version, p.record_hash,
	p.created_at, p.updated_at`

// GetPermitDetail fetches a permit with state/county/system-type/portal
// names resolved. Returns nil when not found.
func (s *Store) GetPermitDetail(ctx context.Context, id string) (*PermitDetail, error) {
	d := &PermitDetail{}
	dests := PermitDests(&d.Permit)
	dests = append(dests, &d.StateCode, &d.StateName, &d.CountyName, &d.SystemTypeName, &d.PortalName)

	err := s.q.QueryRow(ctx, `
		SELECT `+QualifiedPermitColumns+`,
			s.code, s.name, c.name, t.name, sp.name
		FROM septic_permits p
		JOIN states s ON s.id = p.state_id
		LEFT JOIN counties c ON c.id = p.county_id
		LEFT JOIN septic_system_types t ON t.id = p.system_type_id
		LEFT JOIN source_portals sp ON sp.id = p.source_portal_id
		WHERE p.id=$1`, id).
		Scan(dests...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get permit detail %s", id)
	}
	return d, nil
}

// DeactivatePermit soft-deletes a permit, linking it to the canonical
// record that supersedes it. Permits are never hard-deleted.
func (s *Store) DeactivatePermit(ctx context.Context, id, canonicalID string) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE septic_permits
		SET is_active=FALSE, duplicate_of_id=$2, updated_at=now()
		WHERE id=$1`, id, canonicalID)
	if err != nil {
		return eris.Wrapf(err, "store: deactivate permit %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("store: deactivate permit %s: not found", id)
	}
	return nil
}
