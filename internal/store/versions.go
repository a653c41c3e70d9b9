package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/model"
)

// InsertVersion writes an immutable pre-update snapshot. The unique
// (permit_id, version) constraint guards against double-writes.
func (s *Store) InsertVersion(ctx context.Context, v *model.PermitVersion) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO permit_versions (
			id, permit_id, version, permit_data, changed_fields,
			change_source, change_reason, source_portal_id, scraped_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		v.ID, v.PermitID, v.Version, v.PermitData, v.ChangedFields,
		v.ChangeSource, v.ChangeReason, v.SourcePortalID, v.ScrapedAt, v.CreatedBy,
	).Scan(&v.CreatedAt)
	if err != nil {
		return eris.Wrapf(err, "store: insert version %d for permit %s", v.Version, v.PermitID)
	}
	return nil
}

// ListVersions returns a permit's version history, newest first.
func (s *Store) ListVersions(ctx context.Context, permitID string) ([]model.PermitVersion, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, permit_id, version, permit_data, changed_fields,
			change_source, change_reason, source_portal_id, scraped_at, created_by, created_at
		FROM permit_versions
		WHERE permit_id=$1
		ORDER BY version DESC`, permitID)
	if err != nil {
		return nil, eris.Wrapf(err, "store: list versions for %s", permitID)
	}
	defer rows.Close()

	var versions []model.PermitVersion
	for rows.Next() {
		var v model.PermitVersion
		if err := rows.Scan(&v.ID, &v.PermitID, &v.Version, &v.PermitData, &v.ChangedFields,
			&v.ChangeSource, &v.ChangeReason, &v.SourcePortalID, &v.ScrapedAt, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan version")
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
