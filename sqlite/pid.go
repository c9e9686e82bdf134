package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/woocrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ woocrawl.PidService = (*PidService)(nil)

// PidService implements woocrawl.PidService using SQLite.
type PidService struct {
	db *DB
}

// NewPidService creates a new PidService.
func NewPidService(db *DB) *PidService {
	return &PidService{db: db}
}

// UpsertPidOrganization creates or renames the organization with the same
// dc_identifier.
func (s *PidService) UpsertPidOrganization(ctx context.Context, org *woocrawl.PidOrganization) (bool, error) {
	if org.Identifier == "" {
		return false, woocrawl.Errorf(woocrawl.EINVALID, "organization dc_identifier required")
	}

	now := s.db.now()
	id := uuid.New().String()
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pid_organizations (id, dc_identifier, naam, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (dc_identifier) DO UPDATE SET
			naam = excluded.naam,
			updated_at = excluded.updated_at
		RETURNING id, created_at
	`, id, org.Identifier, org.Name, formatTime(now), formatTime(now)).Scan(&org.ID, &createdAt)
	if err != nil {
		return false, mapError(err, "PID organization")
	}

	org.UpdatedAt = now
	if org.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return false, err
	}
	return org.ID == id, nil
}

// UpsertPidDossier creates or updates the dossier with the same
// dc_identifier within its organization.
func (s *PidService) UpsertPidDossier(ctx context.Context, d *woocrawl.PidDossier) (bool, error) {
	if d.OrganizationID == "" {
		return false, woocrawl.Errorf(woocrawl.EINVALID, "dossier organization required")
	}
	if d.Identifier == "" {
		return false, woocrawl.Errorf(woocrawl.EINVALID, "dossier dc_identifier required")
	}

	now := s.db.now()
	id := uuid.New().String()
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pid_dossiers (id, organization_id, dc_identifier, dc_title, dc_type, dc_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (organization_id, dc_identifier) DO UPDATE SET
			dc_title = excluded.dc_title,
			dc_type = excluded.dc_type,
			dc_date = excluded.dc_date,
			updated_at = excluded.updated_at
		RETURNING id, created_at
	`, id, d.OrganizationID, d.Identifier, d.Title, d.Type, formatNullTime(d.Date),
		formatTime(now), formatTime(now)).Scan(&d.ID, &createdAt)
	if err != nil {
		return false, mapError(err, "PID dossier")
	}

	d.UpdatedAt = now
	if d.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return false, err
	}
	return d.ID == id, nil
}

// UpsertPidDocument creates or updates the document with the same
// dc_identifier within its dossier.
func (s *PidService) UpsertPidDocument(ctx context.Context, doc *woocrawl.PidDocument) (bool, error) {
	if doc.DossierID == "" {
		return false, woocrawl.Errorf(woocrawl.EINVALID, "document dossier required")
	}
	if doc.Identifier == "" {
		return false, woocrawl.Errorf(woocrawl.EINVALID, "document dc_identifier required")
	}

	now := s.db.now()
	id := uuid.New().String()
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pid_documents (id, dossier_id, dc_identifier, dc_title, dc_type, dc_date, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (dossier_id, dc_identifier) DO UPDATE SET
			dc_title = excluded.dc_title,
			dc_type = excluded.dc_type,
			dc_date = excluded.dc_date,
			url = excluded.url,
			updated_at = excluded.updated_at
		RETURNING id, created_at
	`, id, doc.DossierID, doc.Identifier, doc.Title, doc.Type, formatNullTime(doc.Date), doc.URL,
		formatTime(now), formatTime(now)).Scan(&doc.ID, &createdAt)
	if err != nil {
		return false, mapError(err, "PID document")
	}

	doc.UpdatedAt = now
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return false, err
	}
	return doc.ID == id, nil
}

// FindPidDossiers returns the dossiers of an organization ordered by
// dc_identifier.
func (s *PidService) FindPidDossiers(ctx context.Context, organizationID string) ([]*woocrawl.PidDossier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, dc_identifier, dc_title, dc_type, dc_date, created_at, updated_at
		FROM pid_dossiers WHERE organization_id = ? ORDER BY dc_identifier ASC
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*woocrawl.PidDossier
	for rows.Next() {
		var d woocrawl.PidDossier
		var date sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.OrganizationID, &d.Identifier, &d.Title, &d.Type, &date, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if d.Date, err = parseNullTime(date, "dc_date"); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if d.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// FindPidDocuments returns the documents of a dossier ordered by
// dc_identifier.
func (s *PidService) FindPidDocuments(ctx context.Context, dossierID string) ([]*woocrawl.PidDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dossier_id, dc_identifier, dc_title, dc_type, dc_date, url, created_at, updated_at
		FROM pid_documents WHERE dossier_id = ? ORDER BY dc_identifier ASC
	`, dossierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*woocrawl.PidDocument
	for rows.Next() {
		var d woocrawl.PidDocument
		var date sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.DossierID, &d.Identifier, &d.Title, &d.Type, &date, &d.URL, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if d.Date, err = parseNullTime(date, "dc_date"); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if d.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
