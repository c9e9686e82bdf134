package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/woocrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ woocrawl.OrganizationService = (*OrganizationService)(nil)

const organizationColumns = `id, name, slug, url, type, category, details, details_processed, created_at, updated_at`

// OrganizationService implements woocrawl.OrganizationService using SQLite.
type OrganizationService struct {
	db *DB
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(db *DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// UpsertOrganization creates the organization or updates the index fields
// of the one with the same slug.
func (s *OrganizationService) UpsertOrganization(ctx context.Context, org *woocrawl.Organization) (bool, error) {
	if err := org.Validate(); err != nil {
		return false, err
	}
	if org.Type == "" {
		org.Type = woocrawl.OrganizationUnknown
	}

	details, err := marshalJSON(org.Details, "{}")
	if err != nil {
		return false, err
	}

	now := s.db.now()
	id := uuid.New().String()

	var gotID, createdAt string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO organizations (id, name, slug, url, type, category, details, details_processed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			type = excluded.type,
			category = CASE WHEN excluded.category != '' THEN excluded.category ELSE organizations.category END,
			updated_at = excluded.updated_at
		RETURNING id, created_at
	`, id, org.Name, org.Slug, org.URL, string(org.Type), org.Category, details,
		formatTime(now), formatTime(now)).Scan(&gotID, &createdAt)
	if err != nil {
		return false, mapError(err, "organization")
	}

	org.ID = gotID
	org.UpdatedAt = now
	if org.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return false, err
	}
	return gotID == id, nil
}

// FindOrganizationByID retrieves an organization with its addresses and
// relations.
func (s *OrganizationService) FindOrganizationByID(ctx context.Context, id string) (*woocrawl.Organization, error) {
	return s.findOrganization(ctx, "id = ?", id)
}

// FindOrganizationBySlug retrieves an organization with its addresses and
// relations.
func (s *OrganizationService) FindOrganizationBySlug(ctx context.Context, slug string) (*woocrawl.Organization, error) {
	return s.findOrganization(ctx, "slug = ?", slug)
}

func (s *OrganizationService) findOrganization(ctx context.Context, where string, arg any) (*woocrawl.Organization, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+organizationColumns+" FROM organizations WHERE "+where, arg)
	org, err := scanOrganization(row)
	if err != nil {
		return nil, mapError(err, "organization")
	}

	if org.Addresses, err = s.findAddresses(ctx, org.ID); err != nil {
		return nil, err
	}
	if org.Relations, err = s.findRelations(ctx, org.ID); err != nil {
		return nil, err
	}
	return org, nil
}

// FindOrganizations retrieves organizations matching the filter, ordered
// by name.
func (s *OrganizationService) FindOrganizations(ctx context.Context, filter woocrawl.OrganizationFilter) ([]*woocrawl.Organization, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + organizationColumns + " FROM organizations WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Slug != nil {
		query.WriteString(" AND slug = ?")
		args = append(args, *filter.Slug)
	}
	if filter.DetailsProcessed != nil {
		query.WriteString(" AND details_processed = ?")
		args = append(args, boolInt(*filter.DetailsProcessed))
	}

	query.WriteString(" ORDER BY name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*woocrawl.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}

	return orgs, rows.Err()
}

// ReplaceChildren stores the details of an organization and replaces its
// addresses and relations in one transaction.
func (s *OrganizationService) ReplaceChildren(ctx context.Context, id string, details *woocrawl.OrganizationDetails) error {
	sections, err := marshalJSON(details.Sections, "{}")
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE organizations SET details = ?, details_processed = 1, updated_at = ? WHERE id = ?
	`, sections, formatTime(s.db.now()), id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return woocrawl.Errorf(woocrawl.ENOTFOUND, "organization not found")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM addresses WHERE organization_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM relations WHERE organization_id = ?", id); err != nil {
		return err
	}

	for _, a := range details.Addresses {
		// At most one address per type; the first one wins.
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO addresses (organization_id, type, straat, huisnummer, postbus, postcode, plaats, full_address)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (organization_id, type) DO NOTHING
		`, id, string(a.Type), a.Street, a.HouseNumber, a.Postbus, a.Postcode, a.Plaats, a.FullAddress); err != nil {
			return mapError(err, "address")
		}
	}

	for i, r := range details.Relations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO relations (organization_id, position, type, relatie_type, name, url, related_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, i, string(r.Type), r.RelatieType, r.Name, r.URL, r.OrganizationID); err != nil {
			return mapError(err, "relation")
		}
	}

	return tx.Commit()
}

func (s *OrganizationService) findAddresses(ctx context.Context, orgID string) ([]woocrawl.Address, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, straat, huisnummer, postbus, postcode, plaats, full_address
		FROM addresses WHERE organization_id = ? ORDER BY type ASC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []woocrawl.Address
	for rows.Next() {
		var a woocrawl.Address
		var typ string
		if err := rows.Scan(&typ, &a.Street, &a.HouseNumber, &a.Postbus, &a.Postcode, &a.Plaats, &a.FullAddress); err != nil {
			return nil, err
		}
		a.Type = woocrawl.AddressType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *OrganizationService) findRelations(ctx context.Context, orgID string) ([]woocrawl.Relation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, relatie_type, name, url, related_id
		FROM relations WHERE organization_id = ? ORDER BY position ASC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []woocrawl.Relation
	for rows.Next() {
		var r woocrawl.Relation
		var typ string
		if err := rows.Scan(&typ, &r.RelatieType, &r.Name, &r.URL, &r.OrganizationID); err != nil {
			return nil, err
		}
		r.Type = woocrawl.RelationType(typ)
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanOrganization(row rowScanner) (*woocrawl.Organization, error) {
	var (
		org                  woocrawl.Organization
		typ, details         string
		processed            int
		createdAt, updatedAt string
	)
	if err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.URL, &typ, &org.Category, &details,
		&processed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	org.Type = woocrawl.OrganizationType(typ)
	org.DetailsProcessed = processed != 0

	if err := unmarshalJSON(details, "details", &org.Details); err != nil {
		return nil, err
	}

	var err error
	if org.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if org.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &org, nil
}
