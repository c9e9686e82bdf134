package woocrawl

import (
	"context"
	"time"
)

// PidOrganization is the root of a PID dossier tree.
type PidOrganization struct {
	ID         string    `json:"id"`
	Identifier string    `json:"dc_identifier"`
	Name       string    `json:"naam"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PidDossier is a dossier owned by a PID organization. Its identity is
// (OrganizationID, Identifier): identifiers are unique per organization only.
type PidDossier struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	Identifier     string     `json:"dc_identifier"`
	Title          string     `json:"dc_title"`
	Type           string     `json:"dc_type,omitempty"`
	Date           *time.Time `json:"dc_date,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// PidDocument is a document owned by a PID dossier. Its identity is
// (DossierID, Identifier).
type PidDocument struct {
	ID         string     `json:"id"`
	DossierID  string     `json:"dossierId"`
	Identifier string     `json:"dc_identifier"`
	Title      string     `json:"dc_title"`
	Type       string     `json:"dc_type,omitempty"`
	Date       *time.Time `json:"dc_date,omitempty"`
	URL        string     `json:"url,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// PidTree is a parsed PID export: organizations owning dossiers owning
// documents.
type PidTree struct {
	Organizations []PidOrganizationNode
}

// PidOrganizationNode is an organization with its dossiers.
type PidOrganizationNode struct {
	Organization PidOrganization
	Dossiers     []PidDossierNode
}

// PidDossierNode is a dossier with its documents.
type PidDossierNode struct {
	Dossier   PidDossier
	Documents []PidDocument
}

// PidService represents a service for managing the PID tree. Each upsert
// fills in the record's ID and reports whether a record was created.
type PidService interface {
	UpsertPidOrganization(ctx context.Context, org *PidOrganization) (created bool, err error)
	UpsertPidDossier(ctx context.Context, dossier *PidDossier) (created bool, err error)
	UpsertPidDocument(ctx context.Context, doc *PidDocument) (created bool, err error)

	// FindPidDossiers returns the dossiers of an organization.
	FindPidDossiers(ctx context.Context, organizationID string) ([]*PidDossier, error)

	// FindPidDocuments returns the documents of a dossier.
	FindPidDocuments(ctx context.Context, dossierID string) ([]*PidDocument, error)
}
