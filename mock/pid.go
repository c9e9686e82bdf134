package mock

import (
	"context"

	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.PidService = (*PidService)(nil)

// PidService is a mock implementation of woocrawl.PidService.
type PidService struct {
	UpsertPidOrganizationFn func(ctx context.Context, org *woocrawl.PidOrganization) (bool, error)
	UpsertPidDossierFn      func(ctx context.Context, dossier *woocrawl.PidDossier) (bool, error)
	UpsertPidDocumentFn     func(ctx context.Context, doc *woocrawl.PidDocument) (bool, error)
	FindPidDossiersFn       func(ctx context.Context, organizationID string) ([]*woocrawl.PidDossier, error)
	FindPidDocumentsFn      func(ctx context.Context, dossierID string) ([]*woocrawl.PidDocument, error)
}

func (s *PidService) UpsertPidOrganization(ctx context.Context, org *woocrawl.PidOrganization) (bool, error) {
	return s.UpsertPidOrganizationFn(ctx, org)
}

func (s *PidService) UpsertPidDossier(ctx context.Context, dossier *woocrawl.PidDossier) (bool, error) {
	return s.UpsertPidDossierFn(ctx, dossier)
}

func (s *PidService) UpsertPidDocument(ctx context.Context, doc *woocrawl.PidDocument) (bool, error) {
	return s.UpsertPidDocumentFn(ctx, doc)
}

func (s *PidService) FindPidDossiers(ctx context.Context, organizationID string) ([]*woocrawl.PidDossier, error) {
	return s.FindPidDossiersFn(ctx, organizationID)
}

func (s *PidService) FindPidDocuments(ctx context.Context, dossierID string) ([]*woocrawl.PidDocument, error) {
	return s.FindPidDocumentsFn(ctx, dossierID)
}
