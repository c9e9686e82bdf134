package mock

import (
	"context"

	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.OrganizationService = (*OrganizationService)(nil)

// OrganizationService is a mock implementation of woocrawl.OrganizationService.
type OrganizationService struct {
	UpsertOrganizationFn     func(ctx context.Context, org *woocrawl.Organization) (bool, error)
	FindOrganizationByIDFn   func(ctx context.Context, id string) (*woocrawl.Organization, error)
	FindOrganizationBySlugFn func(ctx context.Context, slug string) (*woocrawl.Organization, error)
	FindOrganizationsFn      func(ctx context.Context, filter woocrawl.OrganizationFilter) ([]*woocrawl.Organization, error)
	ReplaceChildrenFn        func(ctx context.Context, id string, details *woocrawl.OrganizationDetails) error
}

func (s *OrganizationService) UpsertOrganization(ctx context.Context, org *woocrawl.Organization) (bool, error) {
	return s.UpsertOrganizationFn(ctx, org)
}

func (s *OrganizationService) FindOrganizationByID(ctx context.Context, id string) (*woocrawl.Organization, error) {
	return s.FindOrganizationByIDFn(ctx, id)
}

func (s *OrganizationService) FindOrganizationBySlug(ctx context.Context, slug string) (*woocrawl.Organization, error) {
	return s.FindOrganizationBySlugFn(ctx, slug)
}

func (s *OrganizationService) FindOrganizations(ctx context.Context, filter woocrawl.OrganizationFilter) ([]*woocrawl.Organization, error) {
	return s.FindOrganizationsFn(ctx, filter)
}

func (s *OrganizationService) ReplaceChildren(ctx context.Context, id string, details *woocrawl.OrganizationDetails) error {
	return s.ReplaceChildrenFn(ctx, id, details)
}
