package woocrawl

import (
	"context"
	"strings"
	"time"
)

// OrganizationType is the kind of government organization.
type OrganizationType string

// Organization types.
const (
	OrganizationUnknown       OrganizationType = "overig"
	OrganizationMinisterie    OrganizationType = "ministerie"
	OrganizationGemeente      OrganizationType = "gemeente"
	OrganizationProvincie     OrganizationType = "provincie"
	OrganizationWaterschap    OrganizationType = "waterschap"
	OrganizationZBO           OrganizationType = "zbo"
	OrganizationAgentschap    OrganizationType = "agentschap"
	OrganizationHoogCollege   OrganizationType = "hoog_college_van_staat"
	OrganizationAdviescollege OrganizationType = "adviescollege"
)

// organizationTypeHints maps label fragments found in category names or
// organization names to a type. Checked in order.
var organizationTypeHints = []struct {
	fragment string
	typ      OrganizationType
}{
	{"ministerie", OrganizationMinisterie},
	{"gemeente", OrganizationGemeente},
	{"provincie", OrganizationProvincie},
	{"waterschap", OrganizationWaterschap},
	{"hoogheemraadschap", OrganizationWaterschap},
	{"zelfstandig", OrganizationZBO},
	{"zbo", OrganizationZBO},
	{"agentschap", OrganizationAgentschap},
	{"hoog college", OrganizationHoogCollege},
	{"hoge college", OrganizationHoogCollege},
	{"adviescollege", OrganizationAdviescollege},
	{"adviesraad", OrganizationAdviescollege},
}

// ParseOrganizationType derives the organization type from a category label,
// falling back to the organization name. Unrecognised labels yield
// OrganizationUnknown.
func ParseOrganizationType(category, name string) OrganizationType {
	for _, label := range []string{category, name} {
		l := strings.ToLower(label)
		if l == "" {
			continue
		}
		for _, h := range organizationTypeHints {
			if strings.Contains(l, h.fragment) {
				return h.typ
			}
		}
	}
	return OrganizationUnknown
}

// Organization is a government organization listed on the organization
// portal. Slug, derived from the name, is its identity. Addresses and
// Relations are owned collections replaced as a whole whenever the details
// page is reprocessed.
type Organization struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	URL              string           `json:"url"`
	Type             OrganizationType `json:"type"`
	Category         string           `json:"category,omitempty"`
	Details          Sections         `json:"details"`
	DetailsProcessed bool             `json:"detailsProcessed"`
	Addresses        []Address        `json:"addresses"`
	Relations        []Relation       `json:"relations"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Validate returns an error if the organization contains invalid fields.
func (o *Organization) Validate() error {
	if o.Name == "" {
		return Errorf(EINVALID, "organization name required")
	}
	if o.Slug == "" {
		return Errorf(EINVALID, "organization slug required")
	}
	return nil
}

// NewOrganization builds an index entry from a listing link. The slug is
// derived from the name.
func NewOrganization(name, url, category string) *Organization {
	name = SingleLine(name)
	return &Organization{
		Name:     name,
		Slug:     Slugify(name),
		URL:      url,
		Category: category,
		Type:     ParseOrganizationType(category, name),
	}
}

// OrganizationDetails is the structured content of an organization detail
// page.
type OrganizationDetails struct {
	Name      string
	Sections  Sections
	Addresses []Address
	Relations []Relation
}

// OrganizationService represents a service for managing organizations.
type OrganizationService interface {
	// UpsertOrganization creates the organization or updates name, url,
	// type and category of the one with the same slug. The details state
	// of an existing organization is kept. Reports whether it was created.
	UpsertOrganization(ctx context.Context, org *Organization) (created bool, err error)

	// FindOrganizationByID retrieves an organization with its addresses
	// and relations. Returns ENOTFOUND if it does not exist.
	FindOrganizationByID(ctx context.Context, id string) (*Organization, error)

	// FindOrganizationBySlug retrieves an organization by its identity.
	// Returns ENOTFOUND if it does not exist.
	FindOrganizationBySlug(ctx context.Context, slug string) (*Organization, error)

	// FindOrganizations retrieves organizations matching the filter.
	// Owned collections are not loaded.
	FindOrganizations(ctx context.Context, filter OrganizationFilter) ([]*Organization, error)

	// ReplaceChildren stores the details of an organization. Details and
	// the details_processed flag are updated and the addresses and
	// relations are truncated and reinserted, all in one transaction.
	// Returns ENOTFOUND if the organization does not exist.
	ReplaceChildren(ctx context.Context, id string, details *OrganizationDetails) error
}

// OrganizationFilter represents a filter for FindOrganizations.
type OrganizationFilter struct {
	ID               *string
	Slug             *string
	DetailsProcessed *bool

	Offset int
	Limit  int
}
