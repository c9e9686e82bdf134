package woocrawl

// PageKind identifies which portal page shape a fetched page has.
type PageKind string

// Page kinds.
const (
	PageUnknown      PageKind = "unknown"
	PageOrganization PageKind = "organization"
	PageDocument     PageKind = "document"
	PageSearch       PageKind = "search"
)

// PageDetector identifies the kind of a portal page from its HTML.
type PageDetector interface {
	// Detect returns PageUnknown if the page cannot be recognised.
	Detect(html string) PageKind
}

// OrganizationLink is an organization entry found on an index page.
type OrganizationLink struct {
	Name     string
	URL      string
	Category string
}

// OrganizationIndex is what one organization index page yields.
type OrganizationIndex struct {
	Organizations []OrganizationLink

	// Links are further index pages to walk.
	Links []DiscoveredLink
}

// OrganizationExtractor parses the pages of the organization portal.
type OrganizationExtractor interface {
	ExtractOrganizationIndex(html, pageURL string) (*OrganizationIndex, error)
	ExtractOrganizationDetails(html string) (*OrganizationDetails, error)
}
