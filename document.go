package woocrawl

import (
	"context"
	"time"
)

// Document types produced by classification besides keyword categories.
const (
	DocumentTypePDF            = "PDF"
	DocumentTypeStructuredHTML = "STRUCTURED_HTML"
	DocumentTypeXML            = "XML"
	DocumentTypeHTML           = "HTML"
	DocumentTypeJSON           = "JSON"
	DocumentTypeUnknown        = "UNKNOWN"
)

// Entity is a named thing mentioned by a document.
type Entity struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Entity types.
const (
	EntityOrganization = "organization"
	EntityLaw          = "law"
)

// DocumentFile describes the file attached to a document.
type DocumentFile struct {
	Name        string `json:"name,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	LocalPath   string `json:"localPath,omitempty"`
	Hash        string `json:"hash,omitempty"`
}

// Document is the canonical record of a government document. SourceURL is
// its identity. A document is created in the discovered state
// (IsProcessed=false) and completed by the processing phase; ContentHash
// decides whether later runs re-extract it.
type Document struct {
	ID              string         `json:"id"`
	SourceURL       string         `json:"sourceUrl"`
	Title           string         `json:"title"`
	DocumentType    string         `json:"documentType"`
	PublicationDate *time.Time     `json:"publicationDate,omitempty"`
	Summary         string         `json:"summary,omitempty"`
	Language        string         `json:"language,omitempty"`
	Keywords        []string       `json:"keywords"`
	CaseReferences  []string       `json:"caseReferences"`
	Entities        []Entity       `json:"entities"`
	Metadata        map[string]any `json:"metadata"`
	Content         string         `json:"content,omitempty"`
	ContentHash     string         `json:"contentHash,omitempty"`
	File            DocumentFile   `json:"file"`
	IsProcessed     bool           `json:"isProcessed"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
	LastCheckedAt   *time.Time     `json:"lastCheckedAt,omitempty"`
	ProcessedAt     *time.Time     `json:"processedAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// Merge copies the non-empty extracted fields of src into d. Lists are
// unioned and metadata keys already present in d are overwritten, so the
// later record's metadata wins on conflicts.
func (d *Document) Merge(src *Document) {
	if src.Title != "" {
		d.Title = src.Title
	}
	if src.DocumentType != "" {
		d.DocumentType = src.DocumentType
	}
	if src.PublicationDate != nil {
		d.PublicationDate = src.PublicationDate
	}
	if src.Summary != "" {
		d.Summary = src.Summary
	}
	if src.Language != "" {
		d.Language = src.Language
	}
	d.Keywords = UniqueStrings(append(d.Keywords, src.Keywords...))
	d.CaseReferences = UniqueStrings(append(d.CaseReferences, src.CaseReferences...))
	d.Entities = UniqueEntities(append(d.Entities, src.Entities...))
	if len(src.Metadata) > 0 {
		if d.Metadata == nil {
			d.Metadata = make(map[string]any, len(src.Metadata))
		}
		for k, v := range src.Metadata {
			d.Metadata[k] = v
		}
	}
}

// DocumentMetadata is the result of extracting one fetched document.
type DocumentMetadata struct {
	Title           string
	Summary         string
	DocumentType    string
	PublicationDate *time.Time
	Keywords        []string
	Entities        []Entity
	CaseReferences  []string
	Language        string
	Metadata        map[string]any

	// ContentHTML is the main content of the page, boilerplate removed,
	// used to render the document's markdown content.
	ContentHTML string

	// File is set when the response describes an attached file.
	File DocumentFile
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// DiscoverDocument records a document URL in the discovered state.
	// An existing document is left untouched. Reports whether it was created.
	DiscoverDocument(ctx context.Context, sourceURL string) (created bool, err error)

	// UpsertDocument creates the document or merges its non-empty fields
	// into the existing document with the same source URL. Processing state
	// of an existing document is never reset. Reports whether it was created.
	UpsertDocument(ctx context.Context, doc *Document) (created bool, err error)

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocumentBySourceURL retrieves a document by its identity.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentBySourceURL(ctx context.Context, sourceURL string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// UpdateDocument applies the update in a single statement.
	// Returns ENOTFOUND if document does not exist.
	UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (*Document, error)

	// DocumentStats returns crawl progress counters.
	DocumentStats(ctx context.Context, since time.Time) (*DocumentStats, error)
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID          *string `json:"id"`
	SourceURL   *string `json:"sourceUrl"`
	IsProcessed *bool   `json:"isProcessed"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentUpdate represents fields that can be updated on a document.
// Nil fields are left unchanged.
type DocumentUpdate struct {
	Title           *string
	DocumentType    *string
	PublicationDate *time.Time
	Summary         *string
	Language        *string
	Keywords        *[]string
	CaseReferences  *[]string
	Entities        *[]Entity
	Metadata        *map[string]any
	Content         *string
	ContentHash     *string
	File            *DocumentFile
	IsProcessed     *bool
	ErrorMessage    *string
	LastCheckedAt   *time.Time
	ProcessedAt     *time.Time
}

// DocumentStats reports crawl progress.
type DocumentStats struct {
	Total       int
	Processed   int
	Unprocessed int
	Errored     int
	Recent      int
}

// Progress returns the processed share in percent.
func (s *DocumentStats) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.Total) * 100
}

// UniqueStrings removes empty and duplicate strings, keeping first
// occurrences in order. Comparison is case-insensitive.
func UniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		key := NormalizeKey(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// UniqueEntities removes duplicate entities, comparing names
// case-insensitively per type.
func UniqueEntities(in []Entity) []Entity {
	out := make([]Entity, 0, len(in))
	seen := make(map[Entity]bool, len(in))
	for _, e := range in {
		k := Entity{Type: e.Type, Name: NormalizeKey(e.Name)}
		if e.Name == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// DocumentWriter exports documents outside the database.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *Document) error
}
