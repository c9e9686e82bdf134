package woocrawl

import (
	"context"
	"time"
)

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// Description is the page description, if any.
	Description string

	// PublishedAt is the publication date found in page metadata.
	PublishedAt *time.Time

	// Tags are the page categories and tags.
	Tags []string
}

// ContentExtractor extracts main content from HTML pages, removing boilerplate.
type ContentExtractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// MetadataExtractor turns a document page into document metadata.
type MetadataExtractor interface {
	ExtractDocumentMetadata(html, url string) (*DocumentMetadata, error)
}

// DetailExtractor turns a document detail JSON response into document
// metadata.
type DetailExtractor interface {
	ExtractDetailMetadata(body []byte) (*DocumentMetadata, error)
}

// Classifier infers the type of a document from its URL and content.
// UNKNOWN is a valid result.
type Classifier interface {
	Classify(url, content string) string
}

// LanguageDetector detects the language of a text. It returns an ISO 639-1
// code and false when the language could not be determined reliably.
type LanguageDetector interface {
	DetectLanguage(text string) (string, bool)
}

// DateParser parses publication dates as they appear on government pages.
type DateParser interface {
	ParseDate(s string) (time.Time, error)
}

// Summarizer writes a short summary of a document when the page provides
// none.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// TokenCounter counts tokens in text for summarizer input limits.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// FileStore keeps downloaded document files.
type FileStore interface {
	// SaveFile stores the file under name and returns its local path and
	// content hash.
	SaveFile(ctx context.Context, name string, data []byte) (path, hash string, err error)

	// HasFile reports whether a file with the given hash is stored under name.
	HasFile(name, hash string) bool
}
