package mock

import (
	"context"
	"time"

	"github.com/fwojciec/woocrawl"
)

var (
	_ woocrawl.ContentExtractor  = (*ContentExtractor)(nil)
	_ woocrawl.MetadataExtractor = (*MetadataExtractor)(nil)
	_ woocrawl.DetailExtractor   = (*DetailExtractor)(nil)
	_ woocrawl.Classifier        = (*Classifier)(nil)
	_ woocrawl.LanguageDetector  = (*LanguageDetector)(nil)
	_ woocrawl.DateParser        = (*DateParser)(nil)
	_ woocrawl.Summarizer        = (*Summarizer)(nil)
	_ woocrawl.TokenCounter      = (*TokenCounter)(nil)
	_ woocrawl.FileStore         = (*FileStore)(nil)
	_ woocrawl.PageDetector      = (*PageDetector)(nil)
)

// ContentExtractor is a mock implementation of woocrawl.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*woocrawl.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*woocrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}

// MetadataExtractor is a mock implementation of woocrawl.MetadataExtractor.
type MetadataExtractor struct {
	ExtractDocumentMetadataFn func(html, url string) (*woocrawl.DocumentMetadata, error)
}

func (e *MetadataExtractor) ExtractDocumentMetadata(html, url string) (*woocrawl.DocumentMetadata, error) {
	return e.ExtractDocumentMetadataFn(html, url)
}

// DetailExtractor is a mock implementation of woocrawl.DetailExtractor.
type DetailExtractor struct {
	ExtractDetailMetadataFn func(body []byte) (*woocrawl.DocumentMetadata, error)
}

func (e *DetailExtractor) ExtractDetailMetadata(body []byte) (*woocrawl.DocumentMetadata, error) {
	return e.ExtractDetailMetadataFn(body)
}

// Classifier is a mock implementation of woocrawl.Classifier.
type Classifier struct {
	ClassifyFn func(url, content string) string
}

func (c *Classifier) Classify(url, content string) string {
	return c.ClassifyFn(url, content)
}

// LanguageDetector is a mock implementation of woocrawl.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(text string) (string, bool)
}

func (d *LanguageDetector) DetectLanguage(text string) (string, bool) {
	return d.DetectLanguageFn(text)
}

// DateParser is a mock implementation of woocrawl.DateParser.
type DateParser struct {
	ParseDateFn func(s string) (time.Time, error)
}

func (p *DateParser) ParseDate(s string) (time.Time, error) {
	return p.ParseDateFn(s)
}

// Summarizer is a mock implementation of woocrawl.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, title, content string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	return s.SummarizeFn(ctx, title, content)
}

// TokenCounter is a mock implementation of woocrawl.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}

// FileStore is a mock implementation of woocrawl.FileStore.
type FileStore struct {
	SaveFileFn func(ctx context.Context, name string, data []byte) (string, string, error)
	HasFileFn  func(name, hash string) bool
}

func (s *FileStore) SaveFile(ctx context.Context, name string, data []byte) (string, string, error) {
	return s.SaveFileFn(ctx, name, data)
}

func (s *FileStore) HasFile(name, hash string) bool {
	return s.HasFileFn(name, hash)
}

// PageDetector is a mock implementation of woocrawl.PageDetector.
type PageDetector struct {
	DetectFn func(html string) woocrawl.PageKind
}

func (d *PageDetector) Detect(html string) woocrawl.PageKind {
	return d.DetectFn(html)
}

var (
	_ woocrawl.OrganizationExtractor = (*OrganizationExtractor)(nil)
	_ woocrawl.APINormalizer         = (*APINormalizer)(nil)
)

// OrganizationExtractor is a mock implementation of woocrawl.OrganizationExtractor.
type OrganizationExtractor struct {
	ExtractOrganizationIndexFn   func(html, pageURL string) (*woocrawl.OrganizationIndex, error)
	ExtractOrganizationDetailsFn func(html string) (*woocrawl.OrganizationDetails, error)
}

func (e *OrganizationExtractor) ExtractOrganizationIndex(html, pageURL string) (*woocrawl.OrganizationIndex, error) {
	return e.ExtractOrganizationIndexFn(html, pageURL)
}

func (e *OrganizationExtractor) ExtractOrganizationDetails(html string) (*woocrawl.OrganizationDetails, error) {
	return e.ExtractOrganizationDetailsFn(html)
}

// APINormalizer is a mock implementation of woocrawl.APINormalizer.
type APINormalizer struct {
	NormalizeAPIResponseFn func(body []byte) ([]woocrawl.DocumentDescriptor, woocrawl.NormalizeStats, error)
}

func (n *APINormalizer) NormalizeAPIResponse(body []byte) ([]woocrawl.DocumentDescriptor, woocrawl.NormalizeStats, error) {
	return n.NormalizeAPIResponseFn(body)
}
