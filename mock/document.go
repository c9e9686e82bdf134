package mock

import (
	"context"
	"time"

	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of woocrawl.DocumentService.
type DocumentService struct {
	DiscoverDocumentFn        func(ctx context.Context, sourceURL string) (bool, error)
	UpsertDocumentFn          func(ctx context.Context, doc *woocrawl.Document) (bool, error)
	FindDocumentByIDFn        func(ctx context.Context, id string) (*woocrawl.Document, error)
	FindDocumentBySourceURLFn func(ctx context.Context, sourceURL string) (*woocrawl.Document, error)
	FindDocumentsFn           func(ctx context.Context, filter woocrawl.DocumentFilter) ([]*woocrawl.Document, error)
	UpdateDocumentFn          func(ctx context.Context, id string, upd woocrawl.DocumentUpdate) (*woocrawl.Document, error)
	DocumentStatsFn           func(ctx context.Context, since time.Time) (*woocrawl.DocumentStats, error)
}

func (s *DocumentService) DiscoverDocument(ctx context.Context, sourceURL string) (bool, error) {
	return s.DiscoverDocumentFn(ctx, sourceURL)
}

func (s *DocumentService) UpsertDocument(ctx context.Context, doc *woocrawl.Document) (bool, error) {
	return s.UpsertDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*woocrawl.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocumentBySourceURL(ctx context.Context, sourceURL string) (*woocrawl.Document, error) {
	return s.FindDocumentBySourceURLFn(ctx, sourceURL)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter woocrawl.DocumentFilter) ([]*woocrawl.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd woocrawl.DocumentUpdate) (*woocrawl.Document, error) {
	return s.UpdateDocumentFn(ctx, id, upd)
}

func (s *DocumentService) DocumentStats(ctx context.Context, since time.Time) (*woocrawl.DocumentStats, error) {
	return s.DocumentStatsFn(ctx, since)
}

var _ woocrawl.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of woocrawl.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *woocrawl.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *woocrawl.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}
