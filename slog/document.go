package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/woocrawl"
)

// Ensure LoggingDocumentService implements woocrawl.DocumentService.
var _ woocrawl.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService and logs writes at info
// level and reads at debug level.
type LoggingDocumentService struct {
	next   woocrawl.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next woocrawl.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

func (s *LoggingDocumentService) DiscoverDocument(ctx context.Context, sourceURL string) (created bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("discover document",
			"url", sourceURL,
			"created", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverDocument(ctx, sourceURL)
}

func (s *LoggingDocumentService) UpsertDocument(ctx context.Context, doc *woocrawl.Document) (created bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("upsert document",
			"url", doc.SourceURL,
			"created", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertDocument(ctx, doc)
}

func (s *LoggingDocumentService) FindDocumentByID(ctx context.Context, id string) (doc *woocrawl.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find document",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocumentByID(ctx, id)
}

func (s *LoggingDocumentService) FindDocumentBySourceURL(ctx context.Context, sourceURL string) (doc *woocrawl.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find document",
			"url", sourceURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocumentBySourceURL(ctx, sourceURL)
}

func (s *LoggingDocumentService) FindDocuments(ctx context.Context, filter woocrawl.DocumentFilter) (docs []*woocrawl.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find documents",
			"count", len(docs),
			"limit", filter.Limit,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocuments(ctx, filter)
}

func (s *LoggingDocumentService) UpdateDocument(ctx context.Context, id string, upd woocrawl.DocumentUpdate) (doc *woocrawl.Document, err error) {
	defer func(begin time.Time) {
		attrs := []any{"id", id, "duration", time.Since(begin), "err", err}
		if upd.IsProcessed != nil {
			attrs = append(attrs, "processed", *upd.IsProcessed)
		}
		s.logger.Info("update document", attrs...)
	}(time.Now())
	return s.next.UpdateDocument(ctx, id, upd)
}

func (s *LoggingDocumentService) DocumentStats(ctx context.Context, since time.Time) (stats *woocrawl.DocumentStats, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("document stats",
			"since", since,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DocumentStats(ctx, since)
}
