package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ woocrawl.DocumentService = (*DocumentService)(nil)

const documentColumns = `id, source_url, title, document_type, publication_date, summary, language,
	keywords, case_references, entities, metadata, content, content_hash, file,
	is_processed, error_message, last_checked_at, processed_at, created_at, updated_at`

// DocumentService implements woocrawl.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// DiscoverDocument records a document URL in the discovered state. An
// existing document is left untouched.
func (s *DocumentService) DiscoverDocument(ctx context.Context, sourceURL string) (bool, error) {
	if sourceURL == "" {
		return false, woocrawl.Errorf(woocrawl.EINVALID, "document source URL required")
	}

	now := formatTime(s.db.now())
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_url, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (source_url) DO NOTHING
	`, uuid.New().String(), sourceURL, now, now)
	if err != nil {
		return false, mapError(err, "document")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpsertDocument creates the document or merges it into the existing
// document with the same source URL. The processing state of an existing
// document is kept.
func (s *DocumentService) UpsertDocument(ctx context.Context, doc *woocrawl.Document) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	existing, err := findDocument(ctx, tx, "source_url = ?", doc.SourceURL)
	if err != nil && woocrawl.ErrorCode(err) != woocrawl.ENOTFOUND {
		return false, err
	}

	now := s.db.now()
	created := existing == nil
	if created {
		doc.ID = uuid.New().String()
		doc.CreatedAt = now
		doc.UpdatedAt = now
		if err := insertDocument(ctx, tx, doc); err != nil {
			return false, mapError(err, "document")
		}
	} else {
		existing.Merge(doc)
		if doc.Content != "" {
			existing.Content = doc.Content
		}
		if doc.File != (woocrawl.DocumentFile{}) {
			existing.File = doc.File
		}
		existing.UpdatedAt = now
		if err := writeDocument(ctx, tx, existing); err != nil {
			return false, mapError(err, "document")
		}
		*doc = *existing
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return created, nil
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*woocrawl.Document, error) {
	return findDocument(ctx, s.db.db, "id = ?", id)
}

// FindDocumentBySourceURL retrieves a document by its source URL.
func (s *DocumentService) FindDocumentBySourceURL(ctx context.Context, sourceURL string) (*woocrawl.Document, error) {
	return findDocument(ctx, s.db.db, "source_url = ?", sourceURL)
}

// FindDocuments retrieves documents matching the filter in discovery order.
func (s *DocumentService) FindDocuments(ctx context.Context, filter woocrawl.DocumentFilter) ([]*woocrawl.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.IsProcessed != nil {
		query.WriteString(" AND is_processed = ?")
		args = append(args, boolInt(*filter.IsProcessed))
	}

	query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*woocrawl.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateDocument applies the non-nil fields of upd to a document.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd woocrawl.DocumentUpdate) (*woocrawl.Document, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	doc, err := findDocument(ctx, tx, "id = ?", id)
	if err != nil {
		return nil, err
	}

	applyDocumentUpdate(doc, upd)
	doc.UpdatedAt = s.db.now()

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := writeDocument(ctx, tx, doc); err != nil {
		return nil, mapError(err, "document")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return doc, nil
}

// DocumentStats returns crawl progress counters. Recent counts documents
// processed at or after since.
func (s *DocumentService) DocumentStats(ctx context.Context, since time.Time) (*woocrawl.DocumentStats, error) {
	var st woocrawl.DocumentStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_processed), 0),
			COALESCE(SUM(CASE WHEN error_message != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN processed_at >= ? THEN 1 ELSE 0 END), 0)
		FROM documents
	`, formatTime(since)).Scan(&st.Total, &st.Processed, &st.Errored, &st.Recent)
	if err != nil {
		return nil, err
	}
	st.Unprocessed = st.Total - st.Processed
	return &st, nil
}

func applyDocumentUpdate(doc *woocrawl.Document, upd woocrawl.DocumentUpdate) {
	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.DocumentType != nil {
		doc.DocumentType = *upd.DocumentType
	}
	if upd.PublicationDate != nil {
		doc.PublicationDate = upd.PublicationDate
	}
	if upd.Summary != nil {
		doc.Summary = *upd.Summary
	}
	if upd.Language != nil {
		doc.Language = *upd.Language
	}
	if upd.Keywords != nil {
		doc.Keywords = *upd.Keywords
	}
	if upd.CaseReferences != nil {
		doc.CaseReferences = *upd.CaseReferences
	}
	if upd.Entities != nil {
		doc.Entities = *upd.Entities
	}
	if upd.Metadata != nil {
		doc.Metadata = *upd.Metadata
	}
	if upd.Content != nil {
		doc.Content = *upd.Content
	}
	if upd.ContentHash != nil {
		doc.ContentHash = *upd.ContentHash
	}
	if upd.File != nil {
		doc.File = *upd.File
	}
	if upd.IsProcessed != nil {
		doc.IsProcessed = *upd.IsProcessed
	}
	if upd.ErrorMessage != nil {
		doc.ErrorMessage = *upd.ErrorMessage
	}
	if upd.LastCheckedAt != nil {
		doc.LastCheckedAt = upd.LastCheckedAt
	}
	if upd.ProcessedAt != nil {
		doc.ProcessedAt = upd.ProcessedAt
	}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func findDocument(ctx context.Context, q queryer, where string, arg any) (*woocrawl.Document, error) {
	row := q.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE "+where, arg)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, mapError(err, "document")
	}
	return doc, nil
}

func scanDocument(row rowScanner) (*woocrawl.Document, error) {
	var (
		doc                                    woocrawl.Document
		publicationDate, lastChecked, processed sql.NullString
		keywords, refs, entities, metadata      string
		file, createdAt, updatedAt              string
		isProcessed                             int
	)

	if err := row.Scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.DocumentType, &publicationDate,
		&doc.Summary, &doc.Language, &keywords, &refs, &entities, &metadata, &doc.Content,
		&doc.ContentHash, &file, &isProcessed, &doc.ErrorMessage, &lastChecked, &processed,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	doc.IsProcessed = isProcessed != 0

	var err error
	if doc.PublicationDate, err = parseNullTime(publicationDate, "publication_date"); err != nil {
		return nil, err
	}
	if doc.LastCheckedAt, err = parseNullTime(lastChecked, "last_checked_at"); err != nil {
		return nil, err
	}
	if doc.ProcessedAt, err = parseNullTime(processed, "processed_at"); err != nil {
		return nil, err
	}
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	for _, col := range []struct {
		data, name string
		v          any
	}{
		{keywords, "keywords", &doc.Keywords},
		{refs, "case_references", &doc.CaseReferences},
		{entities, "entities", &doc.Entities},
		{metadata, "metadata", &doc.Metadata},
		{file, "file", &doc.File},
	} {
		if err := unmarshalJSON(col.data, col.name, col.v); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

// documentJSON holds the encoded JSON columns of a document.
type documentJSON struct {
	keywords, refs, entities, metadata, file string
}

func encodeDocument(doc *woocrawl.Document) (documentJSON, error) {
	var enc documentJSON
	var err error
	if enc.keywords, err = marshalJSON(doc.Keywords, "[]"); err != nil {
		return enc, err
	}
	if enc.refs, err = marshalJSON(doc.CaseReferences, "[]"); err != nil {
		return enc, err
	}
	if enc.entities, err = marshalJSON(doc.Entities, "[]"); err != nil {
		return enc, err
	}
	if enc.metadata, err = marshalJSON(doc.Metadata, "{}"); err != nil {
		return enc, err
	}
	if enc.file, err = marshalJSON(doc.File, "{}"); err != nil {
		return enc, err
	}
	return enc, nil
}

func insertDocument(ctx context.Context, q queryer, doc *woocrawl.Document) error {
	enc, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceURL, doc.Title, doc.DocumentType, formatNullTime(doc.PublicationDate),
		doc.Summary, doc.Language, enc.keywords, enc.refs, enc.entities, enc.metadata,
		doc.Content, doc.ContentHash, enc.file, boolInt(doc.IsProcessed), doc.ErrorMessage,
		formatNullTime(doc.LastCheckedAt), formatNullTime(doc.ProcessedAt),
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))
	return err
}

func writeDocument(ctx context.Context, q queryer, doc *woocrawl.Document) error {
	enc, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		UPDATE documents
		SET title = ?, document_type = ?, publication_date = ?, summary = ?, language = ?,
			keywords = ?, case_references = ?, entities = ?, metadata = ?, content = ?,
			content_hash = ?, file = ?, is_processed = ?, error_message = ?,
			last_checked_at = ?, processed_at = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, doc.DocumentType, formatNullTime(doc.PublicationDate), doc.Summary, doc.Language,
		enc.keywords, enc.refs, enc.entities, enc.metadata, doc.Content,
		doc.ContentHash, enc.file, boolInt(doc.IsProcessed), doc.ErrorMessage,
		formatNullTime(doc.LastCheckedAt), formatNullTime(doc.ProcessedAt), formatTime(doc.UpdatedAt),
		doc.ID)
	return err
}
