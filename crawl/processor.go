package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/fwojciec/woocrawl"
)

// Metadata values recorded by the processor.
const (
	MethodFallback       = "fallback"
	ParsingFailedMessage = "parsing failed"
)

// DefaultProcessLimit bounds one processing run when no limit is given.
const DefaultProcessLimit = 100

// Processor completes discovered documents. For each document it fetches
// the page, compares the content hash with the stored one and, when the
// content changed, extracts metadata and stores the result in a single
// update. Unchanged processed documents are left untouched.
type Processor struct {
	Fetcher   woocrawl.Fetcher
	Documents woocrawl.DocumentService

	Detector   woocrawl.PageDetector
	Metadata   woocrawl.MetadataExtractor
	Detail     woocrawl.DetailExtractor
	Classifier woocrawl.Classifier
	Converter  woocrawl.Converter

	// Files stores attached files. Optional; without it files are not
	// downloaded.
	Files woocrawl.FileStore

	// Summarizer fills in missing summaries. Optional.
	Summarizer woocrawl.Summarizer

	Limiter     woocrawl.DomainLimiter
	Logger      *slog.Logger
	Progress    ProgressFunc
	RetryDelays []time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// ProcessPending processes up to limit unprocessed documents in creation
// order. Cancellation is checked between documents, never within one: a
// started document runs to completion and the cancellation is returned
// afterwards.
func (p *Processor) ProcessPending(ctx context.Context, limit int) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	logger := discardLogger(p.Logger)

	if limit <= 0 {
		limit = DefaultProcessLimit
	}
	unprocessed := false
	docs, err := p.Documents.FindDocuments(ctx, woocrawl.DocumentFilter{IsProcessed: &unprocessed, Limit: limit})
	if err != nil {
		return stats, fmt.Errorf("find unprocessed documents: %w", err)
	}

	p.Progress.emit(ProgressEvent{Type: ProgressStarted, Total: len(docs)})
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		p.process(context.WithoutCancel(ctx), doc, &stats, logger)
		p.Progress.emit(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: len(docs), URL: doc.SourceURL})
	}
	p.Progress.emit(ProgressEvent{Type: ProgressFinished, Completed: len(docs), Total: len(docs)})

	return stats, ctx.Err()
}

// ProcessURL processes the document with the given source URL, recording
// it first when it is not known yet.
func (p *Processor) ProcessURL(ctx context.Context, sourceURL string) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	if _, err := p.Documents.DiscoverDocument(ctx, sourceURL); err != nil {
		return stats, err
	}
	doc, err := p.Documents.FindDocumentBySourceURL(ctx, sourceURL)
	if err != nil {
		return stats, err
	}
	p.process(context.WithoutCancel(ctx), doc, &stats, discardLogger(p.Logger))
	return stats, ctx.Err()
}

func (p *Processor) process(ctx context.Context, doc *woocrawl.Document, stats *woocrawl.BatchStats, logger *slog.Logger) {
	stats.Processed++
	out, err := p.ProcessDocument(ctx, doc)
	switch {
	case err != nil:
		logger.Error("process document", "url", doc.SourceURL, "err", err)
		stats.Errors++
	case out.Skipped():
		logger.Debug("skip document", "url", doc.SourceURL, "reason", out.Skip, "detail", out.Detail)
		stats.Skipped++
	default:
		stats.Updated++
	}
}

// ProcessDocument processes one document. Failures to fetch or parse are
// recorded on the document and returned; the document stays unprocessed.
func (p *Processor) ProcessDocument(ctx context.Context, doc *woocrawl.Document) (woocrawl.Outcome[*woocrawl.Document], error) {
	logger := discardLogger(p.Logger)
	now := p.now()

	if err := waitFor(ctx, p.Limiter, doc.SourceURL); err != nil {
		return woocrawl.Outcome[*woocrawl.Document]{}, err
	}
	resp, err := p.fetch(ctx, doc.SourceURL, logger)
	if err != nil {
		if ctx.Err() != nil {
			return woocrawl.Outcome[*woocrawl.Document]{}, ctx.Err()
		}
		msg := err.Error()
		if _, uerr := p.Documents.UpdateDocument(ctx, doc.ID, woocrawl.DocumentUpdate{
			ErrorMessage:  &msg,
			LastCheckedAt: &now,
		}); uerr != nil {
			return woocrawl.Outcome[*woocrawl.Document]{}, errors.Join(err, uerr)
		}
		return woocrawl.Outcome[*woocrawl.Document]{}, fmt.Errorf("fetch %s: %w", doc.SourceURL, err)
	}

	page := p.route(resp)
	hash := ComputeHash(page.hashed)
	if doc.IsProcessed && doc.ContentHash == hash {
		return woocrawl.Skip[*woocrawl.Document](woocrawl.SkipUnchanged, hash), nil
	}

	if page.kind == woocrawl.PageOrganization || page.kind == woocrawl.PageSearch {
		metadata := copyMetadata(doc.Metadata)
		metadata["page_kind"] = string(page.kind)
		processed := true
		if _, err := p.Documents.UpdateDocument(ctx, doc.ID, woocrawl.DocumentUpdate{
			Metadata:      &metadata,
			ContentHash:   &hash,
			IsProcessed:   &processed,
			ErrorMessage:  ptr(""),
			LastCheckedAt: &now,
			ProcessedAt:   &now,
		}); err != nil {
			return woocrawl.Outcome[*woocrawl.Document]{}, err
		}
		return woocrawl.Skip[*woocrawl.Document](woocrawl.SkipNotADocument, string(page.kind)), nil
	}

	meta, err := p.extract(page, doc.SourceURL)
	if err != nil {
		logger.Warn("extraction failed", "url", doc.SourceURL, "err", err)
		return woocrawl.Outcome[*woocrawl.Document]{}, p.recordParseFailure(ctx, doc, err, now)
	}

	if meta.DocumentType == "" && p.Classifier != nil {
		meta.DocumentType = p.Classifier.Classify(doc.SourceURL, string(resp.Body))
	}

	updated := freshDocument(doc, meta)

	content := doc.Content
	if meta.ContentHTML != "" && p.Converter != nil {
		md, err := p.Converter.Convert(meta.ContentHTML)
		if err != nil {
			logger.Warn("convert content", "url", doc.SourceURL, "err", err)
		} else {
			content = md
		}
	}

	file := p.downloadFile(ctx, doc, meta.File, logger)

	if updated.Summary == "" && content != "" && p.Summarizer != nil {
		summary, err := p.Summarizer.Summarize(ctx, updated.Title, content)
		if err != nil {
			logger.Warn("summarize", "url", doc.SourceURL, "err", err)
		} else {
			updated.Summary = summary
		}
	}

	processed := true
	result, err := p.Documents.UpdateDocument(ctx, doc.ID, woocrawl.DocumentUpdate{
		Title:           &updated.Title,
		DocumentType:    &updated.DocumentType,
		PublicationDate: updated.PublicationDate,
		Summary:         &updated.Summary,
		Language:        &updated.Language,
		Keywords:        &updated.Keywords,
		CaseReferences:  &updated.CaseReferences,
		Entities:        &updated.Entities,
		Metadata:        &updated.Metadata,
		Content:         &content,
		ContentHash:     &hash,
		File:            &file,
		IsProcessed:     &processed,
		ErrorMessage:    ptr(""),
		LastCheckedAt:   &now,
		ProcessedAt:     &now,
	})
	if err != nil {
		return woocrawl.Outcome[*woocrawl.Document]{}, err
	}
	return woocrawl.Keep(result), nil
}

// discoveryKeys are the metadata keys recorded when a document is
// discovered. They survive re-extraction; every other field is replaced.
var discoveryKeys = []string{"source", "pid"}

// freshDocument builds the record of a re-extracted document from meta
// alone. The discovery metadata is kept and, for a document never processed
// before, the title, type and date found at discovery fill what the page
// lacks.
func freshDocument(doc *woocrawl.Document, meta *woocrawl.DocumentMetadata) woocrawl.Document {
	updated := woocrawl.Document{
		Title:           meta.Title,
		DocumentType:    meta.DocumentType,
		PublicationDate: meta.PublicationDate,
		Summary:         meta.Summary,
		Language:        meta.Language,
		Keywords:        woocrawl.UniqueStrings(meta.Keywords),
		CaseReferences:  woocrawl.UniqueStrings(meta.CaseReferences),
		Entities:        woocrawl.UniqueEntities(meta.Entities),
		Metadata:        make(map[string]any, len(meta.Metadata)+len(discoveryKeys)),
	}
	for _, k := range discoveryKeys {
		if v, ok := doc.Metadata[k]; ok {
			updated.Metadata[k] = v
		}
	}
	for k, v := range meta.Metadata {
		updated.Metadata[k] = v
	}

	if !doc.IsProcessed {
		if updated.Title == "" {
			updated.Title = doc.Title
		}
		if updated.DocumentType == "" {
			updated.DocumentType = doc.DocumentType
		}
		if updated.PublicationDate == nil {
			updated.PublicationDate = doc.PublicationDate
		}
	}
	return updated
}

// fetchedPage is a response routed to the extractor that understands it.
type fetchedPage struct {
	kind   woocrawl.PageKind
	html   string
	detail []byte

	// hashed is the part of the response whose hash decides whether the
	// document changed.
	hashed []byte
}

// route picks the detail JSON when the response is or carries one and
// falls back to the HTML page otherwise.
func (p *Processor) route(resp *woocrawl.Response) fetchedPage {
	if resp.IsJSON() {
		return fetchedPage{kind: woocrawl.PageDocument, detail: resp.Body, hashed: resp.Body}
	}
	if p.Detail != nil {
		for _, c := range resp.Captured {
			if _, err := p.Detail.ExtractDetailMetadata(c.Body); err == nil {
				return fetchedPage{kind: woocrawl.PageDocument, detail: c.Body, html: string(resp.Body), hashed: c.Body}
			}
		}
	}
	kind := woocrawl.PageDocument
	if p.Detector != nil {
		kind = p.Detector.Detect(string(resp.Body))
	}
	return fetchedPage{kind: kind, html: string(resp.Body), hashed: resp.Body}
}

// extract runs the extractor for the page. A panic inside an extractor is
// turned into an error so one malformed page cannot stop the batch.
func (p *Processor) extract(page fetchedPage, pageURL string) (meta *woocrawl.DocumentMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			meta, err = nil, woocrawl.Errorf(woocrawl.EINTERNAL, "extractor panic: %v", r)
		}
	}()

	if page.detail != nil {
		if p.Detail == nil {
			return nil, woocrawl.Errorf(woocrawl.EINTERNAL, "no detail extractor configured")
		}
		meta, err = p.Detail.ExtractDetailMetadata(page.detail)
		if err != nil {
			return nil, err
		}
		if page.html != "" && p.Metadata != nil {
			if html, herr := p.Metadata.ExtractDocumentMetadata(page.html, pageURL); herr == nil {
				meta.ContentHTML = html.ContentHTML
			}
		}
		return meta, nil
	}
	if p.Metadata == nil {
		return nil, woocrawl.Errorf(woocrawl.EINTERNAL, "no metadata extractor configured")
	}
	return p.Metadata.ExtractDocumentMetadata(page.html, pageURL)
}

// recordParseFailure stores the fallback metadata of a page that could
// not be parsed. The document stays unprocessed and is retried next run.
func (p *Processor) recordParseFailure(ctx context.Context, doc *woocrawl.Document, cause error, now time.Time) error {
	metadata := copyMetadata(doc.Metadata)
	metadata["extraction_method"] = MethodFallback
	metadata["error"] = cause.Error()
	msg := ParsingFailedMessage
	if _, err := p.Documents.UpdateDocument(ctx, doc.ID, woocrawl.DocumentUpdate{
		Metadata:      &metadata,
		ErrorMessage:  &msg,
		LastCheckedAt: &now,
	}); err != nil {
		return errors.Join(cause, err)
	}
	return fmt.Errorf("parse %s: %w", doc.SourceURL, cause)
}

// downloadFile stores the attached file and returns the file attributes to
// record. A file from the same download URL that is still stored with its
// recorded hash is not downloaded again. Download failures keep the
// previous attributes.
func (p *Processor) downloadFile(ctx context.Context, doc *woocrawl.Document, file woocrawl.DocumentFile, logger *slog.Logger) woocrawl.DocumentFile {
	merged := mergeFile(doc.File, file)
	if p.Files == nil || merged.DownloadURL == "" {
		return merged
	}

	name := fileName(merged)
	if doc.File.LocalPath != "" && doc.File.DownloadURL == merged.DownloadURL && p.Files.HasFile(name, doc.File.Hash) {
		merged.LocalPath = doc.File.LocalPath
		merged.Hash = doc.File.Hash
		return merged
	}

	if err := waitFor(ctx, p.Limiter, merged.DownloadURL); err != nil {
		return merged
	}
	resp, err := p.fetch(ctx, merged.DownloadURL, logger)
	if err != nil {
		logger.Warn("download file", "url", merged.DownloadURL, "err", err)
		return merged
	}
	localPath, hash, err := p.Files.SaveFile(ctx, name, resp.Body)
	if err != nil {
		logger.Warn("save file", "url", merged.DownloadURL, "err", err)
		return merged
	}
	merged.LocalPath = localPath
	merged.Hash = hash
	if merged.Size == 0 {
		merged.Size = int64(len(resp.Body))
	}
	if merged.MimeType == "" {
		merged.MimeType = resp.ContentType()
	}
	return merged
}

func (p *Processor) fetch(ctx context.Context, rawURL string, logger *slog.Logger) (*woocrawl.Response, error) {
	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, p.Fetcher.Fetch, logger, delays)
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC().Truncate(time.Second)
	}
	return time.Now().UTC().Truncate(time.Second)
}

// mergeFile overlays the non-empty attributes of src on dst.
func mergeFile(dst, src woocrawl.DocumentFile) woocrawl.DocumentFile {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.MimeType != "" {
		dst.MimeType = src.MimeType
	}
	if src.Size != 0 {
		dst.Size = src.Size
	}
	if src.Pages != 0 {
		dst.Pages = src.Pages
	}
	if src.DownloadURL != "" {
		dst.DownloadURL = src.DownloadURL
	}
	if src.Hash != "" {
		dst.Hash = src.Hash
	}
	return dst
}

// fileName returns the name a file is stored under.
func fileName(f woocrawl.DocumentFile) string {
	if f.Name != "" {
		return path.Base(f.Name)
	}
	if u, err := url.Parse(f.DownloadURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return ComputeHash([]byte(f.DownloadURL))
}

func copyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
