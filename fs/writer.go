// Package fs provides file-based storage for downloaded document files and
// Markdown exports of processed documents.
package fs

import (
	"bytes"
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fwojciec/woocrawl"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a document URL to a relative file path.
// Example: https://open.overheid.nl/details/nl.gm0363.2.123 → details/nl.gm0363.2.123.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return path + ".md", nil
}

// frontmatter is the YAML header of an exported document.
type frontmatter struct {
	Source         string            `yaml:"source"`
	Title          string            `yaml:"title,omitempty"`
	Type           string            `yaml:"type,omitempty"`
	Published      string            `yaml:"published,omitempty"`
	Language       string            `yaml:"language,omitempty"`
	Keywords       []string          `yaml:"keywords,omitempty"`
	CaseReferences []string          `yaml:"case_references,omitempty"`
	Entities       []woocrawl.Entity `yaml:"entities,omitempty"`
	File           string            `yaml:"file,omitempty"`
	Summary        string            `yaml:"summary,omitempty"`
	Processed      string            `yaml:"processed,omitempty"`
}

// FormatDocument formats a document as Markdown with YAML frontmatter.
func FormatDocument(doc *woocrawl.Document) (string, error) {
	fm := frontmatter{
		Source:         doc.SourceURL,
		Title:          doc.Title,
		Type:           doc.DocumentType,
		Language:       doc.Language,
		Keywords:       doc.Keywords,
		CaseReferences: doc.CaseReferences,
		Entities:       doc.Entities,
		File:           doc.File.Name,
		Summary:        doc.Summary,
	}
	if doc.PublicationDate != nil {
		fm.Published = doc.PublicationDate.Format("2006-01-02")
	}
	if doc.ProcessedAt != nil {
		fm.Processed = doc.ProcessedAt.Format("2006-01-02")
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(doc.Content)
	return b.String(), nil
}

// Ensure Writer implements woocrawl.DocumentWriter at compile time.
var _ woocrawl.DocumentWriter = (*Writer)(nil)

// Writer writes documents as markdown files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteDocument writes a document to disk as a markdown file.
func (w *Writer) WriteDocument(ctx context.Context, doc *woocrawl.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(doc.SourceURL)
	if err != nil {
		return err
	}

	content, err := FormatDocument(doc)
	if err != nil {
		return err
	}

	return writeAtomic(filepath.Join(w.baseDir, relPath), []byte(content))
}
