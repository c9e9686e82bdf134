package woocrawl

import (
	"fmt"
	"strings"
)

// FormatDocument renders a document for display.
// Uses title if available, falls back to source URL. Empty fields are
// omitted.
func FormatDocument(doc *Document) string {
	var b strings.Builder

	header := doc.Title
	if header == "" {
		header = doc.SourceURL
	}
	b.WriteString("# " + header + "\n\n")

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	field("URL", doc.SourceURL)
	field("Type", doc.DocumentType)
	if doc.PublicationDate != nil {
		field("Published", doc.PublicationDate.Format("2006-01-02"))
	}
	field("Language", doc.Language)
	field("Keywords", strings.Join(doc.Keywords, ", "))
	field("References", strings.Join(doc.CaseReferences, ", "))
	if len(doc.Entities) > 0 {
		names := make([]string, 0, len(doc.Entities))
		for _, e := range doc.Entities {
			names = append(names, e.Name+" ("+e.Type+")")
		}
		field("Entities", strings.Join(names, ", "))
	}
	field("File", doc.File.Name)
	field("Error", doc.ErrorMessage)
	if doc.IsProcessed {
		field("Status", "processed")
	} else {
		field("Status", "pending")
	}

	if doc.Summary != "" {
		b.WriteString("\n" + doc.Summary + "\n")
	}
	if doc.Content != "" {
		b.WriteString("\n" + doc.Content + "\n")
	}

	return b.String()
}
