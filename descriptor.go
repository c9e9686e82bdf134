package woocrawl

import "time"

// DocumentDescriptor is a document reference found in an API response.
// Only descriptors with both a title and a URL are emitted.
type DocumentDescriptor struct {
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	PID             string     `json:"pid,omitempty"`
	PublicationDate *time.Time `json:"publicationDate,omitempty"`
	DocumentType    string     `json:"documentType,omitempty"`
}

// Document converts the descriptor into a discovered document.
func (d DocumentDescriptor) Document() *Document {
	doc := &Document{
		SourceURL:       d.URL,
		Title:           d.Title,
		DocumentType:    d.DocumentType,
		PublicationDate: d.PublicationDate,
		Metadata:        map[string]any{"source": "api"},
	}
	if d.PID != "" {
		doc.Metadata["pid"] = d.PID
	}
	return doc
}

// NormalizeStats counts the items of one API response.
type NormalizeStats struct {
	Items   int
	Emitted int
	Dropped int
}

// APINormalizer turns API responses of unstable shape into descriptors.
type APINormalizer interface {
	NormalizeAPIResponse(body []byte) ([]DocumentDescriptor, NormalizeStats, error)
}
