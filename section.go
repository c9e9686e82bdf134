package woocrawl

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionKind identifies the shape of a section's primary content.
type SectionKind string

// Section kinds.
const (
	SectionEmpty     SectionKind = ""
	SectionTableData SectionKind = "table_data"
	SectionTextBlock SectionKind = "text_block"
	SectionListItems SectionKind = "list_items"
	SectionLinksOnly SectionKind = "links_only"
)

// Keys of the sections extracted from an organization detail page.
const (
	SectionOrganisatiegegevens   = "organisatiegegevens"
	SectionBeschrijving          = "beschrijving"
	SectionContactgegevens       = "contactgegevens"
	SectionIndienenWooVerzoek    = "indienen_woo_verzoek"
	SectionFunctiesOrganisatie   = "functies_organisatie"
	SectionLocatiesWooDocumenten = "locaties_woo_documenten"
)

// SectionAnchor maps a section key to the anchor (element id) that locates
// it on the page.
type SectionAnchor struct {
	Key    string `yaml:"key"`
	Anchor string `yaml:"anchor"`
}

// DefaultSectionAnchors returns the ordered section set of an organization
// detail page.
func DefaultSectionAnchors() []SectionAnchor {
	return []SectionAnchor{
		{Key: SectionOrganisatiegegevens, Anchor: "organisatiegegevens"},
		{Key: SectionBeschrijving, Anchor: "beschrijving"},
		{Key: SectionContactgegevens, Anchor: "contactgegevens"},
		{Key: SectionIndienenWooVerzoek, Anchor: "indienen-woo-verzoek"},
		{Key: SectionFunctiesOrganisatie, Anchor: "functies-organisatie"},
		{Key: SectionLocatiesWooDocumenten, Anchor: "locaties-woo-documenten"},
	}
}

// TableEntry is one labeled row of a table_data section.
type TableEntry struct {
	Key   string
	Value Value
}

// Section is a named, anchor-addressable region of a page.
type Section struct {
	Key        string
	Title      string
	Kind       SectionKind
	Table      []TableEntry
	Paragraphs []string
	Items      []string
	Links      []Link
}

// IsEmpty reports whether nothing was extracted for the section.
func (s Section) IsEmpty() bool {
	return s.Kind == SectionEmpty && len(s.Links) == 0
}

// Lookup returns the value of the first table entry with the given key.
func (s Section) Lookup(key string) (Value, bool) {
	for _, e := range s.Table {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Sections is the ordered set of sections of one page.
type Sections []Section

// Get returns the section with the given key. A missing section is returned
// as an empty Section so callers never need existence checks.
func (ss Sections) Get(key string) Section {
	for _, s := range ss {
		if s.Key == key {
			return s
		}
	}
	return Section{Key: key}
}

// Keys returns the section keys in order.
func (ss Sections) Keys() []string {
	keys := make([]string, 0, len(ss))
	for _, s := range ss {
		keys = append(keys, s.Key)
	}
	return keys
}

// sectionJSON is the stored form of a non-empty section.
type sectionJSON struct {
	Title     string       `json:"title,omitempty"`
	Kind      SectionKind  `json:"kind"`
	TableData orderedTable `json:"table_data,omitempty"`
	Text      []string     `json:"text,omitempty"`
	Items     []string     `json:"items,omitempty"`
	Links     []Link       `json:"links,omitempty"`
}

// MarshalJSON encodes the sections as one object keyed by section key, in
// order. Every key is present; empty sections encode as {}.
func (ss Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range ss {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if s.IsEmpty() {
			buf.WriteString("{}")
			continue
		}
		body, err := json.Marshal(sectionJSON{
			Title:     s.Title,
			Kind:      s.Kind,
			TableData: s.Table,
			Text:      s.Paragraphs,
			Items:     s.Items,
			Links:     s.Links,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the object produced by MarshalJSON, keeping key order.
func (ss *Sections) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var out Sections
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sections: expected key, got %v", tok)
		}
		var sj sectionJSON
		if err := dec.Decode(&sj); err != nil {
			return fmt.Errorf("sections: %s: %w", key, err)
		}
		out = append(out, Section{
			Key:        key,
			Title:      sj.Title,
			Kind:       sj.Kind,
			Table:      sj.TableData,
			Paragraphs: sj.Text,
			Items:      sj.Items,
			Links:      sj.Links,
		})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*ss = out
	return nil
}

// orderedTable encodes table entries as a JSON object in row order.
type orderedTable []TableEntry

func (t orderedTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *orderedTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var out orderedTable
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("table_data: expected key, got %v", tok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("table_data: %s: %w", key, err)
		}
		out = append(out, TableEntry{Key: key, Value: v})
	}

	*t = out
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
