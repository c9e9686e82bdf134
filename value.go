package woocrawl

import (
	"bytes"
	"encoding/json"
)

// Link is a hyperlink captured from a page.
type Link struct {
	Text       string `json:"text"`
	URL        string `json:"url"`
	IsExternal bool   `json:"is_external"`
}

// ValueKind tags the variant held by a Value.
type ValueKind int

// Value variants.
const (
	PlainTextKind ValueKind = iota
	LinkedTextKind
)

// Value is a table cell value. A cell without links is plain text; a cell
// with links keeps its text and the links found in it. Consumers switch on
// Kind instead of inspecting the shape of the value.
type Value struct {
	Kind  ValueKind
	Text  string
	Links []Link
}

// PlainText returns a plain text Value.
func PlainText(text string) Value {
	return Value{Kind: PlainTextKind, Text: text}
}

// LinkedText returns a Value carrying text and the links found in it.
// An empty link list yields plain text.
func LinkedText(text string, links []Link) Value {
	if len(links) == 0 {
		return PlainText(text)
	}
	return Value{Kind: LinkedTextKind, Text: text, Links: links}
}

// IsLinked reports whether the value carries links.
func (v Value) IsLinked() bool {
	return v.Kind == LinkedTextKind
}

// FirstLink returns the first link of a linked value.
func (v Value) FirstLink() (Link, bool) {
	if !v.IsLinked() || len(v.Links) == 0 {
		return Link{}, false
	}
	return v.Links[0], true
}

// MarshalJSON encodes plain text as a bare string and linked text as
// {"text": ..., "links": [...]}.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsLinked() {
		return json.Marshal(v.Text)
	}
	return json.Marshal(struct {
		Text  string `json:"text"`
		Links []Link `json:"links"`
	}{v.Text, v.Links})
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = PlainText(s)
		return nil
	}

	var obj struct {
		Text  string `json:"text"`
		Links []Link `json:"links"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*v = LinkedText(obj.Text, obj.Links)
	return nil
}
