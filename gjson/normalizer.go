// Package gjson normalizes the JSON responses of the document portal.
package gjson

import (
	"strings"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/tidwall/gjson"
)

var _ woocrawl.APINormalizer = (*Normalizer)(nil)

// DefaultDetailURLTemplate builds a detail URL from a pid.
const DefaultDetailURLTemplate = "https://open.overheid.nl/details/{pid}"

// Paths probed, in order, for each descriptor field.
var (
	listKeys  = []string{"results", "documents", "items", "data"}
	titlePath = []string{"title", "officieleTitel", "titelcollectie.officieleTitel"}
	urlPaths  = []string{"url", "weblocatie", "detail_url"}
	typePaths = []string{"documentsoort", "classificatiecollectie.documentsoorten.0"}
)

// Normalizer extracts document descriptors from API responses whose
// shape is not fixed.
type Normalizer struct {
	// DetailURLTemplate is used when an item has a pid but no URL.
	// "{pid}" is replaced by the pid.
	DetailURLTemplate string

	// Dates parses creation dates. Optional.
	Dates woocrawl.DateParser
}

// NewNormalizer creates a Normalizer with the default detail URL template.
func NewNormalizer() *Normalizer {
	return &Normalizer{DetailURLTemplate: DefaultDetailURLTemplate}
}

// NormalizeAPIResponse locates the item list of body and converts every
// item with a title and a URL into a descriptor. Items missing either are
// dropped and counted. Invalid JSON is an EINVALID error; valid JSON
// without an item list yields no descriptors.
func (n *Normalizer) NormalizeAPIResponse(body []byte) ([]woocrawl.DocumentDescriptor, woocrawl.NormalizeStats, error) {
	var stats woocrawl.NormalizeStats
	if !gjson.ValidBytes(body) {
		return nil, stats, woocrawl.Errorf(woocrawl.EINVALID, "invalid JSON response")
	}

	items := itemList(gjson.ParseBytes(body))
	stats.Items = len(items)

	var out []woocrawl.DocumentDescriptor
	for _, item := range items {
		d, ok := n.descriptor(item)
		if !ok {
			stats.Dropped++
			continue
		}
		out = append(out, d)
	}
	stats.Emitted = len(out)

	return out, stats, nil
}

// itemList returns the items under the first list key holding an array,
// or the root itself when it is an array.
func itemList(root gjson.Result) []gjson.Result {
	if root.IsObject() {
		for _, key := range listKeys {
			if v := root.Get(key); v.IsArray() {
				return v.Array()
			}
		}
		return nil
	}
	if root.IsArray() {
		return root.Array()
	}
	return nil
}

func (n *Normalizer) descriptor(item gjson.Result) (woocrawl.DocumentDescriptor, bool) {
	if !item.IsObject() {
		return woocrawl.DocumentDescriptor{}, false
	}

	d := woocrawl.DocumentDescriptor{
		Title: firstString(item, titlePath...),
		URL:   firstString(item, urlPaths...),
		PID:   firstString(item, "pid"),
	}
	if d.URL == "" && d.PID != "" {
		tmpl := n.DetailURLTemplate
		if tmpl == "" {
			tmpl = DefaultDetailURLTemplate
		}
		d.URL = strings.ReplaceAll(tmpl, "{pid}", d.PID)
	}
	if d.Title == "" || d.URL == "" {
		return woocrawl.DocumentDescriptor{}, false
	}

	if s := firstString(item, "creatiedatum"); s != "" {
		if t, ok := parseDate(n.Dates, s); ok {
			d.PublicationDate = &t
		}
	}
	d.DocumentType = firstLabel(item, typePaths...)

	return d, true
}

// firstString returns the first non-empty string value found under paths.
func firstString(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		r := v.Get(p)
		if r.Type == gjson.String || r.Type == gjson.Number {
			if s := woocrawl.SingleLine(r.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstLabel is like firstString but also accepts {"label": ...} objects
// and takes the first element of arrays.
func firstLabel(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := label(v.Get(p)); s != "" {
			return s
		}
	}
	return ""
}

func label(r gjson.Result) string {
	switch {
	case r.IsArray():
		for _, e := range r.Array() {
			if s := label(e); s != "" {
				return s
			}
		}
		return ""
	case r.IsObject():
		return woocrawl.SingleLine(r.Get("label").String())
	case r.Type == gjson.String:
		return woocrawl.SingleLine(r.String())
	}
	return ""
}

func labels(r gjson.Result) []string {
	var out []string
	for _, e := range r.Array() {
		if s := label(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseDate parses s with p, or as an ISO date when p is nil.
func parseDate(p woocrawl.DateParser, s string) (time.Time, bool) {
	if p != nil {
		t, err := p.ParseDate(s)
		return t, err == nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
