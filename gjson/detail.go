package gjson

import (
	"strings"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/tidwall/gjson"
)

var _ woocrawl.DetailExtractor = (*DetailExtractor)(nil)

// MethodAPI marks metadata read from a detail API response.
const MethodAPI = "api"

// DisplayDateLayout is how detail dates are stored for display.
const DisplayDateLayout = "02-01-2006, 15:04"

// displayFieldPrefix marks the extra metadata shown on detail pages.
const displayFieldPrefix = "plooi.displayfield"

// languageCodes maps the language labels of the detail API to ISO codes.
var languageCodes = map[string]string{
	"nederlands": "nl",
	"engels":     "en",
	"fries":      "fy",
	"duits":      "de",
	"frans":      "fr",
}

// DetailExtractor reads document metadata from the JSON detail response
// captured while rendering a document page.
type DetailExtractor struct {
	// Dates parses dates not in ISO format. Optional.
	Dates woocrawl.DateParser
}

// NewDetailExtractor creates a DetailExtractor.
func NewDetailExtractor() *DetailExtractor {
	return &DetailExtractor{}
}

// ExtractDetailMetadata maps a detail response onto document metadata.
// The response must hold a "document" object; "versies" and "plooiIntern"
// are read when present.
func (e *DetailExtractor) ExtractDetailMetadata(body []byte) (*woocrawl.DocumentMetadata, error) {
	if !gjson.ValidBytes(body) {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "invalid JSON detail response")
	}
	root := gjson.ParseBytes(body)
	doc := root.Get("document")
	if !doc.IsObject() {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "detail response has no document")
	}

	m := map[string]any{"extraction_method": MethodAPI}
	meta := &woocrawl.DocumentMetadata{Metadata: m}

	e.readDocument(doc, meta)
	e.readVersion(root.Get("versies.0"), meta)
	readInternal(root.Get("plooiIntern"), m)

	return meta, nil
}

func (e *DetailExtractor) readDocument(doc gjson.Result, meta *woocrawl.DocumentMetadata) {
	m := meta.Metadata

	setString(m, "pid", doc.Get("pid"))
	setString(m, "weblocatie", doc.Get("weblocatie"))
	setString(m, "creatiedatum", doc.Get("creatiedatum"))

	if ids := stringsOf(doc.Get("identifiers")); len(ids) > 0 {
		m["identifiers"] = ids
		m["identificatiekenmerk"] = ids[0]
		meta.CaseReferences = ids
	}

	if begin := doc.Get("geldigheid.begindatum").String(); begin != "" {
		m["geldigheid_begindatum"] = begin
		m["geldig_van"] = e.displayDate(begin)
	}

	for _, role := range []string{"verantwoordelijke", "opsteller"} {
		v := doc.Get(role)
		setString(m, role+"_label", v.Get("label"))
		setString(m, role+"_bronwaarde", v.Get("bronwaarde"))
		if l := label(v); l != "" {
			meta.Entities = append(meta.Entities, woocrawl.Entity{Type: woocrawl.EntityOrganization, Name: l})
		}
	}
	if l := label(doc.Get("publisher")); l != "" {
		m["publicerende_organisatie"] = l
		meta.Entities = append(meta.Entities, woocrawl.Entity{Type: woocrawl.EntityOrganization, Name: l})
	}
	meta.Entities = woocrawl.UniqueEntities(meta.Entities)

	if l := label(doc.Get("language")); l != "" {
		m["taal"] = l
		meta.Language = languageCode(l)
	}

	if title := firstString(doc, "titelcollectie.officieleTitel", "officieleTitel", "title"); title != "" {
		m["officiele_titel"] = title
		meta.Title = title
	}
	meta.Summary = firstLabel(doc, "omschrijvingen", "omschrijving")

	cls := doc.Get("classificatiecollectie")
	if soort := label(cls.Get("documentsoorten")); soort != "" {
		m["documentsoort"] = soort
		meta.DocumentType = soort
	}
	if themes := labels(cls.Get("themas")); len(themes) > 0 {
		m["themas"] = strings.Join(themes, ", ")
		meta.Keywords = woocrawl.UniqueStrings(themes)
	}
	if cats := labels(cls.Get("informatiecategorieen")); len(cats) > 0 {
		m["woo_informatiecategorie"] = strings.Join(cats, ", ")
		m["informatiecategorieen"] = cats
	}

	readExtraMetadata(doc.Get("extraMetadata"), m)

	if s := doc.Get("creatiedatum").String(); s != "" {
		if t, ok := parseDate(e.Dates, s); ok {
			meta.PublicationDate = &t
		}
	}
}

// readExtraMetadata flattens the display fields of extraMetadata. Every
// field is kept under extra_metadata_fields; known fields are also
// promoted to top-level keys.
func readExtraMetadata(extra gjson.Result, m map[string]any) {
	if !extra.Exists() {
		return
	}
	m["raw_extra_metadata"] = extra.Value()

	fields := map[string]any{}
	extra.ForEach(func(_, group gjson.Result) bool {
		if !strings.HasPrefix(group.Get("prefix").String(), displayFieldPrefix) {
			return true
		}
		for _, veld := range group.Get("velden").Array() {
			key := veld.Get("key").String()
			if key == "" {
				continue
			}
			values := stringsOf(veld.Get("values"))
			first := ""
			if len(values) > 0 {
				first = values[0]
			}
			fields[key] = map[string]any{
				"values":            values,
				"first_value":       first,
				"all_values_string": strings.Join(values, ", "),
			}
			m[key] = first
			m[key+"_values"] = values
		}
		return true
	})
	if len(fields) > 0 {
		m["extra_metadata_fields"] = fields
	}
}

func (e *DetailExtractor) readVersion(v gjson.Result, meta *woocrawl.DocumentMetadata) {
	if !v.Exists() {
		return
	}
	m := meta.Metadata

	if s := v.Get("openbaarmakingsdatum").String(); s != "" {
		m["openbaarmakingsdatum"] = s
		if t, ok := parseDate(e.Dates, s); ok {
			meta.PublicationDate = &t
		}
	}
	setString(m, "mutatiedatumtijd", v.Get("mutatiedatumtijd"))
	if s := v.Get("blokkades.0.tot").String(); s != "" {
		m["blokkade_tot"] = s
	}
	if s := v.Get("gepubliceerdOp").String(); s != "" {
		m["gepubliceerd_op"] = e.displayDate(s)
	}
	if s := v.Get("mutatiedatumtijd").String(); s != "" {
		m["laatst_gewijzigd"] = e.displayDate(s)
	}

	f := v.Get("bestanden.0")
	if !f.Exists() {
		return
	}
	mime := f.Get("mime-type").String()
	file := woocrawl.DocumentFile{
		Name:        f.Get("bestandsnaam").String(),
		MimeType:    mime,
		Size:        f.Get("grootte").Int(),
		Pages:       int(f.Get("paginas").Int()),
		DownloadURL: f.Get("url").String(),
		Hash:        f.Get("hash").String(),
	}
	meta.File = file

	m["bestandstype"] = fileType(mime)
	setString(m, "bestandsnaam", f.Get("bestandsnaam"))
	if file.Size > 0 {
		m["bestandsgrootte"] = file.Size
	}
	if file.Pages > 0 {
		m["paginas"] = file.Pages
	}
	setString(m, "download_url", f.Get("url"))
	setString(m, "hash", f.Get("hash"))
}

func readInternal(v gjson.Result, m map[string]any) {
	setString(m, "aanbieder", v.Get("aanbieder"))
	setString(m, "source_label", v.Get("sourceLabel"))
	setString(m, "publicatiestatus", v.Get("publicatiestatus"))
}

// displayDate formats s as DisplayDateLayout. Input that is not a date is
// returned unchanged.
func (e *DetailExtractor) displayDate(s string) string {
	iso := s
	if i := strings.IndexByte(iso, '.'); i > 0 && strings.Contains(iso, "T") {
		// Fractional seconds, possibly followed by a zone.
		rest := iso[i+1:]
		j := strings.IndexAny(rest, "Z+-")
		zone := ""
		if j >= 0 {
			zone = rest[j:]
		}
		iso = iso[:i] + zone
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	if e.Dates != nil {
		if t, err := e.Dates.ParseDate(s); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return s
}

// fileType names a file by its MIME type: "PDF" for any PDF type,
// otherwise the upper-cased subtype.
func fileType(mime string) string {
	if mime == "" {
		return ""
	}
	lower := strings.ToLower(mime)
	if strings.Contains(lower, "pdf") {
		return "PDF"
	}
	if _, sub, ok := strings.Cut(lower, "/"); ok {
		return strings.ToUpper(sub)
	}
	return strings.ToUpper(lower)
}

func languageCode(label string) string {
	if code, ok := languageCodes[strings.ToLower(label)]; ok {
		return code
	}
	return ""
}

func setString(m map[string]any, key string, v gjson.Result) {
	if s := strings.TrimSpace(v.String()); s != "" {
		m[key] = s
	}
}

func stringsOf(v gjson.Result) []string {
	var out []string
	for _, e := range v.Array() {
		if s := strings.TrimSpace(e.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
