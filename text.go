package woocrawl

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRunRe   = regexp.MustCompile(`[ \f\v]+`)
	lineEdgeRe   = regexp.MustCompile(` *\n *`)
	newlineRunRe = regexp.MustCompile(`\n+`)
)

// CleanText is the single text cleaning primitive applied to every string
// captured from a page. It trims, collapses runs of spaces to one space,
// drops tabs, collapses runs of newlines to one newline and strips the
// whitespace around each newline. Line breaks are kept because address
// parsing splits on them.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	r := strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\t", " ",
		"\u00a0", " ",
		"\u200b", "",
	)
	s = r.Replace(s)
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = lineEdgeRe.ReplaceAllString(s, "\n")
	s = newlineRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// SingleLine cleans s and joins its lines with a single space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(CleanText(s)), " ")
}

// NormalizeKey converts a raw label into a canonical field name: lowercase,
// every run of non-alphanumeric characters becomes a single underscore and
// leading/trailing underscores are removed. NormalizeKey is idempotent.
func NormalizeKey(label string) string {
	var sb strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}

	return sb.String()
}

// KebabToTitle converts an anchor such as "functies-organisatie" into the
// heading text it is expected to match ("Functies Organisatie").
// Underscores are treated like hyphens.
func KebabToTitle(anchor string) string {
	parts := strings.FieldsFunc(anchor, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, p := range parts {
		rs := []rune(strings.ToLower(p))
		rs[0] = unicode.ToUpper(rs[0])
		parts[i] = string(rs)
	}
	return strings.Join(parts, " ")
}

// Slugify derives the organization identity key from its name.
// Diacritics are folded ("Fryslân" becomes "fryslan"), everything else
// that is not a letter or digit becomes a single hyphen.
func Slugify(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}

	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen && sb.Len() > 0 {
			sb.WriteRune('-')
			prevHyphen = true
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
