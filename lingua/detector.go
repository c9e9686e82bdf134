// Package lingua detects the language of document text.
package lingua

import (
	"strings"

	"github.com/fwojciec/woocrawl"
	"github.com/pemistahl/lingua-go"
)

var _ woocrawl.LanguageDetector = (*Detector)(nil)

// minTextLength is the shortest text worth detecting.
const minTextLength = 20

// Languages are those published on the portals.
var Languages = []lingua.Language{
	lingua.Dutch,
	lingua.English,
	lingua.German,
	lingua.French,
}

// Detector wraps a lingua detector restricted to Languages.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds the detector. Building loads language models and is
// slow; share one Detector per process.
func NewDetector() *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(Languages...).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &Detector{detector: d}
}

// DetectLanguage returns the ISO 639-1 code of the language of text.
func (d *Detector) DetectLanguage(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if len(text) < minTextLength {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
