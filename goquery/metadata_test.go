package goquery_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/goquery"
	"github.com/fwojciec/woocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentPage = `<!DOCTYPE html>
<html lang="nl-NL">
<head>
<title>Besluit op Woo-verzoek | Open Overheid</title>
<meta name="DC.title" content="Besluit op Woo-verzoek over stikstof">
<meta name="DC.type" content="Woo-besluit">
<meta name="DC.creator" content="Ministerie van Landbouw, Natuur en Voedselkwaliteit">
<meta name="DC.publisher" content="Ministerie van Landbouw, Natuur en Voedselkwaliteit">
<meta name="DC.date" content="2024-03-15">
<meta name="description" content="Besluit op een verzoek op grond van de Woo.">
<meta name="keywords" content="stikstof, natuur; Stikstof">
<meta name="DC.identifier" content="ronl-abc123">
</head>
<body>
<nav><a href="/">Home</a></nav>
<main>
<h1>Besluit op Woo-verzoek</h1>
<p>Op grond van de Wet open overheid (Woo) en de Algemene wet bestuursrecht besluit ik als volgt.</p>
<p>Ons kenmerk: DGNVLG-2024/123456. Zie ook ECLI:NL:RVS:2022:3159 en Kamerstuk 35334, nr. 82.</p>
<p>Dit besluit is gebaseerd op de Omgevingswet.</p>
<a href="/documenten/ronl-abc123/pdf/besluit.pdf">Download besluit</a>
</main>
</body>
</html>`

func TestMetadataExtractor_ExtractDocumentMetadata(t *testing.T) {
	t.Parallel()

	t.Run("extracts declared metadata", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewMetadataExtractor()

		meta, err := e.ExtractDocumentMetadata(documentPage, "https://open.overheid.nl/details/ronl-abc123")

		require.NoError(t, err)
		assert.Equal(t, "Besluit op Woo-verzoek over stikstof", meta.Title)
		assert.Equal(t, "Woo-besluit", meta.DocumentType)
		assert.Equal(t, "Besluit op een verzoek op grond van de Woo.", meta.Summary)
		require.NotNil(t, meta.PublicationDate)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *meta.PublicationDate)
		assert.Equal(t, []string{"stikstof", "natuur"}, meta.Keywords)
		assert.Equal(t, "nl", meta.Language)

		assert.Contains(t, meta.Entities, woocrawl.Entity{Type: woocrawl.EntityOrganization, Name: "Ministerie van Landbouw, Natuur en Voedselkwaliteit"})
		assert.Contains(t, meta.Entities, woocrawl.Entity{Type: woocrawl.EntityLaw, Name: "Wet open overheid"})
		assert.Contains(t, meta.Entities, woocrawl.Entity{Type: woocrawl.EntityLaw, Name: "Algemene wet bestuursrecht"})
		assert.Contains(t, meta.Entities, woocrawl.Entity{Type: woocrawl.EntityLaw, Name: "Omgevingswet"})
		orgs := 0
		for _, ent := range meta.Entities {
			if ent.Type == woocrawl.EntityOrganization {
				orgs++
			}
		}
		assert.Equal(t, 1, orgs)

		assert.Contains(t, meta.CaseReferences, "ECLI:NL:RVS:2022:3159")
		assert.Contains(t, meta.CaseReferences, "Kamerstuk 35334 nr. 82")
		assert.Contains(t, meta.CaseReferences, "DGNVLG-2024/123456")

		assert.Equal(t, goquery.MethodHTML, meta.Metadata["extraction_method"])
		tags, ok := meta.Metadata["meta"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ronl-abc123", tags["DC.identifier"])

		assert.Contains(t, meta.ContentHTML, "<main>")
		assert.Equal(t, woocrawl.DocumentFile{
			Name:        "besluit.pdf",
			MimeType:    "application/pdf",
			DownloadURL: "https://open.overheid.nl/documenten/ronl-abc123/pdf/besluit.pdf",
		}, meta.File)
	})

	t.Run("falls back to collaborators", func(t *testing.T) {
		t.Parallel()

		published := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		e := &goquery.MetadataExtractor{
			Content: &mock.ContentExtractor{
				ExtractFn: func(html string) (*woocrawl.ExtractResult, error) {
					return &woocrawl.ExtractResult{
						Title:       "From content",
						ContentHTML: "<p>Body</p>",
						Description: "Samenvatting uit de inhoud.",
						PublishedAt: &published,
						Tags:        []string{"energie"},
					}, nil
				},
			},
			Language: &mock.LanguageDetector{
				DetectLanguageFn: func(text string) (string, bool) { return "nl", true },
			},
			Classifier: goquery.NewClassifier(),
		}

		meta, err := e.ExtractDocumentMetadata(`<html><body><p>Tekst zonder metadata.</p></body></html>`, "https://open.overheid.nl/details/x")

		require.NoError(t, err)
		assert.Equal(t, "From content", meta.Title)
		assert.Equal(t, "Samenvatting uit de inhoud.", meta.Summary)
		assert.Equal(t, &published, meta.PublicationDate)
		assert.Equal(t, []string{"energie"}, meta.Keywords)
		assert.Equal(t, "nl", meta.Language)
		assert.Equal(t, "<p>Body</p>", meta.ContentHTML)
		assert.Equal(t, goquery.MethodHTMLMain, meta.Metadata["extraction_method"])
		assert.Equal(t, woocrawl.DocumentTypeHTML, meta.DocumentType)
	})

	t.Run("ignores content extractor failure", func(t *testing.T) {
		t.Parallel()

		e := &goquery.MetadataExtractor{
			Content: &mock.ContentExtractor{
				ExtractFn: func(html string) (*woocrawl.ExtractResult, error) {
					return nil, errors.New("no content")
				},
			},
		}

		meta, err := e.ExtractDocumentMetadata(`<html><head><title>Titel</title></head><body></body></html>`, "https://open.overheid.nl/details/x")

		require.NoError(t, err)
		assert.Equal(t, "Titel", meta.Title)
		assert.Empty(t, meta.DocumentType)
	})

	t.Run("reads json-ld", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">
{"@type":"GovernmentDocument","name":"Jaarverslag 2023","datePublished":"2024-06-01T10:00:00Z","keywords":["jaarverslag","financien"]}
</script></head><body></body></html>`

		meta, err := goquery.NewMetadataExtractor().ExtractDocumentMetadata(html, "https://open.overheid.nl/details/y")

		require.NoError(t, err)
		assert.Equal(t, "Jaarverslag 2023", meta.Title)
		require.NotNil(t, meta.PublicationDate)
		assert.Equal(t, 2024, meta.PublicationDate.Year())
		assert.Equal(t, []string{"jaarverslag", "financien"}, meta.Keywords)
		assert.Equal(t, woocrawl.DocumentTypeStructuredHTML, meta.DocumentType)
		assert.NotNil(t, meta.Metadata["json_ld"])
	})
}
