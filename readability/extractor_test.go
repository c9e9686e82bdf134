package readability_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	_, err := ext.Extract("")

	require.Error(t, err)
	assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Besluit Woo-verzoek</title></head>
<body><article><p>Inhoud</p></article></body>
</html>`

	ext := readability.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "Besluit Woo-verzoek", result.Title)
}

func TestExtractor_RemovesNavigation(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home Navigatie</a><a href="/zoeken">Zoeken Navigatie</a></nav>
<article><p>Dit is de hoofdtekst van het besluit die in de uitvoer behouden moet blijven.</p></article>
</body>
</html>`

	ext := readability.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.NotContains(t, result.ContentHTML, "Home Navigatie")
	assert.NotContains(t, result.ContentHTML, "Zoeken Navigatie")
}

func TestExtractor_RemovesFooter(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article><p>Dit is de hoofdtekst van de kamerbrief die in de uitvoer behouden moet blijven.</p></article>
<footer><p>Voettekst Rijksoverheid</p></footer>
</body>
</html>`

	ext := readability.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.NotContains(t, result.ContentHTML, "Voettekst Rijksoverheid")
}

func TestExtractor_KeepsMainArticleContent(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Inventarislijst</h1>
<p>Deze belangrijke alinea beschrijft welke documenten openbaar worden gemaakt.</p>
</article>
</body>
</html>`

	ext := readability.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "belangrijke alinea")
}

func TestExtractor_PreservesTables(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<p>De onderstaande tabel bevat de beoordeling per document uit het verzoek.</p>
<table>
<tr><th>Nr</th><th>Document</th><th>Beoordeling</th></tr>
<tr><td>1</td><td>E-mail</td><td>Openbaar</td></tr>
</table>
</article>
</body>
</html>`

	ext := readability.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "<table")
}

func TestExtractor_ResolvesRelativeLinks(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<p>Het volledige besluit is te downloaden als <a href="/documenten/besluit.pdf">PDF-bestand</a> via deze pagina.</p>
</article>
</body>
</html>`

	pageURL, err := url.Parse("https://open.overheid.nl/details/nl.gm0363.2.123")
	require.NoError(t, err)

	ext := &readability.Extractor{PageURL: pageURL}
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "https://open.overheid.nl/documenten/besluit.pdf")
}
