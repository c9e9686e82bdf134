package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements woocrawl.Converter at compile time.
var _ woocrawl.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		html := `<p>Geachte heer, mevrouw,</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Geachte heer, mevrouw,")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Besluit</h1><h2>Verzoek</h2><h3>Procesverloop</h3>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Besluit")
		assert.Contains(t, md, "## Verzoek")
		assert.Contains(t, md, "### Procesverloop")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		html := `<p>Zie <a href="https://open.overheid.nl">Open Overheid</a> voor meer informatie.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[Open Overheid](https://open.overheid.nl)")
	})

	t.Run("converts unordered lists", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>First</li><li>Second</li><li>Third</li></ul>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "- Third")
	})

	t.Run("converts ordered lists", func(t *testing.T) {
		t.Parallel()

		html := `<ol><li>First</li><li>Second</li><li>Third</li></ol>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "1. First")
		assert.Contains(t, md, "2. Second")
		assert.Contains(t, md, "3. Third")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Bestand</th><th>Pagina's</th></tr></thead>
<tbody><tr><td>besluit.pdf</td><td>12</td></tr><tr><td>bijlage.pdf</td><td>3</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		// Table cells may have padding for alignment, so check for content
		assert.Contains(t, md, "Bestand")
		assert.Contains(t, md, "besluit.pdf")
		assert.Contains(t, md, "bijlage.pdf")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		html := `<p><strong>Bold</strong> and <em>italic</em> text.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "**Bold**")
		assert.Contains(t, md, "*italic*")
	})

	t.Run("converts blockquotes", func(t *testing.T) {
		t.Parallel()

		html := `<blockquote><p>This is a quote.</p></blockquote>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "> This is a quote.")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("")

		require.Error(t, err)
		assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
	})

	t.Run("resolves relative links against the domain", func(t *testing.T) {
		t.Parallel()

		html := `<p>Zie <a href="/documenten/besluit.pdf">het besluit</a>.</p>`

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://open.overheid.nl"))
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[het besluit](https://open.overheid.nl/documenten/besluit.pdf)")
	})

	t.Run("handles a decision document", func(t *testing.T) {
		t.Parallel()

		html := `<div>
<h1>Besluit op uw Woo-verzoek</h1>
<p>Geachte heer, mevrouw,</p>
<h2>Uw verzoek</h2>
<p>Op 12 maart 2024 heeft u verzocht om openbaarmaking van documenten over <strong>parkeervergunningen</strong>.</p>
<h2>Beoordeling</h2>
<ul>
<li>Artikel 5.1, tweede lid, onder e, Woo</li>
<li>Artikel 5.2 Woo</li>
</ul>
<table>
<thead><tr><th>Nr</th><th>Document</th><th>Beoordeling</th></tr></thead>
<tbody>
<tr><td>1</td><td>E-mail</td><td>Openbaar</td></tr>
<tr><td>2</td><td>Nota</td><td>Deels openbaar</td></tr>
</tbody>
</table>
</div>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Besluit op uw Woo-verzoek")
		assert.Contains(t, md, "## Beoordeling")
		assert.Contains(t, md, "**parkeervergunningen**")
		assert.Contains(t, md, "- Artikel 5.2 Woo")
		// Table cells may have padding for alignment
		assert.Contains(t, md, "Deels openbaar")
	})
}
