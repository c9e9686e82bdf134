package goquery_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const organizationPage = `<!DOCTYPE html>
<html lang="nl">
<head><title>BZK | Organisaties</title></head>
<body>
<h1>Ministerie van Binnenlandse Zaken en Koninkrijksrelaties</h1>
<section id="organisatiegegevens">
	<h2>Organisatiegegevens</h2>
	<table>
		<tr><th>Afkorting</th><td>BZK</td></tr>
		<tr><th>Valt onder</th><td><a href="/1/Rijksoverheid">Rijksoverheid</a></td></tr>
	</table>
</section>
<h2 id="beschrijving">Beschrijving</h2>
<p>Het ministerie   van BZK staat voor
	een goed functionerende democratie.</p>
<p>Tweede alinea.</p>
<h2>Contactgegevens</h2>
<table>
	<tr><th>Postadres</th><td>Postbus 20011<br>2500 EA Den Haag</td></tr>
	<tr><th>Bezoekadres</th><td>Turfmarkt 147<br/>2511 DP Den Haag</td></tr>
	<tr><th>Website</th><td><a href="https://www.rijksoverheid.nl/bzk">www.rijksoverheid.nl/bzk</a></td></tr>
</table>
<h2>Functies organisatie</h2>
<ul><li>Minister: H. de Jonge</li><li>Secretaris-generaal: M. Bos</li></ul>
<h2 id="locaties-woo-documenten">Locaties Woo-documenten</h2>
<a href="https://open.overheid.nl/zoeken?organisatie=bzk">Woo-documenten op open.overheid.nl</a>
</body>
</html>`

func newSectionExtractor(t *testing.T) *goquery.SectionExtractor {
	t.Helper()
	e, err := goquery.NewSectionExtractor("https://organisaties.overheid.nl", nil)
	require.NoError(t, err)
	return e
}

func TestSectionExtractor_ExtractOrganizationDetails(t *testing.T) {
	t.Parallel()

	t.Run("extracts every section kind", func(t *testing.T) {
		t.Parallel()

		details, err := newSectionExtractor(t).ExtractOrganizationDetails(organizationPage)

		require.NoError(t, err)
		assert.Equal(t, "Ministerie van Binnenlandse Zaken en Koninkrijksrelaties", details.Name)
		assert.Equal(t, []string{
			"organisatiegegevens", "beschrijving", "contactgegevens",
			"indienen_woo_verzoek", "functies_organisatie", "locaties_woo_documenten",
		}, details.Sections.Keys())

		org := details.Sections.Get(woocrawl.SectionOrganisatiegegevens)
		assert.Equal(t, woocrawl.SectionTableData, org.Kind)
		assert.Equal(t, "Organisatiegegevens", org.Title)
		assert.Equal(t, []woocrawl.TableEntry{
			{Key: "afkorting", Value: woocrawl.PlainText("BZK")},
			{Key: "valt_onder", Value: woocrawl.LinkedText("Rijksoverheid", []woocrawl.Link{
				{Text: "Rijksoverheid", URL: "https://organisaties.overheid.nl/1/Rijksoverheid"},
			})},
		}, org.Table)

		desc := details.Sections.Get(woocrawl.SectionBeschrijving)
		assert.Equal(t, woocrawl.SectionTextBlock, desc.Kind)
		assert.Equal(t, []string{
			"Het ministerie van BZK staat voor een goed functionerende democratie.",
			"Tweede alinea.",
		}, desc.Paragraphs)

		contact := details.Sections.Get(woocrawl.SectionContactgegevens)
		assert.Equal(t, woocrawl.SectionTableData, contact.Kind)
		postadres, ok := contact.Lookup("postadres")
		require.True(t, ok)
		assert.Equal(t, woocrawl.PlainText("Postbus 20011\n2500 EA Den Haag"), postadres)
		website, ok := contact.Lookup("website")
		require.True(t, ok)
		link, ok := website.FirstLink()
		require.True(t, ok)
		assert.True(t, link.IsExternal)

		assert.True(t, details.Sections.Get(woocrawl.SectionIndienenWooVerzoek).IsEmpty())

		functies := details.Sections.Get(woocrawl.SectionFunctiesOrganisatie)
		assert.Equal(t, woocrawl.SectionListItems, functies.Kind)
		assert.Equal(t, []string{"Minister: H. de Jonge", "Secretaris-generaal: M. Bos"}, functies.Items)

		locaties := details.Sections.Get(woocrawl.SectionLocatiesWooDocumenten)
		assert.Equal(t, woocrawl.SectionLinksOnly, locaties.Kind)
		require.Len(t, locaties.Links, 1)
		assert.Equal(t, "https://open.overheid.nl/zoeken?organisatie=bzk", locaties.Links[0].URL)

		require.Len(t, details.Addresses, 2)
		assert.Equal(t, woocrawl.AddressPostadres, details.Addresses[0].Type)
		assert.Equal(t, "20011", details.Addresses[0].Postbus)
		assert.Equal(t, "Postbus 20011\n2500 EA Den Haag", details.Addresses[0].FullAddress)
		assert.Equal(t, woocrawl.AddressBezoekadres, details.Addresses[1].Type)
		assert.Equal(t, "Turfmarkt", details.Addresses[1].Street)
		assert.Equal(t, "147", details.Addresses[1].HouseNumber)

		assert.Equal(t, []woocrawl.Relation{
			{Type: woocrawl.RelationFunctie, RelatieType: "list_item", Name: "Minister: H. de Jonge"},
			{Type: woocrawl.RelationFunctie, RelatieType: "list_item", Name: "Secretaris-generaal: M. Bos"},
			{Type: woocrawl.RelationParent, RelatieType: "valt_onder", Name: "Rijksoverheid", URL: "https://organisaties.overheid.nl/1/Rijksoverheid"},
		}, details.Relations)
	})

	t.Run("missing section encodes as empty object", func(t *testing.T) {
		t.Parallel()

		details, err := newSectionExtractor(t).ExtractOrganizationDetails(`<html><body><h1>Kiesraad</h1></body></html>`)
		require.NoError(t, err)

		b, err := json.Marshal(details.Sections)
		require.NoError(t, err)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(b, &raw))
		require.Len(t, raw, 6)
		for key, v := range raw {
			assert.JSONEq(t, `{}`, string(v), key)
		}
		assert.Empty(t, details.Addresses)
		assert.Empty(t, details.Relations)
	})

	t.Run("postcode row in visiting address block", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Gemeente Amsterdam</h1>
<div class="adres"><h3>Bezoekadres</h3>
<table><tr><th>Postcode</th><td>1234 AB Amsterdam</td></tr></table>
</div></body></html>`

		details, err := newSectionExtractor(t).ExtractOrganizationDetails(html)

		require.NoError(t, err)
		require.Len(t, details.Addresses, 1)
		assert.Equal(t, woocrawl.AddressBezoekadres, details.Addresses[0].Type)
		assert.Equal(t, "1234 AB", details.Addresses[0].Postcode)
		assert.Equal(t, "Amsterdam", details.Addresses[0].Plaats)
	})

	t.Run("heading inside its own container", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<section><h2>Indienen Woo-verzoek</h2>
<p>Stuur uw verzoek per e-mail.</p>
<a href="mailto:woo@minbzk.nl">woo@minbzk.nl</a>
</section>
<section><h2>Andere sectie</h2><p>Niet meenemen.</p></section>
</body></html>`

		details, err := newSectionExtractor(t).ExtractOrganizationDetails(html)

		require.NoError(t, err)
		s := details.Sections.Get(woocrawl.SectionIndienenWooVerzoek)
		assert.Equal(t, "Indienen Woo-verzoek", s.Title)
		assert.Equal(t, woocrawl.SectionTextBlock, s.Kind)
		assert.Equal(t, []string{"Stuur uw verzoek per e-mail."}, s.Paragraphs)
		require.Len(t, s.Links, 1)
		assert.Equal(t, woocrawl.Link{Text: "woo@minbzk.nl", URL: "mailto:woo@minbzk.nl"}, s.Links[0])
	})

	t.Run("definition lists read as table rows", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="organisatiegegevens">
<dl><dt>Afkorting</dt><dd>AP</dd><dt>Afkorting</dt><dd>dubbel</dd><dt>Type</dt><dd>Zelfstandig bestuursorgaan</dd></dl>
</div></body></html>`

		details, err := newSectionExtractor(t).ExtractOrganizationDetails(html)

		require.NoError(t, err)
		assert.Equal(t, []woocrawl.TableEntry{
			{Key: "afkorting", Value: woocrawl.PlainText("AP")},
			{Key: "type", Value: woocrawl.PlainText("Zelfstandig bestuursorgaan")},
		}, details.Sections.Get(woocrawl.SectionOrganisatiegegevens).Table)
	})

	t.Run("first row wins for a repeated label", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><section id="contactgegevens"><h2>Contactgegevens</h2><table>
<tr><th>Telefoon</th><td>070 426 6426</td></tr>
<tr><th>TELEFOON</th><td>088 000 0000</td></tr>
</table></section></body></html>`

		details, err := newSectionExtractor(t).ExtractOrganizationDetails(html)

		require.NoError(t, err)
		assert.Equal(t, []woocrawl.TableEntry{
			{Key: "telefoon", Value: woocrawl.PlainText("070 426 6426")},
		}, details.Sections.Get(woocrawl.SectionContactgegevens).Table)
	})

	t.Run("table keys are idempotent under normalization", func(t *testing.T) {
		t.Parallel()

		details, err := newSectionExtractor(t).ExtractOrganizationDetails(organizationPage)
		require.NoError(t, err)

		for _, s := range details.Sections {
			for _, e := range s.Table {
				assert.Equal(t, e.Key, woocrawl.NormalizeKey(e.Key))
			}
		}
	})
}

func TestNewSectionExtractor_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := goquery.NewSectionExtractor("://invalid", nil)

	require.Error(t, err)
	assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
}
