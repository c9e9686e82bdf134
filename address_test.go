package woocrawl_test

import (
	"testing"

	"github.com/fwojciec/woocrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	t.Run("postbus keeps full text", func(t *testing.T) {
		t.Parallel()

		text := "Postbus 20011\n2500 EA  Den Haag"

		addr := woocrawl.ParseAddress(woocrawl.AddressPostadres, woocrawl.PlainText(text))

		assert.Equal(t, "20011", addr.Postbus)
		assert.Equal(t, "2500 EA", addr.Postcode)
		assert.Equal(t, "Den Haag", addr.Plaats)
		assert.Equal(t, text, addr.FullAddress)
	})

	t.Run("postbus is case insensitive and accepts br", func(t *testing.T) {
		t.Parallel()

		text := "POSTBUS 123<br/>1000AB Amsterdam"

		addr := woocrawl.ParseAddress(woocrawl.AddressPostadres, woocrawl.PlainText(text))

		assert.Equal(t, "123", addr.Postbus)
		assert.Equal(t, "1000 AB", addr.Postcode)
		assert.Equal(t, "Amsterdam", addr.Plaats)
		assert.Equal(t, text, addr.FullAddress)
	})

	t.Run("visiting address splits house number", func(t *testing.T) {
		t.Parallel()

		addr := woocrawl.ParseAddress(woocrawl.AddressBezoekadres, woocrawl.PlainText("Turfmarkt 147\n2511 DP Den Haag"))

		assert.Equal(t, woocrawl.Address{
			Type:        woocrawl.AddressBezoekadres,
			Street:      "Turfmarkt",
			HouseNumber: "147",
			Postcode:    "2511 DP",
			Plaats:      "Den Haag",
			FullAddress: "Turfmarkt 147\n2511 DP Den Haag",
		}, addr)
	})

	t.Run("visiting address with multi word street and suffix", func(t *testing.T) {
		t.Parallel()

		addr := woocrawl.ParseAddress(woocrawl.AddressBezoekadres, woocrawl.PlainText("Korte Voorhout 7a"))

		assert.Equal(t, "Korte Voorhout", addr.Street)
		assert.Equal(t, "7a", addr.HouseNumber)
	})

	t.Run("postal address keeps street line whole", func(t *testing.T) {
		t.Parallel()

		addr := woocrawl.ParseAddress(woocrawl.AddressPostadres, woocrawl.PlainText("Antwoordnummer 1234\n2500 VB Den Haag"))

		assert.Equal(t, "Antwoordnummer 1234", addr.Street)
		assert.Empty(t, addr.HouseNumber)
	})

	t.Run("linked value uses its text", func(t *testing.T) {
		t.Parallel()

		v := woocrawl.LinkedText("Postbus 1\n9700 AA Groningen", []woocrawl.Link{{Text: "route", URL: "https://maps.example"}})

		addr := woocrawl.ParseAddress(woocrawl.AddressPostadres, v)

		assert.Equal(t, "1", addr.Postbus)
		assert.Equal(t, "Groningen", addr.Plaats)
	})
}

func TestParseAddressTable(t *testing.T) {
	t.Parallel()

	addr := woocrawl.ParseAddressTable(woocrawl.AddressBezoekadres, []woocrawl.TableEntry{
		{Key: "adres", Value: woocrawl.PlainText("Bezuidenhoutseweg 73")},
		{Key: "postcode", Value: woocrawl.PlainText("2594 AC")},
		{Key: "plaats", Value: woocrawl.PlainText("Den Haag")},
	})

	assert.Equal(t, "Bezuidenhoutseweg", addr.Street)
	assert.Equal(t, "73", addr.HouseNumber)
	assert.Equal(t, "2594 AC", addr.Postcode)
	assert.Equal(t, "Den Haag", addr.Plaats)
	assert.Equal(t, "Bezuidenhoutseweg 73\n2594 AC\nDen Haag", addr.FullAddress)
}

func TestExtractAddresses(t *testing.T) {
	t.Parallel()

	t.Run("postcode row in visiting address section", func(t *testing.T) {
		t.Parallel()

		sections := woocrawl.Sections{{
			Key:   "bezoekadres",
			Kind:  woocrawl.SectionTableData,
			Table: []woocrawl.TableEntry{{Key: "postcode", Value: woocrawl.PlainText("1234 AB Amsterdam")}},
		}}

		addrs := woocrawl.ExtractAddresses(sections)

		require.Len(t, addrs, 1)
		assert.Equal(t, woocrawl.AddressBezoekadres, addrs[0].Type)
		assert.Equal(t, "1234 AB", addrs[0].Postcode)
		assert.Equal(t, "Amsterdam", addrs[0].Plaats)
	})

	t.Run("table entries keyed by address type", func(t *testing.T) {
		t.Parallel()

		sections := woocrawl.Sections{{
			Key:  "contactgegevens",
			Kind: woocrawl.SectionTableData,
			Table: []woocrawl.TableEntry{
				{Key: "telefoon", Value: woocrawl.PlainText("070 123 4567")},
				{Key: "postadres", Value: woocrawl.PlainText("Postbus 20011\n2500 EA Den Haag")},
				{Key: "bezoekadres", Value: woocrawl.PlainText("Turfmarkt 147\n2511 DP Den Haag")},
			},
		}}

		addrs := woocrawl.ExtractAddresses(sections)

		require.Len(t, addrs, 2)
		assert.Equal(t, woocrawl.AddressPostadres, addrs[0].Type)
		assert.Equal(t, "20011", addrs[0].Postbus)
		assert.Equal(t, woocrawl.AddressBezoekadres, addrs[1].Type)
		assert.Equal(t, "147", addrs[1].HouseNumber)
	})

	t.Run("first address of a type wins", func(t *testing.T) {
		t.Parallel()

		sections := woocrawl.Sections{
			{Key: "contactgegevens", Kind: woocrawl.SectionTableData, Table: []woocrawl.TableEntry{
				{Key: "postadres", Value: woocrawl.PlainText("Postbus 1\n1000 AA Amsterdam")},
			}},
			{Key: "postadres", Kind: woocrawl.SectionTextBlock, Paragraphs: []string{"Postbus 2", "2000 BB Haarlem"}},
		}

		addrs := woocrawl.ExtractAddresses(sections)

		require.Len(t, addrs, 1)
		assert.Equal(t, "1", addrs[0].Postbus)
	})

	t.Run("no addresses", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, woocrawl.ExtractAddresses(woocrawl.Sections{{Key: "beschrijving"}}))
	})
}
