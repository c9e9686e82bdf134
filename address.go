package woocrawl

import (
	"regexp"
	"strings"
)

// AddressType distinguishes the address kinds kept per organization.
type AddressType string

// Address types. At most one address of each type is kept per organization.
const (
	AddressPostadres   AddressType = "postadres"
	AddressBezoekadres AddressType = "bezoekadres"
)

// Address is a decomposed postal or visiting address.
type Address struct {
	Type        AddressType `json:"type"`
	Street      string      `json:"straat,omitempty"`
	HouseNumber string      `json:"huisnummer,omitempty"`
	Postbus     string      `json:"postbus,omitempty"`
	Postcode    string      `json:"postcode,omitempty"`
	Plaats      string      `json:"plaats,omitempty"`
	FullAddress string      `json:"full_address"`
}

// IsZero reports whether no address component was recognised.
func (a Address) IsZero() bool {
	return a.Street == "" && a.HouseNumber == "" && a.Postbus == "" &&
		a.Postcode == "" && a.Plaats == ""
}

var (
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>`)
	postbusRe    = regexp.MustCompile(`(?i)^postbus\s+(\d+)$`)
	postcodeRe   = regexp.MustCompile(`^(\d{4})\s?([A-Za-z]{2})(?:\s+(.+))?$`)
	houseNumRe   = regexp.MustCompile(`^(.+?)\s+(\d+(?:\s?[A-Za-z])?(?:[-/ ]\S+)?)$`)
	digitsOnlyRe = regexp.MustCompile(`\d+`)
)

// ParseAddress decomposes a free-text address value. Lines are split on
// newlines (after <br> is turned into a newline) and matched, in order,
// against the postbus pattern and the postcode+city pattern. The first
// other line is the street; for visiting addresses it is first tried as
// street plus trailing house number. FullAddress keeps the original text.
func ParseAddress(typ AddressType, v Value) Address {
	text := brRe.ReplaceAllString(v.Text, "\n")
	addr := Address{Type: typ, FullAddress: strings.TrimSpace(v.Text)}

	for _, line := range strings.Split(text, "\n") {
		line = SingleLine(line)
		if line == "" {
			continue
		}
		if m := postbusRe.FindStringSubmatch(line); m != nil {
			addr.Postbus = m[1]
			continue
		}
		if m := postcodeRe.FindStringSubmatch(line); m != nil {
			addr.Postcode = formatPostcode(m[1], m[2])
			addr.Plaats = m[3]
			continue
		}
		if addr.Street != "" {
			continue
		}
		if typ == AddressBezoekadres {
			if m := houseNumRe.FindStringSubmatch(line); m != nil {
				addr.Street = m[1]
				addr.HouseNumber = m[2]
				continue
			}
		}
		addr.Street = line
	}

	return addr
}

// ParseAddressTable decomposes an address given as labeled rows, as found
// in a section titled after the address type (e.g. a "Bezoekadres" block
// with Adres/Postcode/Plaats rows).
func ParseAddressTable(typ AddressType, entries []TableEntry) Address {
	addr := Address{Type: typ}
	var lines []string

	for _, e := range entries {
		raw := brRe.ReplaceAllString(e.Value.Text, "\n")
		text := SingleLine(raw)
		if text == "" {
			continue
		}
		lines = append(lines, text)

		switch e.Key {
		case "adres", "straat", "straatnaam", "straat_en_huisnummer":
			addr = mergeAddress(addr, ParseAddress(typ, PlainText(raw)))
		case "huisnummer":
			addr.HouseNumber = text
		case "postbus":
			addr.Postbus = digitsOnlyRe.FindString(text)
		case "postcode", "postcode_en_plaats", "postcode_plaats":
			if m := postcodeRe.FindStringSubmatch(text); m != nil {
				addr.Postcode = formatPostcode(m[1], m[2])
				if m[3] != "" {
					addr.Plaats = m[3]
				}
			} else {
				addr.Postcode = text
			}
		case "plaats", "woonplaats", "vestigingsplaats":
			addr.Plaats = text
		}
	}

	addr.FullAddress = strings.Join(lines, "\n")
	return addr
}

// ExtractAddresses collects addresses from extracted sections. Table entries
// keyed postadres/bezoekadres are parsed as free text; a section whose key
// or title names an address type is parsed as labeled rows (or as text when
// it holds paragraphs or items). The first address found for each type wins; later ones are
// ignored.
func ExtractAddresses(sections Sections) []Address {
	var addrs []Address
	seen := make(map[AddressType]bool)

	add := func(a Address) {
		if a.IsZero() || seen[a.Type] {
			return
		}
		seen[a.Type] = true
		addrs = append(addrs, a)
	}

	for _, s := range sections {
		for _, e := range s.Table {
			switch AddressType(e.Key) {
			case AddressPostadres, AddressBezoekadres:
				add(ParseAddress(AddressType(e.Key), e.Value))
			}
		}

		typ, ok := sectionAddressType(s)
		if !ok {
			continue
		}
		switch s.Kind {
		case SectionTableData:
			add(ParseAddressTable(typ, s.Table))
		case SectionTextBlock:
			add(ParseAddress(typ, PlainText(strings.Join(s.Paragraphs, "\n"))))
		case SectionListItems:
			add(ParseAddress(typ, PlainText(strings.Join(s.Items, "\n"))))
		}
	}

	return addrs
}

func sectionAddressType(s Section) (AddressType, bool) {
	for _, label := range []string{s.Key, NormalizeKey(s.Title)} {
		switch typ := AddressType(label); typ {
		case AddressPostadres, AddressBezoekadres:
			return typ, true
		}
	}
	return "", false
}

// mergeAddress fills the empty components of dst from src.
func mergeAddress(dst, src Address) Address {
	fill := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}
	fill(&dst.Street, src.Street)
	fill(&dst.HouseNumber, src.HouseNumber)
	fill(&dst.Postbus, src.Postbus)
	fill(&dst.Postcode, src.Postcode)
	fill(&dst.Plaats, src.Plaats)
	return dst
}

func formatPostcode(digits, letters string) string {
	return digits + " " + strings.ToUpper(letters)
}
