package woocrawl

// RelationType distinguishes organizational relations.
type RelationType string

// Relation types.
const (
	RelationFunctie RelationType = "functie"
	RelationParent  RelationType = "parent"
)

// RelatieTypeListItem is the relatie_type of relations taken from list items.
const RelatieTypeListItem = "list_item"

// Relation is an organizational relation extracted from a detail page.
// OrganizationID links a parent relation to the stored organization of the
// same name, when there is one.
type Relation struct {
	Type           RelationType `json:"type"`
	RelatieType    string       `json:"relatie_type"`
	Name           string       `json:"name"`
	URL            string       `json:"url,omitempty"`
	OrganizationID string       `json:"organization_id,omitempty"`
}

// ExtractRelations collects relations from extracted sections. Every plain
// text table entry of the functions section becomes a functie relation
// keyed by its label, every list item a functie relation of type
// list_item, and the valt_onder entry of the organization details section
// becomes the single parent relation. Relations are not deduplicated; the
// owning organization replaces its relation set as a whole.
func ExtractRelations(sections Sections) []Relation {
	var rels []Relation

	functies := sections.Get(SectionFunctiesOrganisatie)
	for _, e := range functies.Table {
		if e.Value.IsLinked() {
			continue
		}
		rels = append(rels, Relation{
			Type:        RelationFunctie,
			RelatieType: e.Key,
			Name:        SingleLine(e.Value.Text),
		})
	}
	for _, item := range functies.Items {
		rels = append(rels, Relation{
			Type:        RelationFunctie,
			RelatieType: RelatieTypeListItem,
			Name:        SingleLine(item),
		})
	}

	if v, ok := sections.Get(SectionOrganisatiegegevens).Lookup("valt_onder"); ok && v.Text != "" {
		rel := Relation{
			Type:        RelationParent,
			RelatieType: "valt_onder",
			Name:        SingleLine(v.Text),
		}
		if link, ok := v.FirstLink(); ok {
			rel.URL = link.URL
		}
		rels = append(rels, rel)
	}

	return rels
}
