package gjson

import (
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/tidwall/gjson"
)

// PidParser parses PID exports into organization, dossier and document
// trees.
type PidParser struct {
	// Dates parses dc_date values not in ISO format. Optional.
	Dates woocrawl.DateParser
}

// ParsePidTree parses a PID export. The export is either an object with an
// "organisaties" array, an array of organizations, or a single
// organization. Nodes without a dc_identifier are dropped and counted.
func (p *PidParser) ParsePidTree(body []byte) (*woocrawl.PidTree, int, error) {
	if !gjson.ValidBytes(body) {
		return nil, 0, woocrawl.Errorf(woocrawl.EINVALID, "invalid PID export")
	}
	root := gjson.ParseBytes(body)

	var orgs []gjson.Result
	switch {
	case root.Get("organisaties").IsArray():
		orgs = root.Get("organisaties").Array()
	case root.IsArray():
		orgs = root.Array()
	case root.IsObject():
		orgs = []gjson.Result{root}
	default:
		return nil, 0, woocrawl.Errorf(woocrawl.EINVALID, "PID export has no organizations")
	}

	tree := &woocrawl.PidTree{}
	dropped := 0
	for _, o := range orgs {
		id := firstString(o, "dc_identifier", "identifier")
		if id == "" {
			dropped++
			continue
		}
		node := woocrawl.PidOrganizationNode{
			Organization: woocrawl.PidOrganization{
				Identifier: id,
				Name:       firstString(o, "naam", "name", "dc_title"),
			},
		}
		for _, d := range o.Get("dossiers").Array() {
			dn, n, ok := p.dossier(d)
			dropped += n
			if !ok {
				dropped++
				continue
			}
			node.Dossiers = append(node.Dossiers, dn)
		}
		tree.Organizations = append(tree.Organizations, node)
	}
	return tree, dropped, nil
}

func (p *PidParser) dossier(d gjson.Result) (woocrawl.PidDossierNode, int, bool) {
	id := firstString(d, "dc_identifier", "identifier")
	if id == "" {
		return woocrawl.PidDossierNode{}, 0, false
	}
	node := woocrawl.PidDossierNode{
		Dossier: woocrawl.PidDossier{
			Identifier: id,
			Title:      firstString(d, "dc_title", "titel", "title"),
			Type:       firstString(d, "dc_type"),
			Date:       p.date(d),
		},
	}
	dropped := 0
	for _, doc := range d.Get("documenten").Array() {
		docID := firstString(doc, "dc_identifier", "identifier")
		if docID == "" {
			dropped++
			continue
		}
		node.Documents = append(node.Documents, woocrawl.PidDocument{
			Identifier: docID,
			Title:      firstString(doc, "dc_title", "titel", "title"),
			Type:       firstString(doc, "dc_type"),
			Date:       p.date(doc),
			URL:        firstString(doc, "url", "weblocatie"),
		})
	}
	return node, dropped, true
}

func (p *PidParser) date(v gjson.Result) *time.Time {
	s := firstString(v, "dc_date")
	if s == "" {
		return nil
	}
	t, ok := parseDate(p.Dates, s)
	if !ok {
		return nil
	}
	return &t
}
