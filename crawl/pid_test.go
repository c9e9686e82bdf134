package crawl_test

import (
	"context"
	"testing"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
	"github.com/fwojciec/woocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPidImporter_Import(t *testing.T) {
	t.Parallel()

	t.Run("stores parents before children with their IDs", func(t *testing.T) {
		t.Parallel()

		tree := &woocrawl.PidTree{Organizations: []woocrawl.PidOrganizationNode{{
			Organization: woocrawl.PidOrganization{Identifier: "gm0363", Name: "Gemeente Amsterdam"},
			Dossiers: []woocrawl.PidDossierNode{
				{
					Dossier: woocrawl.PidDossier{Identifier: "D-1", Title: "Woo-verzoek parkeren"},
					Documents: []woocrawl.PidDocument{
						{Identifier: "DOC-1", Title: "Besluit"},
						{Identifier: "DOC-2", Title: "Inventarislijst"},
						{Identifier: "DOC-1", Title: "Besluit (kopie)"},
					},
				},
				{Dossier: woocrawl.PidDossier{Identifier: "D-1", Title: "Dubbel"}},
			},
		}}}

		var dossiers []woocrawl.PidDossier
		var documents []woocrawl.PidDocument
		pids := &mock.PidService{
			UpsertPidOrganizationFn: func(_ context.Context, org *woocrawl.PidOrganization) (bool, error) {
				org.ID = "org-1"
				return true, nil
			},
			UpsertPidDossierFn: func(_ context.Context, d *woocrawl.PidDossier) (bool, error) {
				d.ID = "dossier-" + d.Identifier
				dossiers = append(dossiers, *d)
				return false, nil
			},
			UpsertPidDocumentFn: func(_ context.Context, d *woocrawl.PidDocument) (bool, error) {
				documents = append(documents, *d)
				return true, nil
			},
		}

		importer := &crawl.PidImporter{Pids: pids}

		stats, err := importer.Import(context.Background(), tree)

		require.NoError(t, err)
		require.Len(t, dossiers, 1)
		assert.Equal(t, "org-1", dossiers[0].OrganizationID)
		assert.Equal(t, "Woo-verzoek parkeren", dossiers[0].Title)
		require.Len(t, documents, 2)
		assert.Equal(t, "dossier-D-1", documents[0].DossierID)
		assert.Equal(t, "Besluit", documents[0].Title)
		assert.Equal(t, 4, stats.Processed)
		assert.Equal(t, 3, stats.Created)
		assert.Equal(t, 1, stats.Updated)
		assert.Equal(t, 2, stats.Skipped)
	})

	t.Run("skips children of a parent that could not be stored", func(t *testing.T) {
		t.Parallel()

		tree := &woocrawl.PidTree{Organizations: []woocrawl.PidOrganizationNode{{
			Organization: woocrawl.PidOrganization{Identifier: "gm0363"},
			Dossiers:     []woocrawl.PidDossierNode{{Dossier: woocrawl.PidDossier{Identifier: "D-1"}}},
		}}}
		pids := &mock.PidService{
			UpsertPidOrganizationFn: func(context.Context, *woocrawl.PidOrganization) (bool, error) {
				return false, woocrawl.Errorf(woocrawl.EINVALID, "organization name required")
			},
			UpsertPidDossierFn: func(context.Context, *woocrawl.PidDossier) (bool, error) {
				t.Fatal("dossier must not be stored")
				return false, nil
			},
		}

		importer := &crawl.PidImporter{Pids: pids, Logger: discard()}

		stats, err := importer.Import(context.Background(), tree)

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Errors)
		assert.Equal(t, 1, stats.Processed)
	})
}
