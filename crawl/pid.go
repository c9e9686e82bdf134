package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/woocrawl"
)

// PidImporter stores a parsed PID tree. Parents are stored before their
// children so every child carries its parent's ID; a child whose parent
// could not be stored is counted as an error and skipped.
type PidImporter struct {
	Pids   woocrawl.PidService
	Logger *slog.Logger
}

// Import upserts every organization, dossier and document in tree.
// Dossiers repeated within one organization and documents repeated within
// one dossier are stored once, first wins.
func (i *PidImporter) Import(ctx context.Context, tree *woocrawl.PidTree) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	logger := discardLogger(i.Logger)
	item := context.WithoutCancel(ctx)

	orgs, dups := Dedup(tree.Organizations,
		func(n woocrawl.PidOrganizationNode) string { return n.Organization.Identifier },
		nil,
	)
	i.skipDuplicates(len(dups), "organization", &stats, logger)

	for _, node := range orgs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		org := node.Organization
		stats.Processed++
		if err := Upsert(item, &org, i.Pids.UpsertPidOrganization, &stats, logger); err != nil {
			logger.Error("upsert pid organization", "identifier", org.Identifier, "err", err)
			continue
		}

		dossiers, dups := Dedup(node.Dossiers,
			func(n woocrawl.PidDossierNode) string { return n.Dossier.Identifier },
			nil,
		)
		i.skipDuplicates(len(dups), "dossier", &stats, logger)

		for _, dnode := range dossiers {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			dossier := dnode.Dossier
			dossier.OrganizationID = org.ID
			stats.Processed++
			if err := Upsert(item, &dossier, i.Pids.UpsertPidDossier, &stats, logger); err != nil {
				logger.Error("upsert pid dossier", "identifier", dossier.Identifier, "err", err)
				continue
			}

			docs, dups := Dedup(dnode.Documents,
				func(d woocrawl.PidDocument) string { return d.Identifier },
				nil,
			)
			i.skipDuplicates(len(dups), "document", &stats, logger)

			for _, doc := range docs {
				doc.DossierID = dossier.ID
				stats.Processed++
				if err := Upsert(item, &doc, i.Pids.UpsertPidDocument, &stats, logger); err != nil {
					logger.Error("upsert pid document", "identifier", doc.Identifier, "err", err)
				}
			}
		}
	}
	return stats, ctx.Err()
}

func (i *PidImporter) skipDuplicates(n int, kind string, stats *woocrawl.BatchStats, logger *slog.Logger) {
	if n == 0 {
		return
	}
	logger.Info("skip duplicates", "kind", kind, "count", n)
	stats.Skipped += n
}
