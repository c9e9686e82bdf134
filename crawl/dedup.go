package crawl

import "github.com/fwojciec/woocrawl"

// Dedup removes items whose key was already seen, keeping the first
// occurrence in order. When merge is non-nil every later duplicate is
// merged into the kept item. Items with an empty key are dropped. The
// second return value lists the removed duplicates.
func Dedup[T any](items []T, key func(T) string, merge func(kept, dup T)) ([]T, []T) {
	kept := make([]T, 0, len(items))
	index := make(map[string]int, len(items))
	var dups []T
	for _, item := range items {
		k := key(item)
		if k == "" {
			dups = append(dups, item)
			continue
		}
		if i, ok := index[k]; ok {
			if merge != nil {
				merge(kept[i], item)
			}
			dups = append(dups, item)
			continue
		}
		index[k] = len(kept)
		kept = append(kept, item)
	}
	return kept, dups
}

// DedupDocuments collapses documents sharing a source URL into the first
// one, merging the extracted fields of the later ones into it.
func DedupDocuments(docs []*woocrawl.Document) ([]*woocrawl.Document, []*woocrawl.Document) {
	return Dedup(docs,
		func(d *woocrawl.Document) string { return d.SourceURL },
		func(kept, dup *woocrawl.Document) { kept.Merge(dup) },
	)
}
