package woocrawl

// Cache memoizes lookups for a limited time. Writers call Invalidate after
// changing the underlying data so readers never see stale entries.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Invalidate(prefix string)
}
