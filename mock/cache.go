package mock

import "github.com/fwojciec/woocrawl"

var _ woocrawl.Cache = (*Cache)(nil)

// Cache is a mock implementation of woocrawl.Cache.
type Cache struct {
	GetFn        func(key string) (any, bool)
	SetFn        func(key string, value any)
	InvalidateFn func(prefix string)
}

func (c *Cache) Get(key string) (any, bool) {
	return c.GetFn(key)
}

func (c *Cache) Set(key string, value any) {
	c.SetFn(key, value)
}

func (c *Cache) Invalidate(prefix string) {
	c.InvalidateFn(prefix)
}
