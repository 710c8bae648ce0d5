package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON encoded values grouped under tags. Invalidating a tag
// drops every key stored under it.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, tag, key string, v any) error
	Invalidate(ctx context.Context, tag string) error
}

var _ Cache = NopCache{}

// NopCache never stores anything. It is used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) error         { return ErrMiss }
func (NopCache) Set(context.Context, string, string, any) error { return nil }
func (NopCache) Invalidate(context.Context, string) error       { return nil }

// TagProductListings groups every cached product listing page.
const TagProductListings = "product_listings"
