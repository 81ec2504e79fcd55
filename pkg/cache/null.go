package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache and servers started
// without a cache, so every puzzle is parsed and written in full.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
