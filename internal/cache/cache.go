package cache

import (
	"context"
	"time"
)

// Cache is a read-through JSON cache for report and question-bank reads.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Noop satisfies Cache without storing anything, for deployments running
// without Redis and for tests.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Del(context.Context, ...string) error                      { return nil }
