package service

import (
	"context"
)

// Cache is an interface that abstracts the per-cycle response cache.
// Values are opaque JSON documents; Get returns models.ErrCacheMiss for an
// absent or expired key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
