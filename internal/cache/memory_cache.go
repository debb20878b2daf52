package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the in-process cache used when no Redis is configured.
// Expired entries are dropped lazily on read and on purge.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

// NewMemoryCache creates an in-memory cache. A zero ttl keeps entries until
// they are purged.
func NewMemoryCache(ttl time.Duration, logger zerolog.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.With().Str("component", "memory_cache").Logger(),
	}
}

// Set stores a copy of value under key
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	return nil
}

// Get returns a copy of the value stored under key, or models.ErrCacheMiss
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, models.ErrCacheMiss
	}
	if c.expired(entry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, models.ErrCacheMiss
	}

	return append([]byte(nil), entry.value...), nil
}

// DeletePrefix removes every key starting with prefix, together with any
// expired entry, and returns how many prefixed keys were deleted
func (c *MemoryCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	deleted := 0
	for key, entry := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			deleted++
			continue
		}
		if c.expired(entry) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	c.logger.Debug().
		Str("prefix", prefix).
		Int("deleted", deleted).
		Msg("purged cached responses")

	return deleted, nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ping always succeeds
func (c *MemoryCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close drops all entries
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt)
}
