package cache

//go:generate mockgen -source=cache.go -destination=mock_cache.go -package=cache

import (
	"context"
	"strconv"
	"time"
)

// Cache stores JSON encoded values under string keys. Keys that readers
// can race writers on are stamped with a generation: readers look up
// Version first and store under Versioned, writers call Invalidate after
// committing. A value filled from a read that predates the write lands
// under an old generation and is never read again.
type Cache interface {
	// GetJSON decodes the value stored under key into dest. It reports false
	// when the key does not exist.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	// Version returns the current generation of key, 0 before the first
	// invalidation.
	Version(ctx context.Context, key string) (int64, error)
	// Invalidate moves every key to its next generation.
	Invalidate(ctx context.Context, keys ...string) error
}

// SellerKey is the key of a seller's seller-with-books view.
func SellerKey(id int64) string {
	return "seller:" + strconv.FormatInt(id, 10) + ":books"
}

// Versioned is the key holding generation version of key.
func Versioned(key string, version int64) string {
	return key + ":v" + strconv.FormatInt(version, 10)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)          { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Version(context.Context, string) (int64, error)             { return 0, nil }
func (Noop) Invalidate(context.Context, ...string) error                { return nil }
