// Package storage keeps a local pebble cache of raw record accounts.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/gagliardetto/solana-go"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/snsrecords/pkg/records"
)

// Entries are stored as a 20-byte ksuid stamp followed by the account data.
// The stamp's timestamp decides expiry.
const stampLen = 20

var keyPrefix = []byte("acct/")

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("storage: cache miss")

// Config holds configuration for a Cache.
type Config struct {
	TTL    time.Duration // 0 keeps entries until deleted
	Logger *zap.Logger
}

// Cache is a persistent account cache.
type Cache struct {
	db     *pebble.DB
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// Open opens or creates the cache at path.
func Open(path string, config Config) (*Cache, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Cache{db: db, ttl: config.TTL, now: time.Now, logger: config.Logger}, nil
}

func cacheKey(key solana.PublicKey) []byte {
	return append(append([]byte{}, keyPrefix...), key.Bytes()...)
}

// Get returns the cached data of key. The returned slice is owned by the caller.
func (c *Cache) Get(key solana.PublicKey) ([]byte, error) {
	value, closer, err := c.db.Get(cacheKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	if len(value) < stampLen {
		return nil, fmt.Errorf("cache entry %s: %d bytes is shorter than its stamp", key, len(value))
	}
	stamp, err := ksuid.FromBytes(value[:stampLen])
	if err != nil {
		return nil, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if c.expired(stamp) {
		return nil, ErrMiss
	}

	data := make([]byte, len(value)-stampLen)
	copy(data, value[stampLen:])
	return data, nil
}

// Put stores data under key, stamped with the current time.
func (c *Cache) Put(key solana.PublicKey, data []byte) error {
	stamp, err := ksuid.NewRandomWithTime(c.now())
	if err != nil {
		return err
	}
	value := make([]byte, 0, stampLen+len(data))
	value = append(value, stamp.Bytes()...)
	value = append(value, data...)
	return c.db.Set(cacheKey(key), value, pebble.NoSync)
}

// Delete removes key from the cache.
func (c *Cache) Delete(key solana.PublicKey) error {
	return c.db.Delete(cacheKey(key), pebble.NoSync)
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) expired(stamp ksuid.KSUID) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(stamp.Time()) > c.ttl
}

// CachingFetcher is a read-through records.AccountFetcher. Absent accounts
// are never cached.
type CachingFetcher struct {
	next   records.AccountFetcher
	cache  *Cache
	logger *zap.Logger
}

var _ records.AccountFetcher = (*CachingFetcher)(nil)

// NewCachingFetcher wraps next with cache.
func NewCachingFetcher(next records.AccountFetcher, cache *Cache) *CachingFetcher {
	return &CachingFetcher{next: next, cache: cache, logger: cache.logger}
}

// GetAccountData serves key from the cache, falling back to the wrapped fetcher.
func (f *CachingFetcher) GetAccountData(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	data, err := f.cache.Get(key)
	if err == nil {
		f.logger.Debug("cache hit", zap.Stringer("key", key))
		return data, nil
	}
	if !errors.Is(err, ErrMiss) {
		f.logger.Warn("cache read failed", zap.Stringer("key", key), zap.Error(err))
	}

	data, err = f.next.GetAccountData(ctx, key)
	if err != nil {
		return nil, err
	}
	f.store(key, data)
	return data, nil
}

// GetMultipleAccountData serves what it can from the cache and fetches the
// remaining keys in one call to the wrapped fetcher.
func (f *CachingFetcher) GetMultipleAccountData(ctx context.Context, keys []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, len(keys))
	var missing []solana.PublicKey
	var positions []int
	for i, k := range keys {
		data, err := f.cache.Get(k)
		if err == nil {
			out[i] = data
			continue
		}
		missing = append(missing, k)
		positions = append(positions, i)
	}

	f.logger.Debug("cache lookup",
		zap.Int("requested", len(keys)),
		zap.Int("hits", len(keys)-len(missing)))
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := f.next.GetMultipleAccountData(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missing) {
		return nil, fmt.Errorf("fetch %d accounts: got %d entries", len(missing), len(fetched))
	}
	for j, data := range fetched {
		out[positions[j]] = data
		if len(data) > 0 {
			f.store(missing[j], data)
		}
	}
	return out, nil
}

func (f *CachingFetcher) store(key solana.PublicKey, data []byte) {
	if err := f.cache.Put(key, data); err != nil {
		f.logger.Warn("cache write failed", zap.Stringer("key", key), zap.Error(err))
	}
}
