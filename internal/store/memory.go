package store

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rotisserie/eris"
)

// keySep cannot appear in bucket names
const keySep = "\x00"

// MemoryBackend keeps records in process memory
type MemoryBackend struct {
	cache *gocache.Cache
}

// NewMemoryBackend creates a memory backend. A non-positive ttl keeps
// records until Reset.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	cleanup := 10 * time.Minute
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	}
	return &MemoryBackend{cache: gocache.New(ttl, cleanup)}
}

func memKey(bucket, id string) string {
	return bucket + keySep + id
}

// Put stores a copy of data
func (m *MemoryBackend) Put(ctx context.Context, bucket, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.cache.SetDefault(memKey(bucket, id), clone(data))
	return nil
}

// Get returns a copy of the stored bytes
func (m *MemoryBackend) Get(ctx context.Context, bucket, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, found := m.cache.Get(memKey(bucket, id))
	if !found {
		return nil, eris.Wrapf(ErrNotFound, "store: memory %s/%s", bucket, id)
	}
	return clone(val.([]byte)), nil
}

// List returns the bucket's unexpired records
func (m *MemoryBackend) List(ctx context.Context, bucket string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := bucket + keySep
	var entries []Entry
	for key, item := range m.cache.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entries = append(entries, Entry{ID: strings.TrimPrefix(key, prefix), Data: clone(item.Object.([]byte))})
	}
	sortEntries(entries)
	return entries, nil
}

// Reset deletes the bucket's records
func (m *MemoryBackend) Reset(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := bucket + keySep
	for key := range m.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			m.cache.Delete(key)
		}
	}
	return nil
}

// Close flushes every record
func (m *MemoryBackend) Close() error {
	m.cache.Flush()
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
