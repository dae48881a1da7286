package store

import (
	"context"

	"github.com/rotisserie/eris"
)

// LayeredBackend is a memory tier in front of a durable backend. Reads
// check memory first and promote durable hits; writes go to both.
type LayeredBackend struct {
	memory  *MemoryBackend
	durable Backend
}

// NewLayeredBackend wraps durable with a memory tier
func NewLayeredBackend(memory *MemoryBackend, durable Backend) *LayeredBackend {
	return &LayeredBackend{memory: memory, durable: durable}
}

// Put stores data in both tiers
func (l *LayeredBackend) Put(ctx context.Context, bucket, id string, data []byte) error {
	if err := l.durable.Put(ctx, bucket, id, data); err != nil {
		return err
	}
	return l.memory.Put(ctx, bucket, id, data)
}

// Get checks memory first, then the durable tier
func (l *LayeredBackend) Get(ctx context.Context, bucket, id string) ([]byte, error) {
	if data, err := l.memory.Get(ctx, bucket, id); err == nil {
		return data, nil
	}

	data, err := l.durable.Get(ctx, bucket, id)
	if err != nil {
		return nil, err
	}
	// Promote to memory
	if err := l.memory.Put(ctx, bucket, id, data); err != nil {
		return nil, eris.Wrapf(err, "store: promote %s/%s", bucket, id)
	}
	return data, nil
}

// List reads the durable tier, which holds every record
func (l *LayeredBackend) List(ctx context.Context, bucket string) ([]Entry, error) {
	return l.durable.List(ctx, bucket)
}

// Reset clears the bucket in both tiers
func (l *LayeredBackend) Reset(ctx context.Context, bucket string) error {
	if err := l.memory.Reset(ctx, bucket); err != nil {
		return err
	}
	return l.durable.Reset(ctx, bucket)
}

// Close closes both tiers
func (l *LayeredBackend) Close() error {
	_ = l.memory.Close()
	return l.durable.Close()
}
