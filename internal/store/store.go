// Package store persists pipeline records as JSON documents keyed by bucket
// and id. Backends only move bytes; Collection adds typed encoding.
package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned by Get when no record exists under the id
var ErrNotFound = eris.New("record not found")

// Buckets used by the pipeline
const (
	BucketClaims        = "claims"
	BucketVerifications = "verification"
	BucketScores        = "scores"
	BucketTCIHistory    = "tci_history"
	BucketExplanations  = "explanations"
)

// Entry is one stored record
type Entry struct {
	ID   string
	Data []byte
}

// Backend is a bucketed key-value store
type Backend interface {
	Put(ctx context.Context, bucket, id string, data []byte) error
	Get(ctx context.Context, bucket, id string) ([]byte, error)
	// List returns every record in bucket sorted by id
	List(ctx context.Context, bucket string) ([]Entry, error)
	// Reset removes every record in bucket
	Reset(ctx context.Context, bucket string) error
	Close() error
}

// Collection is a typed view over one bucket
type Collection[T any] struct {
	backend Backend
	bucket  string
}

// NewCollection binds T to bucket in backend
func NewCollection[T any](backend Backend, bucket string) *Collection[T] {
	return &Collection[T]{backend: backend, bucket: bucket}
}

// Put stores rec under id, replacing any previous record
func (c *Collection[T]) Put(ctx context.Context, id string, rec T) error {
	if id == "" {
		return eris.Errorf("store: %s: empty id", c.bucket)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "store: marshal %s/%s", c.bucket, id)
	}
	return c.backend.Put(ctx, c.bucket, id, data)
}

// Get loads the record stored under id
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	data, err := c.backend.Get(ctx, c.bucket, id)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, eris.Wrapf(err, "store: decode %s/%s", c.bucket, id)
	}
	return rec, nil
}

// ListAll loads every record in the bucket, ordered by id
func (c *Collection[T]) ListAll(ctx context.Context) ([]T, error) {
	entries, err := c.backend.List(ctx, c.bucket)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var rec T
		if err := json.Unmarshal(e.Data, &rec); err != nil {
			return nil, eris.Wrapf(err, "store: decode %s/%s", c.bucket, e.ID)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Reset empties the bucket
func (c *Collection[T]) Reset(ctx context.Context) error {
	return c.backend.Reset(ctx, c.bucket)
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
