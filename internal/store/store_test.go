package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/esgtrace/internal/model"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(context.Background()))
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Backend{
		"memory":  NewMemoryBackend(0),
		"disk":    NewDiskBackend(t.TempDir()),
		"layered": NewLayeredBackend(NewMemoryBackend(time.Hour), NewDiskBackend(t.TempDir())),
		"sqlite":  sqlite,
	}
}

func TestBackends(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Put(ctx, "claims", "b", []byte(`{"n":2}`)))
			require.NoError(t, b.Put(ctx, "claims", "a/1", []byte(`{"n":1}`)))
			require.NoError(t, b.Put(ctx, "scores", "a/1", []byte(`{"n":9}`)))

			data, err := b.Get(ctx, "claims", "a/1")
			require.NoError(t, err)
			assert.JSONEq(t, `{"n":1}`, string(data))

			// Overwrite
			require.NoError(t, b.Put(ctx, "claims", "b", []byte(`{"n":3}`)))

			entries, err := b.List(ctx, "claims")
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "a/1", entries[0].ID)
			assert.Equal(t, "b", entries[1].ID)
			assert.JSONEq(t, `{"n":3}`, string(entries[1].Data))

			_, err = b.Get(ctx, "claims", "missing")
			assert.True(t, eris.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

			require.NoError(t, b.Reset(ctx, "claims"))
			entries, err = b.List(ctx, "claims")
			require.NoError(t, err)
			assert.Empty(t, entries)

			_, err = b.Get(ctx, "claims", "a/1")
			assert.True(t, eris.Is(err, ErrNotFound))

			// Other buckets survive a reset
			_, err = b.Get(ctx, "scores", "a/1")
			assert.NoError(t, err)
		})
	}
}

func TestCollection(t *testing.T) {
	ctx := context.Background()
	claims := NewCollection[model.Claim](NewMemoryBackend(0), BucketClaims)

	c1 := model.Claim{ClaimID: "claim_acme_2", CompanyID: "acme", NumericValue: model.Float(30), Unit: "percent", Sources: []string{}}
	c2 := model.Claim{ClaimID: "claim_acme_1", CompanyID: "acme", Sources: []string{"report"}}

	require.NoError(t, claims.Put(ctx, c1.ClaimID, c1))
	require.NoError(t, claims.Put(ctx, c2.ClaimID, c2))

	got, err := claims.Get(ctx, c1.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, c1, got)

	all, err := claims.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "claim_acme_1", all[0].ClaimID)

	assert.Error(t, claims.Put(ctx, "", c1))

	require.NoError(t, claims.Reset(ctx))
	all, err = claims.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLayeredBackend_PromotesFromDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, NewDiskBackend(dir).Put(ctx, "claims", "c1", []byte(`{}`)))

	mem := NewMemoryBackend(time.Hour)
	layered := NewLayeredBackend(mem, NewDiskBackend(dir))

	_, err := mem.Get(ctx, "claims", "c1")
	require.True(t, eris.Is(err, ErrNotFound))

	_, err = layered.Get(ctx, "claims", "c1")
	require.NoError(t, err)

	_, err = mem.Get(ctx, "claims", "c1")
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{DriverMemory, DriverDisk, DriverLayered, DriverSQLite} {
		b, err := Open(ctx, model.StoreConfig{
			Driver: driver,
			Dir:    filepath.Join(dir, "records"),
			DSN:    filepath.Join(dir, "db", "esgtrace.db"),
			TTL:    time.Minute,
		})
		require.NoError(t, err, driver)
		require.NoError(t, b.Put(ctx, "claims", "c1", []byte(`{}`)), driver)
		require.NoError(t, b.Close(), driver)
	}

	_, err := Open(ctx, model.StoreConfig{Driver: "redis"})
	assert.Error(t, err)
}
