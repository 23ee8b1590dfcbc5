package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telconova/portal/internal/platform/kvstore"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	require.Error(t, err)
}

func TestStore_RoundTripAndUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "local", kvstore.KeyWorkOrders)
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, s.Put(ctx, "local", kvstore.KeyWorkOrders, []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "local", kvstore.KeyWorkOrders, []byte(`[1,2]`)))

	got, err := s.Get(ctx, "local", kvstore.KeyWorkOrders)
	require.NoError(t, err)
	require.Equal(t, `[1,2]`, string(got))
}

func TestStore_DeleteSeveralKeys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "local", kvstore.KeyToken, []byte("jwt")))
	require.NoError(t, s.Put(ctx, "local", kvstore.KeyUser, []byte(`{}`)))
	require.NoError(t, s.Put(ctx, "local", kvstore.KeyClients, []byte(`[]`)))

	require.NoError(t, s.Delete(ctx, "local", kvstore.KeyToken, kvstore.KeyUser))
	require.NoError(t, s.Delete(ctx, "local"))

	_, err := s.Get(ctx, "local", kvstore.KeyToken)
	require.ErrorIs(t, err, kvstore.ErrNotFound)
	_, err = s.Get(ctx, "local", kvstore.KeyClients)
	require.NoError(t, err)
}

func TestStore_PurgeIdle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	require.NoError(t, s.Put(ctx, "old", kvstore.KeyToken, []byte("t")))
	s.now = func() time.Time { return base.Add(72 * time.Hour) }
	require.NoError(t, s.Put(ctx, "new", kvstore.KeyToken, []byte("t")))

	purged, err := s.PurgeIdle(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, err = s.Get(ctx, "new", kvstore.KeyToken)
	require.NoError(t, err)
}
