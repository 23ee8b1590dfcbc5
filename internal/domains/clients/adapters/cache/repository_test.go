package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/platform/kvstore"
	"github.com/telconova/portal/internal/platform/kvstore/memory"
	"github.com/telconova/portal/internal/shared/jsonval"
)

func TestRepository_ReplaceThenLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewRepository(store, nil)

	empty, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, empty)

	clients := []domain.Client{{ID: jsonval.Text("c-1"), Name: "Ana", Identification: "123456"}}
	require.NoError(t, repo.Replace(ctx, "s1", clients))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Ana", got[0].Name)
	require.True(t, got[0].ID.SameID(jsonval.Text("c-1")))

	raw, err := store.Get(ctx, "s1", kvstore.KeyClients)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"identification":"123456"`)
}
