package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyDSN)
}

func TestConnectOptional_FallsBackWithoutDSN(t *testing.T) {
	db, cleanup := ConnectOptional(context.Background(), "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Nil(t, db)
	require.NotNil(t, cleanup)
	cleanup()
}
