package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew_AssignsUUID(t *testing.T) {
	s := New()
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	require.False(t, s.HasToken())
	require.Equal(t, s.ID, s.Namespace())
}

func TestHasToken_IgnoresBlank(t *testing.T) {
	require.False(t, Session{ID: "a", Token: "   "}.HasToken())
	require.True(t, Session{ID: "a", Token: "jwt"}.HasToken())
}

func TestAnonymous_TrimsID(t *testing.T) {
	require.Equal(t, "abc", Anonymous("  abc ").ID)
}
