package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStore opens a private in-memory database with the schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}
