package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gradebook/pkg/idx"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.Len(t, id.String(), 26)

	parsed, err := idx.Parse(strings.ToLower(id.String()))
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestNew_Monotonic(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	a := idx.NewAt(tm)
	b := idx.NewAt(tm)

	require.NotEqual(t, a, b)
	require.Less(t, a.String(), b.String())
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
	}
}

func TestFromHeader(t *testing.T) {
	known := idx.New()
	require.Equal(t, known, idx.FromHeader(" "+known.String()+" "))

	for _, v := range []string{"", "req-1", "<script>"} {
		got := idx.FromHeader(v)
		_, err := idx.Parse(got.String())
		require.NoError(t, err, v)
		require.NotEqual(t, v, got.String())
	}
}
