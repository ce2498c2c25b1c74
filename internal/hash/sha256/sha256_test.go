package sha256

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashIsDeterministic(t *testing.T) {
	h := New()
	a, err := h.Hash([]byte("hello"))
	require.NoError(t, err)
	b, err := h.Hash([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestDigestDependsOnAllParts(t *testing.T) {
	h := New()
	ts := time.Date(2024, 12, 24, 9, 0, 0, 0, time.UTC)

	base, err := h.Digest("встреча завтра", ts, "mospolytech")
	require.NoError(t, err)

	same, err := h.Digest("встреча завтра", ts, "mospolytech")
	require.NoError(t, err)
	require.Equal(t, base, same)

	otherText, err := h.Digest("встреча сегодня", ts, "mospolytech")
	require.NoError(t, err)
	require.NotEqual(t, base, otherText)

	otherTime, err := h.Digest("встреча завтра", ts.Add(time.Minute), "mospolytech")
	require.NoError(t, err)
	require.NotEqual(t, base, otherTime)

	otherChannel, err := h.Digest("встреча завтра", ts, "mospolymedia")
	require.NoError(t, err)
	require.NotEqual(t, base, otherChannel)
}
