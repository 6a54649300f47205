package clockfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockfmt/clockfmt"
)

func TestCacheAcquireInternsByFormat(t *testing.T) {
	c := clockfmt.NewCache(4)

	h1, err := c.Acquire("%Y-%m-%d")
	require.NoError(t, err)
	h2, err := c.Acquire("%Y-%m-%d")
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len(), "same format string should compile once")

	c.Release(h1)
	c.Release(h2)
}

func TestCacheAcquireRejectsBadFormat(t *testing.T) {
	c := clockfmt.NewCache(4)
	_, err := c.Acquire("%Q")
	assert.Error(t, err)
}

func TestCacheReleaseToZeroStillKeepsEntryUntilGCOverflow(t *testing.T) {
	c := clockfmt.NewCache(1)

	h, err := c.Acquire("%H:%M")
	require.NoError(t, err)
	c.Release(h)

	assert.Equal(t, 1, c.Len(), "a released entry stays interned until the GC list overflows")
}

func TestCacheGCEvictsOldestOnceOverBound(t *testing.T) {
	c := clockfmt.NewCache(1)

	h1, err := c.Acquire("%Y")
	require.NoError(t, err)
	c.Release(h1)

	h2, err := c.Acquire("%m")
	require.NoError(t, err)
	c.Release(h2)

	h3, err := c.Acquire("%d")
	require.NoError(t, err)
	c.Release(h3)

	assert.Equal(t, 1, c.Len(), "GC free list bounded to GCSize should have evicted %Y by now")
}

func TestCacheReacquireDuringGCWindowPullsBackOut(t *testing.T) {
	c := clockfmt.NewCache(4)

	h1, err := c.Acquire("%Y-%m-%d")
	require.NoError(t, err)
	c.Release(h1)

	h2, err := c.Acquire("%Y-%m-%d")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	c.Release(h2)
}

func TestDefaultCacheCompileOrGetRoundTrip(t *testing.T) {
	h, err := clockfmt.CompileOrGet("%Y")
	require.NoError(t, err)
	defer clockfmt.Release(h)
}
