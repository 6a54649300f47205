package sit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockfmt/clockfmt/internal/sit"
)

func TestSearchExactAndPrefix(t *testing.T) {
	var tree sit.Tree
	tree.Build([]string{"January", "June", "July", "Jun"}, nil)

	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantVal int
		wantLen int
	}{
		{"full january", "January", true, 0, len("January")},
		{"unambiguous jul prefix of july", "Jul", true, 2, len("Jul")},
		{"jun is already covered by june and keeps june's value", "Jun", true, 1, len("Jun")},
		{"june extends jun", "June", true, 1, len("June")},
		{"case insensitive", "JANUARY", true, 0, len("JANUARY")},
		{"trailing garbage stops at match", "June2024", true, 1, len("June")},
		{"no match", "December", false, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, v, ok := tree.Search([]byte(tc.input))
			require.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				return
			}
			assert.Equal(t, tc.wantVal, v)
			assert.Equal(t, tc.wantLen, n)
		})
	}
}

func TestSearchAmbiguousPrefixFails(t *testing.T) {
	var tree sit.Tree
	// "Sat" and "Sun" share only "S" - no entry is exactly "S", and "S"
	// alone should never match since it's not a whole list entry.
	tree.Build([]string{"Saturday", "Sunday"}, nil)

	_, _, ok := tree.Search([]byte("S"))
	assert.False(t, ok, "a bare common prefix with no value of its own must not match")

	n, v, ok := tree.Search([]byte("Saturday"))
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, len("Saturday"), n)
}

func TestBuildOrderingKeepsSameValueUnambiguous(t *testing.T) {
	var tree sit.Tree
	// "May" appears as both the abbreviated and full name for this month;
	// building both forms against the same value must not mark the shared
	// node ambiguous.
	tree.Build([]string{"May", "May"}, []int{4, 4})

	n, v, ok := tree.Search([]byte("May"))
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Equal(t, len("May"), n)
}

func TestEmptyTreeNeverMatches(t *testing.T) {
	var tree sit.Tree
	_, _, ok := tree.Search([]byte("anything"))
	assert.False(t, ok)
}

func TestEmptyStringsIgnored(t *testing.T) {
	var tree sit.Tree
	tree.Build([]string{"", "April"}, nil)

	_, _, ok := tree.Search([]byte(""))
	assert.False(t, ok)

	n, v, ok := tree.Search([]byte("April"))
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, len("April"), n)
}
