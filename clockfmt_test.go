package clockfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockfmt/clockfmt"
)

func TestDefaultOptionsSetsCenturySwitch(t *testing.T) {
	opts := clockfmt.DefaultOptions()
	assert.EqualValues(t, clockfmt.DefaultCenturySwitch, opts.CenturySwitch)
}

func TestScanWithZeroValueHandleFails(t *testing.T) {
	_, err := clockfmt.Scan(clockfmt.Handle{}, "anything", clockfmt.DefaultOptions(), nil)
	require.Error(t, err)
	ce, ok := clockfmt.AsClockError(err)
	require.True(t, ok)
	assert.Equal(t, clockfmt.KindBadInputString, ce.Kind)
}

func TestBuildIndexTreeSearchesLongestMatchFirst(t *testing.T) {
	tree := clockfmt.BuildIndexTree(
		[]string{"January", "February"},
		[]string{"Jan", "Feb"},
	)

	n, _, ok := tree.Search([]byte("January 2024"))
	require.True(t, ok)
	assert.Equal(t, len("January"), n)
}

func TestSetupTimezoneReceivesParsedDesignator(t *testing.T) {
	var seen string
	opts := clockfmt.DefaultOptions()
	opts.SetupTimezone = func(zoneString string) (clockfmt.ZoneHandle, error) {
		seen = zoneString
		return clockfmt.ZoneHandle{Name: zoneString, OffsetSeconds: 19800, HasOffset: true}, nil
	}

	h, err := clockfmt.CompileOrGet("%z")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	f, err := clockfmt.Scan(h, "+0530", opts, nil)
	require.NoError(t, err)
	assert.Equal(t, "+0530", seen)
	assert.EqualValues(t, 19800, f.TZOffsetSeconds)
}
