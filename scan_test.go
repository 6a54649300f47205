package clockfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockfmt/clockfmt"
)

func scanFormat(t *testing.T, format, input string, opts clockfmt.Options) clockfmt.DateFields {
	t.Helper()
	h, err := clockfmt.CompileOrGet(format)
	require.NoError(t, err)
	defer clockfmt.Release(h)

	fields, err := clockfmt.Scan(h, input, opts, clockfmt.MondayCatalog{})
	require.NoError(t, err)
	return fields
}

// Scenario 1: two-digit year with default century switch.
func TestScanTwoDigitYearDefaultSwitch(t *testing.T) {
	opts := clockfmt.DefaultOptions()
	opts.CenturySwitch = 38
	opts.CurrentCenturyBase = 2000

	f := scanFormat(t, "%y-%m-%d", "99-06-15", opts)
	assert.EqualValues(t, 1999, f.Year)
	assert.EqualValues(t, 6, f.Month)
	assert.EqualValues(t, 15, f.DayOfMonth)
}

// Scenario 2: adjacent digit directives. %Y reads exactly four digits (its
// min and max size), and %m's lookahead holds back one byte for %d, so %m
// stops after "01".
func TestScanAdjacentDigitsLookahead(t *testing.T) {
	f := scanFormat(t, "%Y%m%d", "20230117", clockfmt.DefaultOptions())
	assert.EqualValues(t, 2023, f.Year)
	assert.EqualValues(t, 1, f.Month)
	assert.EqualValues(t, 17, f.DayOfMonth)
}

// Scenario 3: greedy locale-word search prefers the longer entry.
func TestScanLocaleMonthGreedyMatch(t *testing.T) {
	catalog := clockfmt.StaticCatalog{
		"": map[string][]string{
			clockfmt.KeyMonthsFull: {
				"January", "February", "March", "April", "May", "June",
				"July", "August", "September", "October", "November", "December",
			},
			clockfmt.KeyMonthsAbbrev: {
				"Jan", "Feb", "Mar", "Apr", "May", "Jun",
				"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
			},
		},
	}

	h, err := clockfmt.CompileOrGet("%b %d")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	f, err := clockfmt.Scan(h, "March 5", clockfmt.DefaultOptions(), catalog)
	require.NoError(t, err)
	assert.EqualValues(t, 3, f.Month)
	assert.EqualValues(t, 5, f.DayOfMonth)
}

// Scenario 4: an ambiguous prefix with no entry of its own fails to match.
func TestScanAmbiguousPrefixFails(t *testing.T) {
	catalog := clockfmt.StaticCatalog{
		"": map[string][]string{
			clockfmt.KeyMonthsFull:   {"Juli", "Juni"},
			clockfmt.KeyMonthsAbbrev: {"Jun", "Jul"},
		},
	}

	h, err := clockfmt.CompileOrGet("%b")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	_, err = clockfmt.Scan(h, "Juz", clockfmt.DefaultOptions(), catalog)
	require.Error(t, err)
	ce, ok := clockfmt.AsClockError(err)
	require.True(t, ok)
	assert.Equal(t, clockfmt.KindBadInputString, ce.Kind)
}

// Scenario 5: AM/PM with a 12-hour clock assembles second_of_day via
// ToSeconds, where 12 PM stays noon rather than becoming hour 24.
func TestScanTwelveHourClockWithMeridian(t *testing.T) {
	f := scanFormat(t, "%I:%M %p", "12:30 PM", clockfmt.DefaultOptions())
	assert.EqualValues(t, 45000, f.SecondOfDay)
}

// Scenario 6: a DIGITS token whose accumulator direction reverses fails
// with dateTooLarge rather than silently wrapping.
func TestScanOverflowRejected(t *testing.T) {
	h, err := clockfmt.CompileOrGet("%s")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	_, err = clockfmt.Scan(h, "99999999999999999999", clockfmt.DefaultOptions(), nil)
	require.Error(t, err)
	ce, ok := clockfmt.AsClockError(err)
	require.True(t, ok)
	assert.Equal(t, clockfmt.KindDateTooLarge, ce.Kind)
}

func TestScanRejectsTrailingInput(t *testing.T) {
	h, err := clockfmt.CompileOrGet("%Y")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	_, err = clockfmt.Scan(h, "2024 garbage", clockfmt.DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestScanLiteralWordMustMatchExactly(t *testing.T) {
	h, err := clockfmt.CompileOrGet("%Y-W%V")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	_, err = clockfmt.Scan(h, "2024-X03", clockfmt.DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestScanDayOfYearAssemblesJulianDay(t *testing.T) {
	f := scanFormat(t, "%Y-%j", "2024-060", clockfmt.DefaultOptions())
	// 2024 is a leap year; day 60 is Feb 29, 19782 days after 1970-01-01.
	assert.EqualValues(t, 2024, f.Year)
	assert.EqualValues(t, 60, f.DayOfYear)
	assert.EqualValues(t, 19782, f.JulianDay)
}

func TestScanStrictRequiresWhitespace(t *testing.T) {
	opts := clockfmt.DefaultOptions()
	opts.Strict = true

	h, err := clockfmt.CompileOrGet("%Y %m")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	_, err = clockfmt.Scan(h, "2024", opts, nil)
	assert.Error(t, err, "strict mode requires the mandatory space to actually be present")
}

func TestScanNumericWeekdayZeroNormalizesToSeven(t *testing.T) {
	f := scanFormat(t, "%u", "0", clockfmt.DefaultOptions())
	assert.EqualValues(t, 7, f.DayOfWeek)
}

func TestScanPostValidateCatchesInconsistentWeekday(t *testing.T) {
	opts := clockfmt.DefaultOptions()
	opts.Validate = true
	opts.PostValidate = clockfmt.CheckDayOfWeek

	h, err := clockfmt.CompileOrGet("%Y-%m-%d %u")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	// 2024-01-01 was a Monday (weekday 1), not a Thursday (weekday 4).
	_, err = clockfmt.Scan(h, "2024-01-01 4", opts, nil)
	require.Error(t, err)
	ce, ok := clockfmt.AsClockError(err)
	require.True(t, ok)
	assert.Equal(t, clockfmt.KindBadDayOfWeek, ce.Kind)
}

func TestScanPostValidateAcceptsConsistentWeekday(t *testing.T) {
	opts := clockfmt.DefaultOptions()
	opts.Validate = true
	opts.PostValidate = clockfmt.CheckDayOfWeek

	h, err := clockfmt.CompileOrGet("%Y-%m-%d %u")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	f, err := clockfmt.Scan(h, "2024-01-01 1", opts, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.DayOfWeek)
}

func TestScanValidateWithoutHookIsANoOp(t *testing.T) {
	opts := clockfmt.DefaultOptions()
	opts.Validate = true

	h, err := clockfmt.CompileOrGet("%Y-%m-%d %u")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	_, err = clockfmt.Scan(h, "2024-01-01 4", opts, nil)
	assert.NoError(t, err, "Validate without a PostValidate hook must not fail a scan")
}

func TestScanNumericWeekdayRejectsOutOfRange(t *testing.T) {
	h, err := clockfmt.CompileOrGet("%u")
	require.NoError(t, err)
	defer clockfmt.Release(h)

	_, err = clockfmt.Scan(h, "8", clockfmt.DefaultOptions(), nil)
	require.Error(t, err)
	ce, ok := clockfmt.AsClockError(err)
	require.True(t, ok)
	assert.Equal(t, clockfmt.KindBadDayOfWeek, ce.Kind)
}
