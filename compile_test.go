package clockfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsUnknownDirective(t *testing.T) {
	_, err := compile("%Q")
	assert.Error(t, err)
}

func TestCompileRejectsDanglingPercent(t *testing.T) {
	_, err := compile("%Y%")
	assert.Error(t, err)
}

func TestCompileLiteralWordAndSpace(t *testing.T) {
	prog, err := compile("%Y foo")
	require.NoError(t, err)
	require.Len(t, prog.Tokens, 3)
	assert.Equal(t, TokenDigits, prog.Tokens[0].Kind)
	assert.Equal(t, TokenSpace, prog.Tokens[1].Kind)
	assert.Equal(t, TokenLiteralWord, prog.Tokens[2].Kind)
	assert.Equal(t, "foo", prog.Tokens[2].word(prog.Format))
}

func TestCompilePercentPercentIsLiteral(t *testing.T) {
	prog, err := compile("%%")
	require.NoError(t, err)
	require.Len(t, prog.Tokens, 1)
	assert.Equal(t, TokenLiteralWord, prog.Tokens[0].Kind)
	assert.Equal(t, "%", prog.Tokens[0].word(prog.Format))
}

// TestCompileLookAheadAdjacentDigits checks the LookAhead values compiled
// for %Y%m%d: each DIGITS token reserves the min sizes of the DIGITS tokens
// after it in the same run. TestScanAdjacentDigitsLookahead in scan_test.go
// scans "20230117" against the same format.
func TestCompileLookAheadAdjacentDigits(t *testing.T) {
	prog, err := compile("%Y%m%d")
	require.NoError(t, err)
	require.Len(t, prog.Tokens, 3)

	y, m, d := prog.Tokens[0], prog.Tokens[1], prog.Tokens[2]

	assert.Equal(t, uint16(4), y.MinSize)
	assert.Equal(t, uint16(4), y.MaxSize)
	assert.Equal(t, uint16(2), y.LookAhead, "Y must reserve m's(1)+d's(1) min sizes")
	assert.Equal(t, uint16(1), m.LookAhead, "m must reserve d's(1) min size")
	assert.Equal(t, uint16(0), d.LookAhead, "last token in the run reserves nothing")
}

func TestCompileEndDistanceAccountsForTrailingLiteral(t *testing.T) {
	prog, err := compile("%Y-%m")
	require.NoError(t, err)
	require.Len(t, prog.Tokens, 3)

	y, lit, m := prog.Tokens[0], prog.Tokens[1], prog.Tokens[2]
	assert.Equal(t, TokenLiteralWord, lit.Kind)
	assert.Equal(t, "-", lit.word(prog.Format))

	assert.Equal(t, uint16(0), m.EndDistance, "nothing follows the last token")
	assert.Equal(t, uint16(1), lit.EndDistance, "m's min_size(1) follows the literal")
	assert.Equal(t, uint16(2), y.EndDistance, "the literal(1) plus m's min_size(1) follow Y")
}

func TestCompileEraDirective(t *testing.T) {
	prog, err := compile("%EE")
	require.NoError(t, err)
	require.Len(t, prog.Tokens, 1)
	assert.Equal(t, ParserEra, prog.Tokens[0].ParserID)
}

func TestCompileEraRelativeYear(t *testing.T) {
	prog, err := compile("%Ey")
	require.NoError(t, err)
	require.Len(t, prog.Tokens, 1)
	assert.Equal(t, ParserLocaleList, prog.Tokens[0].ParserID)
	assert.Equal(t, FieldYear, prog.Tokens[0].FieldOffset)
	assert.NotZero(t, prog.Tokens[0].FieldFlags&FlagYear)
}

func TestCompileWrapMapAliasesToCanonicalRow(t *testing.T) {
	// %e wraps to %d per stdWrapFrom/stdWrapTo.
	viaWrap, err := compile("%e")
	require.NoError(t, err)
	canonical, err := compile("%d")
	require.NoError(t, err)

	require.Len(t, viaWrap.Tokens, 1)
	require.Len(t, canonical.Tokens, 1)
	assert.Equal(t, canonical.Tokens[0].FieldOffset, viaWrap.Tokens[0].FieldOffset)
	assert.Equal(t, canonical.Tokens[0].MinSize, viaWrap.Tokens[0].MinSize)
	assert.Equal(t, canonical.Tokens[0].MaxSize, viaWrap.Tokens[0].MaxSize)
}

func TestCompileNumericWeekdayDistinctFromNamedWeekday(t *testing.T) {
	numeric, err := compile("%u")
	require.NoError(t, err)
	named, err := compile("%a")
	require.NoError(t, err)

	require.Len(t, numeric.Tokens, 1)
	require.Len(t, named.Tokens, 1)
	assert.Equal(t, ParserWeekday, numeric.Tokens[0].ParserID)
	assert.Equal(t, ParserWeekday, named.Tokens[0].ParserID)
	assert.Equal(t, uint32(weekdayModeNumeric), numeric.Tokens[0].ParserData)
	assert.NotEqual(t, uint32(weekdayModeNumeric), named.Tokens[0].ParserData)
}
