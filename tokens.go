package clockfmt

// TokenKind discriminates the four shapes a compiled scan token can take.
type TokenKind int

const (
	TokenDigits TokenKind = iota
	TokenParser
	TokenSpace
	TokenLiteralWord
)

// ParserKind selects which semantic sub-parser a TokenParser token
// dispatches to. Kept as an enum rather than a function value so the
// directive table stays a flat, trivially copyable slice of structs.
type ParserKind int

const (
	ParserNone ParserKind = iota
	ParserMonth
	ParserWeekday
	ParserAMPM
	ParserEra
	ParserLocaleList
	ParserTimezone
)

// FieldOffset names which DateFields member a token writes to. A plain
// enum switched over in one place (writeField in scan.go) stands in for
// the source's offsetof-based field addressing.
type FieldOffset int

const (
	FieldNone FieldOffset = iota
	FieldYear
	FieldMonth
	FieldDayOfMonth
	FieldDayOfYear
	FieldISO8601Year
	FieldISO8601Week
	FieldHour
	FieldMinute
	FieldSecond
	FieldCentury
	FieldLocalSeconds
	FieldJulianDay
	FieldDayOfWeek
)

// MaxSize is the sentinel meaning "unbounded" for a DIGITS token's
// MaxSize, matching the source's 0xFFFF.
const MaxSize = 0xFFFF

// ScanToken is one compiled step of a ScanProgram.
type ScanToken struct {
	Kind TokenKind

	FieldFlags Flag
	ClearFlags Flag

	MinSize uint16
	MaxSize uint16

	FieldOffset FieldOffset

	ParserID   ParserKind
	ParserData uint32

	WordStart int
	WordEnd   int

	EndDistance uint16
	LookAhead   uint16
}

func (t *ScanToken) word(format string) string { return format[t.WordStart:t.WordEnd] }

// ScanProgram is a compiled format string: an ordered token sequence plus
// the bookkeeping the intern cache needs. ExternalRefCount is only ever
// touched while the owning Cache's mutex is held — see cache.go.
type ScanProgram struct {
	Format string
	Tokens []ScanToken

	MandatorySpaceCount uint32

	ExternalRefCount uint32
	inGC             bool
}

type directiveRow struct {
	kind        TokenKind
	fieldFlags  Flag
	clearFlags  Flag
	minSize     uint16
	maxSize     uint16
	fieldOffset FieldOffset
	parserID    ParserKind
	parserData  uint32
}

// Standard directive table (§4.4): indexed by directive character. The
// index string and row slice are kept in lockstep the way the source's
// ScnSTokenMapIndex/ScnSTokenMap pair are.
//
// %u and %w get their own rows rather than wrapping to %a: unlike the
// source's raw byte aliasing, ParserWeekday here needs to know whether a
// directive names a numeric weekday (read one ASCII digit) or a weekday
// name (search the SIT) — weekdayModeNumeric in parserData carries that.
const stdTokenMapIndex = "dmbyYHMSpJjCgGVazsuw"

var stdTokenMap = []directiveRow{
	{kind: TokenDigits, fieldFlags: FlagDayOfMonth, minSize: 1, maxSize: 2, fieldOffset: FieldDayOfMonth},
	{kind: TokenDigits, fieldFlags: FlagMonth, minSize: 1, maxSize: 2, fieldOffset: FieldMonth},
	{kind: TokenParser, fieldFlags: FlagMonth, fieldOffset: FieldMonth, parserID: ParserMonth},
	{kind: TokenDigits, fieldFlags: FlagYear, minSize: 1, maxSize: 2, fieldOffset: FieldYear},
	{kind: TokenDigits, fieldFlags: FlagYear | FlagCentury, minSize: 4, maxSize: 4, fieldOffset: FieldYear},
	{kind: TokenDigits, fieldFlags: FlagTime, minSize: 1, maxSize: 2, fieldOffset: FieldHour},
	{kind: TokenDigits, fieldFlags: FlagTime, minSize: 1, maxSize: 2, fieldOffset: FieldMinute},
	{kind: TokenDigits, fieldFlags: FlagTime, minSize: 1, maxSize: 2, fieldOffset: FieldSecond},
	{kind: TokenParser, parserID: ParserAMPM},
	{kind: TokenDigits, fieldFlags: FlagJulianDay, minSize: 1, maxSize: MaxSize, fieldOffset: FieldJulianDay},
	{kind: TokenDigits, fieldFlags: FlagDayOfYear, minSize: 1, maxSize: 3, fieldOffset: FieldDayOfYear},
	{kind: TokenDigits, fieldFlags: FlagCentury | FlagISO8601Century, minSize: 1, maxSize: 2, fieldOffset: FieldCentury},
	{kind: TokenDigits, fieldFlags: FlagISO8601Year, minSize: 2, maxSize: 2, fieldOffset: FieldISO8601Year},
	{kind: TokenDigits, fieldFlags: FlagISO8601Year | FlagISO8601Century, minSize: 4, maxSize: 4, fieldOffset: FieldISO8601Year},
	{kind: TokenDigits, fieldFlags: FlagISO8601Week, minSize: 1, maxSize: 2, fieldOffset: FieldISO8601Week},
	{kind: TokenParser, fieldFlags: FlagDayOfWeek, fieldOffset: FieldDayOfWeek, parserID: ParserWeekday},
	{kind: TokenParser, fieldFlags: FlagOptional | FlagZone, parserID: ParserTimezone},
	{kind: TokenDigits, fieldFlags: FlagLocalSec | FlagSigned, minSize: 1, maxSize: MaxSize, fieldOffset: FieldLocalSeconds},
	{kind: TokenParser, fieldFlags: FlagDayOfWeek, fieldOffset: FieldDayOfWeek, parserID: ParserWeekday, parserData: weekdayModeNumeric},
	{kind: TokenParser, fieldFlags: FlagDayOfWeek, fieldOffset: FieldDayOfWeek, parserID: ParserWeekday, parserData: weekdayModeNumeric},
}

// weekdayModeNumeric marks a ParserWeekday token as reading a single
// ASCII digit (0-7, 0 normalized to 7) rather than searching a name SIT.
// It must not collide with any localeKey* value, since ParserData for a
// name-mode weekday token is one of those keys.
const weekdayModeNumeric = 0xff

var stdWrapFrom = "eNBhkIlPAZ"
var stdWrapTo = "dmbbHHHpaz"

// %E-modified table: locale era (%EE) and localized-numeral year (%Ey).
const eraTokenMapIndex = "Ey"

var eraTokenMap = []directiveRow{
	{kind: TokenParser, parserID: ParserEra, parserData: localeKeyEra},
	{kind: TokenParser, fieldFlags: FlagYear, fieldOffset: FieldYear, parserID: ParserLocaleList, parserData: localeKeyNumerals},
}

// %O-modified table: localized numerals for each numeric field.
const numeralTokenMapIndex = "dmyHMSu"

var numeralTokenMap = []directiveRow{
	{kind: TokenParser, fieldFlags: FlagDayOfMonth, fieldOffset: FieldDayOfMonth, parserID: ParserLocaleList, parserData: localeKeyNumerals},
	{kind: TokenParser, fieldFlags: FlagMonth, fieldOffset: FieldMonth, parserID: ParserLocaleList, parserData: localeKeyNumerals},
	{kind: TokenParser, fieldFlags: FlagYear, fieldOffset: FieldYear, parserID: ParserLocaleList, parserData: localeKeyNumerals},
	{kind: TokenParser, fieldFlags: FlagTime, fieldOffset: FieldHour, parserID: ParserLocaleList, parserData: localeKeyNumerals},
	{kind: TokenParser, fieldFlags: FlagTime, fieldOffset: FieldMinute, parserID: ParserLocaleList, parserData: localeKeyNumerals},
	{kind: TokenParser, fieldFlags: FlagTime, fieldOffset: FieldSecond, parserID: ParserLocaleList, parserData: localeKeyNumerals},
	{kind: TokenParser, fieldFlags: FlagDayOfWeek, fieldOffset: FieldDayOfWeek, parserID: ParserWeekday, parserData: localeKeyNumerals},
}

var numeralWrapFrom = "ekIlw"
var numeralWrapTo = "dHHHu"

// locale-catalog keys consumed via ParserData; see locale.go.
const (
	localeKeyMonthsFull = iota
	localeKeyMonthsAbbrev
	localeKeyDaysFull
	localeKeyDaysAbbrev
	localeKeyAMPM
	localeKeyEra
	localeKeyNumerals
)
