package clockfmt

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clockfmt/clockfmt/internal/caldate"
	"github.com/clockfmt/clockfmt/internal/sit"
)

// scanState carries one scan's mutable cursor and accumulating record.
// Owned exclusively by the calling goroutine for the duration of Scan.
type scanState struct {
	prog    *ScanProgram
	input   string
	pos     int
	opts    Options
	catalog LocaleCatalog
	fields  DateFields
}

func (s *scanState) run() error {
	s.skipSpaceRun()
	for i := range s.prog.Tokens {
		if i > 0 && !s.opts.Strict {
			s.skipSpaceRun()
		}
		if err := s.dispatch(&s.prog.Tokens[i], i); err != nil {
			return err
		}
	}
	s.skipSpaceRun()
	if s.pos < len(s.input) {
		return newError(KindBadInputString, "clockfmt: trailing input %q does not match format", s.input[s.pos:])
	}
	return nil
}

func (s *scanState) dispatch(tok *ScanToken, i int) error {
	switch tok.Kind {
	case TokenDigits:
		return s.scanDigits(tok, i)
	case TokenParser:
		return s.scanParser(tok, i)
	case TokenSpace:
		return s.scanSpace(tok)
	case TokenLiteralWord:
		return s.scanLiteralWord(tok)
	}
	return nil
}

func (s *scanState) skipSpaceRun() {
	for s.pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		s.pos += size
	}
}

func isASCIISpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f' }

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func clampLen(n, avail int) int {
	if n > avail {
		return avail
	}
	if n < 0 {
		return 0
	}
	return n
}

// --- DIGITS -----------------------------------------------------------

func (s *scanState) digitsWindowEnd(tok *ScanToken) int {
	if tok.MaxSize == MaxSize {
		return len(s.input)
	}
	size := int(tok.MaxSize)
	if tok.MinSize != tok.MaxSize {
		size += int(tok.LookAhead)
	}
	end := s.pos + size
	if end > len(s.input) {
		end = len(s.input)
	}
	return end
}

func (s *scanState) scanDigits(tok *ScanToken, i int) error {
	prevDigits := i > 0 && s.prog.Tokens[i-1].Kind == TokenDigits
	startCursor := s.pos

	neg := false
	if tok.FieldFlags&FlagSigned != 0 && s.pos < len(s.input) {
		switch s.input[s.pos] {
		case '+':
			s.pos++
		case '-':
			neg = true
			s.pos++
		}
	}

	digitsStart := s.pos
	end := s.digitsWindowEnd(tok)

	spacesSeen := 0
	p := s.pos
	for p < end {
		c := s.input[p]
		if c >= '0' && c <= '9' {
			p++
			continue
		}
		if c == ' ' && tok.LookAhead > 0 && prevDigits {
			spacesSeen++
			p++
			continue
		}
		break
	}

	if tok.LookAhead > 0 && prevDigits {
		back := int(tok.LookAhead) + spacesSeen
		if p-back > digitsStart {
			p -= back
		}
	}

	raw := s.input[digitsStart:p]
	digits := raw
	if spacesSeen > 0 {
		digits = strings.ReplaceAll(raw, " ", "")
	}

	if len(digits) < int(tok.MinSize) {
		s.pos = startCursor
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadInputString, "clockfmt: expected at least %d digits at %q", tok.MinSize, s.input[startCursor:])
	}

	value, err := parseSignedOverflowChecked(digits, neg)
	if err != nil {
		return err
	}

	s.pos = p
	s.writeField(tok, value)
	return nil
}

// parseSignedOverflowChecked accumulates digits into a signed int64,
// failing the moment the running total stops moving monotonically in
// the expected direction — the overflow check of spec.md §4.5.3.
func parseSignedOverflowChecked(digits string, neg bool) (int64, error) {
	var acc int64
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int64(c - '0')
		prev := acc
		if neg {
			acc = acc*10 - d
			if acc > prev {
				return 0, newError(KindDateTooLarge, "clockfmt: date too large to represent")
			}
		} else {
			acc = acc*10 + d
			if acc < prev {
				return 0, newError(KindDateTooLarge, "clockfmt: date too large to represent")
			}
		}
	}
	return acc, nil
}

func (s *scanState) writeField(tok *ScanToken, value int64) {
	f := &s.fields
	switch tok.FieldOffset {
	case FieldYear:
		f.Year = int32(value)
	case FieldMonth:
		f.Month = int32(value)
	case FieldDayOfMonth:
		f.DayOfMonth = int32(value)
	case FieldDayOfYear:
		f.DayOfYear = int32(value)
	case FieldISO8601Year:
		f.ISO8601Year = int32(value)
	case FieldISO8601Week:
		f.ISO8601Week = int32(value)
	case FieldHour:
		f.Hour = int32(value)
	case FieldMinute:
		f.Minute = int32(value)
	case FieldSecond:
		f.Second = int32(value)
	case FieldCentury:
		f.Century = int32(value)
	case FieldLocalSeconds:
		f.LocalSeconds = value
	case FieldJulianDay:
		f.JulianDay = value
	case FieldDayOfWeek:
		f.DayOfWeek = int32(value)
	}
	f.setClear(tok.FieldFlags, tok.ClearFlags)
}

// --- SPACE / LITERAL_WORD ----------------------------------------------

func (s *scanState) scanSpace(tok *ScanToken) error {
	start := s.pos
	for s.pos < len(s.input) && isASCIISpace(s.input[s.pos]) {
		s.pos++
	}
	if s.opts.Strict && s.pos == start {
		return newError(KindBadInputString, "clockfmt: expected whitespace at %q", s.input[start:])
	}
	return nil
}

func (s *scanState) scanLiteralWord(tok *ScanToken) error {
	word := tok.word(s.prog.Format)
	if !strings.HasPrefix(s.input[s.pos:], word) {
		return newError(KindBadInputString, "clockfmt: expected %q at %q", word, s.input[s.pos:])
	}
	s.pos += len(word)
	return nil
}

// --- PARSER --------------------------------------------------------------

func (s *scanState) greedyWindow(i int) (minLen, maxLen int) {
	tok := &s.prog.Tokens[i]
	maxLen = len(s.input) - s.pos - int(tok.EndDistance)
	if maxLen < 0 {
		maxLen = 0
	}

	switch {
	case i == len(s.prog.Tokens)-1:
		rest := s.input[s.pos:]
		if idx := strings.IndexFunc(rest, unicode.IsSpace); idx >= 0 {
			minLen = idx
		} else {
			minLen = len(rest)
		}
	case s.prog.Tokens[i+1].Kind == TokenLiteralWord:
		nextWord := s.prog.Tokens[i+1].word(s.prog.Format)
		rest := s.input[s.pos:]
		if nextWord == "" {
			minLen = 0
		} else if idx := strings.IndexByte(rest, nextWord[0]); idx >= 0 {
			minLen = idx
		} else {
			minLen = len(rest)
		}
	default:
		minLen = 0
	}

	if maxLen < minLen {
		maxLen = minLen
	}
	return minLen, maxLen
}

func (s *scanState) searchWindow(i int, tree *sit.Tree) (n, value int, ok bool) {
	_, maxLen := s.greedyWindow(i)
	avail := clampLen(maxLen, len(s.input)-s.pos)
	return tree.Search([]byte(s.input[s.pos : s.pos+avail]))
}

func buildCombinedSIT(long, short []string) *sit.Tree {
	tree := &sit.Tree{}
	if len(long) > 0 {
		tree.Build(long, nil)
	}
	if len(short) > 0 {
		tree.Build(short, nil)
	}
	return tree
}

func (s *scanState) scanParser(tok *ScanToken, i int) error {
	switch tok.ParserID {
	case ParserMonth:
		return s.parseMonth(tok, i)
	case ParserWeekday:
		return s.parseWeekday(tok, i)
	case ParserAMPM:
		return s.parseAMPM(tok)
	case ParserEra:
		return s.parseEra(tok)
	case ParserLocaleList:
		return s.parseLocaleList(tok, i)
	case ParserTimezone:
		return s.parseTimezone(tok)
	}
	return nil
}

func (s *scanState) parseMonth(tok *ScanToken, i int) error {
	full, ok1 := s.catalog.Lookup(s.opts.Locale, KeyMonthsFull)
	abbrev, ok2 := s.catalog.Lookup(s.opts.Locale, KeyMonthsAbbrev)
	if !ok1 && !ok2 {
		return newError(KindLocaleMissing, "clockfmt: no month names for locale %q", s.opts.Locale)
	}

	tree := buildCombinedSIT(full, abbrev)
	n, idx, ok := s.searchWindow(i, tree)
	if !ok {
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadInputString, "clockfmt: month name not recognized at %q", s.input[s.pos:])
	}
	s.pos += n
	s.writeField(tok, int64(idx+1))
	return nil
}

func (s *scanState) parseWeekday(tok *ScanToken, i int) error {
	if tok.ParserData == weekdayModeNumeric {
		return s.parseWeekdayNumeric(tok)
	}
	if tok.ParserData != 0 {
		return s.parseLocaleList(tok, i)
	}

	full, ok1 := s.catalog.Lookup(s.opts.Locale, KeyDaysFull)
	abbrev, ok2 := s.catalog.Lookup(s.opts.Locale, KeyDaysAbbrev)
	if !ok1 && !ok2 {
		return newError(KindLocaleMissing, "clockfmt: no weekday names for locale %q", s.opts.Locale)
	}

	tree := buildCombinedSIT(full, abbrev)
	n, idx, ok := s.searchWindow(i, tree)
	if !ok {
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadInputString, "clockfmt: weekday name not recognized at %q", s.input[s.pos:])
	}
	s.pos += n

	weekday := idx + 1
	if weekday == 0 {
		weekday = 7
	}
	if weekday > 7 {
		return newError(KindBadDayOfWeek, "clockfmt: day of week is greater than 7")
	}
	s.writeField(tok, int64(weekday))
	return nil
}

func (s *scanState) parseWeekdayNumeric(tok *ScanToken) error {
	if s.pos >= len(s.input) || s.input[s.pos] < '0' || s.input[s.pos] > '9' {
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadInputString, "clockfmt: expected a single digit day of week")
	}
	d := int(s.input[s.pos] - '0')
	s.pos++
	if d == 0 {
		d = 7
	}
	if d > 7 {
		return newError(KindBadDayOfWeek, "clockfmt: day of week is greater than 7")
	}
	s.writeField(tok, int64(d))
	return nil
}

func (s *scanState) parseAMPM(tok *ScanToken) error {
	list, ok := s.catalog.Lookup(s.opts.Locale, KeyAMPM)
	if !ok || len(list) < 2 {
		return newError(KindLocaleMissing, "clockfmt: no AM/PM markers for locale %q", s.opts.Locale)
	}
	tree := &sit.Tree{}
	tree.Build(list[:2], []int{0, 1})

	avail := len(s.input) - s.pos
	n, idx, ok := tree.Search([]byte(s.input[s.pos : s.pos+avail]))
	if !ok {
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadInputString, "clockfmt: AM/PM marker not recognized at %q", s.input[s.pos:])
	}
	s.pos += n
	if idx == 0 {
		s.fields.Meridian = AM
	} else {
		s.fields.Meridian = PM
	}
	return nil
}

func (s *scanState) parseEra(tok *ScanToken) error {
	list, ok := s.catalog.Lookup(s.opts.Locale, KeyEra)
	if !ok || len(list) == 0 {
		return newError(KindLocaleMissing, "clockfmt: no era labels for locale %q", s.opts.Locale)
	}

	tree := &sit.Tree{}
	tree.Build(list, nil)

	avail := len(s.input) - s.pos
	n, idx, ok := tree.Search([]byte(s.input[s.pos : s.pos+avail]))
	if !ok {
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadInputString, "clockfmt: era label not recognized at %q", s.input[s.pos:])
	}
	s.pos += n
	if idx%2 == 1 {
		s.fields.Era = CE
	} else {
		s.fields.Era = BCE
	}
	return nil
}

func (s *scanState) parseLocaleList(tok *ScanToken, i int) error {
	key, ok := localeKeyNames[tok.ParserData]
	if !ok {
		return newError(KindLocaleMissing, "clockfmt: unrecognized locale list key")
	}
	list, ok := s.catalog.Lookup(s.opts.Locale, key)
	if !ok || len(list) == 0 {
		return newError(KindLocaleMissing, "clockfmt: no %q list for locale %q", key, s.opts.Locale)
	}

	tree := &sit.Tree{}
	tree.Build(list, nil)
	n, idx, ok := s.searchWindow(i, tree)
	if !ok {
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadInputString, "clockfmt: value not recognized at %q", s.input[s.pos:])
	}
	s.pos += n
	if tok.FieldOffset != FieldNone {
		s.writeField(tok, int64(idx))
	}
	return nil
}

func (s *scanState) parseTimezone(tok *ScanToken) error {
	if s.pos >= len(s.input) {
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadTimezone, "clockfmt: expected a timezone designator")
	}

	c := s.input[s.pos]
	var raw string
	switch {
	case c == '+' || c == '-':
		end := s.pos + 1
		limit := s.pos + 9
		if limit > len(s.input) {
			limit = len(s.input)
		}
		for end < limit {
			ch := s.input[end]
			if (ch >= '0' && ch <= '9') || ch == ':' {
				end++
				continue
			}
			break
		}
		raw = s.input[s.pos:end]
	case isAlnum(c):
		end := s.pos
		limit := s.pos + 4
		if limit > len(s.input) {
			limit = len(s.input)
		}
		for end < limit && isAlnum(s.input[end]) {
			end++
		}
		raw = s.input[s.pos:end]
	default:
		if tok.FieldFlags&FlagOptional != 0 {
			return nil
		}
		return newError(KindBadTimezone, "clockfmt: no timezone designator at %q", s.input[s.pos:])
	}

	if s.opts.SetupTimezone == nil {
		s.pos += len(raw)
		return nil
	}

	zh, err := s.opts.SetupTimezone(raw)
	if err != nil {
		return wrapError(KindBadTimezone, err, "clockfmt: setup_timezone failed for %q", raw)
	}
	s.pos += len(raw)
	if zh.HasOffset {
		s.fields.TZOffsetSeconds = zh.OffsetSeconds
	}
	return nil
}

// --- Reconciliation (§4.5.2) -------------------------------------------

func reconcile(f *DateFields, opts Options) error {
	hasLocalSeconds := f.has(FlagLocalSec)

	if !hasLocalSeconds || opts.Extended {
		reconcileDatePrecedence(f)
		expandTwoDigitYears(f, opts)
		if f.Flags&FlagDate != 0 {
			if err := assembleJulianDay(f); err != nil {
				return err
			}
		}
	}

	timeFlag := f.has(FlagTime)
	if !timeFlag && !hasLocalSeconds {
		f.LocalSeconds = 0
	}
	if timeFlag {
		sec, err := caldate.ToSeconds(int(f.Hour), int(f.Minute), int(f.Second), toCaldateMeridian(f.Meridian))
		if err != nil {
			return wrapError(KindDateTooLarge, err, "clockfmt: invalid time of day")
		}
		f.SecondOfDay = sec
	} else if !hasLocalSeconds {
		m := f.LocalSeconds % 86400
		if m < 0 {
			m += 86400
		}
		f.SecondOfDay = m
	}

	if opts.Validate && opts.PostValidate != nil {
		if err := opts.PostValidate(f); err != nil {
			return err
		}
	}

	return nil
}

func reconcileDatePrecedence(f *DateFields) {
	dayOfYear := f.has(FlagDayOfYear)
	dayOfMonth := f.has(FlagDayOfMonth)
	month := f.has(FlagMonth)

	if dayOfYear && dayOfMonth && !month {
		f.clear(FlagDayOfMonth)
		dayOfMonth = false
	}
	if dayOfYear && !f.has(FlagISO8601Year) {
		f.clear(FlagISO8601Year | FlagISO8601Week | FlagISO8601Century)
	}
	if month && dayOfYear && dayOfMonth {
		f.clear(FlagDayOfYear)
	}
	if (month && dayOfMonth) || (dayOfMonth && !month) {
		if !f.has(FlagISO8601Year) {
			f.clear(FlagISO8601Year | FlagISO8601Week | FlagISO8601Century)
		}
	}

	haveISOWeekInfo := f.has(FlagISO8601Week) || f.has(FlagISO8601Year)
	haveDayInfo := f.has(FlagDayOfWeek) || dayOfMonth || dayOfYear
	switch {
	case haveISOWeekInfo && haveDayInfo && f.has(FlagCentury) && !f.has(FlagISO8601Century):
		f.clear(FlagISO8601Year | FlagISO8601Week | FlagISO8601Century)
	case haveISOWeekInfo && !f.has(FlagISO8601Year):
		f.clear(FlagISO8601Week | FlagISO8601Century)
	}
}

func expandTwoDigitYears(f *DateFields, opts Options) {
	switchPoint := opts.CenturySwitch
	base := opts.CurrentCenturyBase

	if f.has(FlagYear) {
		if f.has(FlagCentury) {
			if f.Year < 100 {
				f.Year += f.Century * 100
			}
		} else if f.Year < 100 && f.Year >= 0 {
			b := base
			if f.Year >= switchPoint {
				b -= 100
			}
			f.Year += b
		}
	}

	if f.has(FlagISO8601Year) {
		if f.has(FlagISO8601Century) {
			if f.ISO8601Year < 100 {
				f.ISO8601Year += f.Century * 100
			}
		} else if f.ISO8601Year < 100 && f.ISO8601Year >= 0 {
			b := base
			if f.ISO8601Year >= switchPoint {
				b -= 100
			}
			f.ISO8601Year += b
		}
	}
}

func assembleJulianDay(f *DateFields) error {
	var jdn int64
	var err error

	switch {
	case f.has(FlagJulianDay):
		return nil
	case f.has(FlagISO8601Year) && f.has(FlagISO8601Week):
		weekday := 1
		if f.has(FlagDayOfWeek) {
			weekday = int(f.DayOfWeek)
		}
		jdn, err = caldate.FromISOWeek(int(f.ISO8601Year), int(f.ISO8601Week), weekday)
	case f.has(FlagDayOfYear) && f.has(FlagYear) && !(f.has(FlagMonth) && f.has(FlagDayOfMonth)):
		jdn, err = caldate.FromOrdinal(int(f.Year), int(f.DayOfYear))
	case f.has(FlagYear) && f.has(FlagMonth) && f.has(FlagDayOfMonth):
		jdn, err = caldate.FromYMD(int(f.Year), int(f.Month), int(f.DayOfMonth))
	default:
		return nil
	}

	if err != nil {
		return wrapError(KindDateTooLarge, err, "clockfmt: could not assemble a calendar date")
	}
	f.JulianDay = jdn
	f.set(FlagJulianDay)
	return nil
}

func toCaldateMeridian(m Meridian) caldate.Meridian {
	switch m {
	case AM:
		return caldate.AM
	case PM:
		return caldate.PM
	default:
		return caldate.H24
	}
}
