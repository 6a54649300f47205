package clockfmt

import (
	"time"

	"github.com/goodsign/monday"
)

// Well-known locale-catalog keys (§6 `locale_catalog`).
const (
	KeyMonthsFull   = "MONTHS_FULL"
	KeyMonthsAbbrev = "MONTHS_ABBREV"
	KeyDaysFull     = "DAYS_OF_WEEK_FULL"
	KeyDaysAbbrev   = "DAYS_OF_WEEK_ABBREV"
	KeyAMPM         = "AM_PM"
	KeyEra          = "ERA"
	KeyNumerals     = "LOCALE_NUMERALS"
)

var localeKeyNames = map[uint32]string{
	localeKeyMonthsFull:   KeyMonthsFull,
	localeKeyMonthsAbbrev: KeyMonthsAbbrev,
	localeKeyDaysFull:     KeyDaysFull,
	localeKeyDaysAbbrev:   KeyDaysAbbrev,
	localeKeyAMPM:         KeyAMPM,
	localeKeyEra:          KeyEra,
	localeKeyNumerals:     KeyNumerals,
}

// LocaleCatalog is the external collaborator named `locale_catalog` in
// §6: it resolves a locale name and a key to a list of locale-specific
// words (month names, weekday names, AM/PM markers, era labels,
// localized numerals).
type LocaleCatalog interface {
	Lookup(locale, key string) ([]string, bool)
}

// MondayCatalog is the default, batteries-included LocaleCatalog,
// backed by github.com/goodsign/monday's locale-tabulated month and
// weekday names. AM/PM and era strings are not locale-sensitive in
// monday, so those two keys return fixed English forms regardless of
// locale; callers needing genuinely localized AM/PM or era strings
// should supply their own catalog (e.g. a StaticCatalog).
type MondayCatalog struct{}

func (MondayCatalog) Lookup(locale, key string) ([]string, bool) {
	loc := mondayLocale(locale)
	switch key {
	case KeyMonthsFull:
		return mondayMonthNames(loc, "January"), true
	case KeyMonthsAbbrev:
		return mondayMonthNames(loc, "Jan"), true
	case KeyDaysFull:
		return mondayDayNames(loc, "Monday"), true
	case KeyDaysAbbrev:
		return mondayDayNames(loc, "Mon"), true
	case KeyAMPM:
		return []string{"AM", "PM"}, true
	case KeyEra:
		return []string{"BCE", "CE", "BC", "AD", "B.C.", "A.D."}, true
	default:
		return nil, false
	}
}

func mondayLocale(locale string) monday.Locale {
	if locale == "" {
		return monday.LocaleEnUS
	}
	return monday.Locale(locale)
}

func mondayMonthNames(loc monday.Locale, layout string) []string {
	names := make([]string, 12)
	for m := 0; m < 12; m++ {
		t := time.Date(2020, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
		names[m] = monday.Format(t, layout, loc)
	}
	return names
}

func mondayDayNames(loc monday.Locale, layout string) []string {
	names := make([]string, 7)
	// 2020-01-06 was a Monday.
	base := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 7; d++ {
		names[d] = monday.Format(base.AddDate(0, 0, d), layout, loc)
	}
	return names
}

// StaticCatalog is a fixed, in-memory LocaleCatalog keyed by locale then
// by catalog key, useful for tests and callers that want to pin exact
// word lists rather than derive them from monday. An entry under the
// empty-string locale acts as the fallback for any locale not otherwise
// present.
type StaticCatalog map[string]map[string][]string

func (c StaticCatalog) Lookup(locale, key string) ([]string, bool) {
	byLocale, ok := c[locale]
	if !ok {
		byLocale, ok = c[""]
	}
	if !ok {
		return nil, false
	}
	v, ok := byLocale[key]
	return v, ok
}
