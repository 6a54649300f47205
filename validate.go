package clockfmt

import "github.com/clockfmt/clockfmt/internal/caldate"

// CheckDayOfWeek is a ready-made Options.PostValidate hook: when the scan
// produced both a day-of-week and an assembled Julian day, it fails unless
// they agree. A format with a bare %a/%u alongside %Y-%m-%d lets a caller
// write an internally-inconsistent date (e.g. a real calendar date paired
// with the wrong weekday name) that reconciliation alone has no reason to
// catch, since it never cross-checks DayOfWeek against JulianDay.
func CheckDayOfWeek(f *DateFields) error {
	if !f.has(FlagDayOfWeek) || !f.has(FlagJulianDay) {
		return nil
	}
	if want := caldate.Weekday(f.JulianDay); int(f.DayOfWeek) != want {
		return newError(KindBadDayOfWeek, "clockfmt: day of week %d does not match assembled date (expected %d)", f.DayOfWeek, want)
	}
	return nil
}
