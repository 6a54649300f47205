package clockfmt

// Flag is the bitset shared by a ScanToken's FieldFlags/ClearFlags and by
// DateFields.Flags: the same vocabulary describes both "what this token
// contributes on a match" and "what has been contributed so far this
// scan" — mirroring DateInfoFlags in the source this is ported from.
type Flag uint32

const (
	FlagOptional Flag = 1 << iota
	FlagPosixSec
	FlagLocalSec
	FlagJulianDay
	FlagTime
	FlagZone
	FlagCentury
	FlagDayOfMonth
	FlagDayOfYear
	FlagMonth
	FlagYear
	FlagDayOfWeek
	FlagISO8601Year
	FlagISO8601Week
	FlagISO8601Century
	FlagSigned
)

// FlagHaveDate is the mask of the three fields (day of month, month, year)
// that together identify a Gregorian calendar date.
const FlagHaveDate = FlagDayOfMonth | FlagMonth | FlagYear

// FlagDate is the full set of bits that identify a date by some means
// (Gregorian, day-of-year, or ISO week-date).
const FlagDate = FlagJulianDay | FlagDayOfMonth | FlagDayOfYear |
	FlagMonth | FlagYear | FlagISO8601Year | FlagDayOfWeek | FlagISO8601Week

// Era distinguishes the two eras a year can fall in.
type Era int

const (
	BCE Era = iota
	CE
)

// Meridian records whether an hour was read in 12-hour form, and if so
// which half of the day it named. H24 is also the zero value, so a
// DateFields left untouched reports "no meridian seen" for free.
type Meridian int

const (
	H24 Meridian = iota
	AM
	PM
)

// DateFields is the scan's accumulating output record: a mutable struct
// populated field-by-field as tokens match, then resolved by
// reconciliation (see reconcile in scan.go) into a single coherent date
// and time.
//
// Invariant: reconciliation only ever reads a field whose corresponding
// Flag bit is set; every field left at its zero value because its flag
// is clear is treated as absent, never as a meaningful zero.
type DateFields struct {
	SecondsFromEpoch int64
	LocalSeconds     int64
	TZOffsetSeconds  int32
	JulianDay        int64

	Era Era

	Year        int32
	Month       int32
	DayOfMonth  int32
	DayOfYear   int32
	ISO8601Year int32
	ISO8601Week int32
	DayOfWeek   int32

	Hour     int32
	Minute   int32
	Second   int32
	Meridian Meridian

	SecondOfDay int64

	Century int32

	Flags Flag
}

func (d *DateFields) has(f Flag) bool  { return d.Flags&f != 0 }
func (d *DateFields) set(f Flag)       { d.Flags |= f }
func (d *DateFields) clear(f Flag)     { d.Flags &^= f }
func (d *DateFields) setClear(set, clr Flag) {
	d.Flags |= set
	d.Flags &^= clr
}
