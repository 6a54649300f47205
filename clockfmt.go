// Package clockfmt implements a locale-aware clock/date scanning engine:
// compile a strftime-like format string once, then repeatedly scan input
// strings against it into a structured DateFields record. Compiled
// formats are interned and reference-counted (see Cache) so that a
// long-lived process scanning the same handful of formats doesn't pay
// recompilation cost on every call.
package clockfmt

import (
	"time"

	"github.com/clockfmt/clockfmt/internal/sit"
	"github.com/sirupsen/logrus"
)

// DefaultCenturySwitch is the two-digit-year cutoff used when Options
// does not specify one: values at or above it land in the previous
// century, values below it land in the current one.
const DefaultCenturySwitch = 38

// ZoneHandle is the result of resolving a scanned timezone designator.
// Timezone-database lookups are out of scope for this package (§1); a
// caller that wants real zone resolution supplies Options.SetupTimezone.
type ZoneHandle struct {
	Name          string
	OffsetSeconds int32
	HasOffset     bool
}

// SetupTimezoneFunc binds a parsed zone designator (either a numeric
// offset like "+0530" or an abbreviation like "UTC") to a ZoneHandle.
type SetupTimezoneFunc func(zoneString string) (ZoneHandle, error)

// Options configures a single Scan call.
type Options struct {
	// Strict requires exactly one-or-more whitespace bytes wherever the
	// format has a SPACE token; non-strict tolerates zero or more, and
	// additionally skips whitespace between any two tokens.
	Strict bool

	// Extended prevents a scanned %s (local_seconds) from short-circuiting
	// field-based reconciliation.
	Extended bool

	// Validate requests additional post-assembly validation of the
	// resulting calendar date (out-of-range dates still fail regardless).
	// It takes effect only when PostValidate is set; Validate without a
	// PostValidate hook is a no-op, not an error.
	Validate bool

	// PostValidate, when Validate is true, is called once reconciliation
	// has produced a coherent DateFields, and its error (if any) becomes
	// the Scan call's result. Nil means no extra validation is performed
	// regardless of Validate — callers that want the stock day-of-week
	// cross-check, say, supply CheckDayOfWeek (see validate.go).
	PostValidate func(*DateFields) error

	// Locale selects which word lists the LocaleCatalog callback returns.
	// Empty means the catalog's own default.
	Locale string

	// CenturySwitch and CurrentCenturyBase parameterize two-digit-year
	// expansion (§4.5.2 step 4). Zero CenturySwitch is replaced by
	// DefaultCenturySwitch at Scan time; CurrentCenturyBase is left as
	// given (zero is a valid, if unusual, base).
	CenturySwitch      int32
	CurrentCenturyBase int32

	// SetupTimezone resolves a parsed %z/%Z designator. Nil means
	// timezone tokens are consumed from the input but otherwise ignored.
	SetupTimezone SetupTimezoneFunc
}

// DefaultOptions returns Options with the century switch and century
// base a caller would want for "today": CenturySwitch set to
// DefaultCenturySwitch, and CurrentCenturyBase taken from the current
// wall-clock year.
func DefaultOptions() Options {
	year := time.Now().Year()
	return Options{
		CenturySwitch:      DefaultCenturySwitch,
		CurrentCenturyBase: int32(year/100) * 100,
	}
}

func (o Options) normalized() Options {
	if o.CenturySwitch == 0 {
		o.CenturySwitch = DefaultCenturySwitch
	}
	return o
}

// Scan parses input against the compiled program held by h, under opts,
// using catalog to resolve locale-sensitive word lists. The returned
// DateFields is only meaningful when err is nil.
func Scan(h Handle, input string, opts Options, catalog LocaleCatalog) (DateFields, error) {
	if h.prog == nil {
		return DateFields{}, newError(KindBadInputString, "clockfmt: zero-value handle")
	}
	if catalog == nil {
		catalog = MondayCatalog{}
	}

	st := &scanState{
		prog:    h.prog,
		input:   input,
		opts:    opts.normalized(),
		catalog: catalog,
	}
	st.fields.Meridian = H24

	logEntry := logrus.WithFields(logrus.Fields{
		"component": "clockfmt.scan",
		"format":    h.prog.Format,
	})

	if err := st.run(); err != nil {
		logEntry.WithError(err).Debug("scan failed")
		return DateFields{}, err
	}
	if err := reconcile(&st.fields, st.opts); err != nil {
		logEntry.WithError(err).Debug("reconciliation failed")
		return DateFields{}, err
	}
	return st.fields, nil
}

// defaultCache is the process-wide intern cache used by CompileOrGet and
// Release, mirroring the source's singleton cache while still letting
// callers that need isolation construct their own via NewCache.
var defaultCache = NewCache(DefaultGCSize)

// CompileOrGet compiles format (or returns the already-interned program)
// using the process-default Cache.
func CompileOrGet(format string) (Handle, error) {
	return defaultCache.Acquire(format)
}

// Release gives up a Handle acquired from CompileOrGet.
func Release(h Handle) {
	defaultCache.Release(h)
}

// Tree is a string index tree (§3.4/§4.2): a radix trie over lowercased
// UTF-8 keys supporting greedy longest-prefix matching. It wraps the
// internal/sit implementation so callers outside this module can build
// and share one without reaching into an internal package.
type Tree struct {
	inner sit.Tree
}

// Search finds the longest prefix of input that is either a full list
// entry, or shared unambiguously among entries with the same value.
func (t *Tree) Search(input []byte) (consumed, value int, ok bool) {
	return t.inner.Search(input)
}

// BuildIndexTree exposes the SIT construction used internally by the
// scan runtime's keyword parsers, for callers that want to build and
// share a tree across scans themselves (§6 build_index_tree). Lists are
// merged in the order given; per the SIT's ordering invariant (§4.2),
// pass longer-string lists before shorter ones covering the same values.
func BuildIndexTree(lists ...[]string) *Tree {
	tree := &Tree{}
	for _, l := range lists {
		tree.inner.Build(l, nil)
	}
	return tree
}
