// Package utf8eq implements longest-common-prefix comparisons over UTF-8
// byte ranges, decoding one code point at a time. It underpins the string
// index tree's greedy matching.
package utf8eq

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// ToLower folds a single rune the same Unicode-aware way used throughout
// this package, so callers that build their own lowercase keys (outside of
// cases.Lower on whole strings) stay consistent with Prefix/PrefixFold.
func ToLower(r rune) rune {
	// cases.Lower operates on strings, not runes in isolation, but for the
	// single-rune case (case folding never depends on surrounding context
	// for the scripts the locale catalogs use) round-tripping through it
	// gives the same Unicode-aware result as folding the whole string.
	folded := []rune(lower.String(string(r)))
	if len(folded) == 0 {
		return r
	}
	return folded[0]
}

// Fold lowercases s the same Unicode-aware way as the rest of the package.
func Fold(s string) string {
	return lower.String(s)
}

// Prefix compares a and b byte-for-byte after decoding one rune at a time
// and returns the number of bytes in a (equivalently b, since matched runes
// are identical) that were found equal before the first mismatch or either
// range was exhausted.
func Prefix(a, b []byte) int {
	var matched int
	for len(a) > 0 && len(b) > 0 {
		ra, sizeA := utf8.DecodeRune(a)
		rb, sizeB := utf8.DecodeRune(b)
		if ra != rb {
			break
		}
		matched += sizeA
		a = a[sizeA:]
		b = b[sizeB:]
	}
	return matched
}

// PrefixFold compares a and b case-insensitively, decoding one rune at a
// time and lowercasing both sides on mismatch before giving up. It returns
// the independent byte advances into a and b, since case folding is not
// length-preserving across all scripts.
func PrefixFold(a, b []byte) (advA, advB int) {
	for len(a) > 0 && len(b) > 0 {
		ra, sizeA := utf8.DecodeRune(a)
		rb, sizeB := utf8.DecodeRune(b)
		if ra != rb {
			ra, rb = ToLower(ra), ToLower(rb)
			if ra != rb {
				break
			}
		}
		advA += sizeA
		advB += sizeB
		a = a[sizeA:]
		b = b[sizeB:]
	}
	return advA, advB
}

// PrefixFoldRHSLower is PrefixFold, but assumes b is already lowercase: it
// lowercases only a on mismatch. Used on hot paths inside the string index
// tree, where stored keys are pre-folded once at build time.
func PrefixFoldRHSLower(a, b []byte) (advA, advB int) {
	for len(a) > 0 && len(b) > 0 {
		ra, sizeA := utf8.DecodeRune(a)
		rb, sizeB := utf8.DecodeRune(b)
		if ra != rb {
			ra = ToLower(ra)
			if ra != rb {
				break
			}
		}
		advA += sizeA
		advB += sizeB
		a = a[sizeA:]
		b = b[sizeB:]
	}
	return advA, advB
}
