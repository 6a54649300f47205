package clockfmt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// compile turns a format string into a ScanProgram: an ordered token
// list plus the lookAhead/endDistance bookkeeping the scan runtime's
// DIGITS windowing (§4.5) needs. It is pure and allocates a fresh
// program on every call; interning lives in Cache, not here.
func compile(format string) (*ScanProgram, error) {
	prog := &ScanProgram{Format: format}

	if err := tokenize(prog); err != nil {
		return nil, err
	}
	computeLookAhead(prog)
	computeEndDistance(prog)
	return prog, nil
}

func tokenize(prog *ScanProgram) error {
	format := prog.Format
	i := 0
	wordStart := -1

	flushWord := func(end int) {
		if wordStart >= 0 && end > wordStart {
			prog.Tokens = append(prog.Tokens, ScanToken{
				Kind:      TokenLiteralWord,
				WordStart: wordStart,
				WordEnd:   end,
			})
		}
		wordStart = -1
	}

	for i < len(format) {
		c := format[i]

		if c == '%' {
			flushWord(i)

			if i+1 >= len(format) {
				return newError(KindBadInputString, "clockfmt: dangling %% at end of format %q", format)
			}

			mod := format[i+1]
			switch mod {
			case '%':
				prog.Tokens = append(prog.Tokens, ScanToken{
					Kind: TokenLiteralWord, WordStart: i, WordEnd: i + 1,
				})
				i += 2
				continue
			case 'E':
				if i+2 >= len(format) {
					return newError(KindBadInputString, "clockfmt: dangling %%E at end of format %q", format)
				}
				row, ok := lookupDirective(eraTokenMapIndex, eraTokenMap, format[i+2])
				if !ok {
					return newError(KindBadInputString, "clockfmt: unsupported %%E%c in format %q", format[i+2], format)
				}
				prog.Tokens = append(prog.Tokens, tokenFromRow(row))
				i += 3
				continue
			case 'O':
				if i+2 >= len(format) {
					return newError(KindBadInputString, "clockfmt: dangling %%O at end of format %q", format)
				}
				row, ok := lookupWithWrap(numeralTokenMapIndex, numeralTokenMap, numeralWrapFrom, numeralWrapTo, format[i+2])
				if !ok {
					return newError(KindBadInputString, "clockfmt: unsupported %%O%c in format %q", format[i+2], format)
				}
				prog.Tokens = append(prog.Tokens, tokenFromRow(row))
				i += 3
				continue
			default:
				row, ok := lookupWithWrap(stdTokenMapIndex, stdTokenMap, stdWrapFrom, stdWrapTo, mod)
				if !ok {
					return newError(KindBadInputString, "clockfmt: unsupported directive %%%c in format %q", mod, format)
				}
				prog.Tokens = append(prog.Tokens, tokenFromRow(row))
				i += 2
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(format[i:])
		if unicode.IsSpace(r) {
			flushWord(i)
			for i < len(format) {
				r2, sz2 := utf8.DecodeRuneInString(format[i:])
				if !unicode.IsSpace(r2) {
					break
				}
				i += sz2
			}
			prog.Tokens = append(prog.Tokens, ScanToken{Kind: TokenSpace, MinSize: 1, MaxSize: MaxSize})
			prog.MandatorySpaceCount++
			continue
		}

		if wordStart < 0 {
			wordStart = i
		}
		i += size
	}
	flushWord(i)
	return nil
}

func tokenFromRow(row directiveRow) ScanToken {
	return ScanToken{
		Kind:        row.kind,
		FieldFlags:  row.fieldFlags,
		ClearFlags:  row.clearFlags,
		MinSize:     row.minSize,
		MaxSize:     row.maxSize,
		FieldOffset: row.fieldOffset,
		ParserID:    row.parserID,
		ParserData:  row.parserData,
	}
}

func lookupDirective(index string, rows []directiveRow, c byte) (directiveRow, bool) {
	if i := strings.IndexByte(index, c); i >= 0 {
		return rows[i], true
	}
	return directiveRow{}, false
}

func lookupWithWrap(index string, rows []directiveRow, wrapFrom, wrapTo string, c byte) (directiveRow, bool) {
	if row, ok := lookupDirective(index, rows, c); ok {
		return row, true
	}
	if i := strings.IndexByte(wrapFrom, c); i >= 0 {
		return lookupDirective(index, rows, wrapTo[i])
	}
	return directiveRow{}, false
}

// computeLookAhead fills in LookAhead for every DIGITS token: the
// minimum number of input bytes reserved for the tokens that follow it
// within the same uninterrupted run of DIGITS tokens. A DIGITS token
// cannot greedily consume into that reserved space — see the windowing
// algorithm in scan.go.
func computeLookAhead(prog *ScanProgram) {
	tokens := prog.Tokens

	runStart := -1
	flushRun := func(runEnd int) {
		if runStart < 0 {
			return
		}
		running := uint16(0)
		for i := runEnd - 1; i >= runStart; i-- {
			tokens[i].LookAhead = running
			running += tokens[i].MinSize
		}
		runStart = -1
	}

	for i, tok := range tokens {
		if tok.Kind == TokenDigits {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flushRun(i)
	}
	flushRun(len(tokens))
}

// computeEndDistance fills in EndDistance for every token: the minimum
// number of input bytes the remainder of the program is guaranteed to
// need, used identically to LookAhead but across the whole token stream
// rather than just a DIGITS run (spec.md §4.5).
func computeEndDistance(prog *ScanProgram) {
	tokens := prog.Tokens
	running := uint16(0)
	for i := len(tokens) - 1; i >= 0; i-- {
		tokens[i].EndDistance = running
		running += tokenWidth(prog.Format, &tokens[i])
	}
}

func tokenWidth(format string, tok *ScanToken) uint16 {
	if tok.Kind == TokenLiteralWord {
		return uint16(len(tok.word(format)))
	}
	return tok.MinSize
}
