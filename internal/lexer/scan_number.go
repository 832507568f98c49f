package lexer

import (
	"branec/internal/diag"
	"branec/internal/token"
)

// scanNumber handles decimal integers and reals: 123, 1.5, .5, 1e-3, 2.5e+10.
// Malformed forms are reported and recovered as IntLit/RealLit with the text
// scanned so far, so the parser keeps going.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	// Leading dot: ".digits" (caller checked a digit follows).
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.RealLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.finishNumber(start, kind)
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// Fractional part.
	if lx.cursor.Peek() == '.' {
		_, b1, ok := lx.cursor.Peek2()
		if ok && isDec(b1) {
			lx.cursor.Bump()
			kind = token.RealLit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	return lx.finishNumber(start, kind)
}

// finishNumber consumes an optional exponent and emits the token.
func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	b := lx.cursor.Peek()
	if b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "exponent has no digits")
			// Recovery: rewind the exponent and emit what we had.
			lx.cursor.Off = uint32(mark)
			sp = lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		kind = token.RealLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
