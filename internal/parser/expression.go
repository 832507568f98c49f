package parser

import (
	"strconv"
	"strings"

	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/token"
)

// Binding powers, loosest first. Unary and postfix bind tighter than any
// binary operator.
func binaryPower(k token.Kind) (ast.BinaryOp, int, bool) {
	switch k {
	case token.OrOr:
		return ast.BinOr, 1, true
	case token.AndAnd:
		return ast.BinAnd, 2, true
	case token.EqEq:
		return ast.BinEq, 3, true
	case token.BangEq:
		return ast.BinNe, 3, true
	case token.Lt:
		return ast.BinLt, 4, true
	case token.LtEq:
		return ast.BinLe, 4, true
	case token.Gt:
		return ast.BinGt, 4, true
	case token.GtEq:
		return ast.BinGe, 4, true
	case token.Plus:
		return ast.BinAdd, 5, true
	case token.Minus:
		return ast.BinSub, 5, true
	case token.Star:
		return ast.BinMul, 6, true
	case token.Slash:
		return ast.BinDiv, 6, true
	case token.Percent:
		return ast.BinMod, 6, true
	default:
		return 0, 0, false
	}
}

func (p *Parser) parseExpr() ast.Expr {
	lhs := p.parseUnary()
	if lhs == nil {
		return nil
	}
	return p.parseBinaryFrom(lhs, 0)
}

// parseBinaryFrom continues precedence climbing from an already-parsed lhs.
func (p *Parser) parseBinaryFrom(lhs ast.Expr, minPower int) ast.Expr {
	for {
		op, power, ok := binaryPower(p.peek().Kind)
		if !ok || power < minPower {
			return lhs
		}
		p.next()
		rhs := p.parseUnary()
		if rhs == nil {
			return nil
		}
		rhs = p.parseBinaryFrom(rhs, power+1)
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{Op: op, X: lhs, Y: rhs, Loc: lhs.Span().Cover(rhs.Span())}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Kind {
	case token.Minus:
		op := p.next()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.Unary{Op: ast.UnaryNeg, X: x, Loc: op.Span.Cover(x.Span())}
	case token.Bang:
		op := p.next()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.Unary{Op: ast.UnaryNot, X: x, Loc: op.Span.Cover(x.Span())}
	default:
		prim := p.parsePrimary()
		if prim == nil {
			return nil
		}
		return p.parsePostfix(prim)
	}
}

// parsePostfix handles call and index suffixes.
func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		switch p.peek().Kind {
		case token.LParen:
			ident, ok := x.(*ast.Ident)
			if !ok {
				open := p.peek()
				p.errorAt(diag.SynUnexpectedToken, open.Span, "only named functions can be called")
				return nil
			}
			call := p.parseCall(ident)
			if call == nil {
				return nil
			}
			x = call
		case token.LBracket:
			p.next()
			idx := p.parseExpr()
			if idx == nil {
				return nil
			}
			closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket)
			if !ok {
				return nil
			}
			x = &ast.Index{X: x, Idx: idx, Loc: x.Span().Cover(closeTok.Span)}
		default:
			return x
		}
	}
}

func (p *Parser) parseCall(callee *ast.Ident) ast.Expr {
	p.next() // '('
	var args []ast.Expr
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if len(args) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken); !ok {
				return nil
			}
		}
		arg := p.parseExpr()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen)
	if !ok {
		return nil
	}
	return &ast.Call{
		Name:    callee.Name,
		NameLoc: callee.Loc,
		Args:    args,
		Loc:     callee.Loc.Cover(closeTok.Span),
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.peek()
	switch t.Kind {
	case token.Ident:
		p.next()
		return &ast.Ident{Name: t.Text, Loc: t.Span}

	case token.IntLit:
		p.next()
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			p.errorAt(diag.SynUnexpectedToken, t.Span, "integer literal out of range")
			v = 0
		}
		return &ast.IntLit{Value: v, Loc: t.Span}

	case token.RealLit:
		p.next()
		v, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			p.errorAt(diag.SynUnexpectedToken, t.Span, "real literal out of range")
			v = 0
		}
		return &ast.RealLit{Value: v, Loc: t.Span}

	case token.StringLit:
		p.next()
		return &ast.StringLit{Value: unquote(t.Text), Loc: t.Span}

	case token.KwTrue:
		p.next()
		return &ast.BoolLit{Value: true, Loc: t.Span}

	case token.KwFalse:
		p.next()
		return &ast.BoolLit{Value: false, Loc: t.Span}

	case token.KwNull:
		p.next()
		return &ast.NullLit{Loc: t.Span}

	case token.LParen:
		p.next()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil
		}
		return inner

	case token.LBracket:
		open := p.next()
		var elems []ast.Expr
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			if len(elems) > 0 {
				if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken); !ok {
					return nil
				}
			}
			e := p.parseExpr()
			if e == nil {
				return nil
			}
			elems = append(elems, e)
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket)
		if !ok {
			return nil
		}
		return &ast.ArrayLit{Elems: elems, Loc: open.Span.Cover(closeTok.Span)}

	default:
		p.errorAt(diag.SynExpectExpression, t.Span, "expected expression, found "+describe(t))
		return nil
	}
}

// unquote strips the surrounding quotes and decodes the simple escapes the
// lexer admits. Recovery tokens may lack the closing quote.
func unquote(text string) string {
	s := strings.TrimPrefix(text, `"`)
	s = strings.TrimSuffix(s, `"`)
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
