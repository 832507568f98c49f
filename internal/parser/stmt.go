package parser

import (
	"regexp"
	"strings"

	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/source"
	"branec/internal/token"
)

var versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// parseStmt parses one statement. A nil return means the parser could not
// shape anything and the caller should resynchronize.
func (p *Parser) parseStmt() ast.Stmt {
	t := p.peek()
	switch t.Kind {
	case token.KwImport:
		return p.parseImport()
	case token.KwData:
		return p.parseData()
	case token.KwLet:
		return p.parseLet()
	case token.KwFunc:
		return p.parseFunc()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwBreak:
		kw := p.next()
		p.expectSemi()
		return &ast.BreakStmt{Loc: kw.Span}
	case token.KwContinue:
		kw := p.next()
		p.expectSemi()
		return &ast.ContinueStmt{Loc: kw.Span}
	case token.LBrace:
		return p.parseBlock()
	case token.Ident:
		return p.parseAssignOrExpr()
	default:
		if t.IsLiteral() || t.Kind == token.LParen || t.Kind == token.LBracket ||
			t.Kind == token.Minus || t.Kind == token.Bang {
			return p.parseExprStmt()
		}
		p.errorAt(diag.SynUnexpectedToken, t.Span, "expected a statement, found "+describe(t))
		return nil
	}
}

// parseImport parses `import pkg;` or `import pkg[1.2.3];`.
func (p *Parser) parseImport() ast.Stmt {
	kw := p.next()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return nil
	}

	version := ""
	if _, ok := p.eat(token.LBracket); ok {
		open := p.lastSpan
		for !p.at(token.RBracket) && !p.at(token.Semicolon) && !p.at(token.EOF) {
			p.next()
		}
		closeTok, closed := p.eat(token.RBracket)
		if !closed {
			p.errorAt(diag.SynUnclosedBracket, open, "unclosed '[' in import version")
			return nil
		}
		raw := strings.TrimSpace(string(p.file.Content[open.End:closeTok.Span.Start]))
		if !versionRe.MatchString(raw) {
			sp := open.Cover(closeTok.Span)
			p.errorAt(diag.SynBadVersion, sp, "version must be MAJOR.MINOR.PATCH, found '"+raw+"'")
		} else {
			version = raw
		}
	}

	end := p.expectSemi()
	return &ast.ImportStmt{Package: name.Text, Version: version, Loc: kw.Span.Cover(end)}
}

// parseData parses `data name;`.
func (p *Parser) parseData() ast.Stmt {
	kw := p.next()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return nil
	}
	end := p.expectSemi()
	return &ast.DataStmt{Name: name.Text, Loc: kw.Span.Cover(end)}
}

// parseLet parses `let name (: Type)? = expr;`.
func (p *Parser) parseLet() ast.Stmt {
	kw := p.next()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return nil
	}

	var tref *ast.TypeRef
	if _, ok := p.eat(token.Colon); ok {
		tref = p.parseTypeRef()
		if tref == nil {
			return nil
		}
	}

	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken); !ok {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	end := p.expectSemi()
	return &ast.LetStmt{
		Name:    name.Text,
		NameLoc: name.Span,
		Type:    tref,
		Value:   value,
		Loc:     kw.Span.Cover(end),
	}
}

// parseFunc parses `func name(params) (: Type)? { body }`.
func (p *Parser) parseFunc() ast.Stmt {
	kw := p.next()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil
	}

	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if len(params) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken); !ok {
				return nil
			}
		}
		pname, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if !ok {
			return nil
		}
		param := ast.Param{Name: pname.Text, Loc: pname.Span}
		if _, ok := p.eat(token.Colon); ok {
			param.Type = p.parseTypeRef()
			if param.Type == nil {
				return nil
			}
		}
		params = append(params, param)
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return nil
	}

	var ret *ast.TypeRef
	if _, ok := p.eat(token.Colon); ok {
		ret = p.parseTypeRef()
		if ret == nil {
			return nil
		}
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.FuncDecl{
		Name:    name.Text,
		NameLoc: name.Span,
		Params:  params,
		Ret:     ret,
		Body:    body,
		Loc:     kw.Span.Cover(body.Loc),
	}
}

func (p *Parser) parseReturn() ast.Stmt {
	kw := p.next()
	if _, ok := p.eat(token.Semicolon); ok {
		return &ast.ReturnStmt{Loc: kw.Span}
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	end := p.expectSemi()
	return &ast.ReturnStmt{Value: value, Loc: kw.Span.Cover(end)}
}

func (p *Parser) parseIf() ast.Stmt {
	kw := p.next()
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then, Loc: kw.Span.Cover(then.Loc)}
	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
		if stmt.Else == nil {
			return nil
		}
		stmt.Loc = stmt.Loc.Cover(stmt.Else.Span())
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	kw := p.next()
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Loc: kw.Span.Cover(body.Loc)}
}

// parseFor parses `for init; cond; post { body }` where init and post are
// optional let/assign statements.
func (p *Parser) parseFor() ast.Stmt {
	kw := p.next()

	var init ast.Stmt
	if !p.at(token.Semicolon) {
		if p.at(token.KwLet) {
			init = p.parseLet() // consumes the separating ';'
		} else {
			init = p.parseAssignNoSemi()
			p.expectSemi()
		}
		if init == nil {
			return nil
		}
	} else {
		p.next()
	}

	var cond ast.Expr
	if !p.at(token.Semicolon) {
		cond = p.parseExpr()
		if cond == nil {
			return nil
		}
	}
	p.expectSemi()

	var post ast.Stmt
	if !p.at(token.LBrace) {
		post = p.parseAssignNoSemi()
		if post == nil {
			return nil
		}
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body, Loc: kw.Span.Cover(body.Loc)}
}

func (p *Parser) parseBlock() *ast.Block {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken)
	if !ok {
		return nil
	}
	block := &ast.Block{Loc: open.Span}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.enough() {
			break
		}
		stmt := p.parseStmt()
		if stmt == nil {
			if !p.sync() {
				p.terminal = true
				return nil
			}
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace)
	if !ok {
		p.terminal = true
		return nil
	}
	block.Loc = open.Span.Cover(closeTok.Span)
	return block
}

// parseAssignOrExpr disambiguates `name = expr;` from an expression statement.
func (p *Parser) parseAssignOrExpr() ast.Stmt {
	name := p.next()
	if _, ok := p.eat(token.Assign); ok {
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		end := p.expectSemi()
		return &ast.AssignStmt{Name: name.Text, NameLoc: name.Span, Value: value, Loc: name.Span.Cover(end)}
	}

	expr := p.parsePostfix(&ast.Ident{Name: name.Text, Loc: name.Span})
	if expr == nil {
		return nil
	}
	expr = p.parseBinaryFrom(expr, 0)
	if expr == nil {
		return nil
	}
	end := p.expectSemi()
	return &ast.ExprStmt{X: expr, Loc: expr.Span().Cover(end)}
}

// parseAssignNoSemi parses `name = expr` without the trailing semicolon
// (for-loop headers).
func (p *Parser) parseAssignNoSemi() ast.Stmt {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken); !ok {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	return &ast.AssignStmt{Name: name.Text, NameLoc: name.Span, Value: value, Loc: name.Span.Cover(value.Span())}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	end := p.expectSemi()
	return &ast.ExprStmt{X: expr, Loc: expr.Span().Cover(end)}
}

// parseTypeRef parses `Name` or `[Elem]`.
func (p *Parser) parseTypeRef() *ast.TypeRef {
	if open, ok := p.eat(token.LBracket); ok {
		elem := p.parseTypeRef()
		if elem == nil {
			return nil
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket)
		if !ok {
			return nil
		}
		return &ast.TypeRef{Elem: elem, Loc: open.Span.Cover(closeTok.Span)}
	}
	name, ok := p.expect(token.Ident, diag.SynExpectType)
	if !ok {
		return nil
	}
	return &ast.TypeRef{Name: name.Text, Loc: name.Span}
}

// expectSemi consumes a ';' or reports one missing; either way it returns a
// span usable as a statement end.
func (p *Parser) expectSemi() source.Span {
	if t, ok := p.eat(token.Semicolon); ok {
		return t.Span
	}
	got := p.peek()
	p.errorAt(diag.SynExpectSemicolon, got.Span, "expected ';', found "+describe(got))
	return p.lastSpan
}
