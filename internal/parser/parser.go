package parser

import (
	"fmt"

	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/lexer"
	"branec/internal/source"
	"branec/internal/token"
)

// Options configures one parse.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint // 0 means unlimited
}

// Result is the outcome of parsing one snippet. Terminal means the parser
// could not recover a structurally valid tree and the submission must skip
// the remaining pipeline stages.
type Result struct {
	Program  *ast.Program
	Terminal bool
}

// Parser holds the state for parsing one snippet.
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	errs     uint
	terminal bool
	lastSpan source.Span
}

// ParseProgram is the entry point for one submission. The lexer is built
// internally over the same reporter so lexical and syntactic diagnostics land
// in one bundle.
func ParseProgram(file *source.File, opts Options) Result {
	p := &Parser{
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file: file,
		opts: opts,
	}

	prog := &ast.Program{Loc: source.Span{File: file.ID}}
	for !p.at(token.EOF) {
		if p.enough() {
			break
		}
		stmt := p.parseStmt()
		if stmt == nil {
			// Could not shape a statement; resync or give up.
			if !p.sync() {
				p.terminal = true
				break
			}
			continue
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}

	if len(prog.Stmts) > 0 {
		prog.Loc = prog.Stmts[0].Span().Cover(prog.Stmts[len(prog.Stmts)-1].Span())
	}
	return Result{Program: prog, Terminal: p.terminal}
}

// next returns the following significant token, skipping Invalid recovery
// tokens (the lexer already reported those).
func (p *Parser) next() token.Token {
	for {
		t := p.lx.Next()
		if t.Kind != token.Invalid {
			p.lastSpan = t.Span
			return t
		}
	}
}

func (p *Parser) peek() token.Token {
	for {
		t := p.lx.Peek()
		if t.Kind != token.Invalid {
			return t
		}
		p.lx.Next()
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

// expect consumes a token of kind k or reports an error at the current token.
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if t, ok := p.eat(k); ok {
		return t, true
	}
	got := p.peek()
	p.errorAt(code, got.Span, fmt.Sprintf("expected %s, found %s", k, describe(got)))
	return token.Token{}, false
}

func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) {
	p.errs++
	diag.Errorf(p.opts.Reporter, code, sp, msg)
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errs >= p.opts.MaxErrors
}

// sync skips tokens until just past a semicolon or a closing brace, the
// statement boundaries of the language. Returns false when only EOF remains,
// which means recovery is hopeless.
func (p *Parser) sync() bool {
	for {
		t := p.peek()
		switch t.Kind {
		case token.EOF:
			return false
		case token.Semicolon, token.RBrace:
			p.next()
			return true
		default:
			p.next()
		}
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of snippet"
	case token.Ident:
		return fmt.Sprintf("'%s'", t.Text)
	default:
		return t.Kind.String()
	}
}
