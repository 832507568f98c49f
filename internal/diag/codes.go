package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind. The thousands digit encodes the pipeline
// stage that produced it, which keeps bundle ordering stage-first.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntactic
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectExpression Code = 2004
	SynUnclosedParen    Code = 2005
	SynUnclosedBrace    Code = 2006
	SynUnclosedBracket  Code = 2007
	SynBadVersion       Code = 2008
	SynExpectType       Code = 2009

	// Resolution
	ResUndeclared     Code = 3001
	ResConflict       Code = 3002
	ResUnknownPackage Code = 3003
	ResUnknownData    Code = 3004
	ResNotCallable    Code = 3005
	ResArity          Code = 3006
	ResBadFlow        Code = 3007
	ResNoIndex        Code = 3008
	ResUnusedVariable Code = 3101
	ResDeadCode       Code = 3102

	// Type checking
	TypMismatch     Code = 4001
	TypCondNotBool  Code = 4002
	TypBadOperand   Code = 4003
	TypBadArgument  Code = 4004
	TypBadReturn    Code = 4005
	TypBadElement   Code = 4006

	// Lowering
	LowInvariant Code = 5001

	// Session / environment
	SesClosed           Code = 6001
	SesIndexUnreachable Code = 6002
	SesSnapshot         Code = 6003
	SesSerialize        Code = 6004
	SesLoadFile         Code = 6005
)

// Stage returns the pipeline stage bucket the code belongs to (1=lex, 2=parse,
// 3=resolve, 4=typecheck, 5=lower, 6=session).
func (c Code) Stage() uint16 {
	return uint16(c) / 1000
}

// ID renders the code as a stable short identifier, e.g. "BS3001".
func (c Code) ID() string {
	return fmt.Sprintf("BS%04d", uint16(c))
}

func (c Code) String() string {
	return c.ID()
}
