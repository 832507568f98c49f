// Package fuzztests holds fuzz harnesses for the snippet front end. The lexer
// and parser must be total: any byte sequence yields diagnostics plus a usable
// (possibly terminal) result, never a panic or a hang.
package fuzztests
