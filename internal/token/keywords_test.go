package token_test

import (
	"testing"

	"branec/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		want  token.Kind
		ok    bool
	}{
		{"import", token.KwImport, true},
		{"let", token.KwLet, true},
		{"func", token.KwFunc, true},
		{"data", token.KwData, true},
		{"true", token.KwTrue, true},
		{"Import", token.Invalid, false}, // case-sensitive
		{"x", token.Invalid, false},
		{"", token.Invalid, false},
	}

	for _, tt := range tests {
		got, ok := token.LookupKeyword(tt.ident)
		if ok != tt.ok {
			t.Errorf("LookupKeyword(%q) ok = %v, want %v", tt.ident, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tt.ident, got, tt.want)
		}
	}
}

func TestClassification(t *testing.T) {
	lit := token.Token{Kind: token.IntLit, Text: "5"}
	if !lit.IsLiteral() || lit.IsKeyword() || lit.IsIdent() {
		t.Error("IntLit misclassified")
	}
	kw := token.Token{Kind: token.KwLet, Text: "let"}
	if !kw.IsKeyword() || kw.IsIdent() {
		t.Error("KwLet misclassified")
	}
	id := token.Token{Kind: token.Ident, Text: "x"}
	if !id.IsIdent() || id.IsKeyword() || id.IsLiteral() {
		t.Error("Ident misclassified")
	}
}
