package diag_test

import (
	"strings"
	"testing"

	"branec/internal/diag"
	"branec/internal/source"
)

func TestRenderErrorWithCaret(t *testing.T) {
	src := []byte("let x: Int = doStuff();")
	b := diag.NewBag(0)
	b.Add(diag.NewError(diag.ResUndeclared, source.Span{Start: 13, End: 20}, "undeclared name 'doStuff'"))

	var sb strings.Builder
	if err := diag.Render(&sb, b, "snippet-1", src, diag.RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	if !strings.Contains(out, "ERROR BS3001 snippet-1:1:14 undeclared name 'doStuff'") {
		t.Errorf("missing header line:\n%s", out)
	}
	if !strings.Contains(out, "let x: Int = doStuff();") {
		t.Errorf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "^^^^^^^") {
		t.Errorf("missing caret underline:\n%s", out)
	}
}

func TestRenderFatalHasNoLocation(t *testing.T) {
	b := diag.NewBag(0)
	b.Add(diag.NewFatal(diag.SesIndexUnreachable, "package index unreachable: dial tcp: timeout"))

	var sb strings.Builder
	if err := diag.Render(&sb, b, "snippet-1", []byte("let x = 5;"), diag.RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "FATAL BS6002 package index unreachable") {
		t.Errorf("missing fatal line:\n%s", out)
	}
	if strings.Contains(out, "snippet-1:") {
		t.Errorf("fatal must not render a source location:\n%s", out)
	}
}

func TestRenderIsRepeatable(t *testing.T) {
	src := []byte("let y = ;")
	b := diag.NewBag(0)
	b.Add(diag.NewError(diag.SynExpectExpression, source.Span{Start: 8, End: 9}, "expected expression"))

	var first, second strings.Builder
	if err := diag.Render(&first, b, "s", src, diag.RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := diag.Render(&second, b, "s", src, diag.RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Error("rendering must be repeatable and side-effect free")
	}
}

func TestRenderEmptyBag(t *testing.T) {
	var sb strings.Builder
	if err := diag.Render(&sb, diag.NewBag(0), "s", nil, diag.RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if sb.Len() != 0 {
		t.Errorf("empty bundle rendered output: %q", sb.String())
	}
}
