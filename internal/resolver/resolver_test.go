package resolver_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/index"
	"branec/internal/parser"
	"branec/internal/resolver"
	"branec/internal/source"
	"branec/internal/symbols"
	"branec/internal/types"
)

func resolve(t *testing.T, input string, table *symbols.Table, idx index.Index) (*resolver.Result, *symbols.Staging, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test", []byte(input))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	res := parser.ParseProgram(fs.Get(id), parser.Options{Reporter: rep})
	if res.Terminal {
		t.Fatalf("unexpected terminal parse for %q", input)
	}
	if table == nil {
		table = symbols.NewTable()
	}
	staging := symbols.NewStaging(table, 1)
	out := resolver.Resolve(context.Background(), res.Program, staging, resolver.Options{
		Reporter: rep,
		Index:    idx,
		Timeout:  time.Second,
	})
	return out, staging, bag
}

func TestLetDeclares(t *testing.T) {
	_, staging, bag := resolve(t, "let x: Int = 5;", nil, nil)
	if bag.HasErrors() {
		t.Fatalf("errors: %+v", bag.Items())
	}
	d, ok := staging.Lookup("x")
	if !ok || d.Kind != symbols.DefVariable || !d.Type.Equals(types.IntType) {
		t.Fatalf("x = %+v, ok=%v", d, ok)
	}
}

func TestLetAnnotationMismatch(t *testing.T) {
	_, _, bag := resolve(t, `let x: Int = "five";`, nil, nil)
	if !bag.HasErrors() {
		t.Fatal("expected TypMismatch")
	}
	if bag.Items()[0].Code != diag.TypMismatch {
		t.Errorf("code = %v", bag.Items()[0].Code)
	}
}

func TestUndeclaredReferenceCitesSpan(t *testing.T) {
	src := "let y = doStuff();"
	_, _, bag := resolve(t, src, nil, nil)
	if !bag.HasErrors() {
		t.Fatal("expected ResUndeclared")
	}
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.ResUndeclared {
			found = true
			if d.Primary.Empty() {
				t.Error("undeclared reference must carry a span")
			}
			if got := src[d.Primary.Start:d.Primary.End]; got != "doStuff" {
				t.Errorf("span covers %q, want \"doStuff\"", got)
			}
		}
	}
	if !found {
		t.Fatalf("no ResUndeclared in %+v", bag.Items())
	}
}

func TestAllErrorsSurfacedInOnePass(t *testing.T) {
	_, _, bag := resolve(t, "let a = nope1();\nlet b = nope2();\nlet c = nope3();", nil, nil)
	count := 0
	for _, d := range bag.Items() {
		if d.Code == diag.ResUndeclared {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("undeclared errors = %d, want 3 (resolution must not stop early)", count)
	}
}

func TestCommittedTableVisible(t *testing.T) {
	table := symbols.NewTable()
	st := symbols.NewStaging(table, 1)
	st.Declare(symbols.Definition{Name: "f", Kind: symbols.DefFunction,
		Signature: &types.Signature{Params: []*types.Type{types.IntType}, Ret: types.IntType}})
	if st.Commit() != nil {
		t.Fatal("seed commit failed")
	}

	_, _, bag := resolve(t, "let r = f(1);", table, nil)
	if bag.HasErrors() {
		t.Fatalf("committed function not visible: %+v", bag.Items())
	}
}

func TestStagedBeforeCommitted(t *testing.T) {
	// Declaring and referencing in the same submission works pre-commit.
	_, _, bag := resolve(t, "func twice(n: Int): Int { return n * 2; }\nlet r = twice(4);", nil, nil)
	if bag.HasErrors() {
		t.Fatalf("staged lookup failed: %+v", bag.Items())
	}
}

func TestConflictAgainstCommitted(t *testing.T) {
	table := symbols.NewTable()
	st := symbols.NewStaging(table, 1)
	st.Declare(symbols.Definition{Name: "x", Kind: symbols.DefVariable, Type: types.IntType})
	st.Commit()

	_, _, bag := resolve(t, "let x: Int = 6;", table, nil)
	if !bag.HasErrors() {
		t.Fatal("expected ResConflict")
	}
	if bag.Items()[0].Code != diag.ResConflict {
		t.Errorf("code = %v", bag.Items()[0].Code)
	}
}

func TestImportStagesTasks(t *testing.T) {
	idx := index.NewMemory().AddPackage(index.PackageInfo{
		Name:    "hello_world",
		Version: "1.0.0",
		Functions: []index.FuncSpec{
			{Name: "hello_world", Ret: types.StringType},
		},
	})

	res, staging, bag := resolve(t, "import hello_world;\nlet msg = hello_world();", nil, idx)
	if bag.HasErrors() || bag.HasFatal() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if d, ok := staging.Lookup("hello_world"); !ok || d.Kind != symbols.DefTask {
		t.Fatalf("task not staged: %+v", d)
	}
	// The call site must be resolved to the task for lowering.
	foundTask := false
	for _, d := range res.Calls {
		if d.Kind == symbols.DefTask && d.Package == "hello_world" {
			foundTask = true
		}
	}
	if !foundTask {
		t.Error("call not linked to task definition")
	}
}

func TestUnknownPackageIsError(t *testing.T) {
	_, _, bag := resolve(t, "import nonexistent;", nil, index.NewMemory())
	if !bag.HasErrors() || bag.HasFatal() {
		t.Fatalf("want source error, got %+v", bag.Items())
	}
	if bag.Items()[0].Code != diag.ResUnknownPackage {
		t.Errorf("code = %v", bag.Items()[0].Code)
	}
}

func TestIndexFailureIsFatal(t *testing.T) {
	broken := index.NewMemory()
	broken.Err = errors.New("connection refused")

	_, _, bag := resolve(t, "import anything;", nil, broken)
	if !bag.HasFatal() {
		t.Fatalf("want fatal, got %+v", bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Severity == diag.SevFatal && !d.Primary.Empty() {
			t.Error("fatal must not carry a span")
		}
	}
}

func TestNoIndexConfigured(t *testing.T) {
	_, _, bag := resolve(t, "import anything;", nil, nil)
	if !bag.HasErrors() {
		t.Fatal("expected ResNoIndex error")
	}
	if bag.HasFatal() {
		t.Fatal("missing configuration is a source-level error, not fatal")
	}
}

func TestUnusedVariableWarning(t *testing.T) {
	_, _, bag := resolve(t, "func f(): Int { let tmp = 1; return 2; }", nil, nil)
	if bag.HasErrors() {
		t.Fatalf("errors: %+v", bag.Items())
	}
	if !bag.HasWarnings() {
		t.Fatal("expected ResUnusedVariable warning")
	}
	if bag.Items()[0].Code != diag.ResUnusedVariable {
		t.Errorf("code = %v", bag.Items()[0].Code)
	}
}

func TestDeadCodeWarning(t *testing.T) {
	_, _, bag := resolve(t, "func f(): Int { return 1; let after = 2; }", nil, nil)
	if !bag.HasWarnings() {
		t.Fatal("expected ResDeadCode warning")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ResDeadCode {
			found = true
		}
	}
	if !found {
		t.Errorf("no ResDeadCode in %+v", bag.Items())
	}
}

func TestCondMustBeBool(t *testing.T) {
	_, _, bag := resolve(t, "if 42 { let a = 1; }", nil, nil)
	if !bag.HasErrors() {
		t.Fatal("expected TypCondNotBool")
	}
	if bag.Items()[0].Code != diag.TypCondNotBool {
		t.Errorf("code = %v", bag.Items()[0].Code)
	}
}

func TestArityAndArgumentChecks(t *testing.T) {
	_, _, bag := resolve(t, "func g(n: Int): Int { return n; }\nlet a = g();\nlet b = g(\"s\");", nil, nil)
	var arity, badArg bool
	for _, d := range bag.Items() {
		switch d.Code {
		case diag.ResArity:
			arity = true
		case diag.TypBadArgument:
			badArg = true
		}
	}
	if !arity || !badArg {
		t.Fatalf("arity=%v badArg=%v: %+v", arity, badArg, bag.Items())
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	_, _, bag := resolve(t, "break;", nil, nil)
	if !bag.HasErrors() || bag.Items()[0].Code != diag.ResBadFlow {
		t.Fatalf("want ResBadFlow, got %+v", bag.Items())
	}
}

func TestTypesAnnotated(t *testing.T) {
	res, _, bag := resolve(t, "let x = 1 + 2.5;", nil, nil)
	if bag.HasErrors() {
		t.Fatalf("errors: %+v", bag.Items())
	}
	var found bool
	for e, typ := range res.Types {
		if _, ok := e.(*ast.Binary); ok {
			found = true
			if !typ.Equals(types.RealType) {
				t.Errorf("1 + 2.5 typed as %v, want Real", typ)
			}
		}
	}
	if !found {
		t.Fatal("binary expression not annotated")
	}
}
