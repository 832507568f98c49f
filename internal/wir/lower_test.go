package wir_test

import (
	"bytes"
	"context"
	"testing"

	"branec/internal/diag"
	"branec/internal/index"
	"branec/internal/parser"
	"branec/internal/resolver"
	"branec/internal/source"
	"branec/internal/symbols"
	"branec/internal/types"
	"branec/internal/version"
	"branec/internal/wir"
)

func lower(t *testing.T, input string, idx index.Index) (*wir.Workflow, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test", []byte(input))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	pres := parser.ParseProgram(fs.Get(id), parser.Options{Reporter: rep})
	if pres.Terminal || bag.Blocking() {
		t.Fatalf("parse of %q failed: %+v", input, bag.Items())
	}
	staging := symbols.NewStaging(symbols.NewTable(), 1)
	rres := resolver.Resolve(context.Background(), pres.Program, staging, resolver.Options{
		Reporter: rep,
		Index:    idx,
	})
	if bag.Blocking() {
		t.Fatalf("resolve of %q failed: %+v", input, bag.Items())
	}
	wf, ok := wir.Lower(pres.Program, rres, staging, rep)
	if !ok {
		t.Fatalf("lowering of %q failed: %+v", input, bag.Items())
	}
	return wf, bag
}

func catalog() index.Index {
	return index.NewMemory().AddPackage(index.PackageInfo{
		Name:    "hello_world",
		Version: "1.0.0",
		Functions: []index.FuncSpec{
			{Name: "hello_world", Ret: types.StringType},
		},
	})
}

func TestLowerStampsSchemaVersion(t *testing.T) {
	wf, _ := lower(t, "let x: Int = 5;", nil)
	if wf.Version != version.Schema() {
		t.Errorf("document version = %q, want %q", wf.Version, version.Schema())
	}
}

func TestLowerLetBecomesLinear(t *testing.T) {
	wf, _ := lower(t, "let x: Int = 5;", nil)
	if len(wf.Graph) != 2 {
		t.Fatalf("graph has %d edges, want linear+stop", len(wf.Graph))
	}
	lin := wf.Graph[0]
	if lin.Kind != wir.EdgeLinear || wf.Graph[1].Kind != wir.EdgeStop {
		t.Fatalf("edge kinds = %v, %v", lin.Kind, wf.Graph[1].Kind)
	}
	want := []wir.Op{wir.OpPushInt, wir.OpVarDecl, wir.OpVarSet}
	if len(lin.Instrs) != len(want) {
		t.Fatalf("instrs = %+v", lin.Instrs)
	}
	for i, op := range want {
		if lin.Instrs[i].Op != op {
			t.Errorf("instr %d = %v, want %v", i, lin.Instrs[i].Op, op)
		}
	}
	if x := wf.Table.Vars; len(x) != 1 || x[0].Name != "x" || x[0].Type != "Int" {
		t.Errorf("vars table = %+v", x)
	}
}

func TestLowerTaskCallBecomesNode(t *testing.T) {
	wf, _ := lower(t, "import hello_world;\nlet msg = hello_world();", catalog())

	var node *wir.Edge
	for i := range wf.Graph {
		if wf.Graph[i].Kind == wir.EdgeNode {
			node = &wf.Graph[i]
		}
	}
	if node == nil {
		t.Fatalf("no node edge in %+v", wf.Graph)
	}
	if node.Task < 0 || node.Task >= len(wf.Table.Tasks) {
		t.Fatalf("node references task %d outside the table", node.Task)
	}
	task := wf.Table.Tasks[node.Task]
	if task.Name != "hello_world" || task.Package != "hello_world" || task.Version != "1.0.0" {
		t.Errorf("task = %+v", task)
	}
	if node.Next != wir.NoEdge && node.Next >= len(wf.Graph) {
		t.Errorf("node.Next = %d points past the chain", node.Next)
	}
}

func TestLowerLocalCall(t *testing.T) {
	wf, _ := lower(t, "func twice(n: Int): Int { return n * 2; }\nlet r = twice(4);", nil)

	if len(wf.Table.Funcs) != 1 || wf.Table.Funcs[0].Name != "twice" {
		t.Fatalf("funcs table = %+v", wf.Table.Funcs)
	}
	body, ok := wf.Funcs[0]
	if !ok || len(body) == 0 {
		t.Fatalf("no chain for function 0: %+v", wf.Funcs)
	}
	if body[len(body)-1].Kind != wir.EdgeReturn {
		t.Errorf("function chain must end in a return edge, got %v", body[len(body)-1].Kind)
	}

	var call *wir.Edge
	for i := range wf.Graph {
		if wf.Graph[i].Kind == wir.EdgeCall {
			call = &wf.Graph[i]
		}
	}
	if call == nil {
		t.Fatalf("no call edge in %+v", wf.Graph)
	}
	if call.Func != 0 {
		t.Errorf("call.Func = %d, want 0", call.Func)
	}
}

func TestLowerBuiltinStaysInline(t *testing.T) {
	wf, _ := lower(t, `println("hi");`, nil)

	if len(wf.Table.Funcs) != 0 {
		t.Errorf("builtins must not enter the document table: %+v", wf.Table.Funcs)
	}
	var found bool
	for _, e := range wf.Graph {
		for _, in := range e.Instrs {
			if in.Op == wir.OpBuiltin && in.Str == "println" && in.Count == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("no builtin instruction in %+v", wf.Graph)
	}
}

func TestLowerWhileShape(t *testing.T) {
	wf, _ := lower(t, "let i: Int = 0;\nwhile i < 3 { i = i + 1; }", nil)

	var li int = -1
	for i := range wf.Graph {
		if wf.Graph[i].Kind == wir.EdgeLoop {
			li = i
		}
	}
	if li < 0 {
		t.Fatalf("no loop edge in %+v", wf.Graph)
	}
	loop := wf.Graph[li]
	if loop.Cond <= li || loop.Body <= loop.Cond || loop.Exit <= loop.Body {
		t.Fatalf("loop links out of order: %+v", loop)
	}

	branch := wf.Graph[loop.Body-1]
	if branch.Kind != wir.EdgeBranch {
		t.Fatalf("condition must end in a branch, got %v", branch.Kind)
	}
	if branch.True != loop.Body || branch.False != loop.Exit {
		t.Errorf("branch = %+v, want true→%d false→%d", branch, loop.Body, loop.Exit)
	}

	// The body's tail jumps back to the loop head.
	back := wf.Graph[loop.Exit-1]
	if back.Kind != wir.EdgeLinear || back.Next != li {
		t.Errorf("back jump = %+v, want linear → %d", back, li)
	}
}

func TestLowerIfElseMerges(t *testing.T) {
	wf, _ := lower(t, "let a: Int = 1;\nif a > 0 { a = 2; } else { a = 3; }\na = 4;", nil)

	var bi int = -1
	for i := range wf.Graph {
		if wf.Graph[i].Kind == wir.EdgeBranch {
			bi = i
		}
	}
	if bi < 0 {
		t.Fatalf("no branch edge in %+v", wf.Graph)
	}
	br := wf.Graph[bi]
	if br.True < 0 || br.False < 0 || br.True == br.False {
		t.Fatalf("branch targets = %+v", br)
	}
	// Both arms reach the merge point (the then arm via its trailing jump).
	thenJump := wf.Graph[br.False-1]
	if thenJump.Kind != wir.EdgeLinear {
		t.Fatalf("expected a jump before the else arm, got %+v", thenJump)
	}
	if thenJump.Next <= br.False {
		t.Errorf("then arm jump = %d, must land after the else arm", thenJump.Next)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	const src = "import hello_world;\nfunc f(n: Int): Int { return n + 1; }\nlet msg = hello_world();\nlet k = f(2);"

	wf1, _ := lower(t, src, catalog())
	wf2, _ := lower(t, src, catalog())

	b1, err := wf1.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	b2, err := wf2.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("identical programs serialized differently:\n%s\n%s", b1, b2)
	}

	// Re-serializing the same workflow is also stable.
	b3, _ := wf1.Serialize()
	if !bytes.Equal(b1, b3) {
		t.Fatal("re-serialization of one workflow is not stable")
	}
}

func TestTableSorted(t *testing.T) {
	wf, _ := lower(t, "let zeta: Int = 1;\nlet alpha: Int = 2;\nlet mid: Int = 3;", nil)
	names := make([]string, 0, len(wf.Table.Vars))
	for _, v := range wf.Table.Vars {
		names = append(names, v.Name)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("vars order = %v, want %v", names, want)
		}
	}
}

func TestSubmissionProvenance(t *testing.T) {
	wf, _ := lower(t, "let x: Int = 5;", nil)
	if wf.Table.Vars[0].Submission != 1 {
		t.Errorf("submission = %d, want 1", wf.Table.Vars[0].Submission)
	}
}
