package compiler_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"branec/internal/compiler"
	"branec/internal/diag"
	"branec/internal/index"
	"branec/internal/types"
)

func open(t *testing.T, opts compiler.Options) *compiler.Session {
	t.Helper()
	s, err := compiler.Open(opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
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

func TestCompileCleanSnippetCommits(t *testing.T) {
	s := open(t, compiler.Options{})
	doc, bag := s.Compile(context.Background(), []byte("let x: Int = 5;"))
	if bag.Blocking() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if doc == nil || len(doc.JSON) == 0 {
		t.Fatal("clean submission must produce a document")
	}
	if len(doc.Timing.Stages) == 0 {
		t.Error("document carries no stage timings")
	}

	// The committed definition is visible to the next snippet.
	doc2, bag2 := s.Compile(context.Background(), []byte("let y: Int = x + 1;"))
	if bag2.Blocking() || doc2 == nil {
		t.Fatalf("second snippet failed: %+v", bag2.Items())
	}
}

func TestRedeclarationAcrossSubmissions(t *testing.T) {
	s := open(t, compiler.Options{})
	if doc, bag := s.Compile(context.Background(), []byte("let x: Int = 5;")); doc == nil || bag.Blocking() {
		t.Fatalf("seed snippet failed: %+v", bag.Items())
	}

	doc, bag := s.Compile(context.Background(), []byte("let x: Int = 6;"))
	if doc != nil {
		t.Fatal("redeclaration must not produce a document")
	}
	if !bag.HasErrors() {
		t.Fatalf("want a conflict error, got %+v", bag.Items())
	}
	if bag.Items()[0].Code != diag.ResConflict {
		t.Errorf("code = %v, want ResConflict", bag.Items()[0].Code)
	}
}

func TestFailedSubmissionLeavesNoTrace(t *testing.T) {
	s := open(t, compiler.Options{})

	// 'good' stages fine, but the undeclared call fails the submission, so
	// nothing of it may commit.
	src := []byte("let good: Int = 1;\nlet bad = doStuff();")
	if doc, bag := s.Compile(context.Background(), src); doc != nil || !bag.HasErrors() {
		t.Fatalf("submission should have failed: %+v", bag.Items())
	}

	// If 'good' had leaked into the table this would now conflict.
	doc, bag := s.Compile(context.Background(), []byte("let good: Int = 2;"))
	if doc == nil || bag.Blocking() {
		t.Fatalf("table was polluted by a failed submission: %+v", bag.Items())
	}
}

func TestUndeclaredReferenceReportsSpan(t *testing.T) {
	s := open(t, compiler.Options{})
	_, bag := s.Compile(context.Background(), []byte("let y = doStuff();"))
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.ResUndeclared {
			found = true
			if d.Primary.Empty() {
				t.Error("undeclared reference must carry a span")
			}
		}
	}
	if !found {
		t.Fatalf("no ResUndeclared in %+v", bag.Items())
	}
}

func TestWarningsDoNotBlock(t *testing.T) {
	s := open(t, compiler.Options{})
	doc, bag := s.Compile(context.Background(),
		[]byte("func f(): Int { let tmp = 1; return 2; }"))
	if !bag.HasWarnings() {
		t.Fatalf("expected an unused-variable warning, got %+v", bag.Items())
	}
	if doc == nil {
		t.Fatal("warnings alone must not withhold the document")
	}
}

func TestWarningsAsErrors(t *testing.T) {
	s := open(t, compiler.Options{WarningsAsErrors: true})
	doc, bag := s.Compile(context.Background(),
		[]byte("func f(): Int { let tmp = 1; return 2; }"))
	if doc != nil {
		t.Fatal("warnings-as-errors must withhold the document")
	}
	// Severity stays a warning; only the outcome hardens.
	if !bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}

	// The declaration must not have committed.
	doc, bag = s.Compile(context.Background(), []byte("func f(): Int { return 3; }"))
	if doc == nil || bag.Blocking() {
		t.Fatalf("warnings-as-errors submission leaked into the table: %+v", bag.Items())
	}
}

func TestTerminalParseSkipsLaterStages(t *testing.T) {
	s := open(t, compiler.Options{})
	doc, bag := s.Compile(context.Background(), []byte("func broken( {"))
	if doc != nil {
		t.Fatal("terminal parse must not produce a document")
	}
	if !bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Code.Stage() > 2 {
			t.Errorf("stage %d diagnostic after a terminal parse: %+v", d.Code.Stage(), d)
		}
	}
}

func TestImportThroughIndex(t *testing.T) {
	s := open(t, compiler.Options{Index: catalog()})
	doc, bag := s.Compile(context.Background(),
		[]byte("import hello_world;\nlet msg = hello_world();"))
	if doc == nil || bag.Blocking() {
		t.Fatalf("import failed: %+v", bag.Items())
	}

	// The task persists: later snippets call it without re-importing.
	doc, bag = s.Compile(context.Background(), []byte("let again = hello_world();"))
	if doc == nil || bag.Blocking() {
		t.Fatalf("imported task did not persist: %+v", bag.Items())
	}
}

func TestIndexUnreachableIsFatalNotCommitted(t *testing.T) {
	broken := index.NewMemory()
	broken.Err = errors.New("connection refused")
	s := open(t, compiler.Options{Index: broken})

	doc, bag := s.Compile(context.Background(), []byte("import hello_world;"))
	if doc != nil {
		t.Fatal("fatal outcome must not produce a document")
	}
	if !bag.HasFatal() {
		t.Fatalf("want fatal, got %+v", bag.Items())
	}

	// Same submission retried after the index recovers.
	s2 := open(t, compiler.Options{Index: catalog()})
	if doc, bag := s2.Compile(context.Background(), []byte("import hello_world;")); doc == nil || bag.Blocking() {
		t.Fatalf("retry failed: %+v", bag.Items())
	}
}

func TestNoIndexConfigured(t *testing.T) {
	s := open(t, compiler.Options{})
	doc, bag := s.Compile(context.Background(), []byte("import hello_world;"))
	if doc != nil || !bag.HasErrors() || bag.HasFatal() {
		t.Fatalf("missing index must be a plain error: %+v", bag.Items())
	}
}

func TestClosedSessionRejectsSubmissions(t *testing.T) {
	s := open(t, compiler.Options{})
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	before := s.Submissions()
	doc, bag := s.Compile(context.Background(), []byte("let x: Int = 1;"))
	if doc != nil || !bag.HasFatal() {
		t.Fatalf("closed session accepted a submission: %+v", bag.Items())
	}
	if bag.Items()[0].Code != diag.SesClosed {
		t.Errorf("code = %v, want SesClosed", bag.Items()[0].Code)
	}
	if s.Submissions() != before {
		t.Error("rejected submission must not advance the counter")
	}
}

func TestDeterministicAcrossSessions(t *testing.T) {
	snippets := [][]byte{
		[]byte("import hello_world;"),
		[]byte("func f(n: Int): Int { return n + 1; }"),
		[]byte("let msg = hello_world();\nlet k = f(2);"),
	}

	run := func() [][]byte {
		s := open(t, compiler.Options{Index: catalog()})
		var docs [][]byte
		for _, src := range snippets {
			doc, bag := s.Compile(context.Background(), src)
			if doc == nil {
				t.Fatalf("snippet %q failed: %+v", src, bag.Items())
			}
			docs = append(docs, doc.JSON)
		}
		return docs
	}

	a, b := run(), run()
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			t.Fatalf("snippet %d serialized differently across sessions:\n%s\n%s", i, a[i], b[i])
		}
	}
}

func TestBagSortedStageFirst(t *testing.T) {
	s := open(t, compiler.Options{})
	// A lexical error and a resolution error in one snippet.
	_, bag := s.Compile(context.Background(), []byte("let a = nope();\nlet s = \"unterminated;"))
	if bag.Len() < 2 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	items := bag.Items()
	for i := 1; i < len(items); i++ {
		if items[i-1].Code.Stage() > items[i].Code.Stage() {
			t.Fatalf("bundle not stage-ordered: %+v", items)
		}
	}
}

func TestSnapshotPersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.mp")

	s1 := open(t, compiler.Options{SnapshotPath: path})
	if doc, bag := s1.Compile(context.Background(), []byte("let x: Int = 41;")); doc == nil {
		t.Fatalf("seed failed: %+v", bag.Items())
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := open(t, compiler.Options{SnapshotPath: path})
	doc, bag := s2.Compile(context.Background(), []byte("let y: Int = x + 1;"))
	if doc == nil || bag.Blocking() {
		t.Fatalf("restored table is missing x: %+v", bag.Items())
	}

	// Provenance continues counting instead of restarting at 1.
	if s2.Submissions() != 2 {
		t.Errorf("submissions = %d, want 2 (1 restored + 1 new)", s2.Submissions())
	}
}

func TestSnapshotCorruptFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.mp")
	if err := os.WriteFile(path, []byte("not msgpack at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := compiler.Open(compiler.Options{SnapshotPath: path}); err == nil {
		t.Fatal("corrupt snapshot must fail Open")
	}
}

func TestOpenValidatesEndpoint(t *testing.T) {
	if _, err := compiler.Open(compiler.Options{IndexEndpoint: "not a url"}); err == nil {
		t.Fatal("invalid endpoint must fail Open")
	}
	// A well-formed endpoint is accepted without being contacted.
	if _, err := compiler.Open(compiler.Options{IndexEndpoint: "http://127.0.0.1:9"}); err != nil {
		t.Fatalf("lazy endpoint rejected: %v", err)
	}
}

func TestMaxDiagnosticsCap(t *testing.T) {
	s := open(t, compiler.Options{MaxDiagnostics: 2})
	_, bag := s.Compile(context.Background(),
		[]byte("let a = n1();\nlet b = n2();\nlet c = n3();\nlet d = n4();"))
	if bag.Len() != 2 {
		t.Fatalf("bundle size = %d, want capped at 2", bag.Len())
	}
}

func TestErrorBeyondCapStillBlocksCommit(t *testing.T) {
	s := open(t, compiler.Options{MaxDiagnostics: 1})

	// The warning fills the bundle before the error arrives; the error must
	// still withhold the document and the commit.
	doc, bag := s.Compile(context.Background(),
		[]byte("func f(): Int { let tmp = 1; return 2; }\nlet y: Int = \"oops\";"))
	if doc != nil {
		t.Fatal("erroneous submission must not produce a document")
	}
	if !bag.HasErrors() {
		t.Fatalf("error lost past the cap: %+v", bag.Items())
	}
	if bag.Len() != 1 {
		t.Fatalf("retention cap ignored: %d items", bag.Len())
	}

	// Nothing from the failed submission leaked into the table.
	doc2, bag2 := s.Compile(context.Background(), []byte("let y: Int = 1;"))
	if doc2 == nil || bag2.Blocking() {
		t.Fatalf("'y' must be free after the failed submission: %+v", bag2.Items())
	}
}
