package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"branec/internal/compiler"
	"branec/internal/diag"
	"branec/internal/driver"
	"branec/internal/index"
	"branec/internal/types"
)

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileDirIndependentFiles(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.bs", "let x: Int = 1;")
	writeScript(t, dir, "b.bs", "let x: Int = 2;") // same name, different file
	writeScript(t, dir, "c.bs", "let y = doStuff();")
	writeScript(t, dir, "skip.txt", "not a script")

	results, err := driver.CompileDir(context.Background(), dir, compiler.Options{}, 4)
	if err != nil {
		t.Fatalf("compile dir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3 (txt skipped)", len(results))
	}

	// Sorted order: a.bs, b.bs, c.bs.
	if results[0].Doc == nil || results[0].Bag.Blocking() {
		t.Errorf("a.bs failed: %+v", results[0].Bag.Items())
	}
	// Files are isolated sessions: b.bs redeclaring x is fine.
	if results[1].Doc == nil || results[1].Bag.Blocking() {
		t.Errorf("b.bs failed: %+v", results[1].Bag.Items())
	}
	if results[2].Doc != nil || !results[2].Bag.HasErrors() {
		t.Errorf("c.bs should have failed: %+v", results[2].Bag.Items())
	}
}

func TestCompileFilesMissingFile(t *testing.T) {
	results, err := driver.CompileFiles(context.Background(),
		[]string{filepath.Join(t.TempDir(), "absent.bs")}, compiler.Options{}, 1)
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if results[0].Doc != nil || !results[0].Bag.HasFatal() {
		t.Fatalf("missing file must be a fatal in the file's bag: %+v", results[0].Bag.Items())
	}
	if results[0].Bag.Items()[0].Code != diag.SesLoadFile {
		t.Errorf("code = %v, want SesLoadFile", results[0].Bag.Items()[0].Code)
	}
}

func TestCompileFilesCanceledContext(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "a.bs", "let x: Int = 1;")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := driver.CompileFiles(ctx, []string{p}, compiler.Options{}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCompileFilesSharedIndex(t *testing.T) {
	idx := index.NewMemory().AddPackage(index.PackageInfo{
		Name:    "hello_world",
		Version: "1.0.0",
		Functions: []index.FuncSpec{
			{Name: "hello_world", Ret: types.StringType},
		},
	})
	dir := t.TempDir()
	p1 := writeScript(t, dir, "one.bs", "import hello_world;\nlet m = hello_world();")
	p2 := writeScript(t, dir, "two.bs", "import hello_world;\nprintln(hello_world());")

	results, err := driver.CompileFiles(context.Background(), []string{p1, p2},
		compiler.Options{Index: idx}, 0)
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}
	for _, r := range results {
		if r.Doc == nil || r.Bag.Blocking() {
			t.Errorf("%s failed: %+v", r.Path, r.Bag.Items())
		}
	}
}
