package fuzztests

import (
	"context"
	"testing"
	"time"

	"branec/internal/diag"
	"branec/internal/parser"
	"branec/internal/source"
)

// parseTimeout flags inputs that trap error recovery in a loop.
const parseTimeout = 5 * time.Second

func FuzzParserRecovers(f *testing.F) {
	addSnippetSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.bs", input))

		bag := diag.NewBag(1024)
		res := parser.ParseProgram(file, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})

		if res.Program == nil {
			t.Fatal("nil program; even a terminal parse returns a tree")
		}
		if res.Terminal && !bag.Blocking() {
			t.Fatal("terminal outcome without a blocking diagnostic")
		}
		for _, st := range res.Program.Stmts {
			if st == nil {
				t.Fatal("nil statement in parsed program")
			}
		}
	})
}

func FuzzParserNoHang(f *testing.F) {
	addSnippetSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.bs", input))
			bag := diag.NewBag(1024)
			_ = parser.ParseProgram(file, parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser did not finish within %v on %d bytes: %.200q",
				parseTimeout, len(input), input)
		}
	})
}
