package fuzztests

import "testing"

// maxFuzzInput bounds a single fuzz input; the front end is linear in input
// size, so larger bodies only slow the corpus down.
const maxFuzzInput = 64 << 10

// validSeeds covers the statement and expression forms the grammar accepts;
// each must parse without diagnostics.
var validSeeds = []string{
	"",
	"let x: Int = 5;",
	"let name = \"brane\";",
	"let xs = [1, 2, 3]; let h = xs[0];",
	"import hello_world;",
	"import hello_world[1.0.0];",
	"data census_2024;",
	"func double(n: Int): Int { return n * 2; }",
	"func noop() {}",
	"if x < 10 { x = x + 1; } else { x = 0; }",
	"while i < 10 { i = i + 1; }",
	"for let i = 0; i < 10; i = i + 1 { print(i); }",
	"while true { if done { break; } continue; }",
	"print(\"hi\"); println(len([1,2]));",
	"let ok = !(a && b) || c == d;",
	"let r: Real = 1.5e3 + .25;",
}

// recoverySeeds exercise error recovery: malformed, truncated, or foreign
// syntax the parser must survive.
var recoverySeeds = []string{
	"let x: Int = 5",
	"let x := 1;",
	"let := ;",
	"func f( {",
	"import pkg[1.0];",
	"\"unterminated",
	"/* unterminated block",
	"let x = 1e+;",
	"@#$%^&",
	"{ { { } }",
	"if (x { }",
	"return 1;",
}

func addSnippetSeeds(f *testing.F) {
	for _, s := range validSeeds {
		f.Add([]byte(s))
	}
	for _, s := range recoverySeeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
