package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"branec/internal/source"
)

// RenderOptions controls diagnostic rendering.
type RenderOptions struct {
	// Color enables ANSI colors in the output.
	Color bool
	// Notes includes secondary notes under each diagnostic.
	Notes bool
}

var (
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	fatalColor   = color.New(color.FgMagenta, color.Bold)
	gutterColor  = color.New(color.FgCyan)
)

// Render writes a human-readable report of the bundle against the original
// snippet text. The engine does not retain source text between submissions,
// so the caller supplies the same text it compiled, plus a label standing in
// for a file name. Rendering never mutates the bundle and may be repeated.
func Render(w io.Writer, bag *Bag, label string, src []byte, opts RenderOptions) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual(label, src)
	file := fs.Get(id)

	for _, d := range bag.Items() {
		if err := renderOne(w, fs, file, id, label, d, opts); err != nil {
			return err
		}
	}

	if n := bag.Dropped(); n > 0 {
		summary := fmt.Sprintf("... %d more diagnostic(s) not shown", n)
		if bag.HasErrors() {
			summary += fmt.Sprintf(" (%d error(s) total)", bag.errors)
		}
		if _, err := fmt.Fprintln(w, summary); err != nil {
			return err
		}
	}
	return nil
}

func renderOne(w io.Writer, fs *source.FileSet, file *source.File, id source.FileID, label string, d Diagnostic, opts RenderOptions) error {
	head := fmt.Sprintf("%s %s", d.Severity, d.Code.ID())
	if opts.Color {
		head = severityPaint(d.Severity).Sprint(head)
	}

	// Fatals have no position in the submitted text.
	if d.Severity == SevFatal {
		_, err := fmt.Fprintf(w, "%s %s\n", head, d.Message)
		return err
	}

	sp := source.Span{File: id, Start: d.Primary.Start, End: d.Primary.End}
	start, end := fs.Resolve(sp)
	if _, err := fmt.Fprintf(w, "%s %s:%d:%d %s\n", head, label, start.Line, start.Col, d.Message); err != nil {
		return err
	}

	if err := renderSourceLine(w, file, start, end, opts); err != nil {
		return err
	}

	if opts.Notes {
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  note: %s\n", n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderSourceLine(w io.Writer, file *source.File, start, end source.LineCol, opts RenderOptions) error {
	line := file.GetLine(start.Line)
	if line == "" {
		return nil
	}

	gutter := fmt.Sprintf("%d | ", start.Line)
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
	}
	if _, err := fmt.Fprintf(w, "  %s%s\n", gutter, line); err != nil {
		return err
	}

	// Caret line: pad to the start column by display width so wide runes
	// stay aligned, then underline the span.
	prefix := line
	if int(start.Col-1) <= len(line) {
		prefix = line[:start.Col-1]
	}
	pad := runewidth.StringWidth(prefix)

	caretLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		marked := line
		if int(end.Col-1) <= len(line) {
			marked = line[start.Col-1 : end.Col-1]
		}
		if wlen := runewidth.StringWidth(marked); wlen > 0 {
			caretLen = wlen
		}
	}

	carets := strings.Repeat("^", caretLen)
	if opts.Color {
		carets = errorColor.Sprint(carets)
	}
	gutterPad := strings.Repeat(" ", len(fmt.Sprintf("%d | ", start.Line)))
	_, err := fmt.Fprintf(w, "  %s%s%s\n", gutterPad, strings.Repeat(" ", pad), carets)
	return err
}

func severityPaint(s Severity) *color.Color {
	switch s {
	case SevWarning:
		return warningColor
	case SevFatal:
		return fatalColor
	default:
		return errorColor
	}
}
