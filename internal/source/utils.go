package source

import (
	"slices"
)

// normalizeCRLF replaces \r\n with \n, leaving lone \r alone.
// The returned flag reports whether anything was replaced.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- snippet sizes fit uint32
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// No newlines: the whole snippet is one line.
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Binary search: greatest lineIdx[i] <= off.
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	last := hi // index of the last newline at or before off

	if last < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	start := lineIdx[last] + 1
	if off < start {
		// off points at the newline itself; it belongs to the line it ends.
		prev := uint32(0)
		if last > 0 {
			prev = lineIdx[last-1] + 1
		}
		return LineCol{Line: uint32(last) + 1, Col: off - prev + 1} // #nosec G115
	}
	return LineCol{Line: uint32(last) + 2, Col: off - start + 1} // #nosec G115
}
