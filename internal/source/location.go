package source

import "fmt"

// Location points at a position in a source file. Line and Column are
// 1-based; a zero Line means the location is file-level.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Line <= 0 {
		return l.File
	}
	if l.Column <= 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// LocateOffset converts a byte offset in text into a Location. Offsets
// survive stripping because the stripper is offset-preserving.
func LocateOffset(file, text string, offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	line := 1
	col := 1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Location{File: file, Line: line, Column: col}
}
