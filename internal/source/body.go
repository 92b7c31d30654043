package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalanced reports a declaration body whose delimiters never close.
var ErrUnbalanced = errors.New("unbalanced delimiters")

// ExtractBody returns the text between the opening delimiter at openIdx
// (exclusive) and its matching closing delimiter (exclusive). It is an
// explicit depth-counting scan: every further opening delimiter increments
// depth, every closing one decrements it, and depth zero terminates. The
// input must already be stripped (strings and comments neutralized), so
// delimiters inside literals cannot skew the count.
func ExtractBody(text string, openIdx int, open, close byte) (string, error) {
	if openIdx < 0 || openIdx >= len(text) || text[openIdx] != open {
		return "", fmt.Errorf("no opening %q at offset %d", string(open), openIdx)
	}
	depth := 1
	for i := openIdx + 1; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[openIdx+1 : i], nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q opened at offset %d never closes", ErrUnbalanced, string(open), openIdx)
}

// FindOpen returns the offset of the first occurrence of open at or after
// from, or -1. Helper for locating a declaration's body start after its
// header match.
func FindOpen(text string, from int, open byte) int {
	for i := from; i < len(text); i++ {
		if text[i] == open {
			return i
		}
	}
	return -1
}

// ExtractSuite is the indentation-based equivalent of ExtractBody for
// Python, which has no body delimiters. headerEnd is the offset just past
// the header line's terminating colon (or anywhere on the header line).
// The suite consists of all subsequent lines indented deeper than the
// header line; blank lines are kept; the first non-blank line at or below
// the header's indentation ends the suite.
func ExtractSuite(text string, headerEnd int) string {
	lineStart := strings.LastIndexByte(text[:headerEnd], '\n') + 1
	headerIndent := indentWidth(text[lineStart:])

	nl := strings.IndexByte(text[headerEnd:], '\n')
	if nl < 0 {
		return ""
	}
	bodyStart := headerEnd + nl + 1

	var suite strings.Builder
	rest := text[bodyStart:]
	for len(rest) > 0 {
		line := rest
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			line = rest[:idx+1]
			rest = rest[idx+1:]
		} else {
			rest = ""
		}
		if strings.TrimSpace(line) == "" {
			suite.WriteString(line)
			continue
		}
		if indentWidth(line) <= headerIndent {
			break
		}
		suite.WriteString(line)
	}
	return suite.String()
}

// indentWidth measures leading whitespace with tabs counted as 8 columns,
// matching how Python's tokenizer compares mixed indentation.
func indentWidth(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 8 - (w % 8)
		default:
			return w
		}
	}
	return w
}
