package engine

import (
	"strings"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
)

// closeSpan returns the offset just past the delimiter matching the
// opener at openIdx, or -1 when it never closes. Depth-counting scan over
// stripped text, like source.ExtractBody but yielding the end offset.
func closeSpan(stripped string, openIdx int, open, close byte) int {
	if openIdx < 0 || openIdx >= len(stripped) || stripped[openIdx] != open {
		return -1
	}
	depth := 1
	for i := openIdx + 1; i < len(stripped); i++ {
		switch stripped[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// skipSpace returns the first offset at or after i that is not
// whitespace.
func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i++
	}
	return i
}

// lineEnd returns the offset of the newline terminating the line
// containing i, or len(s).
func lineEnd(s string, i int) int {
	if idx := strings.IndexByte(s[i:], '\n'); idx >= 0 {
		return i + idx
	}
	return len(s)
}

// parenArgs extracts a parenthesized marker argument list starting at the
// first non-space offset after `from`. It returns the parsed metadata and
// the offset just past the closing parenthesis. Without parentheses it
// returns empty metadata and `from` unchanged. The argument text itself is
// taken from original, not stripped.
func parenArgs(pf *parsedFile, from int) (map[string]string, int, error) {
	i := skipSpace(pf.Stripped, from)
	if i >= len(pf.Stripped) || pf.Stripped[i] != '(' {
		return map[string]string{}, from, nil
	}
	end := closeSpan(pf.Stripped, i, '(', ')')
	if end < 0 {
		return nil, from, source.ErrUnbalanced
	}
	meta, err := ParseMarkerArgs(pf.Original[i+1 : end-1])
	if err != nil {
		return nil, from, err
	}
	return meta, end, nil
}

// splitParams splits a parameter list on top-level commas, leaving nested
// generics, tuples and defaults intact.
func splitParams(params string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '<', '[', '(', '{':
			depth++
		case '>', ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, params[start:i])
				start = i + 1
			}
		}
	}
	if start < len(params) {
		parts = append(parts, params[start:])
	}

	var trimmed []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return trimmed
}

// blankNested overwrites every brace-delimited nested region in a class
// body with spaces (newlines kept), so member matching only ever sees the
// body's top level and never statements inside method bodies.
func blankNested(body string) string {
	out := []byte(body)
	depth := 0
	for i := 0; i < len(out); i++ {
		switch out[i] {
		case '{':
			depth++
			out[i] = ' '
		case '}':
			if depth > 0 {
				depth--
			}
			out[i] = ' '
		default:
			if depth > 0 && out[i] != '\n' {
				out[i] = ' '
			}
		}
	}
	return string(out)
}

// malformed builds the contained per-declaration warning.
func malformed(pf *parsedFile, offset int, class, reason string, cause error) error {
	return &MalformedDeclarationError{
		Class:  class,
		Loc:    source.LocateOffset(pf.Rel, pf.Original, offset),
		Reason: reason,
		Cause:  cause,
	}
}

// property builds a DiscoveredProperty, substituting the language's
// unknown sentinel for an empty type.
func property(name, typ, sentinel string) blueprint.DiscoveredProperty {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		typ = sentinel
	}
	return blueprint.DiscoveredProperty{Name: name, Type: typ}
}
