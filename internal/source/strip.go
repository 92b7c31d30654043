package source

import "strings"

// Quote describes one string-literal syntax. Open and Close differ for
// prefixed literals such as C#'s @"verbatim". Escape is the escape byte
// inside the literal, or zero for raw literals (backticks, triple quotes).
type Quote struct {
	Open   string
	Close  string
	Escape byte
}

// Syntax describes the comment and string-literal syntax of one language.
// Quotes are matched in declaration order, so longer delimiters (triple
// quotes, @") must precede their shorter prefixes.
type Syntax struct {
	LineComments  []string
	BlockComments [][2]string
	Quotes        []Quote

	// DocBlockPrefix marks block comments that are doc comments, e.g. "/**".
	DocBlockPrefix string

	// LineDirectivePrefix preserves line comments whose trimmed content
	// starts with this prefix (e.g. "@" keeps "// @Track ..." directives
	// visible to marker matching after stripping).
	LineDirectivePrefix string
}

// Strip neutralizes comments and string-literal contents in text so that
// structural matching cannot produce false positives inside either. The
// result has exactly the same length and line structure as the input:
// removed regions are overwritten with spaces, newlines are kept, and
// string delimiters stay in place with blanked interiors. When
// preserveDocComments is true, block comments opening with DocBlockPrefix
// are retained verbatim.
func Strip(text string, syn Syntax, preserveDocComments bool) string {
	b := []byte(text)
	out := make([]byte, len(b))
	copy(out, b)

	i := 0
	for i < len(b) {
		// String literals take precedence so comment openers inside
		// strings are never treated as comments.
		if q, ok := matchQuote(b, i, syn.Quotes); ok {
			i = blankString(b, out, i, q)
			continue
		}

		if open, close, ok := matchBlockComment(b, i, syn.BlockComments); ok {
			isDoc := preserveDocComments && syn.DocBlockPrefix != "" && hasPrefixAt(b, i, syn.DocBlockPrefix)
			end := indexFrom(b, i+len(open), close)
			if end < 0 {
				end = len(b)
			} else {
				end += len(close)
			}
			if !isDoc {
				blankRegion(out, i, end)
			}
			i = end
			continue
		}

		if prefix, ok := matchLineComment(b, i, syn.LineComments); ok {
			end := indexFrom(b, i, "\n")
			if end < 0 {
				end = len(b)
			}
			content := strings.TrimSpace(string(b[i+len(prefix) : end]))
			keep := syn.LineDirectivePrefix != "" && strings.HasPrefix(content, syn.LineDirectivePrefix)
			if !keep {
				blankRegion(out, i, end)
			}
			i = end
			continue
		}

		i++
	}

	return string(out)
}

// blankString blanks the interior of the string literal starting at i and
// returns the offset just past its closing delimiter. Unterminated
// literals are blanked to end of input.
func blankString(b, out []byte, i int, q Quote) int {
	j := i + len(q.Open)
	for j < len(b) {
		if q.Escape != 0 && b[j] == q.Escape && j+1 < len(b) {
			out[j] = ' '
			if b[j+1] != '\n' {
				out[j+1] = ' '
			}
			j += 2
			continue
		}
		if hasPrefixAt(b, j, q.Close) {
			return j + len(q.Close)
		}
		if b[j] != '\n' {
			out[j] = ' '
		}
		j++
	}
	return j
}

// blankRegion overwrites out[from:to] with spaces, preserving newlines so
// line and column offsets stay valid for diagnostics.
func blankRegion(out []byte, from, to int) {
	for k := from; k < to && k < len(out); k++ {
		if out[k] != '\n' {
			out[k] = ' '
		}
	}
}

func matchQuote(b []byte, i int, quotes []Quote) (Quote, bool) {
	for _, q := range quotes {
		if hasPrefixAt(b, i, q.Open) {
			return q, true
		}
	}
	return Quote{}, false
}

func matchBlockComment(b []byte, i int, blocks [][2]string) (string, string, bool) {
	for _, bc := range blocks {
		if hasPrefixAt(b, i, bc[0]) {
			return bc[0], bc[1], true
		}
	}
	return "", "", false
}

func matchLineComment(b []byte, i int, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if hasPrefixAt(b, i, p) {
			return p, true
		}
	}
	return "", false
}

func hasPrefixAt(b []byte, i int, s string) bool {
	if i+len(s) > len(b) {
		return false
	}
	return string(b[i:i+len(s)]) == s
}

func indexFrom(b []byte, from int, s string) int {
	if from >= len(b) {
		return -1
	}
	idx := strings.Index(string(b[from:]), s)
	if idx < 0 {
		return -1
	}
	return from + idx
}
