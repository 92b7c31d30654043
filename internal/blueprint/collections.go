package blueprint

import "strings"

// Generic wrapper names that denote a sequence-like container in the
// languages we scan: List<T>, Array<T>, Set<Foo> and friends.
var sequenceWrappers = map[string]bool{
	"List":            true,
	"IList":           true,
	"IEnumerable":     true,
	"ICollection":     true,
	"IReadOnlyList":   true,
	"ArrayList":       true,
	"LinkedList":      true,
	"Collection":      true,
	"Iterable":        true,
	"Array":           true,
	"Set":             true,
	"HashSet":         true,
	"ReadonlyArray":   true,
	"ObservableList":  true,
	"list":            true,
	"set":             true,
	"frozenset":       true,
	"tuple":           true,
	"Sequence":        true,
}

// Map-like wrappers where the element type is the value type.
var mapWrappers = map[string]bool{
	"Dictionary":          true,
	"IDictionary":         true,
	"IReadOnlyDictionary": true,
	"Map":                 true,
	"HashMap":             true,
	"Record":              true,
	"dict":                true,
	"Dict":                true,
	"Mapping":             true,
}

// CollectionElement inspects a source-syntax type string and, when it
// denotes an array/list/map-like container, returns the element type.
// Supported syntaxes: List<T>, Array<T>, T[], list[T], dict[K,V], []T,
// map[K]V. The type string itself is left untouched; callers store the
// element alongside it.
func CollectionElement(typ string) (string, bool) {
	t := strings.TrimSpace(typ)
	if t == "" {
		return "", false
	}

	// Go slices and maps: []T, map[K]V.
	if strings.HasPrefix(t, "[]") {
		return strings.TrimSpace(t[2:]), true
	}
	if strings.HasPrefix(t, "map[") {
		if end := matchBracket(t, 4); end > 0 && end+1 < len(t) {
			return strings.TrimSpace(t[end+1:]), true
		}
		return "", false
	}

	// C-family arrays: T[] (possibly nullable T[]?).
	trimmed := strings.TrimSuffix(t, "?")
	if strings.HasSuffix(trimmed, "[]") {
		return strings.TrimSpace(strings.TrimSuffix(trimmed, "[]")), true
	}

	// Angle-bracket generics: List<T>, Dictionary<K,V>.
	if open := strings.Index(t, "<"); open > 0 && strings.HasSuffix(t, ">") {
		wrapper := strings.TrimSpace(t[:open])
		inner := t[open+1 : len(t)-1]
		return elementOf(wrapper, inner)
	}

	// Square-bracket generics: list[T], dict[K,V] (Python typing).
	if open := strings.Index(t, "["); open > 0 && strings.HasSuffix(t, "]") {
		wrapper := strings.TrimSpace(t[:open])
		inner := t[open+1 : len(t)-1]
		return elementOf(wrapper, inner)
	}

	return "", false
}

// elementOf resolves the element type for a recognized wrapper name.
func elementOf(wrapper, inner string) (string, bool) {
	args := splitTopLevel(inner)
	if len(args) == 0 {
		return "", false
	}
	if mapWrappers[wrapper] {
		return strings.TrimSpace(args[len(args)-1]), true
	}
	if sequenceWrappers[wrapper] {
		return strings.TrimSpace(args[0]), true
	}
	return "", false
}

// splitTopLevel splits a comma-separated type argument list without
// breaking apart nested generics like Dictionary<string, List<Foo>>.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '[', '(':
			depth++
		case '>', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// matchBracket returns the index of the ']' matching the '[' at open-1,
// or -1 when the brackets do not balance.
func matchBracket(s string, start int) int {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
