package engine

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
)

var (
	pyHeaderRe = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)`)
	pyAnnotRe  = regexp.MustCompile(`(?m)^([ \t]*)([A-Za-z_]\w*)\s*:\s*([^=\n]+?)\s*(?:=.*)?$`)
	pyAssignRe = regexp.MustCompile(`(?m)^([ \t]*)([A-Za-z_]\w*)\s*=\s*([^\n]+)$`)
	pyDefRe    = regexp.MustCompile(`(?m)^([ \t]*)(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(([^)]*)\)\s*(?:->\s*([^:\n]+))?\s*:`)
	pySelfRe   = regexp.MustCompile(`(?m)^\s*self\.([A-Za-z_]\w*)(?:\s*:\s*([^=\n]+?))?\s*=\s*([^\n]+)$`)
)

func newPythonEngine() Engine {
	return &scanEngine{
		spec: langSpec{
			lang:       LangPython,
			extensions: []string{".py"},
			excludes: []string{
				"**/test_*.py",
				"**/*_test.py",
				"**/conftest.py",
				"**/setup.py",
			},
			syntax: source.Syntax{
				LineComments: []string{"#"},
				Quotes: []source.Quote{
					{Open: `"""`, Close: `"""`},
					{Open: `'''`, Close: `'''`},
					{Open: `"`, Close: `"`, Escape: '\\'},
					{Open: `'`, Close: `'`, Escape: '\\'},
				},
			},
		},
		newParser: func(opts Options) parseFunc {
			// Python decorators are conventionally lowercase; accept any
			// casing of the configured marker.
			markerRe := regexp.MustCompile(`(?m)^[ \t]*@(?i:` + regexp.QuoteMeta(opts.Marker) + `)\b`)
			return func(pf *parsedFile) fileOutcome {
				return parsePythonFile(pf, markerRe)
			}
		},
	}
}

// parsePythonFile locates @marker-decorated class statements. Bodies are
// indentation suites rather than delimited blocks; the namespace is the
// dotted module path derived from the file's location under its root.
func parsePythonFile(pf *parsedFile, markerRe *regexp.Regexp) fileOutcome {
	var out fileOutcome
	namespace := pyModulePath(pf.Rel)

	for _, m := range markerRe.FindAllStringIndex(pf.Stripped, -1) {
		metadata, argEnd, err := parenArgs(pf, m[1])
		if err != nil {
			out.warnings = append(out.warnings, malformed(pf, m[1], "", fmt.Sprintf("bad decorator arguments: %v", err), err))
			continue
		}

		headerAt, ok := pySkipToHeader(pf.Stripped, argEnd)
		if !ok {
			continue
		}
		header := pyHeaderRe.FindStringSubmatchIndex(pf.Stripped[headerAt:])
		if header == nil {
			continue
		}
		name := pf.Stripped[headerAt+header[2] : headerAt+header[3]]

		colon, ok := pyHeaderColon(pf.Stripped, headerAt+header[1])
		if !ok {
			out.warnings = append(out.warnings, malformed(pf, headerAt, name, "class header never closes", source.ErrUnbalanced))
			continue
		}
		suite := source.ExtractSuite(pf.Stripped, colon+1)

		class := blueprint.NewClass(name, namespace)
		class.Metadata = metadata
		pyMembers(suite, &class)
		out.classes = append(out.classes, class)
	}

	return out
}

// pySkipToHeader advances past further decorator lines to where the class
// statement must start.
func pySkipToHeader(stripped string, from int) (int, bool) {
	i := skipSpace(stripped, from)
	for i < len(stripped) && stripped[i] == '@' {
		i = skipSpace(stripped, lineEnd(stripped, i))
	}
	return i, i < len(stripped)
}

// pyHeaderColon finds the colon terminating a class header, skipping over
// a parenthesized base-class list.
func pyHeaderColon(stripped string, from int) (int, bool) {
	i := skipSpace(stripped, from)
	if i < len(stripped) && stripped[i] == '(' {
		end := closeSpan(stripped, i, '(', ')')
		if end < 0 {
			return 0, false
		}
		i = skipSpace(stripped, end)
	}
	if i < len(stripped) && stripped[i] == ':' {
		return i, true
	}
	return 0, false
}

// pyModulePath turns a root-relative file path into a dotted module path.
// Package __init__ files resolve to the package itself.
func pyModulePath(rel string) string {
	rel = strings.TrimSuffix(rel, ".py")
	rel = strings.TrimSuffix(rel, "/__init__")
	if rel == "__init__" || rel == "." {
		return ""
	}
	return strings.ReplaceAll(path.Clean(rel), "/", ".")
}

// pyMembers populates a class from its suite: annotated and bare
// assignments at the suite's base indentation become properties, def
// statements become methods, and self-assignments inside __init__
// contribute further properties. Dunder methods are not surfaced.
func pyMembers(suite string, class *blueprint.DiscoveredClass) {
	base := pyBaseIndent(suite)
	if base < 0 {
		return
	}
	seen := map[string]bool{}

	for _, m := range pyAnnotRe.FindAllStringSubmatch(suite, -1) {
		if indentOf(m[1]) != base || seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		class.Properties = append(class.Properties, property(m[2], m[3], tagAny))
	}

	for _, m := range pyAssignRe.FindAllStringSubmatch(suite, -1) {
		if indentOf(m[1]) != base || seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		class.Properties = append(class.Properties, blueprint.DiscoveredProperty{
			Name: m[2],
			Type: pyClassify(m[3]),
		})
	}

	for _, m := range pyDefRe.FindAllStringSubmatchIndex(suite, -1) {
		if indentOf(suite[m[2]:m[3]]) != base {
			continue
		}
		name := suite[m[4]:m[5]]
		if name == "__init__" {
			pyInitAttributes(suite, m[1], seen, class)
			continue
		}
		if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
			continue
		}
		ret := tagAny
		if m[8] >= 0 {
			ret = strings.TrimSpace(suite[m[8]:m[9]])
		}
		if ret == "" || ret == "None" {
			ret = tagAny
		}
		class.Methods = append(class.Methods, blueprint.DiscoveredMethod{
			Name:       name,
			ReturnType: ret,
			Parameters: pyParameters(suite[m[6]:m[7]]),
		})
	}
}

// pyInitAttributes collects "self.x = value" assignments from the
// __init__ suite, with annotated forms keeping their annotation and bare
// forms falling back to literal inference.
func pyInitAttributes(suite string, defEnd int, seen map[string]bool, class *blueprint.DiscoveredClass) {
	body := source.ExtractSuite(suite, defEnd)
	for _, m := range pySelfRe.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		typ := strings.TrimSpace(m[2])
		if typ == "" {
			typ = pyClassify(m[3])
		}
		class.Properties = append(class.Properties, blueprint.DiscoveredProperty{Name: name, Type: typ})
	}
}

func pyParameters(list string) []blueprint.DiscoveredParameter {
	params := []blueprint.DiscoveredParameter{}
	for _, raw := range splitParams(list) {
		if eq := strings.Index(raw, "="); eq >= 0 {
			raw = raw[:eq]
		}
		name := raw
		typ := ""
		if colon := strings.Index(raw, ":"); colon >= 0 {
			name = raw[:colon]
			typ = strings.TrimSpace(raw[colon+1:])
		}
		name = strings.TrimLeft(strings.TrimSpace(name), "*")
		if name == "" || name == "self" || name == "cls" || name == "/" {
			continue
		}
		if typ == "" {
			typ = tagAny
		}
		params = append(params, blueprint.DiscoveredParameter{Name: name, Type: typ})
	}
	return params
}

// pyClassify maps a Python literal onto the shared inference tags.
func pyClassify(literal string) string {
	lit := strings.TrimSpace(literal)
	switch lit {
	case "True", "False":
		return tagBoolean
	case "None":
		return tagAny
	}
	return classifyLiteral(lit)
}

// pyBaseIndent returns the indentation of the suite's first non-blank
// line, or -1 for an empty suite.
func pyBaseIndent(suite string) int {
	for _, line := range strings.Split(suite, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return indentOf(line)
	}
	return -1
}

func indentOf(line string) int {
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
