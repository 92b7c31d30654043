package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
)

// tsUnknownType is the unknown sentinel for TypeScript declarations.
const tsUnknownType = "any"

var (
	tsHeaderRe    = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
	tsNamespaceRe = regexp.MustCompile(`(?:namespace|module)\s+([\w.]+)\s*\{`)
	tsDecoratorRe = regexp.MustCompile(`^@[A-Za-z_$][\w$.]*`)
	tsPropertyRe  = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|readonly|static|declare|override|abstract)\s+)*([A-Za-z_$][\w$]*)\s*[?!]?\s*:\s*([^;=\n]+)`)
	tsMethodRe    = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|static|async|override|abstract)\s+)*([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\s*\(([^)]*)\)\s*(?::\s*([^;{\n]+))?`)
)

var tsReservedMembers = map[string]bool{
	"constructor": true, "if": true, "for": true, "while": true,
	"switch": true, "catch": true, "return": true, "function": true,
	"new": true, "super": true, "typeof": true,
}

func newTypeScriptEngine() Engine {
	return &scanEngine{
		spec: langSpec{
			lang:       LangTypeScript,
			extensions: []string{".ts", ".tsx"},
			excludes: []string{
				"**/*.d.ts",
				"**/*.spec.ts",
				"**/*.spec.tsx",
				"**/*.test.ts",
				"**/*.test.tsx",
			},
			syntax: source.Syntax{
				LineComments:   []string{"//"},
				BlockComments:  [][2]string{{"/*", "*/"}},
				DocBlockPrefix: "/**",
				Quotes: []source.Quote{
					{Open: "`", Close: "`"},
					{Open: `"`, Close: `"`, Escape: '\\'},
					{Open: `'`, Close: `'`, Escape: '\\'},
				},
			},
		},
		newParser: func(opts Options) parseFunc {
			markerRe := regexp.MustCompile(`@` + regexp.QuoteMeta(opts.Marker) + `\b`)
			return func(pf *parsedFile) fileOutcome {
				return parseTypeScriptFile(pf, markerRe)
			}
		},
	}
}

// parseTypeScriptFile locates @Marker-decorated class declarations.
// Between the decorator and the class keyword only whitespace, further
// decorators and the export/default/abstract modifiers may appear.
func parseTypeScriptFile(pf *parsedFile, markerRe *regexp.Regexp) fileOutcome {
	var out fileOutcome

	for _, m := range markerRe.FindAllStringIndex(pf.Stripped, -1) {
		metadata, argEnd, err := parenArgs(pf, m[1])
		if err != nil {
			out.warnings = append(out.warnings, malformed(pf, m[1], "", fmt.Sprintf("bad decorator arguments: %v", err), err))
			continue
		}

		headerAt, ok := tsSkipToHeader(pf.Stripped, argEnd)
		if !ok {
			continue
		}
		header := tsHeaderRe.FindStringSubmatchIndex(pf.Stripped[headerAt:])
		if header == nil {
			continue
		}
		name := pf.Stripped[headerAt+header[2] : headerAt+header[3]]

		openIdx := source.FindOpen(pf.Stripped, headerAt+header[1], '{')
		if openIdx < 0 {
			out.warnings = append(out.warnings, malformed(pf, headerAt, name, "class has no body", source.ErrUnbalanced))
			continue
		}
		body, err := source.ExtractBody(pf.Stripped, openIdx, '{', '}')
		if err != nil {
			out.warnings = append(out.warnings, malformed(pf, openIdx, name, "class body never closes", err))
			continue
		}

		class := blueprint.NewClass(name, tsNamespaceBefore(pf.Stripped, m[0]))
		class.Metadata = metadata
		tsMembers(body, &class)
		out.classes = append(out.classes, class)
	}

	return out
}

// tsSkipToHeader advances past whitespace and further decorators to where
// the class header must start.
func tsSkipToHeader(stripped string, from int) (int, bool) {
	i := skipSpace(stripped, from)
	for i < len(stripped) && stripped[i] == '@' {
		loc := tsDecoratorRe.FindStringIndex(stripped[i:])
		if loc == nil {
			return 0, false
		}
		i = skipSpace(stripped, i+loc[1])
		if i < len(stripped) && stripped[i] == '(' {
			end := closeSpan(stripped, i, '(', ')')
			if end < 0 {
				return 0, false
			}
			i = skipSpace(stripped, end)
		}
	}
	return i, true
}

// tsNamespaceBefore resolves the nearest enclosing namespace/module
// declaration before the given offset; most TypeScript classes live in
// ES modules and get an empty namespace.
func tsNamespaceBefore(stripped string, offset int) string {
	ns := ""
	for _, m := range tsNamespaceRe.FindAllStringSubmatchIndex(stripped, -1) {
		if m[0] >= offset {
			break
		}
		ns = stripped[m[2]:m[3]]
	}
	return ns
}

func tsMembers(body string, class *blueprint.DiscoveredClass) {
	top := blankNested(body)

	seen := map[string]bool{}
	for _, m := range tsPropertyRe.FindAllStringSubmatch(top, -1) {
		name := m[1]
		if tsReservedMembers[name] || seen[name] {
			continue
		}
		seen[name] = true
		class.Properties = append(class.Properties, property(name, m[2], tsUnknownType))
	}

	for _, m := range tsMethodRe.FindAllStringSubmatch(top, -1) {
		name := m[1]
		if tsReservedMembers[name] || seen[name] {
			continue
		}
		seen[name] = true
		ret := strings.TrimSpace(m[3])
		if ret == "" || ret == "void" {
			ret = tsUnknownType
		}
		class.Methods = append(class.Methods, blueprint.DiscoveredMethod{
			Name:       name,
			ReturnType: ret,
			Parameters: tsParameters(m[2]),
		})
	}
}

// tsParameters parses a TypeScript parameter list: optional visibility
// modifiers (constructor promotion), optional "?", ": type" annotation
// and "= default" value.
func tsParameters(list string) []blueprint.DiscoveredParameter {
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
		fields := strings.Fields(strings.TrimSpace(name))
		if len(fields) == 0 {
			continue
		}
		id := fields[len(fields)-1]
		id = strings.TrimPrefix(id, "...")
		id = strings.TrimSuffix(id, "?")
		if id == "" {
			continue
		}
		if typ == "" {
			typ = tsUnknownType
		}
		params = append(params, blueprint.DiscoveredParameter{Name: id, Type: typ})
	}
	return params
}
