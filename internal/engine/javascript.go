package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
)

var (
	jsHeaderRe = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`)
	jsFieldRe  = regexp.MustCompile(`(?m)^\s*(?:static\s+)?(#?[A-Za-z_$][\w$]*)\s*(?:=\s*([^;\n]*))?;`)
	jsMethodRe = regexp.MustCompile(`(?m)^\s*(?:(?:static|async|get|set)\s+)*(#?[A-Za-z_$][\w$]*)\s*\(([^)]*)\)`)
	jsCtorRe   = regexp.MustCompile(`(?m)^\s*constructor\s*\(`)
	jsAssignRe = regexp.MustCompile(`this\.([A-Za-z_$][\w$]*)\s*=\s*([^;\n]+)`)
	jsArrowRe  = regexp.MustCompile(`(?m)^\s*(#?[A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:\(([^)]*)\)|([A-Za-z_$][\w$]*))\s*=>`)
)

var jsReservedMembers = map[string]bool{
	"constructor": true, "if": true, "for": true, "while": true,
	"switch": true, "catch": true, "return": true, "function": true,
	"new": true, "super": true, "typeof": true, "static": true,
}

func newJavaScriptEngine() Engine {
	return &scanEngine{
		spec: langSpec{
			lang:       LangJavaScript,
			extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
			excludes: []string{
				"**/*.min.js",
				"**/*.spec.js",
				"**/*.test.js",
				"**/*.test.jsx",
			},
			syntax: source.Syntax{
				LineComments:  []string{"//"},
				BlockComments: [][2]string{{"/*", "*/"}},
				// Marker directives live in line comments; keep any
				// comment whose content starts with '@'.
				LineDirectivePrefix: "@",
				Quotes: []source.Quote{
					{Open: "`", Close: "`"},
					{Open: `"`, Close: `"`, Escape: '\\'},
					{Open: `'`, Close: `'`, Escape: '\\'},
				},
			},
		},
		newParser: func(opts Options) parseFunc {
			markerRe := regexp.MustCompile(`//\s*@` + regexp.QuoteMeta(opts.Marker) + `\b`)
			return func(pf *parsedFile) fileOutcome {
				return parseJavaScriptFile(pf, markerRe)
			}
		},
	}
}

// parseJavaScriptFile locates classes announced by a "// @Marker" directive
// comment on the line directly above the class keyword. Plain JavaScript
// carries no type annotations, so member types come from literal inference
// over initializers and constructor assignments.
func parseJavaScriptFile(pf *parsedFile, markerRe *regexp.Regexp) fileOutcome {
	var out fileOutcome

	for _, m := range markerRe.FindAllStringIndex(pf.Stripped, -1) {
		metadata, argEnd, err := parenArgs(pf, m[1])
		if err != nil {
			out.warnings = append(out.warnings, malformed(pf, m[1], "", fmt.Sprintf("bad directive arguments: %v", err), err))
			continue
		}

		headerAt := skipSpace(pf.Stripped, lineEnd(pf.Stripped, argEnd))
		header := jsHeaderRe.FindStringSubmatchIndex(pf.Stripped[headerAt:])
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

		class := blueprint.NewClass(name, "")
		class.Metadata = metadata
		jsMembers(body, &class)
		out.classes = append(out.classes, class)
	}

	return out
}

// jsMembers populates a class from field declarations, method signatures
// and constructor this-assignments. Matching runs over the body with
// nested regions blanked; initializer text is read back from the raw body
// at the same offsets, since blanking erases literal contents.
func jsMembers(body string, class *blueprint.DiscoveredClass) {
	top := blankNested(body)
	seen := map[string]bool{}

	// Arrow-function fields first: they would otherwise read as plain
	// fields (single-line form) or be missed entirely (multi-line body).
	for _, m := range jsArrowRe.FindAllStringSubmatch(top, -1) {
		name := m[1]
		if jsReservedMembers[name] || seen[name] {
			continue
		}
		seen[name] = true
		args := m[2]
		if args == "" && m[3] != "" {
			args = m[3]
		}
		class.Methods = append(class.Methods, blueprint.DiscoveredMethod{
			Name:       name,
			ReturnType: tagAny,
			Parameters: jsParameters(args),
		})
	}

	for _, m := range jsFieldRe.FindAllStringSubmatchIndex(top, -1) {
		name := top[m[2]:m[3]]
		if jsReservedMembers[name] || seen[name] {
			continue
		}
		init := ""
		if m[4] >= 0 {
			init = strings.TrimSpace(body[m[4]:m[5]])
		}
		seen[name] = true
		class.Properties = append(class.Properties, blueprint.DiscoveredProperty{
			Name: name,
			Type: classifyLiteral(init),
		})
	}

	for _, m := range jsMethodRe.FindAllStringSubmatch(top, -1) {
		name := m[1]
		if jsReservedMembers[name] || seen[name] {
			continue
		}
		seen[name] = true
		class.Methods = append(class.Methods, blueprint.DiscoveredMethod{
			Name:       name,
			ReturnType: tagAny,
			Parameters: jsParameters(m[2]),
		})
	}

	for _, m := range jsConstructorAssignments(body) {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		class.Properties = append(class.Properties, m)
	}
}

// jsConstructorAssignments extracts "this.x = literal" assignments from
// the constructor body, in source order.
func jsConstructorAssignments(body string) []blueprint.DiscoveredProperty {
	loc := jsCtorRe.FindStringIndex(body)
	if loc == nil {
		return nil
	}
	parenEnd := closeSpan(body, loc[1]-1, '(', ')')
	if parenEnd < 0 {
		return nil
	}
	openIdx := source.FindOpen(body, parenEnd, '{')
	if openIdx < 0 {
		return nil
	}
	ctor, err := source.ExtractBody(body, openIdx, '{', '}')
	if err != nil {
		return nil
	}

	var props []blueprint.DiscoveredProperty
	for _, m := range jsAssignRe.FindAllStringSubmatch(ctor, -1) {
		props = append(props, blueprint.DiscoveredProperty{
			Name: m[1],
			Type: classifyLiteral(strings.TrimSpace(m[2])),
		})
	}
	return props
}

func jsParameters(list string) []blueprint.DiscoveredParameter {
	params := []blueprint.DiscoveredParameter{}
	for _, raw := range splitParams(list) {
		if eq := strings.Index(raw, "="); eq >= 0 {
			raw = raw[:eq]
		}
		name := strings.TrimSpace(raw)
		name = strings.TrimPrefix(name, "...")
		if name == "" || strings.ContainsAny(name, "{[") {
			// Destructuring patterns have no single parameter name.
			continue
		}
		params = append(params, blueprint.DiscoveredParameter{Name: name, Type: tagAny})
	}
	return params
}
