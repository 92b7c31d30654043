package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
)

// csUnknownType is the unknown/void sentinel for C# declarations.
const csUnknownType = "object"

// csType matches a C# type reference: dotted name, one level of generic
// arguments, array suffix, nullable suffix.
const csType = `[A-Za-z_][\w.]*(?:<[^=;{}()]*>)?(?:\[\])*\??`

var (
	csHeaderRe = regexp.MustCompile(`^(?:(?:public|internal|protected|private|sealed|abstract|partial|static|new|readonly|ref)\s+)*` +
		`(?:class|struct|interface|record(?:\s+(?:class|struct))?)\s+([A-Za-z_]\w*)`)
	csNamespaceRe = regexp.MustCompile(`namespace\s+([\w.]+)`)
	csPropertyRe  = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|internal|static|virtual|override|sealed|required|new)\s+)*(` + csType + `)\s+([A-Za-z_]\w*)\s*\{\s*get`)
	csFieldRe     = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|internal|static|readonly|const|volatile|new)\s+)+(` + csType + `)\s+([A-Za-z_]\w*)\s*(?:=[^;]*)?;`)
	csMethodRe    = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|internal|static|virtual|override|sealed|async|new|extern|partial)\s+)+(` + csType + `)\s+([A-Za-z_]\w*)(?:<[^>]*>)?\s*\(([^)]*)\)`)
)

var csModifiers = map[string]bool{
	"public": true, "internal": true, "protected": true, "private": true,
	"sealed": true, "abstract": true, "partial": true, "static": true,
	"new": true, "readonly": true, "ref": true,
}

func newCSharpEngine() Engine {
	return &scanEngine{
		spec: langSpec{
			lang:       LangCSharp,
			extensions: []string{".cs"},
			excludes: []string{
				"**/*.Designer.cs",
				"**/*.g.cs",
				"**/*.generated.cs",
				"**/*Tests.cs",
				"**/AssemblyInfo.cs",
			},
			syntax: source.Syntax{
				LineComments:  []string{"//"},
				BlockComments: [][2]string{{"/*", "*/"}},
				Quotes: []source.Quote{
					{Open: `@"`, Close: `"`},
					{Open: `"`, Close: `"`, Escape: '\\'},
					{Open: `'`, Close: `'`, Escape: '\\'},
				},
			},
		},
		newParser: func(opts Options) parseFunc {
			attrRe := regexp.MustCompile(`\[\s*` + regexp.QuoteMeta(opts.Marker) + `(?:Attribute)?\b`)
			return func(pf *parsedFile) fileOutcome {
				return parseCSharpFile(pf, attrRe)
			}
		},
	}
}

// parseCSharpFile locates [Marker]-attributed type declarations and
// extracts their members. The marker attribute must immediately precede
// the declaration header; only further attribute groups and modifier
// keywords may sit between them.
func parseCSharpFile(pf *parsedFile, attrRe *regexp.Regexp) fileOutcome {
	var out fileOutcome

	for _, m := range attrRe.FindAllStringIndex(pf.Stripped, -1) {
		bracketEnd := closeSpan(pf.Stripped, m[0], '[', ']')
		if bracketEnd < 0 {
			out.warnings = append(out.warnings, malformed(pf, m[0], "", "attribute list never closes", source.ErrUnbalanced))
			continue
		}

		metadata, _, err := parenArgs(pf, m[1])
		if err != nil {
			out.warnings = append(out.warnings, malformed(pf, m[1], "", fmt.Sprintf("bad attribute arguments: %v", err), err))
			continue
		}

		// Skip trailing attribute groups between the marker and the header.
		headerAt := skipSpace(pf.Stripped, bracketEnd)
		for headerAt < len(pf.Stripped) && pf.Stripped[headerAt] == '[' {
			next := closeSpan(pf.Stripped, headerAt, '[', ']')
			if next < 0 {
				break
			}
			headerAt = skipSpace(pf.Stripped, next)
		}

		header := csHeaderRe.FindStringSubmatchIndex(pf.Stripped[headerAt:])
		if header == nil {
			// Marker on something other than a type declaration.
			continue
		}
		name := pf.Stripped[headerAt+header[2] : headerAt+header[3]]

		class := blueprint.NewClass(name, csNamespaceBefore(pf.Stripped, m[0]))
		class.Metadata = metadata

		body, ok := csClassBody(pf, headerAt+header[1], name, &out)
		if !ok {
			continue
		}
		csMembers(body, name, &class)
		out.classes = append(out.classes, class)
	}

	return out
}

// csClassBody extracts the declaration body. Positional record forms
// terminated by ';' have no body and contribute an empty member list.
func csClassBody(pf *parsedFile, from int, name string, out *fileOutcome) (string, bool) {
	for i := from; i < len(pf.Stripped); i++ {
		switch pf.Stripped[i] {
		case '{':
			body, err := source.ExtractBody(pf.Stripped, i, '{', '}')
			if err != nil {
				out.warnings = append(out.warnings, malformed(pf, i, name, "declaration body never closes", err))
				return "", false
			}
			return body, true
		case ';':
			return "", true
		}
	}
	out.warnings = append(out.warnings, malformed(pf, from, name, "declaration has no body", source.ErrUnbalanced))
	return "", false
}

// csNamespaceBefore resolves the namespace enclosing the given offset:
// the nearest preceding namespace declaration, file-scoped or block.
func csNamespaceBefore(stripped string, offset int) string {
	ns := ""
	for _, m := range csNamespaceRe.FindAllStringSubmatchIndex(stripped, -1) {
		if m[0] >= offset {
			break
		}
		ns = stripped[m[2]:m[3]]
	}
	return ns
}

// csMembers populates properties ({ get; } accessors and fields) and
// methods from a class body.
func csMembers(body, className string, class *blueprint.DiscoveredClass) {
	// Accessor blocks are needed to recognize properties, so they are
	// matched on the raw body; fields and methods are matched with nested
	// regions blanked so method-local statements can never look like
	// members.
	top := blankNested(body)
	for _, m := range csPropertyRe.FindAllStringSubmatch(body, -1) {
		class.Properties = append(class.Properties, property(m[2], m[1], csUnknownType))
	}
	for _, m := range csFieldRe.FindAllStringSubmatch(top, -1) {
		class.Properties = append(class.Properties, property(m[2], m[1], csUnknownType))
	}
	for _, m := range csMethodRe.FindAllStringSubmatch(top, -1) {
		ret := strings.TrimSpace(m[1])
		name := m[2]
		if name == className || csModifiers[ret] {
			continue
		}
		if ret == "" || ret == "void" {
			ret = csUnknownType
		}
		class.Methods = append(class.Methods, blueprint.DiscoveredMethod{
			Name:       name,
			ReturnType: ret,
			Parameters: csParameters(m[3]),
		})
	}
}

// csParameters parses a parameter list, dropping ref/out/params modifiers
// and default values.
func csParameters(list string) []blueprint.DiscoveredParameter {
	params := []blueprint.DiscoveredParameter{}
	for _, raw := range splitParams(list) {
		if eq := strings.Index(raw, "="); eq >= 0 {
			raw = raw[:eq]
		}
		fields := strings.Fields(raw)
		for len(fields) > 0 {
			switch fields[0] {
			case "this", "ref", "out", "in", "params", "scoped":
				fields = fields[1:]
			default:
				goto done
			}
		}
	done:
		if len(fields) < 2 {
			continue
		}
		params = append(params, blueprint.DiscoveredParameter{
			Name: fields[len(fields)-1],
			Type: strings.Join(fields[:len(fields)-1], " "),
		})
	}
	return params
}
