package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
)

// javaUnknownType is the unknown/void sentinel for Java declarations.
const javaUnknownType = "Object"

// javaType matches a Java type reference: dotted name, one level of
// generic arguments, array suffix.
const javaType = `[A-Za-z_][\w.]*(?:<[^=;{}()]*>)?(?:\[\])*`

var (
	javaHeaderRe = regexp.MustCompile(`^(?:(?:public|protected|private|abstract|final|sealed|non-sealed|static|strictfp)\s+)*` +
		`(?:class|interface|record|enum)\s+([A-Za-z_]\w*)`)
	javaPackageRe = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	javaFieldRe   = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|static|final|transient|volatile)\s+)*(` + javaType + `)\s+([A-Za-z_]\w*)\s*(?:=[^;]*)?;`)
	javaMethodRe  = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native|default)\s+)*(?:<[^>]*>\s*)?(` + javaType + `)\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`)
	javaAnnotRe   = regexp.MustCompile(`^@[A-Za-z_][\w.]*`)
)

var javaHeaderKeywords = map[string]bool{
	"public": true, "protected": true, "private": true, "abstract": true,
	"final": true, "sealed": true, "non-sealed": true, "static": true,
	"strictfp": true, "class": true, "interface": true, "record": true,
	"enum": true, "return": true, "new": true, "throws": true,
}

func newJavaEngine() Engine {
	return &scanEngine{
		spec: langSpec{
			lang:       LangJava,
			extensions: []string{".java"},
			excludes: []string{
				"**/*Test.java",
				"**/*Tests.java",
				"**/*IT.java",
				"**/package-info.java",
				"**/module-info.java",
			},
			syntax: source.Syntax{
				LineComments:   []string{"//"},
				BlockComments:  [][2]string{{"/*", "*/"}},
				DocBlockPrefix: "/**",
				Quotes: []source.Quote{
					{Open: `"""`, Close: `"""`},
					{Open: `"`, Close: `"`, Escape: '\\'},
					{Open: `'`, Close: `'`, Escape: '\\'},
				},
			},
		},
		newParser: func(opts Options) parseFunc {
			markerRe := regexp.MustCompile(`@` + regexp.QuoteMeta(opts.Marker) + `\b`)
			return func(pf *parsedFile) fileOutcome {
				return parseJavaFile(pf, markerRe)
			}
		},
	}
}

// parseJavaFile locates @Marker-annotated type declarations. Between the
// marker and the class header only whitespace, other annotations and
// modifier keywords may appear.
func parseJavaFile(pf *parsedFile, markerRe *regexp.Regexp) fileOutcome {
	var out fileOutcome
	namespace := ""
	if m := javaPackageRe.FindStringSubmatch(pf.Stripped); m != nil {
		namespace = m[1]
	}

	for _, m := range markerRe.FindAllStringIndex(pf.Stripped, -1) {
		metadata, argEnd, err := parenArgs(pf, m[1])
		if err != nil {
			out.warnings = append(out.warnings, malformed(pf, m[1], "", fmt.Sprintf("bad annotation arguments: %v", err), err))
			continue
		}

		headerAt, ok := javaSkipToHeader(pf.Stripped, argEnd)
		if !ok {
			continue
		}
		header := javaHeaderRe.FindStringSubmatchIndex(pf.Stripped[headerAt:])
		if header == nil {
			continue
		}
		name := pf.Stripped[headerAt+header[2] : headerAt+header[3]]

		openIdx := source.FindOpen(pf.Stripped, headerAt+header[1], '{')
		if openIdx < 0 {
			out.warnings = append(out.warnings, malformed(pf, headerAt, name, "declaration has no body", source.ErrUnbalanced))
			continue
		}
		body, err := source.ExtractBody(pf.Stripped, openIdx, '{', '}')
		if err != nil {
			out.warnings = append(out.warnings, malformed(pf, openIdx, name, "declaration body never closes", err))
			continue
		}

		class := blueprint.NewClass(name, namespace)
		class.Metadata = metadata
		javaMembers(body, name, &class)
		out.classes = append(out.classes, class)
	}

	return out
}

// javaSkipToHeader advances past whitespace and further annotations
// (argument lists included) to where the declaration header must start.
func javaSkipToHeader(stripped string, from int) (int, bool) {
	i := skipSpace(stripped, from)
	for i < len(stripped) && stripped[i] == '@' {
		loc := javaAnnotRe.FindStringIndex(stripped[i:])
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

func javaMembers(body, className string, class *blueprint.DiscoveredClass) {
	top := blankNested(body)
	for _, m := range javaFieldRe.FindAllStringSubmatch(top, -1) {
		class.Properties = append(class.Properties, property(m[2], m[1], javaUnknownType))
	}
	for _, m := range javaMethodRe.FindAllStringSubmatch(top, -1) {
		ret := strings.TrimSpace(m[1])
		name := m[2]
		if name == className || javaHeaderKeywords[ret] {
			continue
		}
		if ret == "" || ret == "void" {
			ret = javaUnknownType
		}
		class.Methods = append(class.Methods, blueprint.DiscoveredMethod{
			Name:       name,
			ReturnType: ret,
			Parameters: javaParameters(m[3]),
		})
	}
}

func javaParameters(list string) []blueprint.DiscoveredParameter {
	params := []blueprint.DiscoveredParameter{}
	for _, raw := range splitParams(list) {
		fields := strings.Fields(raw)
		if len(fields) > 0 && fields[0] == "final" {
			fields = fields[1:]
		}
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimPrefix(fields[len(fields)-1], "...")
		params = append(params, blueprint.DiscoveredParameter{
			Name: name,
			Type: strings.Join(fields[:len(fields)-1], " "),
		})
	}
	return params
}
