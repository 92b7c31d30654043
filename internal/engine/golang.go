package engine

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
	"github.com/stencilworks/stencil/internal/utils"
)

// goUnknownType is the unknown/void sentinel for Go declarations.
const goUnknownType = "interface{}"

func newGoEngine() Engine {
	return &scanEngine{
		spec: langSpec{
			lang:       LangGo,
			extensions: []string{".go"},
			excludes:   []string{"**/*_test.go"},
			// Go files go through the real parser; comment handling and
			// string literals are its problem, not the stripper's.
			noStrip: true,
		},
		newParser: func(opts Options) parseFunc {
			gp := &goParser{
				directive: regexp.MustCompile(`^//\s*@` + regexp.QuoteMeta(opts.Marker) + `\b(.*)$`),
				modules:   map[string]string{},
			}
			return gp.parse
		},
	}
}

// goParser front-ends the scan with go/parser instead of lexical
// matching. The module cache maps scan roots to their go.mod module
// paths; files from the same root share one lookup.
type goParser struct {
	directive *regexp.Regexp

	mu      sync.Mutex
	modules map[string]string
}

func (gp *goParser) parse(pf *parsedFile) fileOutcome {
	var out fileOutcome

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, pf.Path, pf.Original, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		out.err = utils.WrapParseError(pf.Rel, err)
		return out
	}

	namespace := gp.namespace(pf, file)

	// Only top-level type declarations are eligible; directives on
	// function-local types are ignored.
	classIdx := map[string]int{}
	for _, d := range file.Decls {
		decl, ok := d.(*ast.GenDecl)
		if !ok || decl.Tok != token.TYPE {
			continue
		}
		for _, spec := range decl.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			metadata, found, err := gp.markerDirective(decl.Doc, ts.Doc)
			if err != nil {
				pos := fset.Position(ts.Pos())
				out.warnings = append(out.warnings, &MalformedDeclarationError{
					Class:  ts.Name.Name,
					Loc:    source.Location{File: pf.Rel, Line: pos.Line, Column: pos.Column},
					Reason: fmt.Sprintf("bad directive arguments: %v", err),
					Cause:  err,
				})
				continue
			}
			if !found {
				continue
			}

			class := blueprint.NewClass(ts.Name.Name, namespace)
			class.Metadata = metadata
			goFields(st, &class)
			classIdx[ts.Name.Name] = len(out.classes)
			out.classes = append(out.classes, class)
		}
	}

	if len(out.classes) == 0 {
		return out
	}

	insp := inspector.New([]*ast.File{file})
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Recv == nil || len(fn.Recv.List) == 0 {
			return
		}
		idx, ok := classIdx[receiverBase(fn.Recv.List[0].Type)]
		if !ok {
			return
		}
		out.classes[idx].Methods = append(out.classes[idx].Methods, blueprint.DiscoveredMethod{
			Name:       fn.Name.Name,
			ReturnType: goReturnType(fn.Type),
			Parameters: goParameters(fn.Type),
		})
	})

	return out
}

// markerDirective scans the type's doc comments (the TypeSpec's own doc
// and the surrounding GenDecl's) for a "// @Marker" directive line and
// parses its arguments.
func (gp *goParser) markerDirective(groups ...*ast.CommentGroup) (map[string]string, bool, error) {
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			m := gp.directive.FindStringSubmatch(c.Text)
			if m == nil {
				continue
			}
			args := strings.TrimSpace(m[1])
			if strings.HasPrefix(args, "(") && strings.HasSuffix(args, ")") {
				args = args[1 : len(args)-1]
			}
			meta, err := ParseMarkerArgs(args)
			if err != nil {
				return nil, true, err
			}
			return meta, true, nil
		}
	}
	return nil, false, nil
}

// namespace resolves the import-path-like namespace for a file: the
// root's go.mod module path joined with the file's directory, falling
// back to the package clause when no go.mod exists.
func (gp *goParser) namespace(pf *parsedFile, file *ast.File) string {
	gp.mu.Lock()
	module, ok := gp.modules[pf.Root]
	if !ok {
		module = readModulePath(pf.Root)
		gp.modules[pf.Root] = module
	}
	gp.mu.Unlock()

	if module == "" {
		return file.Name.Name
	}
	dir := path.Dir(pf.Rel)
	if dir == "." {
		return module
	}
	return module + "/" + dir
}

func readModulePath(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func goFields(st *ast.StructType, class *blueprint.DiscoveredClass) {
	for _, field := range st.Fields.List {
		typ := exprString(field.Type)
		if len(field.Names) == 0 {
			// Embedded field: the base type name doubles as the name.
			name := typ
			if i := strings.LastIndexAny(name, "*."); i >= 0 {
				name = name[i+1:]
			}
			class.Properties = append(class.Properties, property(name, typ, goUnknownType))
			continue
		}
		for _, name := range field.Names {
			class.Properties = append(class.Properties, property(name.Name, typ, goUnknownType))
		}
	}
}

func goReturnType(ft *ast.FuncType) string {
	if ft.Results == nil || len(ft.Results.List) == 0 {
		return goUnknownType
	}
	return exprString(ft.Results.List[0].Type)
}

func goParameters(ft *ast.FuncType) []blueprint.DiscoveredParameter {
	params := []blueprint.DiscoveredParameter{}
	if ft.Params == nil {
		return params
	}
	for _, field := range ft.Params.List {
		typ := exprString(field.Type)
		if len(field.Names) == 0 {
			params = append(params, blueprint.DiscoveredParameter{Name: "_", Type: typ})
			continue
		}
		for _, name := range field.Names {
			params = append(params, blueprint.DiscoveredParameter{Name: name.Name, Type: typ})
		}
	}
	return params
}

// receiverBase unwraps a method receiver type down to its named base.
func receiverBase(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

// exprString renders a type expression back to source-like text. Only the
// shapes that appear in struct fields and signatures are handled; anything
// exotic collapses to the unknown sentinel.
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		if t.Len != nil {
			return "[" + exprString(t.Len) + "]" + exprString(t.Elt)
		}
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.InterfaceType:
		return goUnknownType
	case *ast.ChanType:
		return "chan " + exprString(t.Value)
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	case *ast.FuncType:
		return "func"
	case *ast.BasicLit:
		return t.Value
	case *ast.IndexExpr:
		return exprString(t.X) + "[" + exprString(t.Index) + "]"
	case *ast.IndexListExpr:
		var args []string
		for _, a := range t.Indices {
			args = append(args, exprString(a))
		}
		return exprString(t.X) + "[" + strings.Join(args, ", ") + "]"
	default:
		return goUnknownType
	}
}
