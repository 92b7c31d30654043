package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/source"
)

// skipDirs are directory names that never contain scannable source.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".svn":         true,
	".hg":          true,
	"testdata":     true,
	"build":        true,
	"dist":         true,
	"target":       true,
	"obj":          true,
	"bin":          true,
	"__pycache__":  true,
	"venv":         true,
	".venv":        true,
}

// langSpec is the static description of one lexical engine: where its
// files live, what to exclude, and how its comments and strings look.
type langSpec struct {
	lang        Language
	extensions  []string
	excludes    []string
	syntax      source.Syntax
	preserveDoc bool

	// noStrip disables lexical pre-processing for engines backed by a
	// real parser front end (the Go engine).
	noStrip bool
}

// sourceFile is one enumerated file, before reading.
type sourceFile struct {
	Path string // absolute path
	Rel  string // slash path relative to its root
	Root string
}

// parsedFile is handed to a language's parse function. Stripped has the
// same length and offsets as Original; marker argument text is read back
// from Original so string contents survive.
type parsedFile struct {
	Path     string
	Rel      string
	Root     string
	Original string
	Stripped string
}

// fileOutcome is the contained result of scanning one file. A non-nil err
// skips the file; warnings are logged and counted without skipping it.
type fileOutcome struct {
	classes  []blueprint.DiscoveredClass
	warnings []error
	err      error
}

// parseFunc extracts tracked classes from one file.
type parseFunc func(pf *parsedFile) fileOutcome

// scanEngine drives enumeration, parallel per-file scanning and assembly
// for every language. Only the parse function differs per language.
type scanEngine struct {
	spec      langSpec
	newParser func(opts Options) parseFunc
}

func (e *scanEngine) Language() Language { return e.spec.lang }

func (e *scanEngine) Discover(ctx context.Context, roots []string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	resolved, err := resolveRoots(roots)
	if err != nil {
		return nil, err
	}

	files, err := e.enumerate(resolved, opts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &NoSourceFilesError{Roots: resolved, Extensions: e.spec.extensions}
	}

	opts.Diag.Verbose("scanning %d %s files under %s", len(files), e.spec.lang, strings.Join(resolved, ", "))

	parse := e.newParser(opts)
	outcomes := make([]fileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(opts))
	for i := range files {
		i := i
		g.Go(func() error {
			// Cancellation between file scans makes the call
			// all-or-nothing: a cancelled run returns no partial result.
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			f := files[i]
			data, err := os.ReadFile(f.Path)
			if err != nil {
				outcomes[i] = fileOutcome{err: err}
				return nil
			}
			pf := &parsedFile{
				Path:     f.Path,
				Rel:      f.Rel,
				Root:     f.Root,
				Original: string(data),
			}
			if e.spec.noStrip {
				pf.Stripped = pf.Original
			} else {
				pf.Stripped = source.Strip(pf.Original, e.spec.syntax, e.spec.preserveDoc)
			}
			outcomes[i] = parse(pf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	asm := blueprint.NewAssembler()
	summary := Summary{}
	for i, out := range outcomes {
		if out.err != nil {
			opts.Diag.Warn("skipping %s: %v", files[i].Rel, out.err)
			summary.FilesSkipped++
			summary.Warnings++
			continue
		}
		for _, w := range out.warnings {
			opts.Diag.Warn("%v", w)
			summary.Warnings++
		}
		resolveMetadata(out.classes, opts)
		asm.Add(out.classes)
		summary.FilesScanned++
	}
	summary.ClassesFound = asm.Len()

	return &Result{
		Language: e.spec.lang,
		Classes:  asm.Assemble(),
		Summary:  summary,
	}, nil
}

// resolveMetadata rewrites {token} placeholders in every metadata value.
// Resolution is best-effort and never fails the scan.
func resolveMetadata(classes []blueprint.DiscoveredClass, opts Options) {
	for i := range classes {
		for k, v := range classes[i].Metadata {
			classes[i].Metadata[k] = opts.Resolver.Resolve(v)
		}
	}
}

// enumerate walks each resolved root in order and collects matching files.
// filepath.WalkDir visits entries in lexical order, so repeated runs over
// unchanged trees enumerate identically.
func (e *scanEngine) enumerate(roots []string, opts Options) ([]sourceFile, error) {
	excludes := append(append([]string{}, e.spec.excludes...), opts.Excludes...)

	var files []sourceFile
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				opts.Diag.Warn("skipping %s: %v", path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			name := d.Name()
			if d.IsDir() {
				if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if !e.hasExtension(name) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if matchesAny(excludes, rel) {
				return nil
			}
			files = append(files, sourceFile{Path: path, Rel: rel, Root: root})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (e *scanEngine) hasExtension(name string) bool {
	for _, ext := range e.spec.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// resolveRoots cleans the given roots and keeps those that are existing
// directories. Zero surviving roots is a configuration failure.
func resolveRoots(roots []string) ([]string, error) {
	var resolved []string
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			resolved = append(resolved, abs)
		}
	}
	if len(resolved) == 0 {
		return nil, ErrNoRoots
	}
	return resolved, nil
}

// SplitRoots splits a path-list-separated string of source roots, the form
// upstream collaborators hand them over in.
func SplitRoots(joined string) []string {
	parts := strings.Split(joined, string(os.PathListSeparator))
	var roots []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roots = append(roots, p)
		}
	}
	return roots
}

func workerCount(opts Options) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	return runtime.NumCPU()
}
