package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree materializes a file map under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func discoverIn(t *testing.T, eng Engine, files map[string]string, opts Options) *Result {
	t.Helper()
	dir := writeTree(t, files)
	res, err := eng.Discover(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	return res
}

func TestDiscoverNoRoots(t *testing.T) {
	eng := newCSharpEngine()

	_, err := eng.Discover(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrNoRoots)

	_, err = eng.Discover(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, Options{})
	assert.ErrorIs(t, err, ErrNoRoots)
}

func TestDiscoverNoSourceFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{"readme.md": "nothing to see"})

	_, err := newCSharpEngine().Discover(context.Background(), []string{dir}, Options{})
	var noFiles *NoSourceFilesError
	require.ErrorAs(t, err, &noFiles)
	assert.Contains(t, noFiles.Extensions, ".cs")
}

func TestDiscoverCancellation(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.cs": "[Track]\npublic class A { }\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newCSharpEngine().Discover(ctx, []string{dir}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestDiscoverDeterministic(t *testing.T) {
	files := map[string]string{
		"b/second.cs": "[Track]\npublic class Second { }\n",
		"a/first.cs":  "[Track]\npublic class First { }\n",
		"zed.cs":      "[Track]\npublic class Zed { }\n",
	}
	dir := writeTree(t, files)

	eng := newCSharpEngine()
	first, err := eng.Discover(context.Background(), []string{dir}, Options{Workers: 4})
	require.NoError(t, err)
	second, err := eng.Discover(context.Background(), []string{dir}, Options{Workers: 1})
	require.NoError(t, err)

	// Enumeration is lexical, so order is stable across runs and worker
	// counts: a/first.cs, b/second.cs, zed.cs.
	assert.Equal(t, []string{"First", "Second", "Zed"}, first.Classes.ClassNames())
	assert.Equal(t, first.Classes, second.Classes)
}

func TestDiscoverRootOrder(t *testing.T) {
	rootA := writeTree(t, map[string]string{"a.cs": "[Track]\npublic class FromA { }\n"})
	rootB := writeTree(t, map[string]string{"b.cs": "[Track]\npublic class FromB { }\n"})

	res, err := newCSharpEngine().Discover(context.Background(), []string{rootB, rootA}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"FromB", "FromA"}, res.Classes.ClassNames())
}

func TestDiscoverExcludes(t *testing.T) {
	res := discoverIn(t, newCSharpEngine(), map[string]string{
		"keep.cs":            "[Track]\npublic class Keep { }\n",
		"skip/generated.cs":  "[Track]\npublic class Skipped { }\n",
		"models.Designer.cs": "[Track]\npublic class Designer { }\n",
	}, Options{Excludes: []string{"skip/**"}})

	assert.Equal(t, []string{"Keep"}, res.Classes.ClassNames())
	assert.Equal(t, 1, res.Summary.FilesScanned)
}

func TestDiscoverSkipsVendorDirs(t *testing.T) {
	res := discoverIn(t, newCSharpEngine(), map[string]string{
		"app.cs":              "[Track]\npublic class App { }\n",
		"node_modules/dep.cs": "[Track]\npublic class Dep { }\n",
		".hidden/x.cs":        "[Track]\npublic class Hidden { }\n",
	}, Options{})

	assert.Equal(t, []string{"App"}, res.Classes.ClassNames())
}

func TestDiscoverUnmarkedFilesYieldNothing(t *testing.T) {
	res := discoverIn(t, newCSharpEngine(), map[string]string{
		"marked.cs":   "[Track]\npublic class Marked { }\n",
		"unmarked.cs": "public class Unmarked { }\n",
	}, Options{})

	assert.Equal(t, []string{"Marked"}, res.Classes.ClassNames())
	assert.Equal(t, 2, res.Summary.FilesScanned)
	assert.Equal(t, 1, res.Summary.ClassesFound)
}

func TestDiscoverCustomMarker(t *testing.T) {
	res := discoverIn(t, newCSharpEngine(), map[string]string{
		"a.cs": "[Audit]\npublic class Audited { }\n[Track]\npublic class Tracked { }\n",
	}, Options{Marker: "Audit"})

	assert.Equal(t, []string{"Audited"}, res.Classes.ClassNames())
}

func TestSplitRoots(t *testing.T) {
	joined := "a" + string(os.PathListSeparator) + " b " + string(os.PathListSeparator) + string(os.PathListSeparator) + "c"
	assert.Equal(t, []string{"a", "b", "c"}, SplitRoots(joined))
	assert.Empty(t, SplitRoots(""))
}
