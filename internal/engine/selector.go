package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// probe is one entry in the ordered detection table. Detection is
// order-sensitive: the most syntactically specific marker is checked first
// because some ecosystems share files (a TypeScript project also contains
// package.json and often plain .js files).
type probe struct {
	lang    Language
	matches func(root string) bool
}

var probes = []probe{
	{LangCSharp, func(root string) bool {
		return globAnywhere(root, "*.csproj") || globAnywhere(root, "*.sln")
	}},
	{LangJava, func(root string) bool {
		return markerExists(root, "pom.xml", "build.gradle", "build.gradle.kts")
	}},
	{LangTypeScript, func(root string) bool {
		if markerExists(root, "tsconfig.json") {
			return true
		}
		// package.json that declares typescript is a TypeScript project
		// even without a checked-in tsconfig.
		return markerExists(root, "package.json") && packageDependsOn(root, "typescript")
	}},
	{LangJavaScript, func(root string) bool {
		return markerExists(root, "package.json")
	}},
	{LangPython, func(root string) bool {
		return markerExists(root, "pyproject.toml", "requirements.txt", "setup.py", "Pipfile")
	}},
	{LangGo, func(root string) bool {
		return markerExists(root, "go.mod")
	}},
}

// SelectEngine inspects sourceRoot for project marker files and returns the
// matching engine. Exactly one engine is selected per root; mixed-language
// repositories must be passed as distinct roots per language. Returns a
// *DetectionError when no marker is recognized.
func SelectEngine(sourceRoot string) (Engine, error) {
	for _, p := range probes {
		if p.matches(sourceRoot) {
			return ForLanguage(p.lang)
		}
	}
	return nil, &DetectionError{Root: sourceRoot}
}

// ForLanguage returns the engine for an explicitly chosen language,
// bypassing marker-file detection.
func ForLanguage(lang Language) (Engine, error) {
	switch lang {
	case LangCSharp:
		return newCSharpEngine(), nil
	case LangJava:
		return newJavaEngine(), nil
	case LangTypeScript:
		return newTypeScriptEngine(), nil
	case LangJavaScript:
		return newJavaScriptEngine(), nil
	case LangPython:
		return newPythonEngine(), nil
	case LangGo:
		return newGoEngine(), nil
	default:
		return nil, &DetectionError{Root: string(lang)}
	}
}

// Languages lists the supported languages in detection priority order.
func Languages() []Language {
	langs := make([]Language, len(probes))
	for i, p := range probes {
		langs[i] = p.lang
	}
	return langs
}

// markerExists reports whether any of the named files exists at the root
// or in an immediate subdirectory. One level of nesting covers the common
// src/-style layout without crawling the whole tree during detection.
func markerExists(root string, names ...string) bool {
	for _, name := range names {
		if fileExists(filepath.Join(root, name)) {
			return true
		}
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || skipDirs[entry.Name()] {
			continue
		}
		for _, name := range names {
			if fileExists(filepath.Join(root, entry.Name(), name)) {
				return true
			}
		}
	}
	return false
}

// globAnywhere reports whether pattern matches at the root or in an
// immediate subdirectory.
func globAnywhere(root, pattern string) bool {
	if matches, err := filepath.Glob(filepath.Join(root, pattern)); err == nil && len(matches) > 0 {
		return true
	}
	matches, err := filepath.Glob(filepath.Join(root, "*", pattern))
	return err == nil && len(matches) > 0
}

// packageDependsOn reports whether package.json at root (or one level
// down) lists dep in any dependency section.
func packageDependsOn(root, dep string) bool {
	paths, _ := filepath.Glob(filepath.Join(root, "package.json"))
	more, _ := filepath.Glob(filepath.Join(root, "*", "package.json"))
	for _, path := range append(paths, more...) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var pkg struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
		}
		if err := json.Unmarshal(data, &pkg); err != nil {
			continue
		}
		if _, ok := pkg.Dependencies[dep]; ok {
			return true
		}
		if _, ok := pkg.DevDependencies[dep]; ok {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
