package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stencilworks/stencil/internal/source"
)

// ErrNoRoots reports that none of the supplied source roots resolve to an
// existing directory. Root-level configuration failures like this one are
// the only errors that stop a run.
var ErrNoRoots = errors.New("no source roots resolve to existing directories")

// DetectionError reports that a source root carries no recognizable
// project marker file, so no engine can be selected for it.
type DetectionError struct {
	Root string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("%s: no recognizable project marker found. "+
		"Expected one of: *.csproj, pom.xml, build.gradle, tsconfig.json, package.json, pyproject.toml, requirements.txt, setup.py, go.mod", e.Root)
}

// NoSourceFilesError reports that the roots exist but contain no file of
// the engine's expected extensions. This is distinct from "files found but
// nothing marked", which is a legitimate empty blueprint.
type NoSourceFilesError struct {
	Roots      []string
	Extensions []string
}

func (e *NoSourceFilesError) Error() string {
	return fmt.Sprintf("no %s files found under %s",
		strings.Join(e.Extensions, "/"), strings.Join(e.Roots, ", "))
}

// MalformedDeclarationError reports a single declaration that could not be
// extracted — typically unbalanced delimiters or a truncated body. It is
// always contained: the declaration is skipped, a warning is logged, and
// processing of the file continues.
type MalformedDeclarationError struct {
	Class  string
	Loc    source.Location
	Reason string
	Cause  error
}

func (e *MalformedDeclarationError) Error() string {
	name := e.Class
	if name == "" {
		name = "declaration"
	}
	return fmt.Sprintf("%s: malformed %s: %s", e.Loc, name, e.Reason)
}

func (e *MalformedDeclarationError) Unwrap() error { return e.Cause }

// Suggestion returns a hint for fixing the declaration, in the spirit of
// the rest of the diagnostics output.
func (e *MalformedDeclarationError) Suggestion() string {
	if errors.Is(e.Cause, source.ErrUnbalanced) {
		return "Check that every opening delimiter in the declaration body has a matching closing one"
	}
	return "Check the declaration syntax near the reported location"
}
