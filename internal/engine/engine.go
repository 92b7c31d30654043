package engine

import (
	"context"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/placeholder"
	"github.com/stencilworks/stencil/internal/utils"
)

// Language identifies one supported source language.
type Language string

const (
	LangCSharp     Language = "csharp"
	LangJava       Language = "java"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangGo         Language = "go"
)

// DefaultMarker is the tracking-marker name used when the caller does not
// configure one. Callers of the library always pass it explicitly through
// Options; nothing reads it from process-wide state.
const DefaultMarker = "Track"

// Options configure a single discovery invocation. The marker name and
// exclusion patterns are explicit per-call inputs, so concurrent runs with
// different markers never interfere.
type Options struct {
	// Marker is the tracking-marker name, without language decoration:
	// "Track" matches [Track] in C#, @Track in Java/TypeScript/Python and
	// the // @Track directive in Go and JavaScript.
	Marker string

	// Excludes are additional doublestar globs, matched against the
	// slash-separated path of each file relative to its source root. They
	// extend the engine's built-in exclusions (tests, declarations,
	// generated files).
	Excludes []string

	// Workers bounds parallel file scans. Zero or negative selects a
	// sensible default.
	Workers int

	// Resolver rewrites {token} placeholders in extracted metadata values.
	// Nil selects the environment-backed default.
	Resolver *placeholder.Resolver

	// Diag receives phase and per-file diagnostics. Nil selects a
	// quiet system that only reports errors.
	Diag *utils.DiagnosticSystem
}

func (o Options) withDefaults() Options {
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.Diag == nil {
		o.Diag = utils.NewQuietDiagnostics()
	}
	if o.Resolver == nil {
		o.Resolver = placeholder.NewResolver(placeholder.EnvStore{}, o.Diag.Warn)
	}
	return o
}

// Summary counts what one discovery call processed. A run with contained
// per-file failures still returns everything it found, plus these counts.
type Summary struct {
	FilesScanned int `json:"filesScanned"`
	FilesSkipped int `json:"filesSkipped"`
	ClassesFound int `json:"classesFound"`
	Warnings     int `json:"warnings"`
}

// Result is the outcome of one discovery invocation.
type Result struct {
	Language Language            `json:"language"`
	Classes  blueprint.Blueprint `json:"classes"`
	Summary  Summary             `json:"summary"`
}

// Engine discovers tracked declarations under a set of source roots.
// Implementations are stateless with respect to invocations: every call
// rebuilds its result from scratch and shares nothing with prior calls.
type Engine interface {
	Language() Language

	// Discover scans the given roots for declarations preceded by the
	// configured tracking marker. Per-file failures are contained and
	// logged; the call fails only when no root resolves to an existing
	// directory, no file of the expected extension exists anywhere, or
	// ctx is cancelled (in which case no partial result is returned).
	Discover(ctx context.Context, roots []string, opts Options) (*Result, error)
}
