// Package report serializes discovery results into the blueprint JSON
// document downstream generators consume.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/stencilworks/stencil/internal/blueprint"
	"github.com/stencilworks/stencil/internal/engine"
	"github.com/stencilworks/stencil/internal/utils"
)

// Report is one discovery run, ready for serialization. RunID ties log
// lines and artifacts from the same invocation together.
type Report struct {
	RunID       uuid.UUID           `json:"runId"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Language    engine.Language     `json:"language"`
	Marker      string              `json:"marker"`
	Roots       []string            `json:"roots"`
	Summary     engine.Summary      `json:"summary"`
	Classes     blueprint.Blueprint `json:"classes"`
}

// New assembles a Report from a discovery result.
func New(res *engine.Result, marker string, roots []string) *Report {
	return &Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Language:    res.Language,
		Marker:      marker,
		Roots:       roots,
		Summary:     res.Summary,
		Classes:     res.Classes,
	}
}

// WriteTo serializes the report as indented JSON.
func (r *Report) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Write serializes the report to a file, creating parent directories as
// needed. An empty path writes to stdout.
func (r *Report) Write(path string) error {
	if path == "" || path == "-" {
		return r.WriteTo(os.Stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return utils.WrapWriteError(path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return utils.WrapWriteError(path, err)
	}
	defer f.Close()
	if err := r.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}
