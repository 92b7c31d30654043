package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/stencilworks/stencil/internal/engine"
)

// Reporter provides user-friendly error reporting for the commands.
type Reporter struct {
	verbose bool
}

// NewReporter creates a new error reporter.
func NewReporter(verbose bool) *Reporter {
	return &Reporter{verbose: verbose}
}

// suggester is implemented by errors that carry an actionable hint.
type suggester interface {
	Suggestion() string
}

// ReportError prints an error with whatever context and suggestions the
// error type carries.
func (r *Reporter) ReportError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, "%s\n", err.Error())

	var detect *engine.DetectionError
	var noFiles *engine.NoSourceFilesError
	switch {
	case errors.As(err, &detect):
		fmt.Fprintf(os.Stderr, "\nSuggestions:\n")
		fmt.Fprintf(os.Stderr, "  - Point stencil at the directory containing the project's build files\n")
		fmt.Fprintf(os.Stderr, "  - Use --lang to choose an engine explicitly\n")
	case errors.As(err, &noFiles):
		fmt.Fprintf(os.Stderr, "\nSuggestions:\n")
		fmt.Fprintf(os.Stderr, "  - Check that the roots contain the sources you expect\n")
		fmt.Fprintf(os.Stderr, "  - Review --exclude patterns; they may be filtering everything out\n")
	case errors.Is(err, engine.ErrNoRoots):
		fmt.Fprintf(os.Stderr, "\nSuggestions:\n")
		fmt.Fprintf(os.Stderr, "  - Check that the root paths exist and are directories\n")
	default:
		var s suggester
		if errors.As(err, &s) {
			fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", s.Suggestion())
		}
	}

	if r.verbose {
		r.printErrorChain(err)
	}
}

// printErrorChain prints the full unwrap chain for debugging.
func (r *Reporter) printErrorChain(err error) {
	fmt.Fprintf(os.Stderr, "\nError chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(os.Stderr, "  %d. %s\n", level, err.Error())
		err = errors.Unwrap(err)
		level++
	}
}
