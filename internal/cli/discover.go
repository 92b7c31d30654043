package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stencilworks/stencil/internal/engine"
	"github.com/stencilworks/stencil/internal/placeholder"
	"github.com/stencilworks/stencil/internal/report"
)

var (
	markerFlag   string
	langFlag     string
	excludeFlags []string
	outFlag      string
	workersFlag  int
)

var discoverCmd = &cobra.Command{
	Use:   "discover [roots...]",
	Short: "Scan source roots for marked declarations and emit a blueprint",
	Long: `Discover scans one or more source roots for declarations preceded by
the tracking marker and writes the resulting blueprint as JSON.

With no roots, the current directory is scanned. Roots may also be
passed as a single path-list-separated argument, the form build
pipelines hand them over in.`,
	Example: `  stencil discover ./src
  stencil discover --marker Audit --out blueprint.json ./services ./shared
  stencil discover --lang python --exclude '**/migrations/**' .`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&markerFlag, "marker", "m", engine.DefaultMarker, "tracking-marker name, without language decoration")
	discoverCmd.Flags().StringVarP(&langFlag, "lang", "l", "", "skip detection and use this language engine (csharp, java, typescript, javascript, python, go)")
	discoverCmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "e", nil, "additional glob to exclude, relative to each root (repeatable)")
	discoverCmd.Flags().StringVarP(&outFlag, "out", "o", "", "write the blueprint to this file instead of stdout")
	discoverCmd.Flags().IntVar(&workersFlag, "workers", 0, "max parallel file scans (0 = number of CPUs)")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	// Environment fallbacks for pipeline use; explicit flags win.
	if !cmd.Flags().Changed("marker") {
		if v := os.Getenv("STENCIL_MARKER"); v != "" {
			markerFlag = v
		}
	}
	if !cmd.Flags().Changed("exclude") {
		if v := os.Getenv("STENCIL_EXCLUDE"); v != "" {
			excludeFlags = engine.SplitRoots(v)
		}
	}

	roots := discoverRoots(args)
	diag := diagnostics()

	eng, err := selectEngine(roots)
	if err != nil {
		return err
	}

	diag.Header(fmt.Sprintf("Scanning for [%s] declarations", markerFlag))
	diag.SourcePath(strings.Join(roots, ", "))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := engine.Options{
		Marker:   markerFlag,
		Excludes: excludeFlags,
		Workers:  workersFlag,
		Resolver: placeholder.NewResolver(placeholder.EnvStore{}, diag.Warn),
		Diag:     diag,
	}
	res, err := eng.Discover(ctx, roots, opts)
	if err != nil {
		return err
	}

	rep := report.New(res, markerFlag, roots)
	if err := rep.Write(outFlag); err != nil {
		return err
	}

	diag.PhaseHeader("Summary")
	diag.PhaseItem("Language: %s", res.Language)
	diag.PhaseItem("Files scanned: %d", res.Summary.FilesScanned)
	if res.Summary.FilesSkipped > 0 {
		diag.PhaseItem("Files skipped: %d", res.Summary.FilesSkipped)
	}
	diag.PhaseItem("Classes found: %d", res.Summary.ClassesFound)
	if res.Summary.Warnings > 0 {
		diag.PhaseItem("Warnings: %d", res.Summary.Warnings)
	}
	diag.ScanComplete()
	return nil
}

// discoverRoots normalizes the positional arguments into a root list. A
// single argument may itself be a path list.
func discoverRoots(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	var roots []string
	for _, arg := range args {
		roots = append(roots, engine.SplitRoots(arg)...)
	}
	if len(roots) == 0 {
		return []string{"."}
	}
	return roots
}

// selectEngine honors an explicit --lang choice and otherwise detects the
// language from the first root's project marker files.
func selectEngine(roots []string) (engine.Engine, error) {
	if langFlag != "" {
		return engine.ForLanguage(engine.Language(strings.ToLower(langFlag)))
	}
	return engine.SelectEngine(roots[0])
}
