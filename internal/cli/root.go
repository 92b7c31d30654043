// Package cli wires the stencil commands together.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/stencilworks/stencil/internal/utils"
)

var (
	verboseFlag bool
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "Discover tracked declarations across polyglot codebases",
	Long: `Stencil scans source trees for declarations carrying a tracking marker
([Track] in C#, @Track in Java/TypeScript/Python, // @Track in Go and
JavaScript) and emits a normalized blueprint of the classes it finds.

The language is detected from project marker files (*.csproj, pom.xml,
tsconfig.json, package.json, pyproject.toml, go.mod) unless one is
chosen explicitly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output and detailed error reporting")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "only show errors and final results")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		NewReporter(verboseFlag).ReportError(err)
		return 1
	}
	return 0
}

// diagnostics builds the diagnostic system the flags ask for.
func diagnostics() *utils.DiagnosticSystem {
	switch {
	case quietFlag:
		return utils.NewQuietDiagnostics()
	case verboseFlag:
		return utils.NewVerboseDiagnostics()
	default:
		return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
}
