package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stencilworks/stencil/internal/engine"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages in detection priority order",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range engine.Languages() {
			fmt.Fprintln(cmd.OutOrStdout(), lang)
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
