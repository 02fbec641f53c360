// Package cli implements nutricalc, an offline front end to the analytics
// engine. It reads JSON exports and never talks to the database.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nutricalc",
		Short:         "nutricalc computes body metrics and nutrition analytics offline",
		Long:          "nutricalc runs the Kanso nutrition engine over command-line values or a JSON export of food logs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMetricsCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%s", *v, unit)
}
