package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rail-studio/internal/level"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export <level>",
	Short: "Re-export a level in canonical form",
	Long: `Parse a level through the error-tolerant reader and write it back in
the canonical layout: repaired syntax, stable key order, one event per
line. Semantics are preserved exactly; only whitespace and damaged
syntax change.

Examples:
  railstudio export levels/broken.adofai
  railstudio export levels/broken.adofai -o levels/fixed.adofai`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	lvl, err := level.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	out := level.Export(lvl)

	if flagExportOut == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(flagExportOut, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", flagExportOut, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", flagExportOut)
}
