package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rail-studio/internal/level"
	"github.com/vovakirdan/rail-studio/internal/track"
)

var flagStrict bool

var infoCmd = &cobra.Command{
	Use:   "info <level>",
	Short: "Parse a level and print its statistics",
	Long: `Parse a level file through the error-tolerant reader and print its
track and event statistics.

With --strict the raw text is additionally checked against the level
schema, reporting damage the tolerant reader would silently repair.

Examples:
  railstudio info levels/spiral.adofai
  railstudio info levels/spiral.adofai --strict`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&flagStrict, "strict", false, "Also validate against the level schema")
}

func runInfo(cmd *cobra.Command, args []string) {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	text := string(data)

	lvl, err := level.Parse(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	graph := track.NewGraph(lvl)

	midspins := 0
	for _, tile := range graph.Tiles() {
		if tile.Midspin {
			midspins++
		}
	}
	byKind := map[string]int{}
	for _, a := range lvl.Actions {
		byKind[a.Tag]++
	}

	fmt.Printf("Level: %s\n", path)
	if song, ok := lvl.Settings.String("song"); ok && song != "" {
		fmt.Printf("Song:  %s\n", song)
	}
	if bpm, err := lvl.BPM(); err == nil {
		fmt.Printf("BPM:   %g\n", bpm)
	}
	fmt.Println()
	fmt.Printf("Tiles:       %d (%d midspins)\n", graph.Len(), midspins)
	fmt.Printf("Events:      %d\n", len(lvl.Actions))
	fmt.Printf("Decorations: %d\n", len(lvl.Decorations))

	if len(byKind) > 0 {
		fmt.Println()
		fmt.Println("Events by type:")
		for _, tag := range sortedKeys(byKind) {
			fmt.Printf("  %-20s %d\n", tag, byKind[tag])
		}
	}

	if flagStrict {
		fmt.Println()
		if err := level.Validate(text); err != nil {
			fmt.Printf("Schema: FAIL\n  %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Schema: OK")
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
