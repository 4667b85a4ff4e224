package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rail-studio/internal/storage"
)

var flagRecentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened levels",
	Long: `Display the most recently opened levels with their cached metadata
and playback statistics.

Examples:
  railstudio recent
  railstudio recent --limit 5`,
	Run: runRecent,
}

func init() {
	recentCmd.Flags().IntVar(&flagRecentLimit, "limit", 10, "Maximum number of levels to show")
}

func runRecent(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Paths.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.RecentLevels(flagRecentLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No levels opened yet.")
		fmt.Println()
		fmt.Println("Run 'railstudio play <level>' to open one.")
		return
	}

	fmt.Println("Recently opened levels:")
	fmt.Println()
	fmt.Printf("  %-40s  %-6s  %-6s  %-5s  %s\n", "Path", "Tiles", "BPM", "Opens", "Last opened")
	fmt.Printf("  %-40s  %-6s  %-6s  %-5s  %s\n", "----", "-----", "---", "-----", "-----------")

	for _, e := range entries {
		fmt.Printf("  %-40s  %-6d  %-6g  %-5d  %s\n",
			e.Path, e.TileCount, e.BPM, e.OpenedCount, e.LastOpened.Format("2006-01-02 15:04"))

		stats, statErr := store.GetLevelStats(e.Path)
		if statErr == nil && stats.SessionCount > 0 {
			fmt.Printf("  %-40s  %d sessions, %d completed, best %d crossings\n",
				"", stats.SessionCount, stats.Completions, stats.BestCrossing)
		}
	}
}
