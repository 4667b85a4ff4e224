package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rail-studio/internal/platform/tui"
	"github.com/vovakirdan/rail-studio/internal/player"
	"github.com/vovakirdan/rail-studio/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Open the interactive track viewer",
	Long: `Open a level in the interactive track viewer. Without an argument a
picker lists the levels directory, most recently opened first.

Controls:
  Space        - Start/stop playback
  S            - Stop and hold
  Arrows/hjkl  - Pan the view
  +/-          - Zoom
  F            - Toggle follow camera
  M            - Dump the current tile's mesh to JSON
  Q/Ctrl+C     - Quit

Examples:
  railstudio play
  railstudio play levels/spiral.adofai
  railstudio play --fps 30`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Open history storage
	store, err := storage.Open(cfg.Paths.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		// Continue without storage - viewing still works
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rt := runtimeConfig(cfg, width, height)

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	// Picker loop: no path argument means pick, view, come back.
	for {
		if path == "" {
			result, pickErr := tui.RunPicker(cfg.Paths.LevelsDir, store, rt)
			if pickErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", pickErr)
				os.Exit(1)
			}
			rt = result.Config
			if result.Quit {
				return
			}
			path = result.Path
		}

		p, loadErr := loadLevel(path, store)
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", loadErr)
			os.Exit(1)
		}

		if runErr := tui.Run(p, store, path, rt); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
			os.Exit(1)
		}

		// A direct path argument is a one-shot session.
		if len(args) == 1 {
			return
		}
		path = ""
	}
}

// loadLevel reads and parses a level file, recording the open in history.
func loadLevel(path string, store *storage.Store) (*player.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read level: %w", err)
	}
	p, err := player.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("cannot parse level: %w", err)
	}

	if store != nil {
		title, _ := p.Settings().String("song")
		bpm, _ := p.Settings().Float("bpm")
		//nolint:errcheck // Best-effort history record
		store.RecordOpen(path, title, p.Graph().Len(), bpm)
	}
	return p, nil
}
