// railstudio is a terminal viewer and editor core for rail-path rhythm
// game levels.
//
// Usage:
//
//	railstudio info <level>      - Inspect a level file
//	railstudio play [level]      - Open the interactive track viewer
//	railstudio export <level>    - Re-export a level in canonical form
//	railstudio mesh <level> <n>  - Dump one tile's geometry as JSON
//	railstudio recent            - List recently opened levels
//	railstudio serve             - Start SSH server for remote viewing
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: from config)
//	--db <path>       - Set history database path
//	--config <path>   - Use a specific config YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rail-studio/internal/config"
	"github.com/vovakirdan/rail-studio/internal/core"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagConfigPath string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "railstudio",
	Short: "Rail Studio - view and edit rail-path rhythm game levels",
	Long: `Rail Studio is a terminal workbench for rail-path rhythm game level
files: an error-tolerant parser, a track geometry inspector and a
playback simulator.

Available commands:
  info     - Parse a level and print its statistics
  play     - Interactive track viewer with orbit playback
  export   - Re-export a level in canonical form
  mesh     - Dump one tile's geometry buffers as JSON
  recent   - List recently opened levels
  serve    - Start SSH server for remote viewing

Examples:
  railstudio info levels/spiral.adofai
  railstudio play levels/spiral.adofai
  railstudio export levels/spiral.adofai -o fixed.adofai
  railstudio mesh levels/spiral.adofai 3
  railstudio serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(meshCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the application config and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Viewer.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Paths.Database = config.ExpandHome(flagDBPath)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// runtimeConfig builds the viewer runtime config from the app config and
// the current terminal size.
func runtimeConfig(cfg config.Config, width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:        width,
		ScreenH:        height,
		TickRate:       cfg.Viewer.TickRate,
		Zoom:           cfg.Viewer.Zoom,
		FollowCamera:   cfg.Viewer.FollowCamera,
		MeshResolution: cfg.Viewer.MeshResolution,
	}
}
