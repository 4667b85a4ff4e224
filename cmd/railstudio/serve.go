package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rail-studio/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagLevelsDir   string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH viewer server",
	Long: `Start an SSH server that lets users connect and browse levels.

Each SSH connection gets its own session with a level picker; the
history database is shared per server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.railstudio/host_key

Examples:
  railstudio serve                           # Listen on :23234 with auto-generated key
  railstudio serve --ssh :2222               # Listen on port 2222
  railstudio serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagLevelsDir, "levels", "", "Levels directory served to sessions (overrides config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if flagSSHAddr != "" {
		address = flagSSHAddr
	}
	hostKey := cfg.Server.HostKeyPath
	if flagHostKey != "" {
		hostKey = flagHostKey
	}
	levelsDir := cfg.Paths.LevelsDir
	if flagLevelsDir != "" {
		levelsDir = flagLevelsDir
	}

	srvCfg := tui.SSHServerConfig{
		Address:     address,
		HostKeyPath: hostKey,
		DBPath:      cfg.Paths.Database,
		LevelsDir:   levelsDir,
		Viewer:      runtimeConfig(cfg, 80, 24),
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		LogLevel:    cfg.Log.Level,
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Rail Studio SSH server on %s\n", srvCfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
