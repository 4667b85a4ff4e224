package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads the application configuration.
// Search order: customPath -> ~/.railstudio/config.yaml -> ./railstudio.yaml -> embedded default
func Load(customPath string) (Config, error) {
	var cfg Config

	// A custom path must exist and parse; anything else falls through.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return normalize(cfg), nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return normalize(cfg), nil
			}
		}
	}

	// Try working directory
	if data, err := os.ReadFile("railstudio.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return normalize(cfg), nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return normalize(cfg), nil
}

// userConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".railstudio", filename)
}

// normalize fills gaps a partial config file leaves and expands the home
// shorthand in paths.
func normalize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Viewer.TickRate <= 0 {
		cfg.Viewer.TickRate = def.Viewer.TickRate
	}
	if cfg.Viewer.MeshResolution <= 0 {
		cfg.Viewer.MeshResolution = def.Viewer.MeshResolution
	}
	if cfg.Viewer.Zoom <= 0 {
		cfg.Viewer.Zoom = def.Viewer.Zoom
	}
	if cfg.Paths.LevelsDir == "" {
		cfg.Paths.LevelsDir = def.Paths.LevelsDir
	}
	if cfg.Paths.Database == "" {
		cfg.Paths.Database = def.Paths.Database
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.HostKeyPath == "" {
		cfg.Server.HostKeyPath = def.Server.HostKeyPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	cfg.Paths.Database = ExpandHome(cfg.Paths.Database)
	cfg.Paths.LevelsDir = ExpandHome(cfg.Paths.LevelsDir)
	return cfg
}

// ExpandHome replaces a leading ~/ with the user's home directory. The path
// is returned unchanged when home cannot be resolved.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
