package config

import (
	_ "embed"
)

//go:embed defaults/railstudio.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded fallback configuration, used when the
// embedded default cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Viewer: ViewerConfig{
			TickRate:       60,
			MeshResolution: 12,
			FollowCamera:   true,
			Zoom:           2.0,
		},
		Paths: PathsConfig{
			LevelsDir: "levels",
			Database:  "~/.railstudio/history.db",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        23234,
			HostKeyPath: ".ssh/railstudio_ed25519",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
