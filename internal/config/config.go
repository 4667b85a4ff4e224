// Package config provides YAML-based configuration loading for the level
// studio: viewer behavior, file locations, logging and the SSH server.
package config

// Config is the full application configuration.
type Config struct {
	Viewer ViewerConfig `yaml:"viewer"`
	Paths  PathsConfig  `yaml:"paths"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// ViewerConfig controls the interactive track viewer.
type ViewerConfig struct {
	// TickRate is the simulation and render frequency in ticks per second.
	TickRate int `yaml:"tick_rate"`
	// MeshResolution is the chamfer fan segment count for tile geometry.
	MeshResolution int `yaml:"mesh_resolution"`
	// FollowCamera keeps the view centered on the active marker during
	// playback.
	FollowCamera bool `yaml:"follow_camera"`
	// Zoom is the initial cells-per-unit scale of the track view.
	Zoom float64 `yaml:"zoom"`
}

// PathsConfig locates levels and the history database.
type PathsConfig struct {
	LevelsDir string `yaml:"levels_dir"`
	Database  string `yaml:"database"`
}

// ServerConfig configures the SSH viewer server.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}
