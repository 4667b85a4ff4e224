package core

// RuntimeConfig is passed to the viewer at startup. The platform layer
// fills it from terminal size, the config file and CLI flags.
type RuntimeConfig struct {
	ScreenW        int     // Screen width in characters
	ScreenH        int     // Screen height in characters
	TickRate       int     // Ticks per second driven by the platform (default 60)
	Zoom           float64 // Cells per world unit in the track view
	FollowCamera   bool    // Keep the view centered on the active marker
	MeshResolution int     // Chamfer fan segments for generated tile meshes
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:        80,
		ScreenH:        24,
		TickRate:       60,
		Zoom:           2.0,
		FollowCamera:   true,
		MeshResolution: 12,
	}
}
