package core

// RuntimeConfig contains the terminal-facing settings passed to a session.
type RuntimeConfig struct {
	ScreenW int // Screen width in characters
	ScreenH int // Screen height in characters
	FPS     int // Physics frames per second
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		FPS:     60,
	}
}

// FrameSeconds returns the fixed physics step in seconds.
func (c RuntimeConfig) FrameSeconds() float64 {
	if c.FPS <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.FPS)
}
