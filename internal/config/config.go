// Package config provides layered configuration for the maze: built-in
// defaults, an optional YAML file, and MAZE_ environment variables.
package config

import "time"

// Config is the complete runtime configuration.
type Config struct {
	Game    Game    `koanf:"game" yaml:"game"`
	Physics Physics `koanf:"physics" yaml:"physics"`
	Motion  Motion  `koanf:"motion" yaml:"motion"`
	Server  Server  `koanf:"server" yaml:"server"`
	Log     Log     `koanf:"log" yaml:"log"`

	// Layout is an optional path to a level YAML; empty uses the built-in level.
	Layout string `koanf:"layout" yaml:"layout"`
}

// Game holds the two independent clocks of a session.
type Game struct {
	FPS           int           `koanf:"fps" yaml:"fps"`                       // physics frames per second
	TimerInterval time.Duration `koanf:"timer_interval" yaml:"timer_interval"` // elapsed-time tick
}

// Physics holds the ball body and the impulse policy.
type Physics struct {
	BallRadius   float64 `koanf:"ball_radius" yaml:"ball_radius"`
	BallMass     float64 `koanf:"ball_mass" yaml:"ball_mass"`
	ImpulseScale float64 `koanf:"impulse_scale" yaml:"impulse_scale"` // K: impulse = gravity * K
	Elasticity   float64 `koanf:"elasticity" yaml:"elasticity"`
	Friction     float64 `koanf:"friction" yaml:"friction"`
	Damping      float64 `koanf:"damping" yaml:"damping"`     // fraction of velocity kept per second
	MaxSpeed     float64 `koanf:"max_speed" yaml:"max_speed"` // 0 = unlimited
}

// Motion selects and tunes the gravity source.
type Motion struct {
	Source     string        `koanf:"source" yaml:"source"`
	Tilt       float64       `koanf:"tilt" yaml:"tilt"`
	Hold       time.Duration `koanf:"hold" yaml:"hold"`
	StaleAfter time.Duration `koanf:"stale_after" yaml:"stale_after"`
	Listen     string        `koanf:"listen" yaml:"listen"` // phone relay address
}

// Server configures `maze serve`.
type Server struct {
	SSH         string        `koanf:"ssh" yaml:"ssh"`
	HostKey     string        `koanf:"host_key" yaml:"host_key"`
	IdleTimeout time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`
	Metrics     string        `koanf:"metrics" yaml:"metrics"` // empty disables /metrics
}

// Log configures the logger.
type Log struct {
	Level string `koanf:"level" yaml:"level"`
	File  string `koanf:"file" yaml:"file"` // local play only; empty discards
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Game: Game{
			FPS:           60,
			TimerInterval: 10 * time.Millisecond,
		},
		Physics: Physics{
			BallRadius:   10,
			BallMass:     4.5,
			ImpulseScale: 200,
			Elasticity:   0.3,
			Friction:     0.2,
			Damping:      0.4,
			MaxSpeed:     400,
		},
		Motion: Motion{
			Source:     "keyboard",
			Tilt:       0.2,
			Hold:       150 * time.Millisecond,
			StaleAfter: 250 * time.Millisecond,
			Listen:     ":8080",
		},
		Server: Server{
			SSH:         ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Log: Log{
			Level: "info",
		},
	}
}
