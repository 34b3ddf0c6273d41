package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use a double
// underscore: MAZE_PHYSICS__IMPULSE_SCALE=250.
const EnvPrefix = "MAZE_"

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file at path, or at MAZE_CONFIG when path is empty
//  3. env (prefix MAZE_), after reading ./.env if it exists
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv exports variables from a .env file; a missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges that would make the game unplayable.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Game.FPS >= 1 && c.Game.FPS <= 1000, "game.fps must be in [1, 1000]")
	check(c.Game.TimerInterval > 0, "game.timer_interval must be positive")

	p := c.Physics
	check(positive(p.BallRadius), "physics.ball_radius must be positive")
	check(positive(p.BallMass), "physics.ball_mass must be positive")
	check(positive(p.ImpulseScale), "physics.impulse_scale must be positive")
	check(nonNegative(p.Elasticity), "physics.elasticity must not be negative")
	check(nonNegative(p.Friction), "physics.friction must not be negative")
	check(positive(p.Damping) && p.Damping <= 1, "physics.damping must be in (0, 1]")
	check(nonNegative(p.MaxSpeed), "physics.max_speed must not be negative")

	check(c.Motion.Source != "", "motion.source must not be empty")
	check(positive(c.Motion.Tilt) && c.Motion.Tilt <= 1, "motion.tilt must be in (0, 1]")
	check(c.Motion.Hold > 0, "motion.hold must be positive")
	check(c.Motion.StaleAfter > 0, "motion.stale_after must be positive")

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is not a level", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}

func nonNegative(f float64) bool {
	return f >= 0 && !math.IsInf(f, 1)
}

// YAML renders the configuration in the same format Load reads.
func (c *Config) YAML() ([]byte, error) {
	b, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return b, nil
}

// NewLogger builds a logger at the configured level writing to w.
func (l Log) NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(l.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// OpenLogFile returns the writer for local-play logs: the configured file,
// or io.Discard when none is set. The returned close func is never nil.
func (l Log) OpenLogFile() (io.Writer, func() error, error) {
	if l.File == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("config: open log file: %w", err)
	}
	return f, f.Close, nil
}
