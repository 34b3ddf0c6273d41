// maze is a tilt-controlled maze game for the terminal.
//
// Usage:
//
//	maze play            - Play locally (keyboard tilt or a paired phone)
//	maze serve           - Start SSH server for remote play
//	maze sensors         - List motion sources
//	maze config          - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - YAML config file (default: $MAZE_CONFIG)
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-maze/internal/config"

	// Import motion to register its sources
	_ "github.com/vovakirdan/tilt-maze/internal/motion"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "maze",
	Short: "Tilt Maze - roll a ball past black holes into the finish",
	Long: `Tilt Maze is a single-level ball maze for the terminal. Tilt the board
with the keyboard, or pair a phone and tilt the phone itself.

Avoid the black holes: falling in sends the ball back to the center and
resets the timer. Reach the green finish hole to win.

Configuration is read from built-in defaults, then a YAML file
(--config or MAZE_CONFIG), then MAZE_ environment variables such as
MAZE_PHYSICS__IMPULSE_SCALE=250. A .env file in the working directory is
loaded first.

Examples:
  maze play
  maze play --sensor remote
  maze serve --ssh :2222 --metrics :9090
  maze config > maze.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides log.level)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sensorsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the layered config and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
