package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/maze"
	"github.com/vovakirdan/tilt-maze/internal/motion"
	"github.com/vovakirdan/tilt-maze/internal/platform/tui"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

var (
	flagSensor string
	flagCode   string
	flagLayout string
	flagListen string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the maze in this terminal",
	Long: `Start a game in the current terminal.

Controls (keyboard sensor):
  Arrows/WASD  - Tilt the board
  X            - Level the board
  Enter/Space  - OK on the win dialog
  ?            - Toggle help
  Q/Ctrl+C     - Quit

With --sensor remote a relay is started on --listen and a pairing code is
shown under the field. Open the printed URL on a phone on the same network.

Logs go to log.file (MAZE_LOG__FILE) because the game owns the terminal.

Examples:
  maze play
  maze play --sensor remote --listen :8080
  maze play --layout ./my-level.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSensor, "sensor", "", "Motion source (see 'maze sensors')")
	playCmd.Flags().StringVar(&flagCode, "code", "", "Pairing code for the remote sensor (random if empty)")
	playCmd.Flags().StringVar(&flagLayout, "layout", "", "Level YAML (built-in level if empty)")
	playCmd.Flags().StringVar(&flagListen, "listen", "", "Phone relay address (overrides motion.listen)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSensor != "" {
		cfg.Motion.Source = flagSensor
	}
	if flagLayout != "" {
		cfg.Layout = flagLayout
	}
	if flagListen != "" {
		cfg.Motion.Listen = flagListen
	}
	if !registry.Exists(cfg.Motion.Source) {
		return fmt.Errorf("unknown sensor %q; run 'maze sensors' to see available sources", cfg.Motion.Source)
	}

	layout, err := maze.LoadLayout(cfg.Layout)
	if err != nil {
		return err
	}

	logOut, closeLog, err := cfg.Log.OpenLogFile()
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // log file close on exit
	logger := cfg.Log.NewLogger(logOut, "maze")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := registry.Options{
		Tilt:       cfg.Motion.Tilt,
		Hold:       cfg.Motion.Hold,
		StaleAfter: cfg.Motion.StaleAfter,
		Code:       flagCode,
	}
	var url string
	if cfg.Motion.Source == "remote" {
		hub := motion.NewHub(motion.WithLogger(logger.WithPrefix("relay")))
		addr, err := startHTTP(ctx, cfg.Motion.Listen, hub.Handler(), logger)
		if err != nil {
			return err
		}
		opts.Relay = hub
		url = pairURL(addr)
	}

	source, err := registry.Create(cfg.Motion.Source, opts)
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	model, err := tui.NewModel(ctx, tui.Params{
		Config: cfg,
		Layout: layout,
		Source: source,
		Logger: logger,
		Screen: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			FPS:     cfg.Game.FPS,
		},
		Pairing: tui.PairingHint(source, url),
	})
	if err != nil {
		return err
	}
	defer model.Close() //nolint:errcheck // idempotent teardown

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running game: %w", err)
	}
	if fm, ok := final.(tui.Model); ok {
		if cerr := fm.Close(); cerr != nil {
			return cerr
		}
		return fm.Err()
	}
	return nil
}
