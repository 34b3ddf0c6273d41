package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-maze/internal/maze"
	"github.com/vovakirdan/tilt-maze/internal/metrics"
	"github.com/vovakirdan/tilt-maze/internal/motion"
	"github.com/vovakirdan/tilt-maze/internal/platform/tui"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagMetrics     string
	flagIdleTimeout time.Duration
	flagServeSensor string
	flagServeListen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the maze SSH server",
	Long: `Start an SSH server; every connection plays its own game.

With motion.source=remote each player gets a pairing code, and phones
connect to the relay on --listen.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tilt-maze/host_key

Examples:
  maze serve                                # Listen on :23234
  maze serve --ssh :2222                    # Listen on port 2222
  maze serve --sensor remote --listen :8080 # Phones as controllers
  maze serve --metrics :9090                # Expose /metrics

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (overrides server.ssh)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagMetrics, "metrics", "", "Prometheus /metrics address (overrides server.metrics)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this long")
	serveCmd.Flags().StringVar(&flagServeSensor, "sensor", "", "Motion source for players")
	serveCmd.Flags().StringVar(&flagServeListen, "listen", "", "Phone relay address (overrides motion.listen)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		cfg.Server.SSH = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}
	if flagMetrics != "" {
		cfg.Server.Metrics = flagMetrics
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flagServeSensor != "" {
		cfg.Motion.Source = flagServeSensor
	}
	if flagServeListen != "" {
		cfg.Motion.Listen = flagServeListen
	}

	if !registry.Exists(cfg.Motion.Source) {
		return fmt.Errorf("unknown sensor %q; run 'maze sensors' to see available sources", cfg.Motion.Source)
	}

	layout, err := maze.LoadLayout(cfg.Layout)
	if err != nil {
		return err
	}
	if err := layout.Validate(cfg.Physics.BallRadius); err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(os.Stderr, "maze")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Manager
	if cfg.Server.Metrics != "" {
		m = metrics.NewManager()
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		if _, err := startHTTP(ctx, cfg.Server.Metrics, mux, logger.WithPrefix("metrics")); err != nil {
			return err
		}
	}

	srvCfg := tui.SSHServerConfig{
		Config:  cfg,
		Layout:  layout,
		Metrics: m,
		Logger:  logger.WithPrefix("maze-ssh"),
	}
	if cfg.Motion.Source == "remote" {
		hubOpts := []motion.HubOption{motion.WithLogger(logger.WithPrefix("relay"))}
		if m != nil {
			hubOpts = append(hubOpts, motion.WithObserver(m))
		}
		hub := motion.NewHub(hubOpts...)
		addr, err := startHTTP(ctx, cfg.Motion.Listen, hub.Handler(), logger.WithPrefix("relay"))
		if err != nil {
			return err
		}
		srvCfg.Relay = hub
		srvCfg.PairURL = pairURL(addr)
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		return err
	}
	return server.ListenAndServe(ctx)
}
