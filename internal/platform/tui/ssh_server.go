package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tilt-maze/internal/config"
	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/maze"
	"github.com/vovakirdan/tilt-maze/internal/metrics"
	"github.com/vovakirdan/tilt-maze/internal/motion"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Config  *config.Config
	Layout  *maze.Layout
	Metrics *metrics.Manager
	Logger  *log.Logger

	// Relay pairs phones with SSH players when the motion source is
	// "remote". PairURL is the phone page URL shown to the player.
	Relay   *motion.Hub
	PairURL string
}

// SSHServer serves one maze session per SSH connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

type modelKey struct{}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Config == nil {
		cfg.Config = config.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = cfg.Config.Log.NewLogger(os.Stderr, "maze-ssh")
	}
	srv := &SSHServer{config: cfg, logger: logger}

	hostKeyPath := cfg.Config.Server.HostKey
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".tilt-maze", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: logging wraps the game, which wraps
	// the Bubble Tea program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Config.Server.SSH),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.Config.Server.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.gameMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// gameMiddleware builds the session before the program starts and tears it
// down once the program has exited, so the motion source is released even
// when the client just drops.
func (s *SSHServer) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, _, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "maze needs a terminal: connect with ssh -t")
			return
		}

		id := uuid.NewString()
		logger := s.logger.With("session", id[:8], "user", sess.User())

		source, pairing, err := s.newSource()
		if err != nil {
			logger.Error("cannot create motion source", "error", err)
			wish.Fatalln(sess, "motion source unavailable:", err)
			return
		}

		model, err := NewModel(sess.Context(), Params{
			Config:  s.config.Config,
			Layout:  s.config.Layout,
			Source:  source,
			Metrics: s.config.Metrics,
			Logger:  logger,
			Screen: core.RuntimeConfig{
				ScreenW: pty.Window.Width,
				ScreenH: pty.Window.Height,
				FPS:     s.config.Config.Game.FPS,
			},
			Pairing: pairing,
		})
		if err != nil {
			logger.Error("cannot start game", "error", err)
			wish.Fatalln(sess, "cannot start game:", err)
			return
		}
		defer func() {
			if err := model.Close(); err != nil {
				logger.Warn("teardown", "error", err)
			}
		}()

		sess.Context().SetValue(modelKey{}, model)
		next(sess)
	}
}

// newSource creates the configured motion source for one player.
func (s *SSHServer) newSource() (registry.Source, string, error) {
	opts := registry.Options{
		Tilt:       s.config.Config.Motion.Tilt,
		Hold:       s.config.Config.Motion.Hold,
		StaleAfter: s.config.Config.Motion.StaleAfter,
	}
	if s.config.Relay != nil {
		opts.Relay = s.config.Relay
	}
	source, err := registry.Create(s.config.Config.Motion.Source, opts)
	if err != nil {
		return nil, "", err
	}
	return source, PairingHint(source, s.config.PairURL), nil
}

// PairingHint returns the text telling a player how to connect a phone,
// or "" for sources that do not pair.
func PairingHint(source registry.Source, url string) string {
	r, ok := source.(*motion.Remote)
	if !ok {
		return ""
	}
	if url == "" {
		return "phone code " + r.Code()
	}
	return fmt.Sprintf("phone: %s?code=%s", url, r.Code())
}

// teaHandler hands the prepared model to the Bubble Tea middleware.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	model, ok := sess.Context().Value(modelKey{}).(Model)
	if !ok {
		return nil, nil
	}
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("ssh session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("ssh session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.Addr())

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("tui: ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.logger.Info("shutting down SSH server")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Config.Server.SSH
}
