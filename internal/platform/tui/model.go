package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilt-maze/internal/config"
	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/maze"
	"github.com/vovakirdan/tilt-maze/internal/metrics"
	"github.com/vovakirdan/tilt-maze/internal/motion"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

// keyInput is implemented by sources steered from the keyboard.
type keyInput interface {
	Apply(core.Action)
}

// eventSink is implemented by sources that want game outcomes, like a phone.
type eventSink interface {
	Notify(motion.Event)
}

// Params describes one game to run.
type Params struct {
	Config  *config.Config
	Layout  *maze.Layout
	Source  registry.Source
	Metrics *metrics.Manager // nil disables metrics
	Logger  *log.Logger      // nil discards logs
	Screen  core.RuntimeConfig
	Pairing string // shown under the field when a phone can connect
}

// Model is the Bubble Tea model for one maze session.
type Model struct {
	session   *maze.Session
	source    registry.Source
	metrics   *metrics.Manager
	logger    *log.Logger
	config    core.RuntimeConfig
	screen    *core.Screen
	keys      KeyMap
	help      help.Model
	stopwatch stopwatch.Model
	pairing   string
	quitting  bool
	err       error
}

// NewModel builds and starts the session. Call Close when the program ends.
func NewModel(ctx context.Context, p Params) (Model, error) {
	if p.Config == nil {
		p.Config = config.New()
	}
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	if p.Screen.FPS <= 0 {
		p.Screen.FPS = p.Config.Game.FPS
	}
	if p.Screen.ScreenW <= 0 || p.Screen.ScreenH <= 0 {
		def := core.DefaultConfig()
		p.Screen.ScreenW, p.Screen.ScreenH = def.ScreenW, def.ScreenH
	}

	session, err := maze.NewSession(p.Config.Physics, p.Layout, p.Source, maze.WithLogger(p.Logger))
	if err != nil {
		return Model{}, err
	}
	if err := session.Start(ctx); err != nil {
		return Model{}, err
	}
	p.Metrics.SessionStarted(p.Source.Name())
	p.Logger.Info("game started", "source", p.Source.Name())

	h := help.New()
	h.Width = p.Screen.ScreenW

	return Model{
		session:   session,
		source:    p.Source,
		metrics:   p.Metrics,
		logger:    p.Logger,
		config:    p.Screen,
		screen:    core.NewScreen(p.Screen.ScreenW, max(p.Screen.ScreenH-1, 1)),
		keys:      DefaultKeyMap(),
		help:      h,
		stopwatch: stopwatch.NewWithInterval(p.Config.Game.TimerInterval),
		pairing:   p.Pairing,
	}, nil
}

// Close stops the session and releases the motion source. Safe to call
// more than once.
func (m Model) Close() error {
	if m.session == nil || !m.session.Active() {
		return nil
	}
	m.metrics.SessionEnded()
	m.logger.Info("game ended")
	return m.session.Stop()
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Init starts the frame loop and the timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.config.FPS), m.stopwatch.Init())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		return m.handleFrame()

	case stopwatch.TickMsg, stopwatch.StartStopMsg, stopwatch.ResetMsg:
		return m.handleTimer(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch {
	case action == core.ActionQuit:
		return m.quit(nil)
	case action == core.ActionAcknowledge:
		if err := m.session.Acknowledge(); err != nil {
			return m.quit(err)
		}
	case action.IsTilt():
		if k, ok := m.source.(keyInput); ok {
			k.Apply(action)
		}
	}
	return m, nil
}

func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if err := m.session.Frame(m.config.FrameSeconds()); err != nil {
		return m.quit(err)
	}
	events, err := m.session.Drain()
	if err != nil {
		return m.quit(err)
	}
	for _, ev := range events {
		m.report(ev)
	}
	return m, frameCmd(m.config.FPS)
}

// handleTimer feeds the stopwatch's advance into the session timer.
func (m Model) handleTimer(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.stopwatch.Elapsed()
	var cmd tea.Cmd
	m.stopwatch, cmd = m.stopwatch.Update(msg)
	if delta := m.stopwatch.Elapsed() - before; delta > 0 && !m.quitting {
		if err := m.session.TimerTick(delta.Seconds()); err != nil && !errors.Is(err, maze.ErrNotReady) {
			return m.quit(err)
		}
	}
	return m, cmd
}

// report sends one game event to the log, the metrics, and the phone.
func (m Model) report(ev maze.Event) {
	var kind string
	switch ev.Kind {
	case maze.EventFell:
		kind = motion.EventFell
		m.metrics.Fell()
		m.logger.Info("ball fell", "elapsed", fmt.Sprintf("%.2f", ev.Elapsed))
	case maze.EventWon:
		kind = motion.EventWon
		m.metrics.Won(ev.Elapsed)
		m.logger.Info("level won", "elapsed", fmt.Sprintf("%.2f", ev.Elapsed))
	default:
		return
	}
	if sink, ok := m.source.(eventSink); ok {
		sink.Notify(motion.Event{Kind: kind, Elapsed: ev.Elapsed})
	}
}

func (m Model) quit(err error) (tea.Model, tea.Cmd) {
	m.quitting = true
	m.err = err
	if err != nil {
		m.logger.Error("game stopped", "error", err)
	}
	cmd := m.stopwatch.Stop()
	if cerr := m.Close(); cerr != nil && m.err == nil {
		m.err = cerr
	}
	return m, tea.Sequence(cmd, tea.Quit)
}

var (
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	pairingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// View renders the field, the win dialog when shown, and the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap, err := m.session.Snapshot()
	if err != nil {
		return footerStyle.Render(err.Error())
	}

	maze.Render(m.screen, snap)
	if snap.Phase == maze.Won {
		drawDialog(m.screen, maze.WonTitle, maze.WonText(snap.Elapsed))
	}

	footer := m.help.View(m.keys)
	if m.pairing != "" && !m.help.ShowAll {
		footer += footerStyle.Render("  •  ") + pairingStyle.Render(m.pairing)
	}
	return RenderScreen(m.screen) + "\n" + footer
}
