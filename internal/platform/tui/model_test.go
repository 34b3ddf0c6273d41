package tui

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilt-maze/internal/config"
	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/maze"
	"github.com/vovakirdan/tilt-maze/internal/metrics"
	"github.com/vovakirdan/tilt-maze/internal/motion"
)

func newTestModel(t *testing.T) (Model, *motion.Keyboard) {
	t.Helper()
	kb := motion.NewKeyboard(0.2, 0)
	m, err := NewModel(context.Background(), Params{
		Config:  config.New(),
		Source:  kb,
		Metrics: metrics.NewManager(),
		Screen:  core.RuntimeConfig{ScreenW: 80, ScreenH: 24, FPS: 60},
	})
	if err != nil {
		t.Fatalf("NewModel() = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, kb
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// tiltSource reports the same reading every frame.
type tiltSource struct{ g core.Gravity }

func (tiltSource) Name() string { return "tilt" }
func (s tiltSource) Sample() (core.Gravity, bool) { return s.g, true }
func (tiltSource) Start(context.Context) error { return nil }
func (tiltSource) Stop() error { return nil }

// newWinnableModel plays a small field whose finish hole lies just right of
// the start, with the source tilted toward it.
func newWinnableModel(t *testing.T) Model {
	t.Helper()
	layout := &maze.Layout{
		Name:   "short",
		Width:  200,
		Height: 100,
		Holes: []maze.Hole{
			{Kind: maze.HoleFinish, At: core.V(140, 50), Radius: 10},
		},
	}
	m, err := NewModel(context.Background(), Params{
		Config:  config.New(),
		Layout:  layout,
		Source:  tiltSource{g: core.Gravity{X: 1}},
		Metrics: metrics.NewManager(),
		Screen:  core.RuntimeConfig{ScreenW: 80, ScreenH: 24, FPS: 60},
	})
	if err != nil {
		t.Fatalf("NewModel() = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

// startTimer delivers the stopwatch start message, the first command of
// the sequence returned by Start.
func startTimer(t *testing.T, m Model) Model {
	t.Helper()
	seq := reflect.ValueOf(m.stopwatch.Start()())
	if seq.Kind() != reflect.Slice || seq.Len() == 0 {
		t.Fatalf("Start() produced %T, expected a command sequence", seq.Interface())
	}
	first, ok := seq.Index(0).Interface().(tea.Cmd)
	if !ok {
		t.Fatalf("Start() sequence holds %T", seq.Index(0).Interface())
	}
	return update(t, m, first())
}

func timerTicks(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		m = update(t, m, stopwatch.TickMsg{ID: m.stopwatch.ID()})
	}
	return m
}

func snapshot(t *testing.T, m Model) maze.Snapshot {
	t.Helper()
	snap, err := m.session.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() = %v", err)
	}
	return snap
}

func playUntilWon(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 120; i++ {
		m = update(t, m, FrameMsg{})
		if snapshot(t, m).Phase == maze.Won {
			return m
		}
	}
	t.Fatalf("not won after 120 frames, ball at %v", snapshot(t, m).Ball)
	return m
}

func TestModelTiltKeysReachKeyboard(t *testing.T) {
	m, kb := newTestModel(t)

	if _, ok := kb.Sample(); ok {
		t.Fatal("keyboard reported a sample before any key")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	g, ok := kb.Sample()
	if !ok || g.X <= 0 {
		t.Errorf("Sample() = %v, %v, expected tilt to the right", g, ok)
	}

	m = update(t, m, FrameMsg{})
	snap, err := m.session.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Velocity.X <= 0 {
		t.Errorf("ball velocity %v, expected moving right", snap.Velocity)
	}
}

func TestModelQuitTearsDown(t *testing.T) {
	m, kb := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)

	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if m.session.Active() {
		t.Error("session still active after quit")
	}
	if _, ok := kb.Sample(); ok {
		t.Error("keyboard still sampling after quit")
	}
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t)

	out := m.View()
	if !strings.Contains(out, "TILT MAZE") {
		t.Error("View() is missing the HUD")
	}
	if !strings.Contains(out, "quit") {
		t.Error("View() is missing the key help")
	}
	if strings.Contains(out, maze.WonTitle) {
		t.Error("View() shows the win dialog while playing")
	}
}

func TestModelResize(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if m.screen.Width() != 100 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d, expected 100x29", m.screen.Width(), m.screen.Height())
	}
}

func TestModelStopwatchDrivesTimer(t *testing.T) {
	tests := []struct {
		name  string
		ticks int
		want  float64
	}{
		{"none", 0, 0},
		{"one", 1, 0.01},
		{"one and a half seconds", 150, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m = startTimer(t, m)
			m = timerTicks(t, m, tt.ticks)

			if got := snapshot(t, m).Elapsed; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Elapsed = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestModelIgnoresTicksOfStoppedTimer(t *testing.T) {
	m, _ := newTestModel(t)

	m = timerTicks(t, m, 10)

	if got := snapshot(t, m).Elapsed; got != 0 {
		t.Errorf("Elapsed = %v, expected 0 before the timer starts", got)
	}
}

func TestModelWinDialog(t *testing.T) {
	m := newWinnableModel(t)
	m = startTimer(t, m)
	m = timerTicks(t, m, 150)
	m = playUntilWon(t, m)

	out := m.View()
	if !strings.Contains(out, maze.WonTitle) {
		t.Errorf("View() is missing %q", maze.WonTitle)
	}
	if !strings.Contains(out, "It took you 1.5 seconds") {
		t.Errorf("View() is missing the elapsed time:\n%s", out)
	}
	if !strings.Contains(out, okButton) {
		t.Errorf("View() is missing %q", okButton)
	}

	// Time and the ball stand still while the dialog is up.
	m = timerTicks(t, m, 20)
	m = update(t, m, FrameMsg{})
	snap := snapshot(t, m)
	if math.Abs(snap.Elapsed-1.5) > 1e-9 {
		t.Errorf("Elapsed = %v while won, expected 1.5", snap.Elapsed)
	}
	if snap.Ball != core.V(100, 50) {
		t.Errorf("Ball = %v while won, expected the field center", snap.Ball)
	}
}

func TestModelAcknowledgeWin(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newWinnableModel(t)
			m = startTimer(t, m)
			m = timerTicks(t, m, 42)
			m = playUntilWon(t, m)

			m = update(t, m, tt.key)

			snap := snapshot(t, m)
			if snap.Phase != maze.Playing {
				t.Errorf("Phase = %v, expected playing", snap.Phase)
			}
			if snap.Elapsed != 0 {
				t.Errorf("Elapsed = %v, expected 0", snap.Elapsed)
			}
			if snap.Ball != core.V(100, 50) {
				t.Errorf("Ball = %v, expected the field center", snap.Ball)
			}
			if strings.Contains(m.View(), maze.WonTitle) {
				t.Error("View() still shows the win dialog")
			}

			m = timerTicks(t, m, 3)
			if got := snapshot(t, m).Elapsed; math.Abs(got-0.03) > 1e-9 {
				t.Errorf("Elapsed = %v after acknowledging, expected 0.03", got)
			}
		})
	}
}
