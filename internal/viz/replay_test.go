package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/experiment"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
)

func recorded(t *testing.T, steps int) (*config.Config, sim.Trajectory) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Steps = steps
	exp, err := experiment.New(cfg, nil)
	if err != nil {
		t.Fatalf("experiment: %v", err)
	}
	res, err := exp.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return cfg, res.Trajectory
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestReplayPlaysToEnd(t *testing.T) {
	cfg, traj := recorded(t, 5)
	m := NewModel(cfg.Links, traj, cfg.Target, "default")

	if !m.Running() {
		t.Fatal("expected playback to start running")
	}

	tick := TickMsg(time.Now())
	for i := 0; i < 10; i++ {
		m = send(m, tick)
	}
	if m.Frame() != 4 {
		t.Errorf("expected last frame 4, got %d", m.Frame())
	}
	if m.Running() {
		t.Error("expected playback to stop at the end")
	}
}

func TestReplayScrub(t *testing.T) {
	cfg, traj := recorded(t, 5)
	m := NewModel(cfg.Links, traj, cfg.Target, "default")

	m = send(m, key("]"), key("]"))
	if m.Frame() != 2 || m.Running() {
		t.Errorf("expected paused on frame 2, got frame %d running %v", m.Frame(), m.Running())
	}

	m = send(m, key("["), key("["), key("["))
	if m.Frame() != 0 {
		t.Errorf("expected frame clamped at 0, got %d", m.Frame())
	}

	m = send(m, key(" "))
	if !m.Running() {
		t.Error("expected space to resume")
	}

	m = send(m, TickMsg(time.Now()), key("r"))
	if m.Frame() != 0 || !m.Running() {
		t.Errorf("expected restart, got frame %d running %v", m.Frame(), m.Running())
	}
}

func TestReplayQuit(t *testing.T) {
	cfg, traj := recorded(t, 3)
	m := NewModel(cfg.Links, traj, cfg.Target, "default")

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestReplayView(t *testing.T) {
	cfg, traj := recorded(t, 20)
	m := NewModel(cfg.Links, traj, cfg.Target, "default")
	m = send(m, key("]"), key("]"), key("]"))

	view := m.View()
	for _, want := range []string{"DEFAULT", "PAUSED", "theta1", "Step", "4/20", "position error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReplayEmptyTrajectory(t *testing.T) {
	m := NewModel(kinematics.DefaultLinks, nil, kinematics.Point{X: 1}, "empty")
	if m.Running() {
		t.Error("empty trajectory should not play")
	}

	m = send(m, key(" "), key("]"), TickMsg(time.Now()))
	if m.Frame() != 0 {
		t.Errorf("expected frame 0, got %d", m.Frame())
	}
	if !strings.Contains(m.View(), "empty trajectory") {
		t.Error("expected empty notice")
	}
}
