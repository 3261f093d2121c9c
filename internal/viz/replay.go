package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
	frameRate    = 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model replays a recorded trajectory frame by frame.
type Model struct {
	arm      *kinematics.Arm
	traj     sim.Trajectory
	target   kinematics.Point
	errors   []float64
	frame    int
	running  bool
	title    string
	canvas   *Canvas
	showPath bool
}

// NewModel prepares a replay of traj toward target. Playback starts on the
// first frame.
func NewModel(links kinematics.Links, traj sim.Trajectory, target kinematics.Point, title string) Model {
	errs := make([]float64, len(traj))
	for i, s := range traj {
		errs[i] = s.EndEffector.Dist(target)
	}
	return Model{
		arm:      kinematics.NewArm(links),
		traj:     traj,
		target:   target,
		errors:   errs,
		running:  len(traj) > 1,
		title:    title,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		showPath: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Frame is the index of the snapshot currently shown.
func (m Model) Frame() int { return m.frame }

func (m Model) Running() bool { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.atEnd() {
				m.frame = 0
			}
			m.running = !m.running && len(m.traj) > 1
		case "r":
			m.frame = 0
			m.running = len(m.traj) > 1
		case "[":
			m.running = false
			if m.frame > 0 {
				m.frame--
			}
		case "]":
			m.running = false
			if !m.atEnd() {
				m.frame++
			}
		case "p":
			m.showPath = !m.showPath
		}
		return m, nil

	case TickMsg:
		if m.running {
			if m.atEnd() {
				m.running = false
			} else {
				m.frame++
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) atEnd() bool {
	return len(m.traj) == 0 || m.frame >= len(m.traj)-1
}

func (m Model) current() (sim.Snapshot, bool) {
	if len(m.traj) == 0 {
		return sim.Snapshot{}, false
	}
	return m.traj[m.frame], true
}

// Render draws the current frame onto the canvas and returns it as text.
func (m Model) Render() string {
	m.canvas.Clear()
	reach := m.arm.Reach()

	if m.showPath {
		m.canvas.DrawPath(m.traj[:m.frame+min(1, len(m.traj))].EndEffectorPath(), reach)
	}
	m.canvas.DrawTarget(m.target, reach)

	var q kinematics.Angles
	if snap, ok := m.current(); ok {
		q = snap.Angles
	}
	m.canvas.DrawArm(m.arm, q)
	return m.canvas.String()
}

func (m Model) View() string {
	left := canvasStyle.Render(m.Render())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, panelStyle.Render(m.panel()))
}

func (m Model) panel() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.running:
		s.WriteString(statusPlaying.Render("▶ PLAYING") + "\n")
	case m.atEnd():
		s.WriteString(statusDone.Render("■ DONE") + "\n")
	default:
		s.WriteString(statusPaused.Render("⏸ PAUSED") + "\n")
	}

	snap, ok := m.current()
	if !ok {
		s.WriteString("\n" + valueStyle.Render("empty trajectory") + "\n")
		s.WriteString(helpStyle.Render("q quit"))
		return s.String()
	}

	fraction := 1.0
	if len(m.traj) > 1 {
		fraction = float64(m.frame) / float64(len(m.traj)-1)
	}
	s.WriteString(ProgressBar(fraction, 30) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d/%d", snap.Step+1, len(m.traj)))
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	for j, a := range snap.Angles {
		row(fmt.Sprintf("theta%d", j+1), fmt.Sprintf("%+.4f rad", a))
	}
	row("End eff.", snap.EndEffector.String())
	row("Target", m.target.String())
	row("Error", fmt.Sprintf("%.5f", m.errors[m.frame]))

	if hist := m.errors[:m.frame+1]; len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("position error"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause  [ ] step  r restart  p path  q quit"))
	return s.String()
}

// Run replays m in the alternate screen until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
