package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"
)

type progressMsg struct {
	step       uint64
	totalSteps uint64
	simTime    float64
	particles  int
}

type progressDoneMsg struct{}

type progressModel struct {
	width int
	msg   progressMsg
}

var (
	progressBarFilled = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	progressBarEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	progressLabel     = lipgloss.NewStyle().Bold(true)
)

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case progressMsg:
		m.msg = msg
	case progressDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	width := m.width
	if width <= 0 {
		width = 60
	}
	barWidth := width - 24
	if barWidth < 10 {
		barWidth = 10
	}

	frac := 0.0
	if m.msg.totalSteps > 0 {
		frac = float64(m.msg.step) / float64(m.msg.totalSteps)
		if frac > 1 {
			frac = 1
		}
	}
	filled := int(frac * float64(barWidth))
	bar := progressBarFilled.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%s\n%s\nstep %d/%d  t=%.4g  particles=%d\n",
		progressLabel.Render("april"), bar, m.msg.step, m.msg.totalSteps, m.msg.simTime, m.msg.particles)
}

// Progress drives a bubbletea program that renders a live progress bar.
// TotalSteps == 0 renders a bar that never fills, just a running counter.
type Progress[U any] struct {
	TotalSteps uint64

	program *tea.Program
	limiter *rate.Limiter
}

// NewProgress builds a Progress monitor; call Run (in its own goroutine, or
// as the last thing on the main goroutine) to start rendering, and feed it
// OnStep calls from the simulation loop. Redraws are rate-limited so a
// fast inner loop does not spend its time painting the terminal.
func NewProgress[U any](totalSteps uint64) *Progress[U] {
	return &Progress[U]{
		TotalSteps: totalSteps,
		program:    tea.NewProgram(progressModel{}),
		limiter:    rate.NewLimiter(rate.Limit(30), 1),
	}
}

// Run blocks running the bubbletea event loop until Close is called or the
// user quits.
func (p *Progress[U]) Run() error {
	_, err := p.program.Run()
	return err
}

// Close signals the program to exit.
func (p *Progress[U]) Close() { p.program.Send(progressDoneMsg{}) }

func (p *Progress[U]) OnStep(sys SystemView[U]) error {
	// The final step always lands so a finished bar reads 100%.
	if sys.Step() != p.TotalSteps && !p.limiter.Allow() {
		return nil
	}
	p.program.Send(progressMsg{
		step:       sys.Step(),
		totalSteps: p.TotalSteps,
		simTime:    sys.Time(),
		particles:  sys.ParticleCount(),
	})
	return nil
}
