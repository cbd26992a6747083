// Package viewer shows a rendered listing in a scrollable full-screen view.
package viewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"x86color/internal/render"
)

// Model is a scrollable bubbletea view of a rendered listing with a status bar.
type Model struct {
	viewport viewport.Model
	title    string
	lines    []string
	stats    render.Stats
	width    int
	height   int
}

// New returns a viewer over already rendered lines.
func New(title string, lines []string, stats render.Stats) Model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(23)
	vp.SetContent(strings.Join(lines, "\n"))

	return Model{
		viewport: vp,
		title:    title,
		lines:    lines,
		stats:    stats,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(max(msg.Height-1, 1))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return m.viewport.View() + "\n" + statusStyle.Render(m.status())
}

func (m Model) status() string {
	s := fmt.Sprintf("%s • %d instructions • %d bytes", m.title, m.stats.Instructions, m.stats.Consumed)
	if m.stats.Invalid > 0 {
		s += fmt.Sprintf(" • %d invalid", m.stats.Invalid)
	}
	if m.stats.Remainder > 0 {
		s += fmt.Sprintf(" • %d dropped", m.stats.Remainder)
	}
	return s + fmt.Sprintf(" • %3.f%% • q: quit", m.viewport.ScrollPercent()*100)
}

// Run blocks until the user quits the viewer.
func Run(ctx context.Context, title string, lines []string, stats render.Stats) error {
	program := tea.NewProgram(
		New(title, lines, stats),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
