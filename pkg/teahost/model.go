// Package teahost runs a statetree host inside a bubbletea program. The
// program's tick drives the host scheduler and key presses go to the
// buttons of the element tree.
package teahost

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/delaneyj/editorstate/pkg/statetree"
	"github.com/delaneyj/editorstate/pkg/ui"
)

// DefaultInterval is roughly one frame at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// tickMsg is the update-loop tick the scheduler piggybacks on.
type tickMsg time.Time

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type Model struct {
	host     *statetree.Host
	root     *ui.Box
	interval time.Duration
	err      error
	ticks    int
}

// New wraps an opened host whose anchor is root.
func New(host *statetree.Host, root *ui.Box, interval time.Duration) *Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Model{
		host:     host,
		root:     root,
		interval: interval,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.ticks++
		if err := m.host.Tick(time.Time(msg)); err != nil {
			m.err = err
			m.host.Logger().WithError(err).Error("re-render failed")
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, m.quit()
		}
		m.root.Press(msg.String())
	}
	return m, nil
}

func (m *Model) View() string {
	view := ui.Render(m.root) + "\n\n" + helpStyle.Render("q: quit")
	if m.err != nil {
		view += "\n" + errorStyle.Render(m.err.Error())
	}
	return view
}

// Err is the last re-render error.
func (m *Model) Err() error {
	return m.err
}

// Ticks counts the ticks handled so far.
func (m *Model) Ticks() int {
	return m.ticks
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// quit closes the host, cancelling any pending flush, before the program
// exits.
func (m *Model) quit() tea.Cmd {
	if m.host.IsOpen() {
		if err := m.host.Close(); err != nil {
			m.err = err
		}
	}
	return tea.Quit
}

// Run opens a bubbletea program on the model and blocks until it exits.
func Run(m *Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
