package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	LabelStyle  = lipgloss.NewStyle()
	TitleStyle  = lipgloss.NewStyle().Bold(true)
	SubtleStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	ButtonStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	InputStyle  = lipgloss.NewStyle().Underline(true)
)

// Render draws the tree rooted at b. Children of a box are stacked
// vertically.
func Render(b *Box) string {
	switch b.Kind {
	case KindLabel:
		return b.Style.Inherit(LabelStyle).Render(b.Text)
	case KindInput:
		return b.Style.Inherit(InputStyle).Render("[" + b.Text + "]")
	case KindButton:
		btn := b.Style.Inherit(ButtonStyle).Render(b.Text)
		if b.Key == "" {
			return btn
		}
		return lipgloss.JoinHorizontal(lipgloss.Center, btn, " ", KeyStyle.Render("("+b.Key+")"))
	}
	rows := make([]string, 0, len(b.children))
	for _, c := range b.children {
		rows = append(rows, Render(c))
	}
	return b.Style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
