package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// Panel is a bordered box around a pane, highlighted when focused
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// InnerSize returns the space left for content inside the border and title
func (p *Panel) InnerSize() (int, int) {
	w := p.Width - 2
	h := p.Height - 2
	if p.Title != "" {
		h--
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 2 || p.Height <= 2 {
		return ""
	}

	border := p.Theme.Border
	if p.Focused {
		border = p.Theme.BorderFocused
	}

	style := lipgloss.NewStyle().
		Width(p.Width - 2).
		Height(p.Height - 2).
		MaxHeight(p.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		if p.Focused {
			titleStyle = titleStyle.Foreground(p.Theme.Accent)
		} else {
			titleStyle = titleStyle.Foreground(p.Theme.Muted)
		}
		title := runewidth.Truncate(p.Title, p.Width-4, "…")
		content = titleStyle.Render(title) + "\n" + content
	}

	return style.Render(content)
}
