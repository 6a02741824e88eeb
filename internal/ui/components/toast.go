package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// ToastLevel picks the toast color
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// ToastExpiredMsg hides the toast it belongs to
type ToastExpiredMsg struct {
	Seq int
}

// Toast is a one-line transient notice shown in the status bar
type Toast struct {
	Message string
	Level   ToastLevel
	Theme   theme.Theme

	duration time.Duration
	seq      int
}

// NewToast creates a toast that hides itself after duration
func NewToast(th theme.Theme, duration time.Duration) *Toast {
	if duration <= 0 {
		duration = 3 * time.Second
	}
	return &Toast{Theme: th, duration: duration}
}

// Show displays message and schedules its expiry
func (t *Toast) Show(message string, level ToastLevel) tea.Cmd {
	t.seq++
	seq := t.seq
	t.Message = message
	t.Level = level
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Seq: seq}
	})
}

// Update hides the toast when its own timer fires
func (t *Toast) Update(msg tea.Msg) {
	if msg, ok := msg.(ToastExpiredMsg); ok && msg.Seq == t.seq {
		t.Message = ""
	}
}

// Visible reports whether a message is showing
func (t *Toast) Visible() bool {
	return t.Message != ""
}

// View renders the message truncated to width
func (t *Toast) View(width int) string {
	if !t.Visible() {
		return ""
	}

	var color lipgloss.Color
	icon := "•"
	switch t.Level {
	case ToastSuccess:
		color, icon = t.Theme.Success, "✓"
	case ToastWarning:
		color, icon = t.Theme.Warning, "!"
	case ToastError:
		color, icon = t.Theme.Error, "✗"
	default:
		color = t.Theme.Info
	}

	text := runewidth.Truncate(icon+" "+t.Message, width, "…")
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
}
