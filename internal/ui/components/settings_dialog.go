package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

const (
	settingsAPIKey = iota
	settingsModel
	settingsTheme
	settingsFieldCount
)

// SaveSettingsMsg is sent when the settings form is submitted. An empty
// APIKey with KeyChanged set removes the stored key.
type SaveSettingsMsg struct {
	APIKey     string
	KeyChanged bool
	Model      string
	Theme      string
}

// CloseSettingsMsg is sent when the dialog is dismissed without saving
type CloseSettingsMsg struct{}

// SettingsDialog edits the API key, the model and the theme
type SettingsDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	// MaskedKey is shown while the key field is untouched
	MaskedKey string
	// Notice is shown above the fields, e.g. why the dialog opened
	Notice string

	ActiveField int

	keyInput   textinput.Model
	modelInput textinput.Model
	keyChanged bool
	themeIndex int
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(th theme.Theme) *SettingsDialog {
	key := textinput.New()
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '*'
	key.CharLimit = 256
	key.Placeholder = "paste a Gemini API key"

	model := textinput.New()
	model.CharLimit = 128
	model.Placeholder = "auto"

	return &SettingsDialog{
		Width:      64,
		Height:     16,
		Theme:      th,
		keyInput:   key,
		modelInput: model,
	}
}

// Open fills the form from the current settings and focuses the key field
func (s *SettingsDialog) Open(maskedKey, model, themeName, notice string) tea.Cmd {
	s.MaskedKey = maskedKey
	s.Notice = notice
	s.keyInput.SetValue("")
	s.keyChanged = false
	s.modelInput.SetValue(model)
	s.themeIndex = 0
	for i, name := range theme.Names {
		if name == themeName {
			s.themeIndex = i
		}
	}
	return s.focus(settingsAPIKey)
}

func (s *SettingsDialog) focus(field int) tea.Cmd {
	s.ActiveField = field
	s.keyInput.Blur()
	s.modelInput.Blur()
	switch field {
	case settingsAPIKey:
		return s.keyInput.Focus()
	case settingsModel:
		return s.modelInput.Focus()
	}
	return nil
}

// ThemeName returns the selected theme
func (s *SettingsDialog) ThemeName() string {
	return theme.Names[s.themeIndex]
}

// Update handles keyboard input
func (s *SettingsDialog) Update(msg tea.Msg) (*SettingsDialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch keyMsg.String() {
	case "esc":
		return s, func() tea.Msg { return CloseSettingsMsg{} }
	case "tab", "down":
		return s, s.focus((s.ActiveField + 1) % settingsFieldCount)
	case "shift+tab", "up":
		return s, s.focus((s.ActiveField - 1 + settingsFieldCount) % settingsFieldCount)
	case "ctrl+x":
		// Forget the stored key
		if s.ActiveField == settingsAPIKey {
			s.keyInput.SetValue("")
			s.keyChanged = true
			s.MaskedKey = ""
		}
		return s, nil
	case "enter":
		out := SaveSettingsMsg{
			APIKey:     strings.TrimSpace(s.keyInput.Value()),
			KeyChanged: s.keyChanged,
			Model:      strings.TrimSpace(s.modelInput.Value()),
			Theme:      s.ThemeName(),
		}
		return s, func() tea.Msg { return out }
	}

	var cmd tea.Cmd
	switch s.ActiveField {
	case settingsAPIKey:
		before := s.keyInput.Value()
		s.keyInput, cmd = s.keyInput.Update(msg)
		if s.keyInput.Value() != before {
			s.keyChanged = true
		}
	case settingsModel:
		s.modelInput, cmd = s.modelInput.Update(msg)
	case settingsTheme:
		switch keyMsg.String() {
		case "left", "h":
			s.themeIndex = (s.themeIndex - 1 + len(theme.Names)) % len(theme.Names)
		case "right", "l", " ":
			s.themeIndex = (s.themeIndex + 1) % len(theme.Names)
		}
	}
	return s, cmd
}

// View renders the settings dialog
func (s *SettingsDialog) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(s.Theme.Accent)
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	if s.Notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(s.Theme.Warning).Render(s.Notice))
		b.WriteString("\n\n")
	}

	keyValue := s.keyInput.View()
	if !s.keyChanged && s.MaskedKey != "" && s.ActiveField != settingsAPIKey {
		keyValue = s.MaskedKey
	}

	fields := []struct {
		label string
		value string
		index int
	}{
		{"API key:", keyValue, settingsAPIKey},
		{"Model:", s.modelInput.View(), settingsModel},
		{"Theme:", "◀ " + s.ThemeName() + " ▶", settingsTheme},
	}

	for _, field := range fields {
		prefix := "  "
		if field.index == s.ActiveField {
			prefix = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-10s %s\n", prefix, field.label, field.value))
	}

	if s.MaskedKey != "" && !s.keyChanged {
		b.WriteString(lipgloss.NewStyle().Foreground(s.Theme.Muted).Render("  stored key: " + s.MaskedKey))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "↑/↓: Navigate | ←/→: Theme | Ctrl+X: Forget key | Enter: Save | Esc: Cancel"
	b.WriteString(lipgloss.NewStyle().Foreground(s.Theme.Muted).Italic(true).Render(help))

	style := lipgloss.NewStyle().
		Width(s.Width).
		Height(s.Height).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused)

	return style.Render(b.String())
}
