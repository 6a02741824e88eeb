package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// PromptPurpose says what a submitted prompt is used for
type PromptPurpose int

const (
	PromptQuestion PromptPurpose = iota // natural language question for the AI
	PromptConvert                       // target format for conversion
	PromptOpenFile                      // path of a file to load
	PromptBookmark                      // name for a new bookmark
	PromptGenerate                      // description of data for the AI to create
	PromptDiffFile                      // path of a file to compare against
)

func (p PromptPurpose) title() string {
	switch p {
	case PromptQuestion:
		return "Ask AI"
	case PromptConvert:
		return "Convert to"
	case PromptOpenFile:
		return "Open file"
	case PromptBookmark:
		return "Bookmark"
	case PromptGenerate:
		return "Generate Data"
	case PromptDiffFile:
		return "Compare with file"
	default:
		return "Input"
	}
}

// PromptSubmitMsg is sent when a non-empty prompt is submitted
type PromptSubmitMsg struct {
	Purpose PromptPurpose
	Value   string
}

// ClosePromptMsg is sent when the prompt should be closed
type ClosePromptMsg struct{}

// PromptInput is a single line input box shown as an overlay
type PromptInput struct {
	Input   textinput.Model
	Purpose PromptPurpose
	Theme   theme.Theme
	Width   int
	Hint    string
}

// NewPromptInput creates a new prompt input
func NewPromptInput(th theme.Theme) *PromptInput {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 40

	return &PromptInput{
		Input: ti,
		Theme: th,
		Width: 60,
	}
}

// Open resets the input for purpose and focuses it
func (p *PromptInput) Open(purpose PromptPurpose, placeholder, value string) tea.Cmd {
	p.Purpose = purpose
	p.Input.Placeholder = placeholder
	p.Input.SetValue(value)
	p.Input.CursorEnd()
	p.Hint = ""
	return p.Input.Focus()
}

// Update handles messages
func (p *PromptInput) Update(msg tea.Msg) (*PromptInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			value := p.Input.Value()
			if value == "" {
				return p, nil
			}
			purpose := p.Purpose
			p.Input.Blur()
			return p, func() tea.Msg {
				return PromptSubmitMsg{Purpose: purpose, Value: value}
			}
		case "esc":
			p.Input.Blur()
			return p, func() tea.Msg {
				return ClosePromptMsg{}
			}
		}
	}

	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return p, cmd
}

// View renders the prompt input
func (p *PromptInput) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Accent).
		Bold(true)

	inputWidth := p.Width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Padding(0, 1).
		Width(p.Width)

	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Muted).
		Italic(true)

	help := "Enter: submit │ Esc: cancel"
	if p.Hint != "" {
		help = p.Hint + " │ " + help
	}

	content := titleStyle.Render(p.Purpose.title()) + "\n" + p.Input.View()
	return boxStyle.Render(content + "\n" + helpStyle.Render(help))
}
