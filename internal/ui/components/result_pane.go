package components

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// ApplyResultMsg asks the app to replace the editor text with the result
type ApplyResultMsg struct {
	Content string
}

// CloseResultMsg is sent when the result pane should close
type CloseResultMsg struct{}

// ResultCopiedMsg reports the outcome of copying the result
type ResultCopiedMsg struct {
	Err error
}

// ResultPane shows the output of an AI action or a local transform
type ResultPane struct {
	Width  int
	Height int
	Title  string // e.g. "Generate Schema"

	// Content
	Content   string
	Language  string // chroma lexer name, empty for plain text
	Applyable bool   // "a" replaces the editor text with Content
	Loading   bool
	Err       error

	// Scrolling
	scrollY      int
	contentLines []string // Wrapped content split into lines

	Theme     theme.Theme
	clipboard Clipboard
	spinner   spinner.Model
	style     lipgloss.Style
}

// NewResultPane creates a result pane
func NewResultPane(th theme.Theme, cb Clipboard) *ResultPane {
	if cb == nil {
		cb = SystemClipboard{}
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(th.Accent)

	return &ResultPane{
		Width:     80,
		Height:    20,
		Theme:     th,
		clipboard: cb,
		spinner:   sp,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.BorderFocused).
			Padding(0, 1),
	}
}

// SetTheme switches colors
func (p *ResultPane) SetTheme(th theme.Theme) {
	p.Theme = th
	p.spinner.Style = lipgloss.NewStyle().Foreground(th.Accent)
	p.style = p.style.BorderForeground(th.BorderFocused)
}

// StartLoading clears the pane and shows a spinner until SetContent or
// SetError is called
func (p *ResultPane) StartLoading(title string) tea.Cmd {
	p.Title = title
	p.Content = ""
	p.Err = nil
	p.Loading = true
	p.Applyable = false
	p.scrollY = 0
	p.contentLines = nil
	return p.spinner.Tick
}

// SetContent shows content highlighted as language
func (p *ResultPane) SetContent(title, content, language string, applyable bool) {
	p.Title = title
	p.Content = content
	p.Language = language
	p.Applyable = applyable
	p.Loading = false
	p.Err = nil
	p.scrollY = 0
	p.contentLines = nil
}

// SetError shows a failed action
func (p *ResultPane) SetError(title string, err error) {
	p.Title = title
	p.Content = ""
	p.Loading = false
	p.Applyable = false
	p.Err = err
	p.scrollY = 0
	p.contentLines = nil
}

// Update handles scrolling, copy, apply and the spinner
func (p *ResultPane) Update(msg tea.Msg) (*ResultPane, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !p.Loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			p.ScrollUp()
		case "down", "j":
			p.ScrollDown()
		case "pgup", "ctrl+u":
			for i := 0; i < p.visibleLines(); i++ {
				p.ScrollUp()
			}
		case "pgdown", "ctrl+d":
			for i := 0; i < p.visibleLines(); i++ {
				p.ScrollDown()
			}
		case "y":
			if p.Content == "" {
				return p, nil
			}
			content := p.Content
			cb := p.clipboard
			return p, func() tea.Msg {
				return ResultCopiedMsg{Err: cb.WriteAll(content)}
			}
		case "a":
			if p.Applyable && p.Content != "" {
				content := p.Content
				return p, func() tea.Msg {
					return ApplyResultMsg{Content: content}
				}
			}
		case "q", "esc":
			return p, func() tea.Msg {
				return CloseResultMsg{}
			}
		}
	}
	return p, nil
}

func (p *ResultPane) contentWidth() int {
	w := p.Width - p.style.GetHorizontalFrameSize()
	if w < 10 {
		w = 10
	}
	return w
}

// visibleLines is the content area without the header and footer
func (p *ResultPane) visibleLines() int {
	h := p.Height - p.style.GetVerticalFrameSize() - 2
	if h < 1 {
		h = 1
	}
	return h
}

// formatContent wraps the raw content for display
func (p *ResultPane) formatContent() {
	if p.Content == "" {
		p.contentLines = []string{}
		return
	}
	p.contentLines = wrapText(p.Content, p.contentWidth())
}

// wrapText wraps text to fit within maxWidth
func wrapText(text string, maxWidth int) []string {
	var result []string

	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		// Wrap long lines
		current := ""
		currentWidth := 0
		for _, r := range line {
			rWidth := runewidth.RuneWidth(r)
			if currentWidth+rWidth > maxWidth {
				result = append(result, current)
				current = string(r)
				currentWidth = rWidth
			} else {
				current += string(r)
				currentWidth += rWidth
			}
		}
		if current != "" {
			result = append(result, current)
		}
	}

	return result
}

// IsScrollable returns true if content exceeds visible area
func (p *ResultPane) IsScrollable() bool {
	if p.contentLines == nil {
		p.formatContent()
	}
	return len(p.contentLines) > p.visibleLines()
}

// ScrollUp scrolls content up
func (p *ResultPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *ResultPane) ScrollDown() {
	if p.contentLines == nil {
		p.formatContent()
	}
	maxScroll := len(p.contentLines) - p.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// highlight colors a single line with the pane's lexer
func (p *ResultPane) highlight(line string) string {
	plain := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	if p.Language == "" || line == "" {
		return plain.Render(line)
	}

	lexer := lexers.Get(p.Language)
	if lexer == nil {
		return plain.Render(line)
	}
	style := styles.Get(p.Theme.ChromaStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, line)
	if err != nil {
		return plain.Render(line)
	}
	var buf bytes.Buffer
	if err := formatters.TTY256.Format(&buf, style, iterator); err != nil {
		return plain.Render(line)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// View renders the result pane
func (p *ResultPane) View() string {
	if p.contentLines == nil {
		p.formatContent()
	}

	contentWidth := p.contentWidth()
	visible := p.visibleLines()

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)
	header := titleStyle.Render(runewidth.Truncate(p.Title, contentWidth, "..."))

	var contentParts []string
	contentParts = append(contentParts, header)

	switch {
	case p.Loading:
		contentParts = append(contentParts, p.spinner.View()+" Thinking...")
	case p.Err != nil:
		errStyle := lipgloss.NewStyle().Foreground(p.Theme.Error)
		for _, line := range wrapText(p.Err.Error(), contentWidth) {
			contentParts = append(contentParts, errStyle.Render(line))
		}
	default:
		endLine := p.scrollY + visible
		if endLine > len(p.contentLines) {
			endLine = len(p.contentLines)
		}
		for i := p.scrollY; i < endLine; i++ {
			contentParts = append(contentParts, p.highlight(p.contentLines[i]))
		}
	}

	for len(contentParts) < visible+1 {
		contentParts = append(contentParts, "")
	}

	// Build help text
	var helpParts []string
	if !p.Loading && p.Err == nil && p.IsScrollable() {
		helpParts = append(helpParts, "↑↓: Scroll")
	}
	if p.Content != "" {
		helpParts = append(helpParts, "y: Copy")
	}
	if p.Applyable && p.Content != "" {
		helpParts = append(helpParts, "a: Apply")
	}
	helpParts = append(helpParts, "Esc: Close")

	helpText := strings.Join(helpParts, " │ ")
	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Muted).
		Italic(true)

	footerPadding := contentWidth - runewidth.StringWidth(helpText)
	if footerPadding < 0 {
		footerPadding = 0
	}
	contentParts = append(contentParts, strings.Repeat(" ", footerPadding)+helpStyle.Render(helpText))

	innerHeight := p.Height - p.style.GetVerticalFrameSize()
	if innerHeight < 3 {
		innerHeight = 3
	}

	return p.style.
		Width(p.Width - p.style.GetHorizontalFrameSize()).
		Height(innerHeight).
		MaxHeight(innerHeight + p.style.GetVerticalFrameSize()).
		Render(strings.Join(contentParts, "\n"))
}
