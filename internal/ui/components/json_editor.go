package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// EditorChangedMsg is sent after every edit with the full new text
type EditorChangedMsg struct {
	Text string
}

// JSONEditor is the raw text pane. Lines other than the cursor line are
// syntax highlighted.
type JSONEditor struct {
	// Content
	lines     []string
	cursorRow int
	cursorCol int // in runes
	scrollY   int

	// State
	Width           int
	Height          int
	Focused         bool
	TabSize         int
	ShowLineNumbers bool
	Highlight       bool
	Status          string // Left side of the status bar, e.g. validity
	StatusColor     lipgloss.Color

	// Theme
	Theme theme.Theme

	// Cached styles
	cachedStyles *editorStyles

	// Chroma state (cached for performance)
	chromaStyle     *chroma.Style
	chromaFormatter chroma.Formatter
	chromaLexer     chroma.Lexer
}

// editorStyles holds pre-computed styles
type editorStyles struct {
	border        lipgloss.Style
	borderFocused lipgloss.Style
	lineNumber    lipgloss.Style
	lineNumberSep lipgloss.Style
	content       lipgloss.Style
	title         lipgloss.Style
	statusBar     lipgloss.Style
	cursor        lipgloss.Style
	emptyLine     lipgloss.Style
	placeholder   lipgloss.Style
}

// NewJSONEditor creates an empty editor
func NewJSONEditor(th theme.Theme) *JSONEditor {
	e := &JSONEditor{
		lines:           []string{""},
		TabSize:         2,
		ShowLineNumbers: true,
		Highlight:       true,
	}
	e.SetTheme(th)
	return e
}

// SetTheme switches colors and the highlight style
func (e *JSONEditor) SetTheme(th theme.Theme) {
	e.Theme = th
	e.initStyles()
	e.initChroma()
}

// initStyles initializes cached styles
func (e *JSONEditor) initStyles() {
	e.cachedStyles = &editorStyles{
		border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(e.Theme.Border),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(e.Theme.BorderFocused),
		lineNumber: lipgloss.NewStyle().
			Foreground(e.Theme.Muted),
		lineNumberSep: lipgloss.NewStyle().
			Foreground(e.Theme.Border),
		content: lipgloss.NewStyle().
			Foreground(e.Theme.Foreground),
		title: lipgloss.NewStyle().
			Foreground(e.Theme.Info).
			Bold(true),
		statusBar: lipgloss.NewStyle().
			Foreground(e.Theme.Muted).
			Italic(true),
		cursor: lipgloss.NewStyle().
			Foreground(e.Theme.Background).
			Background(e.Theme.Cursor),
		emptyLine: lipgloss.NewStyle().
			Foreground(e.Theme.Muted),
		placeholder: lipgloss.NewStyle().
			Foreground(e.Theme.Muted).
			Italic(true),
	}
}

// initChroma initializes the Chroma JSON highlighter
func (e *JSONEditor) initChroma() {
	e.chromaStyle = styles.Get(e.Theme.ChromaStyle)
	if e.chromaStyle == nil {
		e.chromaStyle = styles.Fallback
	}

	// Use terminal256 formatter for ANSI output
	e.chromaFormatter = formatters.Get("terminal256")
	if e.chromaFormatter == nil {
		e.chromaFormatter = formatters.Fallback
	}

	e.chromaLexer = lexers.Get("json")
	if e.chromaLexer != nil {
		e.chromaLexer = chroma.Coalesce(e.chromaLexer)
	}
}

// SetContent replaces the text and moves the cursor to the start
func (e *JSONEditor) SetContent(content string) {
	e.lines = strings.Split(content, "\n")
	e.cursorRow = 0
	e.cursorCol = 0
	e.scrollY = 0
}

// GetContent returns the full content as a single string
func (e *JSONEditor) GetContent() string {
	return strings.Join(e.lines, "\n")
}

// LineCount returns the number of lines
func (e *JSONEditor) LineCount() int {
	return len(e.lines)
}

// Cursor returns the zero-based cursor line and rune column
func (e *JSONEditor) Cursor() (int, int) {
	return e.cursorRow, e.cursorCol
}

// highlightLine applies syntax highlighting to a single line
func (e *JSONEditor) highlightLine(line string) string {
	if line == "" {
		return ""
	}
	if !e.Highlight || e.chromaLexer == nil {
		return e.cachedStyles.content.Render(line)
	}

	iterator, err := e.chromaLexer.Tokenise(nil, line)
	if err != nil {
		return e.cachedStyles.content.Render(line)
	}

	var buf bytes.Buffer
	if err := e.chromaFormatter.Format(&buf, e.chromaStyle, iterator); err != nil {
		return e.cachedStyles.content.Render(line)
	}

	// Remove trailing newline added by chroma
	return strings.TrimSuffix(buf.String(), "\n")
}

// getLineNumberWidth returns the width needed for line numbers
func (e *JSONEditor) getLineNumberWidth() int {
	if !e.ShowLineNumbers {
		return 0
	}
	digits := len(fmt.Sprintf("%d", len(e.lines)))
	if digits < 2 {
		digits = 2
	}
	return digits + 3 // digits + space + separator + space
}

// renderLine renders a single line with line number
func (e *JSONEditor) renderLine(lineNum int, hasCursor bool, contentWidth int) string {
	lineNumWidth := e.getLineNumberWidth()

	var lineNumPart string
	if e.ShowLineNumbers {
		lineNumStr := fmt.Sprintf("%*d", lineNumWidth-3, lineNum+1)
		lineNumPart = e.cachedStyles.lineNumber.Render(lineNumStr) +
			e.cachedStyles.lineNumberSep.Render(" │ ")
	}

	line := ""
	if lineNum < len(e.lines) {
		line = e.lines[lineNum]
	}

	availableWidth := contentWidth - lineNumWidth
	if availableWidth < 10 {
		availableWidth = 10
	}

	if hasCursor {
		return lineNumPart + e.renderLineWithCursor(line, availableWidth)
	}

	displayLine := line
	if runewidth.StringWidth(displayLine) > availableWidth {
		displayLine = runewidth.Truncate(displayLine, availableWidth, "…")
	}
	return lineNumPart + e.highlightLine(displayLine)
}

// renderLineWithCursor renders the cursor line without highlighting. The
// visible window slides horizontally to keep the cursor in view.
func (e *JSONEditor) renderLineWithCursor(line string, maxWidth int) string {
	runes := []rune(line)

	start := 0
	if e.cursorCol >= maxWidth {
		start = e.cursorCol - maxWidth + 1
	}

	var result strings.Builder
	width := 0
	for i := start; i < len(runes); i++ {
		w := runewidth.RuneWidth(runes[i])
		if width+w > maxWidth {
			break
		}
		width += w
		if i == e.cursorCol && e.Focused {
			result.WriteString(e.cachedStyles.cursor.Render(string(runes[i])))
		} else {
			result.WriteString(e.cachedStyles.content.Render(string(runes[i])))
		}
	}

	// Cursor at end of line
	if e.cursorCol >= len(runes) && e.Focused {
		result.WriteString(e.cachedStyles.cursor.Render(" "))
	}

	return result.String()
}

// renderEmptyLine renders an empty line placeholder
func (e *JSONEditor) renderEmptyLine() string {
	if !e.ShowLineNumbers {
		return ""
	}
	lineNumWidth := e.getLineNumberWidth()
	lineNumStr := fmt.Sprintf("%*s", lineNumWidth-3, "~")

	return e.cachedStyles.emptyLine.Render(lineNumStr) +
		e.cachedStyles.lineNumberSep.Render(" │ ")
}

// View renders the editor
func (e *JSONEditor) View() string {
	if e.Width <= 0 || e.Height <= 0 {
		return ""
	}

	borderStyle := e.cachedStyles.border
	if e.Focused {
		borderStyle = e.cachedStyles.borderFocused
	}

	frameSize := borderStyle.GetHorizontalFrameSize()
	contentWidth := e.Width - frameSize
	if contentWidth < 20 {
		contentWidth = 20
	}

	verticalFrameSize := borderStyle.GetVerticalFrameSize()
	// Reserve: 1 for title, 1 for title separator, 1 for bottom separator, 1 for status bar
	contentHeight := e.Height - verticalFrameSize - 4
	if contentHeight < 1 {
		contentHeight = 1
	}

	titleBar := e.renderTitleBar(contentWidth)
	separator := e.renderSeparator(contentWidth)

	e.ensureCursorVisible(contentHeight)

	var contentLines []string
	if e.isBlank() && !e.Focused {
		contentLines = append(contentLines, e.cachedStyles.placeholder.Render("Paste or type JSON here..."))
	} else {
		startLine := e.scrollY
		endLine := startLine + contentHeight
		if endLine > len(e.lines) {
			endLine = len(e.lines)
		}
		for i := startLine; i < endLine; i++ {
			contentLines = append(contentLines, e.renderLine(i, i == e.cursorRow, contentWidth))
		}
	}

	// Pad with empty lines if needed
	for len(contentLines) < contentHeight {
		contentLines = append(contentLines, e.renderEmptyLine())
	}

	allLines := []string{titleBar, separator}
	allLines = append(allLines, contentLines...)
	allLines = append(allLines, separator, e.renderStatusBar(contentWidth))

	return borderStyle.Width(contentWidth).Render(strings.Join(allLines, "\n"))
}

func (e *JSONEditor) isBlank() bool {
	return strings.TrimSpace(e.GetContent()) == ""
}

// renderTitleBar renders the title with the line count on the right
func (e *JSONEditor) renderTitleBar(width int) string {
	title := e.cachedStyles.title.Render("{ } Editor")
	info := e.cachedStyles.statusBar.Render(fmt.Sprintf("%d lines", len(e.lines)))

	padding := width - lipgloss.Width(title) - lipgloss.Width(info)
	if padding < 1 {
		padding = 1
	}
	return title + strings.Repeat(" ", padding) + info
}

// renderSeparator renders the separator line
func (e *JSONEditor) renderSeparator(width int) string {
	return e.cachedStyles.lineNumberSep.Render(strings.Repeat("─", width))
}

// renderStatusBar renders the status on the left and the position on the right
func (e *JSONEditor) renderStatusBar(width int) string {
	posInfo := fmt.Sprintf("Ln %d, Col %d", e.cursorRow+1, e.cursorCol+1)
	posWidth := runewidth.StringWidth(posInfo)

	status := e.Status
	maxStatus := width - posWidth - 1
	if maxStatus < 0 {
		maxStatus = 0
	}
	if runewidth.StringWidth(status) > maxStatus {
		status = runewidth.Truncate(status, maxStatus, "…")
	}

	statusStyle := e.cachedStyles.statusBar
	if e.StatusColor != "" {
		statusStyle = statusStyle.Foreground(e.StatusColor)
	}

	padding := width - runewidth.StringWidth(status) - posWidth
	if padding < 1 {
		padding = 1
	}

	return statusStyle.Render(status) +
		strings.Repeat(" ", padding) +
		e.cachedStyles.statusBar.Render(posInfo)
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (e *JSONEditor) ensureCursorVisible(viewportHeight int) {
	if e.cursorRow < e.scrollY {
		e.scrollY = e.cursorRow
	}
	if e.cursorRow >= e.scrollY+viewportHeight {
		e.scrollY = e.cursorRow - viewportHeight + 1
	}

	maxScroll := len(e.lines) - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if e.scrollY > maxScroll {
		e.scrollY = maxScroll
	}
	if e.scrollY < 0 {
		e.scrollY = 0
	}
}

func (e *JSONEditor) pageSize() int {
	size := e.Height - 6
	if size < 1 {
		size = 1
	}
	return size
}

// Update handles keyboard input. Edits emit EditorChangedMsg.
func (e *JSONEditor) Update(msg tea.KeyMsg) (*JSONEditor, tea.Cmd) {
	before := e.GetContent()

	switch msg.String() {
	// Cursor movement
	case "left":
		e.moveCursorLeft()
	case "right":
		e.moveCursorRight()
	case "up":
		e.moveCursorVertical(-1)
	case "down":
		e.moveCursorVertical(1)
	case "pgup":
		e.moveCursorVertical(-e.pageSize())
	case "pgdown":
		e.moveCursorVertical(e.pageSize())
	case "home":
		e.cursorCol = 0
	case "end":
		e.cursorCol = e.lineLen(e.cursorRow)
	case "ctrl+home":
		e.cursorRow, e.cursorCol = 0, 0
	case "ctrl+end":
		e.cursorRow = len(e.lines) - 1
		e.cursorCol = e.lineLen(e.cursorRow)

	// Text editing
	case "backspace":
		e.deleteCharBefore()
	case "delete":
		e.deleteCharAfter()
	case "enter":
		e.insertNewline()
	case "shift+tab":
		e.dedent()

	default:
		switch msg.Type {
		case tea.KeySpace:
			e.InsertText(" ")
		case tea.KeyRunes:
			e.InsertText(string(msg.Runes))
		}
	}

	after := e.GetContent()
	if after == before {
		return e, nil
	}
	return e, func() tea.Msg {
		return EditorChangedMsg{Text: after}
	}
}

func (e *JSONEditor) tabSize() int {
	if e.TabSize <= 0 {
		return 2
	}
	return e.TabSize
}

// dedent removes one indentation step from the cursor line
func (e *JSONEditor) dedent() {
	line := e.lines[e.cursorRow]
	n := 0
	for n < len(line) && n < e.tabSize() && line[n] == ' ' {
		n++
	}
	e.lines[e.cursorRow] = line[n:]
	e.cursorCol -= n
	if e.cursorCol < 0 {
		e.cursorCol = 0
	}
}

func (e *JSONEditor) lineLen(row int) int {
	return len([]rune(e.lines[row]))
}

// Cursor movement methods
func (e *JSONEditor) moveCursorLeft() {
	if e.cursorCol > 0 {
		e.cursorCol--
	} else if e.cursorRow > 0 {
		e.cursorRow--
		e.cursorCol = e.lineLen(e.cursorRow)
	}
}

func (e *JSONEditor) moveCursorRight() {
	if e.cursorCol < e.lineLen(e.cursorRow) {
		e.cursorCol++
	} else if e.cursorRow < len(e.lines)-1 {
		e.cursorRow++
		e.cursorCol = 0
	}
}

func (e *JSONEditor) moveCursorVertical(delta int) {
	e.cursorRow += delta
	if e.cursorRow < 0 {
		e.cursorRow = 0
	}
	if e.cursorRow > len(e.lines)-1 {
		e.cursorRow = len(e.lines) - 1
	}
	if lineLen := e.lineLen(e.cursorRow); e.cursorCol > lineLen {
		e.cursorCol = lineLen
	}
}

// InsertText inserts text at the cursor. Newlines split lines, so pasted
// documents keep their shape.
func (e *JSONEditor) InsertText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			e.splitLine()
		}
		e.insertRunes([]rune(part))
	}
}

func (e *JSONEditor) insertRunes(ins []rune) {
	if len(ins) == 0 {
		return
	}
	runes := []rune(e.lines[e.cursorRow])

	newRunes := make([]rune, 0, len(runes)+len(ins))
	newRunes = append(newRunes, runes[:e.cursorCol]...)
	newRunes = append(newRunes, ins...)
	newRunes = append(newRunes, runes[e.cursorCol:]...)

	e.lines[e.cursorRow] = string(newRunes)
	e.cursorCol += len(ins)
}

// insertNewline splits the line and carries the indentation over
func (e *JSONEditor) insertNewline() {
	line := e.lines[e.cursorRow]
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	// Opening a container indents one level deeper
	before := strings.TrimRight(string([]rune(line)[:e.cursorCol]), " ")
	if strings.HasSuffix(before, "{") || strings.HasSuffix(before, "[") {
		indent += strings.Repeat(" ", e.tabSize())
	}

	e.splitLine()
	e.insertRunes([]rune(indent))
}

func (e *JSONEditor) splitLine() {
	runes := []rune(e.lines[e.cursorRow])

	before := string(runes[:e.cursorCol])
	after := string(runes[e.cursorCol:])

	e.lines[e.cursorRow] = before

	newLines := make([]string, len(e.lines)+1)
	copy(newLines[:e.cursorRow+1], e.lines[:e.cursorRow+1])
	newLines[e.cursorRow+1] = after
	copy(newLines[e.cursorRow+2:], e.lines[e.cursorRow+1:])
	e.lines = newLines

	e.cursorRow++
	e.cursorCol = 0
}

func (e *JSONEditor) deleteCharBefore() {
	if e.cursorCol > 0 {
		runes := []rune(e.lines[e.cursorRow])
		newRunes := append(runes[:e.cursorCol-1], runes[e.cursorCol:]...)
		e.lines[e.cursorRow] = string(newRunes)
		e.cursorCol--
	} else if e.cursorRow > 0 {
		// Merge with previous line
		prevLine := e.lines[e.cursorRow-1]
		e.cursorCol = len([]rune(prevLine))
		e.lines[e.cursorRow-1] = prevLine + e.lines[e.cursorRow]

		e.lines = append(e.lines[:e.cursorRow], e.lines[e.cursorRow+1:]...)
		e.cursorRow--
	}
}

func (e *JSONEditor) deleteCharAfter() {
	line := e.lines[e.cursorRow]
	runes := []rune(line)

	if e.cursorCol < len(runes) {
		newRunes := append(runes[:e.cursorCol], runes[e.cursorCol+1:]...)
		e.lines[e.cursorRow] = string(newRunes)
	} else if e.cursorRow < len(e.lines)-1 {
		// Merge with next line
		e.lines[e.cursorRow] = line + e.lines[e.cursorRow+1]
		e.lines = append(e.lines[:e.cursorRow+1], e.lines[e.cursorRow+2:]...)
	}
}
