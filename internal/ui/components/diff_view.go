package components

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/jsondoc"
	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// ClipboardReader is where pasted text for the compare pane comes from
type ClipboardReader interface {
	ReadAll() (string, error)
}

// ReadAll implements ClipboardReader
func (SystemClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

// CloseDiffMsg is sent when the compare view should close
type CloseDiffMsg struct{}

// DiffOpenFileMsg asks the app for a file to load into the right pane
type DiffOpenFileMsg struct{}

// DiffView compares the document (left) with a second text (right). The
// right side is the one that gets applied.
type DiffView struct {
	Width  int
	Height int
	Indent int
	Theme  theme.Theme

	left, right string
	diff        *jsondoc.Diff
	hunk        int // current hunk, -1 before the first jump
	scrollY     int
	status      string
	statusColor lipgloss.Color

	paste ClipboardReader
	style lipgloss.Style
}

// NewDiffView creates a compare view. A nil reader selects the system
// clipboard.
func NewDiffView(th theme.Theme, cb ClipboardReader) *DiffView {
	if cb == nil {
		cb = SystemClipboard{}
	}
	v := &DiffView{
		Width:  100,
		Height: 30,
		Indent: 2,
		Theme:  th,
		paste:  cb,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.BorderFocused).
			Padding(0, 1),
	}
	v.recompute()
	return v
}

// SetTheme switches colors
func (v *DiffView) SetTheme(th theme.Theme) {
	v.Theme = th
	v.style = v.style.BorderForeground(th.BorderFocused)
}

// Open shows left against the last right text
func (v *DiffView) Open(left string) {
	v.left = left
	v.setStatus("", "")
	v.recompute()
}

// SetRight replaces the right pane
func (v *DiffView) SetRight(text string) {
	v.right = strings.ReplaceAll(text, "\r\n", "\n")
	v.recompute()
}

// Left returns the left pane text
func (v *DiffView) Left() string { return v.left }

// Right returns the right pane text
func (v *DiffView) Right() string { return v.right }

// Hunks returns the number of differing blocks
func (v *DiffView) Hunks() int { return len(v.diff.Hunks) }

// CurrentHunk returns the selected block, -1 when none is selected
func (v *DiffView) CurrentHunk() int { return v.hunk }

// Status returns the last notice shown in the footer
func (v *DiffView) Status() string { return v.status }

func (v *DiffView) recompute() {
	v.diff = jsondoc.Compare(v.left, v.right)
	v.hunk = -1
	v.scrollY = 0
}

func (v *DiffView) setStatus(text string, color lipgloss.Color) {
	v.status = text
	v.statusColor = color
}

// Update handles navigation and the pane actions
func (v *DiffView) Update(msg tea.Msg) (*DiffView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	// Bracketed paste lands in the right pane
	if keyMsg.Paste {
		v.SetRight(string(keyMsg.Runes))
		v.setStatus("Pasted to right pane", v.Theme.Success)
		return v, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return v, func() tea.Msg { return CloseDiffMsg{} }
	case "up", "k":
		v.scroll(-1)
	case "down", "j":
		v.scroll(1)
	case "pgup", "ctrl+u":
		v.scroll(-v.visibleLines())
	case "pgdown", "ctrl+d":
		v.scroll(v.visibleLines())
	case "n", "]":
		v.jump(1)
	case "N", "p", "[":
		v.jump(-1)
	case "s":
		v.left, v.right = v.right, v.left
		v.recompute()
		v.setStatus("Swapped panes", v.Theme.Success)
	case "c":
		v.SetRight(v.left)
		v.setStatus("Copied left to right", v.Theme.Success)
	case "r":
		v.revertHunk()
	case "S":
		v.smartSort()
	case "v":
		text, err := v.paste.ReadAll()
		switch {
		case err != nil:
			v.setStatus("Could not read clipboard", v.Theme.Error)
		case text == "":
			v.setStatus("Clipboard is empty", v.Theme.Warning)
		default:
			v.SetRight(text)
			v.setStatus("Pasted to right pane", v.Theme.Success)
		}
	case "o":
		return v, func() tea.Msg { return DiffOpenFileMsg{} }
	case "a":
		if v.diff.Equal() {
			v.setStatus("No differences to apply", v.Theme.Info)
			return v, nil
		}
		content := v.right
		return v, func() tea.Msg { return ApplyResultMsg{Content: content} }
	}
	return v, nil
}

// jump selects the next or previous hunk, wrapping at either end
func (v *DiffView) jump(dir int) {
	n := len(v.diff.Hunks)
	if n == 0 {
		v.setStatus("No differences found", v.Theme.Info)
		return
	}
	switch {
	case v.hunk < 0 && dir < 0:
		v.hunk = n - 1
	case v.hunk < 0:
		v.hunk = 0
	default:
		v.hunk = (v.hunk + dir + n) % n
	}
	v.setStatus(fmt.Sprintf("Change %d of %d", v.hunk+1, n), v.Theme.Info)

	line := v.diff.HunkLine(v.hunk)
	if line < v.scrollY || line >= v.scrollY+v.visibleLines() {
		v.scrollY = max(line-v.visibleLines()/3, 0)
		v.clampScroll()
	}
}

func (v *DiffView) revertHunk() {
	if v.hunk < 0 || v.hunk >= len(v.diff.Hunks) {
		v.setStatus("Select a change with n first", v.Theme.Warning)
		return
	}
	hunk := v.hunk
	v.right = v.diff.RevertHunk(hunk)
	scroll := v.scrollY
	v.recompute()
	v.scrollY = scroll
	v.clampScroll()
	if n := len(v.diff.Hunks); n > 0 {
		v.hunk = min(hunk, n-1)
	}
	v.setStatus("Change reverted", v.Theme.Success)
}

func (v *DiffView) smartSort() {
	left, right, changed, err := jsondoc.SortBoth(v.left, v.right, v.Indent)
	if err != nil {
		v.setStatus("Cannot sort "+err.Error(), v.Theme.Error)
		return
	}
	if !changed {
		v.setStatus("Already sorted", v.Theme.Info)
		return
	}
	v.left, v.right = left, right
	v.recompute()
	v.setStatus("Keys sorted & formatted", v.Theme.Success)
}

func (v *DiffView) scroll(delta int) {
	v.scrollY += delta
	v.clampScroll()
}

func (v *DiffView) clampScroll() {
	maxScroll := len(v.diff.Lines) - v.visibleLines()
	if v.scrollY > maxScroll {
		v.scrollY = maxScroll
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}

// visibleLines is the body without the title, pane headers and footer
func (v *DiffView) visibleLines() int {
	return max(v.Height-v.style.GetVerticalFrameSize()-3, 1)
}

func (v *DiffView) contentWidth() int {
	return max(v.Width-v.style.GetHorizontalFrameSize(), 21)
}

// cell renders one side of a row as a line number and text
func (v *DiffView) cell(no int, text string, width int, color lipgloss.Color, selected bool) string {
	gutter := "    "
	if no >= 0 {
		gutter = fmt.Sprintf("%3d ", no+1)
	}
	room := max(width-len(gutter), 1)
	body := runewidth.FillRight(runewidth.Truncate(strings.ReplaceAll(text, "\t", "  "), room, "…"), room)

	style := lipgloss.NewStyle().Foreground(color)
	if selected {
		style = style.Background(v.Theme.Selection)
	}
	return lipgloss.NewStyle().Foreground(v.Theme.Muted).Render(gutter) + style.Render(body)
}

// View renders both panes side by side
func (v *DiffView) View() string {
	width := v.contentWidth()
	inner := width - v.style.GetHorizontalPadding()
	half := (inner - 3) / 2
	sep := lipgloss.NewStyle().Foreground(v.Theme.Border).Render(" │ ")

	title := lipgloss.NewStyle().Foreground(v.Theme.Info).Bold(true).Render("Compare JSON")
	summary := "identical"
	if n := len(v.diff.Hunks); n == 1 {
		summary = "1 change"
	} else if n > 1 {
		summary = fmt.Sprintf("%d changes", n)
	}
	muted := lipgloss.NewStyle().Foreground(v.Theme.Muted)
	parts := []string{
		title + "  " + muted.Render(summary),
		muted.Render(runewidth.FillRight("Current document", half)) + sep + muted.Render("Compare with"),
	}

	end := min(v.scrollY+v.visibleLines(), len(v.diff.Lines))
	for i := v.scrollY; i < end; i++ {
		l := v.diff.Lines[i]
		leftColor, rightColor := v.Theme.Foreground, v.Theme.Foreground
		if l.Hunk >= 0 {
			leftColor, rightColor = v.Theme.Error, v.Theme.Success
		}
		selected := l.Hunk >= 0 && l.Hunk == v.hunk
		parts = append(parts, v.cell(l.LeftNo, l.Left, half, leftColor, selected)+sep+
			v.cell(l.RightNo, l.Right, half, rightColor, selected))
	}
	if len(v.diff.Lines) == 0 {
		parts = append(parts, muted.Render("Paste (v) or open (o) text to compare"))
	}
	for len(parts) < v.visibleLines()+2 {
		parts = append(parts, "")
	}

	help := "n/N: Change │ r: Revert │ s: Swap │ c: Copy left │ S: Sort │ v: Paste │ o: Open │ a: Apply │ Esc: Close"
	footer := lipgloss.NewStyle().Foreground(v.Theme.Muted).Italic(true).Render(runewidth.Truncate(help, inner, "…"))
	if v.status != "" {
		footer = lipgloss.NewStyle().Foreground(v.statusColor).Render(runewidth.Truncate(v.status, inner, "…"))
	}
	parts = append(parts, footer)

	innerHeight := max(v.Height-v.style.GetVerticalFrameSize(), 4)
	return v.style.
		Width(width).
		Height(innerHeight).
		MaxHeight(innerHeight + v.style.GetVerticalFrameSize()).
		Render(strings.Join(parts, "\n"))
}
