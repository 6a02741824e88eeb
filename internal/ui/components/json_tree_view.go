package components

// JSONTreeView renders a parsed document as a collapsible tree.
//
// Features:
//   - Keyboard navigation (↑↓/jk, g/G, pgup/pgdown)
//   - Expand/collapse with space, enter, →/l; ← collapses or jumps to the parent
//   - "m" reveals the next page of a long container
//   - "y" and clicks on a key label or bullet copy the node path
//   - "/" fuzzy search over keys and paths, n/N to cycle through matches
//   - Viewport scrolling with a position indicator
//
// Usage:
//
//	tree := components.NewJSONTreeView(theme, components.NewPathCopier(nil, 0))
//	tree.Width = 60
//	tree.Height = 20
//	tree.SetDocument(doc, -1, 50)
//
//	// In your Update method:
//	tree, cmd = tree.Update(msg)
//
//	// In your View method:
//	content := zone.Scan(tree.View())

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/jsondoc"
	"github.com/rebelice/jsonstudio/internal/jsontree"
	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

const (
	emptyTreeTitle   = "Ready to Visualize"
	invalidTreeTitle = "Invalid JSON"
	wheelStep        = 3
)

type treeStatus int

const (
	treeEmpty treeStatus = iota
	treeInvalid
	treeReady
)

// JSONTreeView is the interactive tree over a jsontree.Model
type JSONTreeView struct {
	Width        int         // Display width
	Height       int         // Display height
	Theme        theme.Theme // Color theme
	CursorIndex  int         // Current cursor position in the row list
	ScrollOffset int         // Vertical scroll offset for viewport
	ZonePrefix   string      // Prefix of the mouse zone IDs

	model  *jsontree.Model
	rows   []jsontree.Row
	status treeStatus
	err    error
	copier *PathCopier

	filterInput textinput.Model
	filtering   bool
	query       string
	matches     []jsontree.Node
	matchIndex  int
}

// NewJSONTreeView creates an empty tree view
func NewJSONTreeView(th theme.Theme, copier *PathCopier) *JSONTreeView {
	if copier == nil {
		copier = NewPathCopier(nil, 0)
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "key, s:string, p:path, !negate"
	ti.CharLimit = 256

	return &JSONTreeView{
		Width:       40,
		Height:      20,
		Theme:       th,
		ZonePrefix:  "tree",
		copier:      copier,
		filterInput: ti,
	}
}

// SetDocument rebuilds the tree for doc with a fresh state table. A
// negative initialDepth picks the depth from the document size.
func (tv *JSONTreeView) SetDocument(doc *jsondoc.Document, initialDepth, pageSize int) {
	tv.CursorIndex = 0
	tv.ScrollOffset = 0
	tv.clearSearch()
	tv.copier.Reset()
	tv.model = nil
	tv.rows = nil
	tv.err = nil

	switch {
	case doc == nil || doc.IsEmpty():
		tv.status = treeEmpty
	case !doc.Valid():
		tv.status = treeInvalid
		tv.err = doc.Err
	default:
		if initialDepth < 0 {
			initialDepth = jsontree.DefaultDepth(doc.Size())
		}
		tv.status = treeReady
		tv.model = jsontree.NewModel(doc.Value, jsontree.NewStates(initialDepth, pageSize))
		tv.refresh()
	}
}

// Model returns the tree model, nil unless a valid document is loaded
func (tv *JSONTreeView) Model() *jsontree.Model { return tv.model }

// Rows returns the rows of the last render pass
func (tv *JSONTreeView) Rows() []jsontree.Row { return tv.rows }

// Capturing reports whether the view is consuming text input
func (tv *JSONTreeView) Capturing() bool { return tv.filtering }

// CurrentRow returns the row under the cursor
func (tv *JSONTreeView) CurrentRow() (jsontree.Row, bool) {
	if tv.CursorIndex < 0 || tv.CursorIndex >= len(tv.rows) {
		return jsontree.Row{}, false
	}
	return tv.rows[tv.CursorIndex], true
}

// CurrentPath returns the path of the node under the cursor
func (tv *JSONTreeView) CurrentPath() jsontree.Path {
	row, ok := tv.CurrentRow()
	if !ok {
		return jsontree.Root
	}
	return row.Path
}

// Reveal expands the ancestors of p and moves the cursor onto it
func (tv *JSONTreeView) Reveal(p jsontree.Path) error {
	if tv.model == nil {
		return fmt.Errorf("no document loaded")
	}
	if err := tv.model.Reveal(p); err != nil {
		return err
	}
	tv.refresh()
	tv.focusPath(p)
	return nil
}

// revealNode reveals a search match and moves the cursor onto its row.
// Matches come from a full walk, so they always exist in the document.
func (tv *JSONTreeView) revealNode(n jsontree.Node) {
	if err := tv.model.RevealNode(n); err != nil {
		return
	}
	tv.refresh()

	// Duplicate keys share a path; the match is the k-th node with it
	k := 0
	jsontree.Walk(tv.model.Root(), func(c jsontree.Node) bool {
		if c.Ordinal >= n.Ordinal {
			return false
		}
		if c.Path == n.Path {
			k++
		}
		return true
	})
	seen := 0
	for i, row := range tv.rows {
		if row.Path != n.Path || row.Kind == jsontree.RowClose || row.Kind == jsontree.RowShowMore {
			continue
		}
		tv.CursorIndex = i
		if seen == k {
			break
		}
		seen++
	}
}

// Update handles keyboard, mouse and copy messages
func (tv *JSONTreeView) Update(msg tea.Msg) (*JSONTreeView, tea.Cmd) {
	switch msg := msg.(type) {
	case PathCopiedMsg, CopyAckExpiredMsg:
		return tv, tv.copier.Update(msg)
	case tea.MouseMsg:
		if tv.model == nil {
			return tv, nil
		}
		return tv, tv.handleMouse(msg)
	case tea.KeyMsg:
		if tv.model == nil {
			return tv, nil
		}
		if tv.filtering {
			return tv, tv.handleFilterKey(msg)
		}
		return tv, tv.handleKey(msg)
	}
	return tv, nil
}

func (tv *JSONTreeView) handleKey(msg tea.KeyMsg) tea.Cmd {
	row, ok := tv.CurrentRow()
	if !ok {
		return nil
	}

	switch msg.String() {
	case "up", "k":
		tv.moveCursor(-1)

	case "down", "j":
		tv.moveCursor(1)

	case "pgup", "ctrl+u":
		tv.moveCursor(-tv.viewHeight())

	case "pgdown", "ctrl+d":
		tv.moveCursor(tv.viewHeight())

	case "g", "home":
		tv.CursorIndex = 0
		tv.ScrollOffset = 0

	case "G", "end":
		tv.CursorIndex = len(tv.rows) - 1

	case "right", "l", " ", "enter":
		if row.Kind == jsontree.RowShowMore {
			tv.showMore(row)
			return nil
		}
		tv.toggle(tv.CursorIndex)

	case "left", "h":
		tv.collapseOrParent(tv.CursorIndex)

	case "m":
		if i, ok := tv.containerOf(tv.CursorIndex); ok {
			tv.showMore(tv.rows[i])
		}

	case "y":
		if row.Copyable() {
			return tv.copier.Copy(row.Path)
		}

	case "/":
		tv.filtering = true
		tv.filterInput.SetValue("")
		tv.filterInput.Focus()
		return textinput.Blink

	case "n":
		tv.nextMatch(1)

	case "N":
		tv.nextMatch(-1)

	case "esc":
		tv.clearSearch()
	}

	return nil
}

func (tv *JSONTreeView) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		tv.filtering = false
		tv.filterInput.Blur()
		return nil
	case "enter":
		tv.filtering = false
		tv.filterInput.Blur()
		tv.search(tv.filterInput.Value())
		return nil
	}

	var cmd tea.Cmd
	tv.filterInput, cmd = tv.filterInput.Update(msg)
	return cmd
}

func (tv *JSONTreeView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		tv.moveCursor(-wheelStep)
		return nil
	case tea.MouseButtonWheelDown:
		tv.moveCursor(wheelStep)
		return nil
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return nil
	}

	start, end := tv.visibleRange()
	// Labels and show-more sit inside row zones, so they are checked first
	for i := start; i < end; i++ {
		if zone.Get(tv.zoneID("label", i)).InBounds(msg) {
			return tv.ClickLabel(i)
		}
		if zone.Get(tv.zoneID("more", i)).InBounds(msg) {
			tv.ClickShowMore(i)
			return nil
		}
	}
	for i := start; i < end; i++ {
		if zone.Get(tv.zoneID("row", i)).InBounds(msg) {
			tv.ClickRow(i)
			return nil
		}
	}
	return nil
}

// ClickLabel handles a click on the key label or bullet of row i. It
// copies the path and leaves the expansion state alone.
func (tv *JSONTreeView) ClickLabel(i int) tea.Cmd {
	if i < 0 || i >= len(tv.rows) {
		return nil
	}
	tv.CursorIndex = i
	row := tv.rows[i]
	if !row.Copyable() {
		return nil
	}
	return tv.copier.Copy(row.Path)
}

// ClickShowMore handles a click on the pagination affordance of row i
func (tv *JSONTreeView) ClickShowMore(i int) {
	if i < 0 || i >= len(tv.rows) || tv.rows[i].Kind != jsontree.RowShowMore {
		return
	}
	tv.CursorIndex = i
	tv.showMore(tv.rows[i])
}

// ClickRow handles a click anywhere else on row i
func (tv *JSONTreeView) ClickRow(i int) {
	if i < 0 || i >= len(tv.rows) {
		return
	}
	tv.CursorIndex = i
	row := tv.rows[i]
	if row.Kind == jsontree.RowShowMore {
		tv.showMore(row)
		return
	}
	tv.toggle(i)
}

// toggle flips row i. Rows above it are unaffected, so the cursor keeps
// its index.
func (tv *JSONTreeView) toggle(i int) {
	if !tv.rows[i].Toggleable {
		return
	}
	tv.model.Toggle(tv.rows[i])
	tv.refresh()
	tv.CursorIndex = i
	tv.clampCursor()
}

func (tv *JSONTreeView) collapseOrParent(i int) {
	row := tv.rows[i]
	switch row.Kind {
	case jsontree.RowOpen, jsontree.RowClose:
		open := tv.openRowOf(i)
		tv.model.Collapse(tv.rows[open])
		tv.refresh()
		tv.CursorIndex = open
		tv.clampCursor()
	default:
		if parent, ok := tv.parentOf(i); ok {
			tv.CursorIndex = parent
		}
	}
}

// openRowOf returns the RowOpen index of the container whose row is at i
func (tv *JSONTreeView) openRowOf(i int) int {
	row := tv.rows[i]
	if row.Kind != jsontree.RowClose {
		return i
	}
	for j := i - 1; j >= 0; j-- {
		if r := tv.rows[j]; r.Kind == jsontree.RowOpen && r.Depth == row.Depth && r.Path == row.Path {
			return j
		}
	}
	return i
}

// parentOf returns the RowOpen index of the container holding row i. It
// scans the rendered rows rather than the path text, which may not parse.
func (tv *JSONTreeView) parentOf(i int) (int, bool) {
	depth := tv.rows[i].Depth
	for j := i - 1; j >= 0; j-- {
		if r := tv.rows[j]; r.Kind == jsontree.RowOpen && r.Depth == depth-1 {
			return j, true
		}
	}
	return 0, false
}

// containerOf returns the RowOpen index of the container a "show more"
// step from row i applies to
func (tv *JSONTreeView) containerOf(i int) (int, bool) {
	switch tv.rows[i].Kind {
	case jsontree.RowOpen, jsontree.RowClose:
		return tv.openRowOf(i), true
	}
	return tv.parentOf(i)
}

func (tv *JSONTreeView) showMore(row jsontree.Row) {
	tv.model.ShowMore(row)
	tv.refresh()
}

func (tv *JSONTreeView) search(raw string) {
	tv.query = raw
	tv.matches = nil
	tv.matchIndex = 0
	if strings.TrimSpace(raw) == "" {
		return
	}

	tv.matches = FilterNodes(tv.model.Root(), ParseSearchQuery(raw))
	if len(tv.matches) > 0 {
		tv.revealNode(tv.matches[0])
	}
}

func (tv *JSONTreeView) nextMatch(step int) {
	if len(tv.matches) == 0 {
		return
	}
	tv.matchIndex = (tv.matchIndex + step + len(tv.matches)) % len(tv.matches)
	tv.revealNode(tv.matches[tv.matchIndex])
}

func (tv *JSONTreeView) clearSearch() {
	tv.filtering = false
	tv.filterInput.Blur()
	tv.query = ""
	tv.matches = nil
	tv.matchIndex = 0
}

// refresh re-runs the render pass and keeps the cursor in range
func (tv *JSONTreeView) refresh() {
	if tv.model == nil {
		tv.rows = nil
		return
	}
	tv.rows = tv.model.Rows()
	tv.clampCursor()
}

func (tv *JSONTreeView) clampCursor() {
	if tv.CursorIndex >= len(tv.rows) {
		tv.CursorIndex = len(tv.rows) - 1
	}
	if tv.CursorIndex < 0 {
		tv.CursorIndex = 0
	}
}

func (tv *JSONTreeView) moveCursor(delta int) {
	tv.CursorIndex += delta
	tv.clampCursor()
}

// focusPath moves the cursor onto the first row of the node at p
func (tv *JSONTreeView) focusPath(p jsontree.Path) {
	for i, row := range tv.rows {
		if row.Path == p && row.Kind != jsontree.RowClose && row.Kind != jsontree.RowShowMore {
			tv.CursorIndex = i
			return
		}
	}
}

// viewHeight is the number of rows that fit between the borders and the
// footer line
func (tv *JSONTreeView) viewHeight() int {
	h := tv.Height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (tv *JSONTreeView) visibleRange() (int, int) {
	start := tv.ScrollOffset
	end := start + tv.viewHeight()
	if end > len(tv.rows) {
		end = len(tv.rows)
	}
	if start > end {
		start = end
	}
	return start, end
}

func (tv *JSONTreeView) zoneID(kind string, i int) string {
	return fmt.Sprintf("%s-%s-%d", tv.ZonePrefix, kind, i)
}

// View renders the tree as a string
func (tv *JSONTreeView) View() string {
	switch tv.status {
	case treeEmpty:
		return tv.placeholder(emptyTreeTitle, "Paste or type JSON in the editor", tv.Theme.Muted)
	case treeInvalid:
		detail := ""
		if tv.err != nil {
			detail = tv.err.Error()
		}
		return tv.placeholder(invalidTreeTitle, detail, tv.Theme.Error)
	}
	if len(tv.rows) == 0 {
		return tv.placeholder(emptyTreeTitle, "", tv.Theme.Muted)
	}

	tv.clampCursor()
	viewHeight := tv.viewHeight()
	tv.adjustScrollOffset(len(tv.rows), viewHeight)

	start, end := tv.visibleRange()
	lines := make([]string, 0, viewHeight+1)
	for i := start; i < end; i++ {
		lines = append(lines, tv.renderRow(i, tv.rows[i], i == tv.CursorIndex))
	}

	// Fill remaining space if needed
	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	lines = append(lines, tv.footer(start, end))
	return strings.Join(lines, "\n")
}

// renderRow renders a single row with per-kind colors
func (tv *JSONTreeView) renderRow(i int, row jsontree.Row, selected bool) string {
	maxWidth := tv.Width - 2
	if maxWidth < 1 {
		maxWidth = 1
	}

	var plain strings.Builder
	var styled strings.Builder

	indent := strings.Repeat("  ", row.Depth)
	plain.WriteString(indent)
	styled.WriteString(indent)

	if row.Kind == jsontree.RowShowMore {
		text := runewidth.Truncate(row.Text, maxWidth-runewidth.StringWidth(indent), "…")
		more := lipgloss.NewStyle().Foreground(tv.Theme.Info).Italic(true).Render(text)
		styled.WriteString(zone.Mark(tv.zoneID("more", i), more))
		return tv.finishRow(i, styled.String(), selected, maxWidth)
	}

	if row.Kind != jsontree.RowClose {
		switch {
		case row.Toggleable && row.Expanded:
			plain.WriteString("▾ ")
			styled.WriteString(tv.muted("▾ "))
		case row.Toggleable:
			plain.WriteString("▸ ")
			styled.WriteString(tv.muted("▸ "))
		}

		if label, text := tv.renderLabel(row); label != "" {
			plain.WriteString(text)
			styled.WriteString(zone.Mark(tv.zoneID("label", i), label))
		}
	}

	trailing := ""
	if row.Trailing {
		trailing = ","
	}

	bracket := lipgloss.NewStyle().Foreground(tv.Theme.JSONBracket)
	avail := maxWidth - runewidth.StringWidth(plain.String()) - len(trailing)

	switch row.Kind {
	case jsontree.RowOpen:
		styled.WriteString(bracket.Render(row.Open()))
	case jsontree.RowClose:
		styled.WriteString(bracket.Render(row.Close() + trailing))
	case jsontree.RowEmpty:
		styled.WriteString(bracket.Render(row.Text) + trailing)
	case jsontree.RowCollapsed:
		text := truncateText(row.Text, avail)
		styled.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.JSONPreview).Render(text) + trailing)
	default:
		text := truncateText(row.Text, avail)
		styled.WriteString(lipgloss.NewStyle().Foreground(tv.kindColor(row.Value.Kind())).Render(text) + trailing)
	}

	return tv.finishRow(i, styled.String(), selected, maxWidth)
}

// renderLabel returns the styled and plain forms of the row label
func (tv *JSONTreeView) renderLabel(row jsontree.Row) (string, string) {
	var text string
	var style lipgloss.Style

	switch row.Label {
	case jsontree.LabelKey:
		text = row.Name + ": "
		style = lipgloss.NewStyle().Foreground(tv.Theme.JSONKey)
	case jsontree.LabelBullet:
		text = "• "
		style = lipgloss.NewStyle().Foreground(tv.Theme.Muted)
	default:
		return "", ""
	}

	if tv.copier.Acknowledged(row.Path) {
		ack := lipgloss.NewStyle().Foreground(tv.Theme.Success).Bold(true)
		return style.Render(strings.TrimSuffix(text, " ")) + ack.Render(" ✓ copied") + " ", text + "✓ copied "
	}
	return style.Render(text), text
}

func (tv *JSONTreeView) finishRow(i int, content string, selected bool, maxWidth int) string {
	style := lipgloss.NewStyle().
		Width(maxWidth).
		MaxWidth(maxWidth)
	if selected {
		style = style.Background(tv.Theme.Selection).Bold(true)
	}
	return zone.Mark(tv.zoneID("row", i), style.Render(content))
}

func (tv *JSONTreeView) kindColor(k jsontree.Kind) lipgloss.Color {
	switch k {
	case jsontree.KindString:
		return tv.Theme.JSONString
	case jsontree.KindNumber:
		return tv.Theme.JSONNumber
	case jsontree.KindBool:
		return tv.Theme.JSONBoolean
	default:
		return tv.Theme.JSONNull
	}
}

func (tv *JSONTreeView) muted(s string) string {
	return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render(s)
}

func truncateText(text string, width int) string {
	if width < 1 {
		width = 1
	}
	return runewidth.Truncate(text, width, "…")
}

// footer shows the search state on the left and the scroll position on
// the right
func (tv *JSONTreeView) footer(start, end int) string {
	width := tv.Width - 2
	if width < 1 {
		width = 1
	}

	var left string
	switch {
	case tv.filtering:
		tv.filterInput.Width = width - 12
		left = tv.filterInput.View()
	case tv.query != "" && len(tv.matches) == 0:
		left = lipgloss.NewStyle().Foreground(tv.Theme.Warning).Render("/" + tv.query + "  no matches")
	case tv.query != "":
		left = tv.muted(fmt.Sprintf("/%s  %d/%d  n/N", tv.query, tv.matchIndex+1, len(tv.matches)))
	}

	right := ""
	if start > 0 || end < len(tv.rows) {
		arrows := ""
		if start > 0 {
			arrows += "↑"
		}
		if end < len(tv.rows) {
			arrows += "↓"
		}
		right = lipgloss.NewStyle().Foreground(tv.Theme.Info).
			Render(fmt.Sprintf("%s %d/%d", arrows, tv.CursorIndex+1, len(tv.rows)))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(left + strings.Repeat(" ", gap) + right)
}

// adjustScrollOffset adjusts the scroll offset to keep the cursor visible
func (tv *JSONTreeView) adjustScrollOffset(totalRows, viewHeight int) {
	// Ensure cursor is visible in viewport
	if tv.CursorIndex < tv.ScrollOffset {
		tv.ScrollOffset = tv.CursorIndex
	}
	if tv.CursorIndex >= tv.ScrollOffset+viewHeight {
		tv.ScrollOffset = tv.CursorIndex - viewHeight + 1
	}

	// Ensure scroll offset is within bounds
	if tv.ScrollOffset < 0 {
		tv.ScrollOffset = 0
	}
	maxScroll := totalRows - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if tv.ScrollOffset > maxScroll {
		tv.ScrollOffset = maxScroll
	}
}

// placeholder renders a centered title and detail line
func (tv *JSONTreeView) placeholder(title, detail string, color lipgloss.Color) string {
	width := tv.Width - 2
	if width < 1 {
		width = 1
	}
	height := tv.Height - 2
	if height < 1 {
		height = 1
	}

	content := lipgloss.NewStyle().Foreground(color).Bold(true).Render(title)
	if detail != "" {
		content += "\n" + lipgloss.NewStyle().
			Foreground(tv.Theme.Muted).
			Italic(true).
			Width(width).
			Align(lipgloss.Center).
			Render(detail)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
