package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/models"
	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// BookmarksMode represents the dialog mode
type BookmarksMode int

const (
	BookmarksModeList BookmarksMode = iota
	BookmarksModeAdd
	BookmarksModeEdit
)

const (
	fieldName = iota
	fieldDescription
	fieldPath
	fieldTags
	fieldCount
)

// JumpToBookmarkMsg is sent when a bookmark should be revealed in the tree
type JumpToBookmarkMsg struct {
	Bookmark models.Bookmark
}

// SaveBookmarkMsg is sent when the add/edit form is submitted. ID is empty
// for a new bookmark.
type SaveBookmarkMsg struct {
	ID          string
	Name        string
	Description string
	Path        string
	Tags        []string
}

// DeleteBookmarkMsg is sent when a bookmark should be removed
type DeleteBookmarkMsg struct {
	ID string
}

// ExportBookmarksMsg asks the app to export every bookmark
type ExportBookmarksMsg struct {
	Format string // "csv" or "json"
}

// CloseBookmarksDialogMsg is sent when dialog should close
type CloseBookmarksDialogMsg struct{}

// BookmarksDialog lists saved paths and edits them
type BookmarksDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	// State
	mode      BookmarksMode
	bookmarks []models.Bookmark
	selected  int
	offset    int

	// Add/Edit state
	editID       string
	inputs       [fieldCount]string
	currentField int
}

// NewBookmarksDialog creates a new bookmarks dialog
func NewBookmarksDialog(th theme.Theme) *BookmarksDialog {
	return &BookmarksDialog{
		Width:  80,
		Height: 24,
		Theme:  th,
		mode:   BookmarksModeList,
	}
}

// SetBookmarks updates the bookmark list
func (bd *BookmarksDialog) SetBookmarks(bookmarks []models.Bookmark) {
	bd.bookmarks = bookmarks
	if bd.selected >= len(bookmarks) {
		bd.selected = 0
		bd.offset = 0
	}
}

// Mode returns the current dialog mode
func (bd *BookmarksDialog) Mode() BookmarksMode { return bd.mode }

// OpenList shows the list
func (bd *BookmarksDialog) OpenList() {
	bd.mode = BookmarksModeList
}

// OpenAdd shows an empty form with the path pre-filled
func (bd *BookmarksDialog) OpenAdd(path string) {
	bd.mode = BookmarksModeAdd
	bd.editID = ""
	bd.inputs = [fieldCount]string{}
	bd.inputs[fieldPath] = path
	bd.currentField = fieldName
}

// Update handles keyboard input
func (bd *BookmarksDialog) Update(msg tea.KeyMsg) (*BookmarksDialog, tea.Cmd) {
	switch bd.mode {
	case BookmarksModeList:
		return bd.handleListMode(msg)
	case BookmarksModeAdd, BookmarksModeEdit:
		return bd.handleEditMode(msg)
	}
	return bd, nil
}

func (bd *BookmarksDialog) visibleHeight() int {
	h := (bd.Height - 8) / 2
	if h < 1 {
		h = 1
	}
	return h
}

func (bd *BookmarksDialog) handleListMode(msg tea.KeyMsg) (*BookmarksDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return bd, func() tea.Msg {
			return CloseBookmarksDialogMsg{}
		}
	case "up", "k":
		if bd.selected > 0 {
			bd.selected--
			if bd.selected < bd.offset {
				bd.offset = bd.selected
			}
		}
	case "down", "j":
		if bd.selected < len(bd.bookmarks)-1 {
			bd.selected++
			if bd.selected >= bd.offset+bd.visibleHeight() {
				bd.offset = bd.selected - bd.visibleHeight() + 1
			}
		}
	case "enter":
		if bd.selected < len(bd.bookmarks) {
			bm := bd.bookmarks[bd.selected]
			return bd, func() tea.Msg {
				return JumpToBookmarkMsg{Bookmark: bm}
			}
		}
	case "a", "n":
		bd.OpenAdd("")
	case "e":
		if bd.selected < len(bd.bookmarks) {
			bm := bd.bookmarks[bd.selected]
			bd.mode = BookmarksModeEdit
			bd.editID = bm.ID
			bd.inputs[fieldName] = bm.Name
			bd.inputs[fieldDescription] = bm.Description
			bd.inputs[fieldPath] = bm.Path
			bd.inputs[fieldTags] = strings.Join(bm.Tags, ", ")
			bd.currentField = fieldName
		}
	case "d", "x":
		if bd.selected < len(bd.bookmarks) {
			id := bd.bookmarks[bd.selected].ID
			return bd, func() tea.Msg {
				return DeleteBookmarkMsg{ID: id}
			}
		}
	case "c":
		return bd, func() tea.Msg { return ExportBookmarksMsg{Format: "csv"} }
	case "J":
		return bd, func() tea.Msg { return ExportBookmarksMsg{Format: "json"} }
	}
	return bd, nil
}

func (bd *BookmarksDialog) handleEditMode(msg tea.KeyMsg) (*BookmarksDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		bd.mode = BookmarksModeList
	case "tab", "down":
		bd.currentField = (bd.currentField + 1) % fieldCount
	case "shift+tab", "up":
		bd.currentField = (bd.currentField - 1 + fieldCount) % fieldCount
	case "backspace":
		bd.deleteChar()
	case "enter":
		if bd.currentField < fieldTags {
			bd.currentField++
			return bd, nil
		}
		name, description, path, tags := bd.GetEditData()
		id := bd.editID
		bd.mode = BookmarksModeList
		return bd, func() tea.Msg {
			return SaveBookmarkMsg{ID: id, Name: name, Description: description, Path: path, Tags: tags}
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			bd.inputs[bd.currentField] += string(msg.Runes)
		case tea.KeySpace:
			bd.inputs[bd.currentField] += " "
		}
	}
	return bd, nil
}

func (bd *BookmarksDialog) deleteChar() {
	runes := []rune(bd.inputs[bd.currentField])
	if len(runes) > 0 {
		bd.inputs[bd.currentField] = string(runes[:len(runes)-1])
	}
}

// View renders the dialog
func (bd *BookmarksDialog) View() string {
	switch bd.mode {
	case BookmarksModeAdd, BookmarksModeEdit:
		return bd.renderEdit()
	default:
		return bd.renderList()
	}
}

func (bd *BookmarksDialog) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(bd.Theme.Background).
		Background(bd.Theme.Info).
		Padding(0, 1).
		Bold(true)
}

func (bd *BookmarksDialog) containerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(bd.Theme.BorderFocused).
		Width(bd.Width).
		Height(bd.Height).
		Padding(1)
}

func (bd *BookmarksDialog) renderList() string {
	var sections []string

	sections = append(sections, bd.titleStyle().Render("Bookmarks"))

	instrStyle := lipgloss.NewStyle().
		Foreground(bd.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Jump  a: Add  e: Edit  d: Delete  c/J: Export  Esc: Close"))

	if len(bd.bookmarks) == 0 {
		sections = append(sections, "\nNo bookmarks yet. Press 'b' on a tree node or 'a' here to add one.")
	} else {
		sections = append(sections, "")
		visibleStart := bd.offset
		visibleEnd := bd.offset + bd.visibleHeight()
		if visibleEnd > len(bd.bookmarks) {
			visibleEnd = len(bd.bookmarks)
		}

		width := bd.Width - 6
		if width < 20 {
			width = 20
		}
		pathStyle := lipgloss.NewStyle().Foreground(bd.Theme.JSONKey)

		for i := visibleStart; i < visibleEnd; i++ {
			bm := bd.bookmarks[i]

			name := runewidth.Truncate(bm.Name, width/2, "...")
			path := runewidth.Truncate(bm.Path, width-runewidth.StringWidth(name)-2, "...")
			line := name + "  " + pathStyle.Render(path)

			detail := bm.Description
			if len(bm.Tags) > 0 {
				detail += fmt.Sprintf(" [%s]", strings.Join(bm.Tags, ", "))
			}
			if detail != "" {
				line += "\n  " + runewidth.Truncate(detail, width-2, "...")
			}

			style := lipgloss.NewStyle().Padding(0, 1)
			if i == bd.selected {
				style = style.Background(bd.Theme.Selection).Foreground(bd.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	return bd.containerStyle().Render(strings.Join(sections, "\n"))
}

func (bd *BookmarksDialog) renderEdit() string {
	var sections []string

	title := "Add Bookmark"
	if bd.mode == BookmarksModeEdit {
		title = "Edit Bookmark"
	}
	sections = append(sections, bd.titleStyle().Render(title))

	instrStyle := lipgloss.NewStyle().
		Foreground(bd.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("Tab: Next field  Enter: Next/Save  Esc: Cancel"))

	sections = append(sections, "")
	sections = append(sections, bd.renderField("Name:", fieldName))
	sections = append(sections, bd.renderField("Description:", fieldDescription))
	sections = append(sections, bd.renderField("Path:", fieldPath))
	sections = append(sections, bd.renderField("Tags (comma separated):", fieldTags))

	return bd.containerStyle().Render(strings.Join(sections, "\n"))
}

func (bd *BookmarksDialog) renderField(label string, field int) string {
	value := bd.inputs[field]
	style := lipgloss.NewStyle().Padding(0, 1)
	if bd.currentField == field {
		style = style.Background(bd.Theme.Selection).Foreground(bd.Theme.Foreground)
		value += "_"
	}
	return style.Render(fmt.Sprintf("%s %s", label, value))
}

// GetEditData returns the current edit data
func (bd *BookmarksDialog) GetEditData() (name, description, path string, tags []string) {
	name = strings.TrimSpace(bd.inputs[fieldName])
	description = strings.TrimSpace(bd.inputs[fieldDescription])
	path = strings.TrimSpace(bd.inputs[fieldPath])

	for _, part := range strings.Split(bd.inputs[fieldTags], ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return
}
