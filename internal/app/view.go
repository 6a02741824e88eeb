package app

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/jsonstudio/internal/models"
	"github.com/rebelice/jsonstudio/internal/ui/help"
)

const (
	editorZone = "pane-editor"
	treeZone   = "pane-tree"
)

// View implements tea.Model
func (a *App) View() string {
	return zone.Scan(a.render())
}

func (a *App) render() string {
	// Error overlay is drawn on top of everything
	if a.showError {
		return a.place(a.errorOverlay.View())
	}

	switch a.state.Overlay {
	case models.HelpOverlay:
		return help.Render(a.state.Width, a.state.Height, a.theme)
	case models.SettingsOverlay:
		return a.place(a.settings.View())
	case models.ResultOverlay:
		return a.place(a.result.View())
	case models.PromptOverlay:
		return a.place(a.prompt.View())
	case models.BookmarksOverlay:
		return a.place(a.bookmarkDlg.View())
	case models.DiffOverlay:
		return a.place(a.diff.View())
	}

	return a.renderNormalView()
}

func (a *App) place(content string) string {
	return lipgloss.Place(
		a.state.Width, a.state.Height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// renderNormalView renders the panes between the top and bottom bars
func (a *App) renderNormalView() string {
	fileName := "untitled"
	if a.state.FilePath != "" {
		fileName = filepath.Base(a.state.FilePath)
	}
	aiState := "AI: off"
	if a.apiKey != "" {
		aiState = "AI: on"
	}
	topBarContent := a.formatStatusBar(
		"jsonstudio · "+fileName,
		fmt.Sprintf("%s · %s · %s", a.state.ViewMode, a.theme.Name, aiState),
	)
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(topBarContent)

	var bottomBarContent string
	if a.toast.Visible() {
		bottomBarContent = a.toast.View(a.state.Width - 4)
	} else {
		bottomBarContent = a.formatStatusBar(a.keyHints(), a.documentSummary())
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(bottomBarContent)

	var panes []string
	if a.editor.Width > 0 {
		panes = append(panes, zone.Mark(editorZone, a.editor.View()))
	}
	if a.treePanel.Width > 0 {
		a.treePanel.Title = a.treeTitle()
		a.treePanel.Content = a.tree.View()
		panes = append(panes, zone.Mark(treeZone, a.treePanel.View()))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
		bottomBar,
	)
}

func (a *App) treeTitle() string {
	if p := a.tree.CurrentPath(); !p.IsRoot() {
		return "Tree " + p.String()
	}
	return "Tree"
}

func (a *App) keyHints() string {
	if a.state.FocusedPanel == models.TreePanel {
		return "[y] Copy path | [/] Search | [b] Bookmark | [tab] Editor | [F1] Help"
	}
	return "[ctrl+f] Format | [alt+f] Fix | [tab] Tree | [F1] Help | [ctrl+q] Quit"
}

func (a *App) documentSummary() string {
	switch {
	case a.doc.IsEmpty():
		return "empty"
	case a.doc.Valid():
		return fmt.Sprintf("valid · %s", formatSize(a.doc.Size()))
	default:
		return fmt.Sprintf("invalid · %s", formatSize(a.doc.Size()))
	}
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// updateLayout sizes the panes and dialogs for the window and view mode
func (a *App) updateLayout() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// Reserve the top and bottom bars
	contentHeight := a.state.Height - 2
	if contentHeight < 5 {
		contentHeight = 5
	}

	var editorWidth, treeWidth int
	switch a.state.ViewMode {
	case models.CodeView:
		editorWidth = a.state.Width
	case models.TreeView:
		treeWidth = a.state.Width
	default:
		editorWidth = int(float64(a.state.Width) * a.state.SplitRatio)
		if editorWidth < 20 {
			editorWidth = 20
		}
		treeWidth = a.state.Width - editorWidth
		if treeWidth < 20 {
			treeWidth = 20
			editorWidth = a.state.Width - treeWidth
		}
	}

	a.editor.Width = editorWidth
	a.editor.Height = contentHeight
	a.treePanel.Width = treeWidth
	a.treePanel.Height = contentHeight
	a.tree.Width, a.tree.Height = a.treePanel.InnerSize()

	dialogWidth := min(a.state.Width-4, 100)
	a.result.Width = dialogWidth
	a.result.Height = max(a.state.Height-4, 6)
	a.diff.Width = max(a.state.Width-2, 40)
	a.diff.Height = max(a.state.Height-2, 8)
	a.prompt.Width = min(a.state.Width-4, 70)
	a.bookmarkDlg.Width = min(a.state.Width-6, 80)
	a.bookmarkDlg.Height = max(min(a.state.Height-6, 24), 8)
	a.settings.Width = min(a.state.Width-6, 70)
	a.errorOverlay.Width = min(a.state.Width-4, 60)
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := runewidth.StringWidth(left)
	rightLen := runewidth.StringWidth(right)

	// If content is too wide, truncate the left side
	if leftLen+rightLen+1 > availableWidth {
		if availableWidth > rightLen+1 {
			return runewidth.Truncate(left, availableWidth-rightLen-1, "…") + " " + right
		}
		return runewidth.Truncate(left, availableWidth, "…")
	}

	spacing := availableWidth - leftLen - rightLen
	return left + lipgloss.NewStyle().Width(spacing).Render("") + right
}

// handleMouse focuses the pane under a click and forwards tree events
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showError || a.state.Overlay != models.NoOverlay {
		return nil
	}

	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
	if a.editor.Width > 0 && zone.Get(editorZone).InBounds(msg) {
		if press {
			a.focus(models.EditorPanel)
		}
		return nil
	}
	if a.treePanel.Width > 0 && zone.Get(treeZone).InBounds(msg) {
		if press {
			a.focus(models.TreePanel)
		}
		var cmd tea.Cmd
		a.tree, cmd = a.tree.Update(msg)
		return cmd
	}
	return nil
}
