package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section groups related key bindings under a heading
type Section struct {
	Title    string
	Bindings []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"F1, ?", "Toggle help"},
		{"Ctrl+C, Ctrl+Q", "Quit application"},
		{"Tab", "Switch focus between editor and tree"},
		{"Alt+V, F4", "Cycle split / code / tree view"},
		{"Ctrl+T", "Toggle dark / light theme"},
		{"F2", "Settings (API key, model, theme)"},
		{"Ctrl+O", "Open file"},
		{"Ctrl+S", "Save to current file"},
		{"Ctrl+B", "Bookmarks"},
		{"Esc", "Close overlay"},
	}
}

// GetDocumentKeys returns document key bindings
func GetDocumentKeys() []KeyBinding {
	return []KeyBinding{
		{"Ctrl+F", "Format (pretty print)"},
		{"Ctrl+N", "Minify"},
		{"Alt+S", "Sort keys recursively"},
		{"Ctrl+L", "Clear editor"},
		{"Ctrl+Y", "Copy document"},
		{"Alt+T", "TypeScript interfaces (local)"},
		{"Alt+D", "Compare with other JSON"},
	}
}

// GetCompareKeys returns compare view key bindings
func GetCompareKeys() []KeyBinding {
	return []KeyBinding{
		{"n/], N/[", "Next / previous change"},
		{"r", "Revert change in right pane"},
		{"s", "Swap panes"},
		{"c", "Copy left pane to right"},
		{"S", "Sort keys & format both panes"},
		{"v, paste", "Paste into right pane"},
		{"o", "Load file into right pane"},
		{"a", "Apply right pane to document"},
	}
}

// GetTreeKeys returns tree key bindings
func GetTreeKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Move cursor"},
		{"→/l, Space", "Expand / collapse"},
		{"←/h", "Collapse or go to parent"},
		{"Enter", "Toggle node or show more"},
		{"m", "Show more children"},
		{"y, click key", "Copy path"},
		{"b", "Bookmark path"},
		{"/", "Search (s: n: b: o: a: nl: p: !)"},
		{"n / N", "Next / previous match"},
		{"g / G", "Top / bottom"},
	}
}

// GetAIKeys returns AI assistant key bindings
func GetAIKeys() []KeyBinding {
	return []KeyBinding{
		{"Alt+F", "Repair invalid JSON"},
		{"Alt+G", "Generate JSON Schema"},
		{"Alt+E", "Explain document"},
		{"Alt+A", "Ask a question"},
		{"Alt+C", "Convert to another format"},
		{"Ctrl+K", "Generate data from a description"},
		{"y / a", "Copy / apply result"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Document", GetDocumentKeys()},
		{"Tree", GetTreeKeys()},
		{"Compare", GetCompareKeys()},
		{"AI Assistant", GetAIKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("jsonstudio - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Bindings {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(th.Muted).Render("Press F1 or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		MaxHeight(height)

	return boxStyle.Render(b.String())
}
