package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string
	Dark bool

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color
	Accent        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// JSON tree colors
	JSONKey     lipgloss.Color
	JSONString  lipgloss.Color
	JSONNumber  lipgloss.Color
	JSONBoolean lipgloss.Color
	JSONNull    lipgloss.Color
	JSONBracket lipgloss.Color
	JSONPreview lipgloss.Color

	// ChromaStyle names the chroma style used for the highlighted view
	ChromaStyle string
}

// Names lists the selectable themes
var Names = []string{"dark", "light", "default"}

// GetTheme returns a theme by name. "dark" and "light" are the Catppuccin
// Mocha and Latte palettes; unknown names fall back to dark.
func GetTheme(name string) Theme {
	switch name {
	case "light", "catppuccin-latte":
		return CatppuccinLatteTheme()
	case "default":
		return DefaultTheme()
	default:
		return CatppuccinMochaTheme()
	}
}

// Toggle returns the name of the opposite theme, dark <-> light
func Toggle(name string) string {
	if GetTheme(name).Dark {
		return "light"
	}
	return "dark"
}
