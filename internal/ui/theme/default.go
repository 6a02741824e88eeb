package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the 256-color dark theme for terminals without
// true color
func DefaultTheme() Theme {
	return Theme{
		Name: "default",
		Dark: true,

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("244"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),
		Accent:        lipgloss.Color("75"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// JSON colors
		JSONKey:     lipgloss.Color("117"),
		JSONString:  lipgloss.Color("180"),
		JSONNumber:  lipgloss.Color("150"),
		JSONBoolean: lipgloss.Color("75"),
		JSONNull:    lipgloss.Color("244"),
		JSONBracket: lipgloss.Color("248"),
		JSONPreview: lipgloss.Color("244"),

		ChromaStyle: "monokai",
	}
}
