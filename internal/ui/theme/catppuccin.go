package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "dark",
		Dark: true,

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater
		Accent:        lipgloss.Color("#cba6f7"), // Mauve

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// JSON colors
		JSONKey:     lipgloss.Color("#89b4fa"), // Blue
		JSONString:  lipgloss.Color("#a6e3a1"), // Green
		JSONNumber:  lipgloss.Color("#fab387"), // Peach
		JSONBoolean: lipgloss.Color("#cba6f7"), // Mauve
		JSONNull:    lipgloss.Color("#6c7086"), // Overlay0
		JSONBracket: lipgloss.Color("#9399b2"), // Overlay2
		JSONPreview: lipgloss.Color("#7f849c"), // Overlay1

		ChromaStyle: "catppuccin-mocha",
	}
}

// CatppuccinLatteTheme returns the Catppuccin Latte theme
func CatppuccinLatteTheme() Theme {
	return Theme{
		Name: "light",
		Dark: false,

		// Background colors
		Background: lipgloss.Color("#eff1f5"), // Base
		Foreground: lipgloss.Color("#4c4f69"), // Text
		Muted:      lipgloss.Color("#9ca0b0"), // Overlay0

		// UI elements
		Border:        lipgloss.Color("#bcc0cc"), // Surface1
		BorderFocused: lipgloss.Color("#1e66f5"), // Blue
		Selection:     lipgloss.Color("#ccd0da"), // Surface0
		Cursor:        lipgloss.Color("#dc8a78"), // Rosewater
		Accent:        lipgloss.Color("#8839ef"), // Mauve

		// Status colors
		Success: lipgloss.Color("#40a02b"), // Green
		Warning: lipgloss.Color("#df8e1d"), // Yellow
		Error:   lipgloss.Color("#d20f39"), // Red
		Info:    lipgloss.Color("#04a5e5"), // Sky

		// JSON colors
		JSONKey:     lipgloss.Color("#1e66f5"), // Blue
		JSONString:  lipgloss.Color("#40a02b"), // Green
		JSONNumber:  lipgloss.Color("#fe640b"), // Peach
		JSONBoolean: lipgloss.Color("#8839ef"), // Mauve
		JSONNull:    lipgloss.Color("#9ca0b0"), // Overlay0
		JSONBracket: lipgloss.Color("#7c7f93"), // Overlay2
		JSONPreview: lipgloss.Color("#8c8fa1"), // Overlay1

		ChromaStyle: "catppuccin-latte",
	}
}
