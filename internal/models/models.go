package models

import "time"

// AppState holds the application state
type AppState struct {
	Width        int
	Height       int
	SplitRatio   float64 // share of the width given to the editor in split view
	FocusedPanel PanelType
	ViewMode     ViewMode
	Overlay      OverlayType
	FilePath     string // file the document was loaded from, if any
}

// PanelType identifies which panel is focused
type PanelType int

const (
	EditorPanel PanelType = iota
	TreePanel
)

// ViewMode identifies the main layout
type ViewMode int

const (
	SplitView ViewMode = iota
	CodeView
	TreeView
)

// String returns the name used in config files and the status bar
func (v ViewMode) String() string {
	switch v {
	case CodeView:
		return "code"
	case TreeView:
		return "tree"
	default:
		return "split"
	}
}

// Next cycles split -> code -> tree -> split
func (v ViewMode) Next() ViewMode {
	return (v + 1) % 3
}

// ParseViewMode maps a config value to a ViewMode, defaulting to split
func ParseViewMode(s string) ViewMode {
	switch s {
	case "code":
		return CodeView
	case "tree":
		return TreeView
	default:
		return SplitView
	}
}

// OverlayType identifies the modal drawn over the layout
type OverlayType int

const (
	NoOverlay OverlayType = iota
	HelpOverlay
	SettingsOverlay
	ResultOverlay
	PromptOverlay
	BookmarksOverlay
	DiffOverlay
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:        80,
		Height:       24,
		SplitRatio:   0.5,
		FocusedPanel: EditorPanel,
		ViewMode:     SplitView,
	}
}

// Bookmark is a saved node path inside a document
type Bookmark struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Path        string    `yaml:"path" json:"path"`
	File        string    `yaml:"file" json:"file"`
	Tags        []string  `yaml:"tags" json:"tags"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time `yaml:"last_used" json:"last_used"`
	UsageCount  int       `yaml:"usage_count" json:"usage_count"`
}

// RecentFile is a file opened in the editor
type RecentFile struct {
	ID         string    `yaml:"id"`
	Path       string    `yaml:"path"`
	Size       int64     `yaml:"size"`
	LastOpened time.Time `yaml:"last_opened"`
	OpenCount  int       `yaml:"open_count"`
	CreatedAt  time.Time `yaml:"created_at"`
}
