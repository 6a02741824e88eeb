package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/rebelice/jsonstudio/internal/ai"
	"github.com/rebelice/jsonstudio/internal/bookmarks"
	"github.com/rebelice/jsonstudio/internal/config"
	"github.com/rebelice/jsonstudio/internal/history"
	"github.com/rebelice/jsonstudio/internal/jsondoc"
	"github.com/rebelice/jsonstudio/internal/jsontree"
	"github.com/rebelice/jsonstudio/internal/logging"
	"github.com/rebelice/jsonstudio/internal/models"
	"github.com/rebelice/jsonstudio/internal/recent"
	"github.com/rebelice/jsonstudio/internal/secrets"
	"github.com/rebelice/jsonstudio/internal/ui/components"
	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// Options holds what the app is started with. A nil store turns the
// matching feature off.
type Options struct {
	Config     *config.Config
	ConfigPath string // where settings changes are written, "" to skip
	FilePath   string // file Text was read from
	Text       string

	Secrets   *secrets.Store
	History   *history.Store
	Recent    *recent.Manager
	Bookmarks *bookmarks.Manager

	Clipboard components.Clipboard
	AIOptions []ai.Option
}

// App is the main application model
type App struct {
	ctx    context.Context
	logger *log.Logger

	state      models.AppState
	config     *config.Config
	configPath string
	theme      theme.Theme

	// Document and its two views
	doc       *jsondoc.Document
	editor    *components.JSONEditor
	tree      *components.JSONTreeView
	treePanel components.Panel
	clipboard components.Clipboard

	// Overlays
	result       *components.ResultPane
	diff         *components.DiffView
	prompt       *components.PromptInput
	bookmarkDlg  *components.BookmarksDialog
	settings     *components.SettingsDialog
	toast        *components.Toast
	showError    bool
	errorOverlay *components.ErrorOverlay

	// Services
	secrets   *secrets.Store
	apiKey    string
	aiOptions []ai.Option
	history   *history.Store
	recent    *recent.Manager
	bookmarks *bookmarks.Manager

	pendingBookmark jsontree.Path
	confirmClear    bool
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// FileLoadedMsg carries a file read from disk
type FileLoadedMsg struct {
	Path string
	Text string
	Size int64
	Err  error

	Compare bool // load into the compare view instead of the editor
}

// FileSavedMsg reports a write of the document to disk
type FileSavedMsg struct {
	Path string
	Err  error
}

// AIResultMsg carries the outcome of an AI request
type AIResultMsg struct {
	Action    ai.Action
	Title     string
	Text      string
	Language  string
	Applyable bool
	Err       error
}

// autosaveMsg fires once the editor has been idle for the autosave delay
type autosaveMsg struct {
	version int
}

type snapshotSavedMsg struct {
	err error
}

type documentCopiedMsg struct {
	err error
}

type configSavedMsg struct {
	err error
}

// New creates a new App instance
func New(ctx context.Context, opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}

	state := models.NewAppState()
	state.ViewMode = models.ParseViewMode(cfg.UI.ViewMode)
	if cfg.UI.SplitRatio > 0 && cfg.UI.SplitRatio < 100 {
		state.SplitRatio = float64(cfg.UI.SplitRatio) / 100
	}
	state.FilePath = opts.FilePath

	th := theme.GetTheme(cfg.UI.Theme)

	cb := opts.Clipboard
	if cb == nil {
		cb = components.SystemClipboard{}
	}
	copier := components.NewPathCopier(cb, time.Duration(cfg.UI.CopyAckMillis)*time.Millisecond)

	store := opts.Secrets
	if store == nil {
		store = secrets.NewStore()
	}

	editor := components.NewJSONEditor(th)
	editor.TabSize = cfg.Editor.TabSize
	editor.ShowLineNumbers = cfg.Editor.ShowLineNumbers
	editor.Highlight = cfg.UI.SyntaxHighlight

	reader, _ := cb.(components.ClipboardReader)
	diff := components.NewDiffView(th, reader)
	diff.Indent = cfg.Editor.TabSize

	a := &App{
		ctx:          ctx,
		logger:       logging.FromContext(ctx),
		state:        state,
		config:       cfg,
		configPath:   opts.ConfigPath,
		theme:        th,
		doc:          jsondoc.New(""),
		editor:       editor,
		tree:         components.NewJSONTreeView(th, copier),
		treePanel:    components.Panel{Title: "Tree", Theme: th},
		clipboard:    cb,
		result:       components.NewResultPane(th, cb),
		diff:         diff,
		prompt:       components.NewPromptInput(th),
		bookmarkDlg:  components.NewBookmarksDialog(th),
		settings:     components.NewSettingsDialog(th),
		toast:        components.NewToast(th, time.Duration(cfg.UI.ToastMillis)*time.Millisecond),
		errorOverlay: components.NewErrorOverlay(th),
		secrets:      store,
		aiOptions:    opts.AIOptions,
		history:      opts.History,
		recent:       opts.Recent,
		bookmarks:    opts.Bookmarks,
	}
	a.apiKey = a.resolveKey()

	text := opts.Text
	if text == "" && opts.FilePath == "" && cfg.General.RestoreLastDocument {
		text = a.restoreLatest()
	}
	if cfg.Editor.FormatOnLoad {
		text = jsondoc.Format(text, cfg.Editor.TabSize)
	}
	a.setText(text)

	if state.ViewMode == models.TreeView {
		a.focus(models.TreePanel)
	} else {
		a.focus(models.EditorPanel)
	}
	a.updateLayout()

	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Document returns the current document
func (a *App) Document() *jsondoc.Document { return a.doc }

// State returns a copy of the application state
func (a *App) State() models.AppState { return a.state }

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case components.EditorChangedMsg:
		a.onTextChanged(msg.Text)
		return a, a.scheduleAutosave()

	case components.PathCopiedMsg, components.CopyAckExpiredMsg:
		var cmd tea.Cmd
		a.tree, cmd = a.tree.Update(msg)
		return a, cmd

	case components.CopyFailedMsg:
		a.logger.Warn("copy path failed", "path", msg.Path, "err", msg.Err)
		return a, a.toast.Show("Copy failed: "+msg.Err.Error(), components.ToastError)

	case components.ToastExpiredMsg:
		a.toast.Update(msg)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.result, cmd = a.result.Update(msg)
		return a, cmd

	case AIResultMsg:
		return a, a.handleAIResult(msg)

	case components.ApplyResultMsg:
		notice := "Result applied"
		if a.state.Overlay == models.DiffOverlay {
			notice = "Changes applied to the document"
		}
		a.closeOverlay()
		a.setText(msg.Content)
		a.focus(models.EditorPanel)
		return a, tea.Batch(a.scheduleAutosave(), a.toast.Show(notice, components.ToastSuccess))

	case components.ResultCopiedMsg:
		if msg.Err != nil {
			return a, a.toast.Show("Copy failed: "+msg.Err.Error(), components.ToastError)
		}
		return a, a.toast.Show("Result copied", components.ToastSuccess)

	case components.ClosePromptMsg:
		a.closeOverlay()
		// Cancelling the compare file prompt goes back to the compare view
		if a.prompt.Purpose == components.PromptDiffFile {
			a.state.Overlay = models.DiffOverlay
		}
		return a, nil

	case components.CloseResultMsg, components.CloseDiffMsg,
		components.CloseSettingsMsg, components.CloseBookmarksDialogMsg:
		a.closeOverlay()
		return a, nil

	case components.DiffOpenFileMsg:
		return a, a.openPrompt(components.PromptDiffFile, "path/to/other.json", "")

	case components.PromptSubmitMsg:
		a.closeOverlay()
		return a, a.handlePrompt(msg)

	case components.SaveSettingsMsg:
		a.closeOverlay()
		return a, a.applySettings(msg)

	case components.JumpToBookmarkMsg:
		return a, a.jumpToBookmark(msg.Bookmark)

	case components.SaveBookmarkMsg:
		return a, a.saveBookmark(msg)

	case components.DeleteBookmarkMsg:
		return a, a.deleteBookmark(msg.ID)

	case components.ExportBookmarksMsg:
		return a, a.exportBookmarks(msg.Format)

	case FileLoadedMsg:
		return a, a.handleFileLoaded(msg)

	case FileSavedMsg:
		if msg.Err != nil {
			a.ShowError("Save Failed", msg.Err.Error())
			return a, nil
		}
		a.logger.Info("document saved", "path", msg.Path)
		return a, a.toast.Show("Saved "+msg.Path, components.ToastSuccess)

	case autosaveMsg:
		if msg.version != a.doc.Version {
			return a, nil
		}
		return a, a.saveSnapshot()

	case snapshotSavedMsg:
		if msg.err != nil {
			a.logger.Error("autosave failed", "err", msg.err)
		}
		return a, nil

	case documentCopiedMsg:
		if msg.err != nil {
			return a, a.toast.Show("Copy failed: "+msg.err.Error(), components.ToastError)
		}
		return a, a.toast.Show("Document copied", components.ToastSuccess)

	case configSavedMsg:
		if msg.err != nil {
			a.logger.Error("failed to save config", "path", a.configPath, "err", msg.err)
			return a, a.toast.Show("Could not save settings", components.ToastWarning)
		}
		return a, nil
	}

	// Cursor blinks and other component messages go to the open prompt
	if a.state.Overlay == models.PromptOverlay {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKey routes a key to the error overlay, the open overlay, the
// global bindings or the focused pane, in that order
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.showError {
		if key == "esc" || key == "enter" {
			a.DismissError()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.state.Overlay {
	case models.HelpOverlay:
		switch key {
		case "esc", "f1", "?", "q":
			a.closeOverlay()
		}
		return a, nil
	case models.SettingsOverlay:
		a.settings, cmd = a.settings.Update(msg)
		return a, cmd
	case models.ResultOverlay:
		a.result, cmd = a.result.Update(msg)
		return a, cmd
	case models.PromptOverlay:
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	case models.BookmarksOverlay:
		a.bookmarkDlg, cmd = a.bookmarkDlg.Update(msg)
		return a, cmd
	case models.DiffOverlay:
		a.diff, cmd = a.diff.Update(msg)
		return a, cmd
	}

	// The tree's search box takes every key while open
	if a.state.FocusedPanel == models.TreePanel && a.tree.Capturing() {
		a.tree, cmd = a.tree.Update(msg)
		return a, cmd
	}

	if key != "ctrl+l" {
		a.confirmClear = false
	}
	if cmd, ok := a.handleGlobalKey(key); ok {
		return a, cmd
	}

	if a.state.FocusedPanel == models.TreePanel {
		return a, a.handleTreeKey(msg)
	}
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

func (a *App) handleGlobalKey(key string) (tea.Cmd, bool) {
	switch key {
	case "ctrl+q":
		return tea.Quit, true
	case "f1":
		a.state.Overlay = models.HelpOverlay
	case "tab":
		if a.state.ViewMode == models.SplitView {
			if a.state.FocusedPanel == models.EditorPanel {
				a.focus(models.TreePanel)
			} else {
				a.focus(models.EditorPanel)
			}
		}
	case "alt+v", "f4":
		a.cycleViewMode()
	case "ctrl+t":
		a.setTheme(theme.Toggle(a.config.UI.Theme))
		return tea.Batch(a.saveConfig(), a.toast.Show("Theme: "+a.theme.Name, components.ToastInfo)), true
	case "f2":
		return a.openSettings(""), true
	case "ctrl+o":
		return a.openPrompt(components.PromptOpenFile, "path/to/file.json", a.state.FilePath), true
	case "ctrl+s":
		return a.saveFile(), true
	case "alt+d":
		a.openDiff()
	case "ctrl+b":
		return a.openBookmarks(), true
	case "ctrl+f":
		return a.formatDocument(), true
	case "ctrl+n":
		return a.minifyDocument(), true
	case "alt+s":
		return a.sortDocument(), true
	case "ctrl+l":
		return a.clearDocument(), true
	case "ctrl+y":
		return a.copyDocument(), true
	case "alt+t":
		return a.localSchema(), true
	case "alt+f":
		return a.repairDocument(), true
	case "alt+g":
		text := a.doc.Text
		return a.runAI(ai.ActionSchema, "Generate Schema", "typescript", false,
			func(ctx context.Context, c *ai.Client) (string, error) { return c.Schema(ctx, text) }), true
	case "alt+e":
		text := a.doc.Text
		return a.runAI(ai.ActionExplain, "Explain", "markdown", false,
			func(ctx context.Context, c *ai.Client) (string, error) { return c.Explain(ctx, text) }), true
	case "alt+a":
		return a.openPrompt(components.PromptQuestion, "What does this data describe?", ""), true
	case "ctrl+k":
		return a.openPrompt(components.PromptGenerate, `e.g. "Create 10 users with realistic names and emails"`, ""), true
	case "alt+c":
		cmd := a.openPrompt(components.PromptConvert, "yaml, toml, hjson, xml, csv...", "")
		a.prompt.Hint = "yaml/toml/hjson/json convert locally"
		return cmd, true
	default:
		return nil, false
	}
	return nil, true
}

func (a *App) handleTreeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		a.state.Overlay = models.HelpOverlay
		return nil
	case "b":
		return a.promptBookmark()
	}
	var cmd tea.Cmd
	a.tree, cmd = a.tree.Update(msg)
	return cmd
}

// setText replaces the editor text and rebuilds the tree
func (a *App) setText(text string) {
	a.editor.SetContent(text)
	a.onTextChanged(text)
}

// onTextChanged re-parses the document. The tree is rebuilt with a fresh
// expansion state on every change.
func (a *App) onTextChanged(text string) {
	a.doc.SetText(text)
	a.tree.SetDocument(a.doc, a.config.Tree.InitialDepth, a.config.Tree.PageSize)
	a.updateEditorStatus()
}

func (a *App) updateEditorStatus() {
	switch {
	case a.doc.IsEmpty():
		a.editor.Status = ""
		a.editor.StatusColor = ""
	case a.doc.Valid():
		a.editor.Status = "✓ Valid JSON"
		a.editor.StatusColor = a.theme.Success
	default:
		a.editor.Status = "✗ " + a.doc.Err.Error()
		a.editor.StatusColor = a.theme.Error
	}
}

func (a *App) focus(p models.PanelType) {
	a.state.FocusedPanel = p
	a.editor.Focused = p == models.EditorPanel
	a.treePanel.Focused = p == models.TreePanel
}

// cycleViewMode moves to the next layout and focuses a visible pane
func (a *App) cycleViewMode() {
	a.state.ViewMode = a.state.ViewMode.Next()
	switch a.state.ViewMode {
	case models.CodeView:
		a.focus(models.EditorPanel)
	case models.TreeView:
		a.focus(models.TreePanel)
	}
	a.updateLayout()
}

func (a *App) openPrompt(purpose components.PromptPurpose, placeholder, value string) tea.Cmd {
	a.state.Overlay = models.PromptOverlay
	return a.prompt.Open(purpose, placeholder, value)
}

func (a *App) closeOverlay() {
	a.state.Overlay = models.NoOverlay
}

func (a *App) setTheme(name string) {
	th := theme.GetTheme(name)
	a.config.UI.Theme = name
	a.theme = th

	a.editor.SetTheme(th)
	a.tree.Theme = th
	a.treePanel.Theme = th
	a.result.SetTheme(th)
	a.diff.SetTheme(th)
	a.prompt.Theme = th
	a.bookmarkDlg.Theme = th
	a.settings.Theme = th
	a.toast.Theme = th
	a.errorOverlay.Theme = th
	a.updateEditorStatus()
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.logger.Error(title, "message", message)
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
