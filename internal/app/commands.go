package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/jsonstudio/internal/ai"
	"github.com/rebelice/jsonstudio/internal/config"
	"github.com/rebelice/jsonstudio/internal/history"
	"github.com/rebelice/jsonstudio/internal/jsondoc"
	"github.com/rebelice/jsonstudio/internal/jsontree"
	"github.com/rebelice/jsonstudio/internal/models"
	"github.com/rebelice/jsonstudio/internal/schema"
	"github.com/rebelice/jsonstudio/internal/secrets"
	"github.com/rebelice/jsonstudio/internal/ui/components"
)

const (
	defaultAITimeout = 60 * time.Second
	defaultAutosave  = 2 * time.Second
	missingKeyNotice = "Add a Gemini API key to use the AI actions."
)

// Document transforms

func (a *App) formatDocument() tea.Cmd {
	if !a.doc.Format(a.config.Editor.TabSize) {
		return a.toast.Show("Nothing to format: the JSON is invalid", components.ToastWarning)
	}
	a.setText(a.doc.Text)
	return a.scheduleAutosave()
}

func (a *App) minifyDocument() tea.Cmd {
	if !a.doc.Minify() {
		return a.toast.Show("Nothing to minify: the JSON is invalid", components.ToastWarning)
	}
	a.setText(a.doc.Text)
	return a.scheduleAutosave()
}

func (a *App) sortDocument() tea.Cmd {
	if err := a.doc.Sort(a.config.Editor.TabSize); err != nil {
		return a.toast.Show("Cannot sort: "+err.Error(), components.ToastWarning)
	}
	a.setText(a.doc.Text)
	return tea.Batch(a.scheduleAutosave(), a.toast.Show("Keys sorted", components.ToastSuccess))
}

// clearDocument empties the editor. With confirm_clear set the first
// press only asks for a second one.
func (a *App) clearDocument() tea.Cmd {
	if a.doc.IsEmpty() {
		return nil
	}
	if a.config.General.ConfirmClear && !a.confirmClear {
		a.confirmClear = true
		return a.toast.Show("Press Ctrl+L again to clear the editor", components.ToastWarning)
	}
	a.confirmClear = false
	a.setText("")
	return a.toast.Show("Editor cleared", components.ToastInfo)
}

func (a *App) copyDocument() tea.Cmd {
	if a.doc.IsEmpty() {
		return a.toast.Show("Nothing to copy", components.ToastWarning)
	}
	text := a.doc.Text
	cb := a.clipboard
	return func() tea.Msg {
		return documentCopiedMsg{err: cb.WriteAll(text)}
	}
}

func (a *App) localSchema() tea.Cmd {
	if !a.doc.Valid() {
		return a.toast.Show("Schema needs valid JSON", components.ToastWarning)
	}
	out := schema.Infer(a.doc.Value, schema.DefaultRootName).TypeScript()
	a.state.Overlay = models.ResultOverlay
	a.result.SetContent("TypeScript Interfaces", out, "typescript", false)
	return nil
}

// openDiff compares the document with whatever the right pane held
// last time
func (a *App) openDiff() {
	a.diff.Indent = a.config.Editor.TabSize
	a.diff.Open(a.doc.Text)
	a.state.Overlay = models.DiffOverlay
}

// convert renders the document in format. Formats with a local encoder
// never reach the AI.
func (a *App) convert(format string) tea.Cmd {
	target, err := jsondoc.ParseTarget(format)
	if err != nil {
		text := a.doc.Text
		language := strings.ToLower(strings.TrimSpace(format))
		return a.runAI(ai.ActionConvert, "Convert to "+format, language, false,
			func(ctx context.Context, c *ai.Client) (string, error) { return c.Convert(ctx, text, format) })
	}

	if !a.doc.Valid() {
		return a.toast.Show("Fix the JSON before converting", components.ToastWarning)
	}
	out, err := jsondoc.Convert(a.doc.Value, target)
	if err != nil {
		a.ShowError("Convert Failed", err.Error())
		return nil
	}
	a.state.Overlay = models.ResultOverlay
	a.result.SetContent("Convert to "+strings.ToUpper(string(target)), out, string(target), target == jsondoc.TargetJSON)
	return nil
}

// repairDocument fixes invalid JSON. Relaxed syntax is repaired locally
// and only what HJSON cannot read goes to the AI.
func (a *App) repairDocument() tea.Cmd {
	if a.doc.IsEmpty() {
		return a.toast.Show("Nothing to fix: the editor is empty", components.ToastWarning)
	}
	if a.doc.Valid() {
		return a.toast.Show("Already valid JSON", components.ToastInfo)
	}

	text := a.doc.Text
	if fixed, err := jsondoc.FromHJSON(text); err == nil {
		a.logger.Debug("repaired document locally")
		a.state.Overlay = models.ResultOverlay
		a.result.SetContent("Fix JSON (local)", fixed, "json", true)
		return nil
	}
	return a.runAI(ai.ActionRepair, "Fix JSON", "json", true,
		func(ctx context.Context, c *ai.Client) (string, error) { return c.Repair(ctx, text) })
}

// AI

func (a *App) aiClient() *ai.Client {
	opts := []ai.Option{ai.WithModel(a.config.AI.Model)}
	if a.config.AI.BaseURL != "" {
		opts = append(opts, ai.WithBaseURL(a.config.AI.BaseURL))
	}
	opts = append(opts, a.aiOptions...)
	return ai.NewClient(a.apiKey, opts...)
}

// runAI shows the result pane with a spinner and runs call in the
// background. Without an API key the settings dialog opens instead. Only
// data generation may start from an empty editor.
func (a *App) runAI(action ai.Action, title, language string, applyable bool, call func(context.Context, *ai.Client) (string, error)) tea.Cmd {
	if a.apiKey == "" {
		return a.openSettings(missingKeyNotice)
	}
	if a.doc.IsEmpty() && action != ai.ActionGenerate {
		return a.toast.Show("Nothing to send: the editor is empty", components.ToastWarning)
	}

	client := a.aiClient()
	base := a.ctx
	logger := a.logger
	timeout := time.Duration(a.config.AI.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultAITimeout
	}

	a.state.Overlay = models.ResultOverlay
	return tea.Batch(a.result.StartLoading(title), func() tea.Msg {
		ctx, cancel := context.WithTimeout(base, timeout)
		defer cancel()

		start := time.Now()
		text, err := call(ctx, client)
		logger.Debug("ai request finished", "action", action, "elapsed", time.Since(start), "err", err)

		return AIResultMsg{
			Action:    action,
			Title:     title,
			Text:      text,
			Language:  language,
			Applyable: applyable,
			Err:       err,
		}
	})
}

func (a *App) handleAIResult(msg AIResultMsg) tea.Cmd {
	if msg.Err != nil {
		a.logger.Error("ai request failed", "action", msg.Action, "err", msg.Err)
		if errors.Is(msg.Err, ai.ErrMissingAPIKey) {
			return a.openSettings(missingKeyNotice)
		}
	}

	// The pane was closed while the request was running
	if a.state.Overlay != models.ResultOverlay {
		if msg.Err != nil {
			return a.toast.Show(msg.Title+" failed", components.ToastError)
		}
		return a.toast.Show(msg.Title+" finished; result discarded", components.ToastInfo)
	}

	if msg.Err != nil {
		a.result.SetError(msg.Title, msg.Err)
		return nil
	}
	a.result.SetContent(msg.Title, msg.Text, msg.Language, msg.Applyable)
	return nil
}

func (a *App) handlePrompt(msg components.PromptSubmitMsg) tea.Cmd {
	value := strings.TrimSpace(msg.Value)
	switch msg.Purpose {
	case components.PromptQuestion:
		text := a.doc.Text
		return a.runAI(ai.ActionQuery, "Ask: "+value, "markdown", false,
			func(ctx context.Context, c *ai.Client) (string, error) { return c.Query(ctx, text, value) })
	case components.PromptGenerate:
		return a.runAI(ai.ActionGenerate, "Generate Data", "json", true,
			func(ctx context.Context, c *ai.Client) (string, error) { return c.GenerateData(ctx, value) })
	case components.PromptConvert:
		return a.convert(value)
	case components.PromptOpenFile:
		return loadFile(expandHome(value), false)
	case components.PromptDiffFile:
		return loadFile(expandHome(value), true)
	case components.PromptBookmark:
		return a.addBookmark(value, a.pendingBookmark)
	}
	return nil
}

// Settings

func (a *App) resolveKey() string {
	key, err := a.secrets.Resolve()
	if err != nil {
		a.logger.Warn("could not read API key", "err", err)
	}
	return key
}

func (a *App) openSettings(notice string) tea.Cmd {
	a.state.Overlay = models.SettingsOverlay
	return a.settings.Open(secrets.Mask(a.apiKey), a.config.AI.Model, a.config.UI.Theme, notice)
}

func (a *App) applySettings(msg components.SaveSettingsMsg) tea.Cmd {
	if msg.KeyChanged {
		if err := a.secrets.Save(msg.APIKey); err != nil {
			a.ShowError("Keyring Error", err.Error())
			return nil
		}
		a.apiKey = a.resolveKey()
	}

	model := msg.Model
	if model == "" {
		model = ai.AutoModel
	}
	a.config.AI.Model = model
	a.setTheme(msg.Theme)

	return tea.Batch(a.saveConfig(), a.toast.Show("Settings saved", components.ToastSuccess))
}

func (a *App) saveConfig() tea.Cmd {
	if a.configPath == "" {
		return nil
	}
	cfg := *a.config
	path := a.configPath
	return func() tea.Msg {
		return configSavedMsg{err: config.Save(&cfg, path)}
	}
}

// Files

func loadFile(path string, compare bool) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return FileLoadedMsg{Path: path, Err: err, Compare: compare}
		}
		text, err := jsondoc.Import(path, data)
		return FileLoadedMsg{Path: path, Text: text, Size: int64(len(data)), Err: err, Compare: compare}
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func (a *App) handleFileLoaded(msg FileLoadedMsg) tea.Cmd {
	if msg.Compare {
		a.state.Overlay = models.DiffOverlay
	}
	if msg.Err != nil {
		a.ShowError("Open Failed", fmt.Sprintf("Could not open %s\n\n%v", msg.Path, msg.Err))
		return nil
	}
	if msg.Compare {
		a.diff.SetRight(msg.Text)
		a.logger.Debug("compare file loaded", "path", msg.Path, "size", msg.Size)
		return nil
	}

	text := msg.Text
	if a.config.Editor.FormatOnLoad {
		text = jsondoc.Format(text, a.config.Editor.TabSize)
	}
	a.state.FilePath = msg.Path
	a.setText(text)
	a.logger.Info("document opened", "path", msg.Path, "size", msg.Size)

	if a.recent != nil {
		if err := a.recent.Add(msg.Path, msg.Size); err != nil {
			a.logger.Warn("failed to record recent file", "path", msg.Path, "err", err)
		}
	}
	return tea.Batch(a.scheduleAutosave(), a.toast.Show("Opened "+filepath.Base(msg.Path), components.ToastSuccess))
}

// saveFile writes the document back to its file. YAML, TOML and HJSON
// files are written in their own format.
func (a *App) saveFile() tea.Cmd {
	path := a.state.FilePath
	if path == "" {
		return a.toast.Show("No file to save to; open one with Ctrl+O", components.ToastWarning)
	}

	text := a.doc.Text
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if target, err := jsondoc.ParseTarget(ext); err == nil && target != jsondoc.TargetJSON {
		if !a.doc.Valid() {
			return a.toast.Show("Invalid JSON cannot be saved as "+string(target), components.ToastWarning)
		}
		out, err := jsondoc.Convert(a.doc.Value, target)
		if err != nil {
			a.ShowError("Save Failed", err.Error())
			return nil
		}
		text = out
	}

	return func() tea.Msg {
		return FileSavedMsg{Path: path, Err: os.WriteFile(path, []byte(text), 0644)}
	}
}

// History

func (a *App) historyEnabled() bool {
	return a.history != nil && a.config.History.Enabled
}

func (a *App) restoreLatest() string {
	if a.history == nil {
		return ""
	}
	snap, err := a.history.Latest()
	if err != nil {
		a.logger.Warn("failed to restore last document", "err", err)
		return ""
	}
	if snap == nil {
		return ""
	}
	a.logger.Debug("restored snapshot", "id", snap.ID, "saved_at", snap.SavedAt)
	return snap.Content
}

// scheduleAutosave fires an autosaveMsg for the current version. Later
// edits make it stale.
func (a *App) scheduleAutosave() tea.Cmd {
	if !a.historyEnabled() {
		return nil
	}
	version := a.doc.Version
	delay := time.Duration(a.config.History.AutosaveSeconds) * time.Second
	if delay <= 0 {
		delay = defaultAutosave
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return autosaveMsg{version: version}
	})
}

func (a *App) snapshot() history.Snapshot {
	return history.Snapshot{
		Source:  a.state.FilePath,
		Content: a.doc.Text,
		Valid:   a.doc.Valid(),
	}
}

func (a *App) saveSnapshot() tea.Cmd {
	if !a.historyEnabled() || a.doc.IsEmpty() {
		return nil
	}
	store := a.history
	snap := a.snapshot()
	keep := a.config.History.MaxEntries
	return func() tea.Msg {
		return snapshotSavedMsg{err: writeSnapshot(store, snap, keep)}
	}
}

func writeSnapshot(store *history.Store, snap history.Snapshot, keep int) error {
	if _, err := store.Add(snap); err != nil {
		return err
	}
	if keep > 0 {
		if _, err := store.Prune(keep); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes a final snapshot of the document. Call it after the
// program exits.
func (a *App) Flush() error {
	if !a.historyEnabled() || a.doc.IsEmpty() {
		return nil
	}
	return writeSnapshot(a.history, a.snapshot(), a.config.History.MaxEntries)
}

// Bookmarks

func (a *App) openBookmarks() tea.Cmd {
	if a.bookmarks == nil {
		return a.toast.Show("Bookmarks are unavailable", components.ToastWarning)
	}
	a.bookmarkDlg.SetBookmarks(a.bookmarks.GetAll())
	a.bookmarkDlg.OpenList()
	a.state.Overlay = models.BookmarksOverlay
	return nil
}

func (a *App) promptBookmark() tea.Cmd {
	if a.bookmarks == nil {
		return a.toast.Show("Bookmarks are unavailable", components.ToastWarning)
	}
	p := a.tree.CurrentPath()
	if p.IsRoot() {
		return a.toast.Show("Select a node to bookmark", components.ToastWarning)
	}
	a.pendingBookmark = p
	return a.openPrompt(components.PromptBookmark, "bookmark name", p.String())
}

func (a *App) addBookmark(name string, p jsontree.Path) tea.Cmd {
	if a.bookmarks == nil {
		return nil
	}
	if _, err := a.bookmarks.Add(name, "", p.String(), a.state.FilePath, nil); err != nil {
		return a.toast.Show(err.Error(), components.ToastError)
	}
	return a.toast.Show("Bookmarked "+p.String(), components.ToastSuccess)
}

func (a *App) saveBookmark(msg components.SaveBookmarkMsg) tea.Cmd {
	if a.bookmarks == nil {
		return nil
	}

	var err error
	if msg.ID == "" {
		_, err = a.bookmarks.Add(msg.Name, msg.Description, msg.Path, a.state.FilePath, msg.Tags)
	} else {
		err = a.bookmarks.Update(msg.ID, msg.Name, msg.Description, msg.Path, msg.Tags)
	}
	a.bookmarkDlg.SetBookmarks(a.bookmarks.GetAll())
	if err != nil {
		return a.toast.Show(err.Error(), components.ToastError)
	}
	return a.toast.Show("Bookmark saved", components.ToastSuccess)
}

func (a *App) deleteBookmark(id string) tea.Cmd {
	if a.bookmarks == nil {
		return nil
	}
	err := a.bookmarks.Delete(id)
	a.bookmarkDlg.SetBookmarks(a.bookmarks.GetAll())
	if err != nil {
		return a.toast.Show(err.Error(), components.ToastError)
	}
	return a.toast.Show("Bookmark deleted", components.ToastInfo)
}

func (a *App) exportBookmarks(format string) tea.Cmd {
	if a.bookmarks == nil {
		return nil
	}

	var (
		path string
		err  error
	)
	switch format {
	case "json":
		path, err = a.bookmarks.ExportToJSON()
	default:
		path, err = a.bookmarks.ExportToCSV()
	}
	if err != nil {
		a.ShowError("Export Failed", err.Error())
		return nil
	}
	return a.toast.Show("Exported to "+path, components.ToastSuccess)
}

// jumpToBookmark expands the tree down to the bookmarked node
func (a *App) jumpToBookmark(bm models.Bookmark) tea.Cmd {
	a.closeOverlay()

	if err := a.tree.Reveal(jsontree.Path(bm.Path)); err != nil {
		return a.toast.Show(fmt.Sprintf("%s: %v", bm.Name, err), components.ToastError)
	}
	if err := a.bookmarks.RecordUsage(bm.ID); err != nil {
		a.logger.Warn("failed to record bookmark usage", "id", bm.ID, "err", err)
	}

	if a.state.ViewMode == models.CodeView {
		a.state.ViewMode = models.SplitView
		a.updateLayout()
	}
	a.focus(models.TreePanel)
	return nil
}
