package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/rebelice/jsonstudio/internal/ai"
	"github.com/rebelice/jsonstudio/internal/bookmarks"
	"github.com/rebelice/jsonstudio/internal/config"
	"github.com/rebelice/jsonstudio/internal/history"
	"github.com/rebelice/jsonstudio/internal/jsontree"
	"github.com/rebelice/jsonstudio/internal/logging"
	"github.com/rebelice/jsonstudio/internal/models"
	"github.com/rebelice/jsonstudio/internal/recent"
	"github.com/rebelice/jsonstudio/internal/secrets"
	"github.com/rebelice/jsonstudio/internal/ui/components"
)

func init() {
	zone.NewGlobal()
}

type fakeClipboard struct {
	written []string
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.written = append(f.written, text)
	return nil
}

type harness struct {
	app       *App
	clipboard *fakeClipboard
	history   *history.Store
	bookmarks *bookmarks.Manager
	recent    *recent.Manager
}

func newHarness(t *testing.T, text string, mutate ...func(*Options)) *harness {
	t.Helper()
	keyring.MockInit()
	t.Setenv(secrets.EnvAPIKey, "")

	store, err := history.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dir := t.TempDir()
	bm, err := bookmarks.NewManager(dir)
	require.NoError(t, err)
	rm, err := recent.NewManager(dir, 10)
	require.NoError(t, err)

	cb := &fakeClipboard{}
	opts := Options{
		Config:    config.GetDefaults(),
		Text:      text,
		Secrets:   secrets.NewStore(),
		History:   store,
		Recent:    rm,
		Bookmarks: bm,
		Clipboard: cb,
	}
	for _, m := range mutate {
		m(&opts)
	}

	ctx := logging.WithLogger(context.Background(), logging.Discard())
	a := New(ctx, opts)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &harness{app: a, clipboard: cb, history: store, bookmarks: bm, recent: rm}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.app.Update(msg)
	return cmd
}

func ctrl(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func alt(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true} }

func key(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// drain runs cmd and every command it batches. Only use it on commands
// without timers.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNew_ParsesInitialText(t *testing.T) {
	h := newHarness(t, `{"a": [1, 2]}`)

	assert.True(t, h.app.Document().Valid())
	assert.NotEmpty(t, h.app.tree.Rows())
	assert.Equal(t, models.EditorPanel, h.app.State().FocusedPanel)
	assert.Equal(t, "✓ Valid JSON", h.app.editor.Status)
}

func TestEditorChange_RebuildsTree(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)

	cmd := h.send(components.EditorChangedMsg{Text: `[1, 2, 3`})
	assert.NotNil(t, cmd, "an autosave is scheduled")
	assert.False(t, h.app.Document().Valid())
	assert.Nil(t, h.app.tree.Model())
	assert.True(t, strings.HasPrefix(h.app.editor.Status, "✗"))

	h.send(components.EditorChangedMsg{Text: `[1, 2, 3]`})
	require.NotNil(t, h.app.tree.Model())
	assert.Equal(t, jsontree.KindArray, h.app.Document().Value.Kind())
}

func TestDocumentTransforms(t *testing.T) {
	h := newHarness(t, `{"b":1,"a":{"d":2,"c":3}}`)

	h.send(ctrl(tea.KeyCtrlF))
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": {\n    \"d\": 2,\n    \"c\": 3\n  }\n}", h.app.editor.GetContent())

	h.send(ctrl(tea.KeyCtrlN))
	assert.Equal(t, `{"b":1,"a":{"d":2,"c":3}}`, h.app.Document().Text)

	h.send(alt('s'))
	assert.Equal(t, "{\n  \"a\": {\n    \"c\": 3,\n    \"d\": 2\n  },\n  \"b\": 1\n}", h.app.Document().Text)
}

func TestClear_AsksForConfirmation(t *testing.T) {
	h := newHarness(t, `{"a": 1}`, func(o *Options) { o.Config.General.ConfirmClear = true })

	h.send(ctrl(tea.KeyCtrlL))
	assert.False(t, h.app.Document().IsEmpty(), "first press only warns")
	assert.True(t, h.app.toast.Visible())

	h.send(ctrl(tea.KeyCtrlL))
	assert.True(t, h.app.Document().IsEmpty())
}

func TestFocusAndViewModes(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)

	h.send(ctrl(tea.KeyTab))
	assert.Equal(t, models.TreePanel, h.app.State().FocusedPanel)
	assert.True(t, h.app.treePanel.Focused)
	assert.False(t, h.app.editor.Focused)

	h.send(tea.KeyMsg{Type: tea.KeyF4})
	assert.Equal(t, models.CodeView, h.app.State().ViewMode)
	assert.Equal(t, models.EditorPanel, h.app.State().FocusedPanel)
	assert.Equal(t, 0, h.app.treePanel.Width)

	h.send(tea.KeyMsg{Type: tea.KeyF4})
	assert.Equal(t, models.TreeView, h.app.State().ViewMode)
	assert.Equal(t, models.TreePanel, h.app.State().FocusedPanel)
	assert.Equal(t, 0, h.app.editor.Width)
}

func TestTreeKeysDoNotReachEditor(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)
	h.send(ctrl(tea.KeyTab))

	h.send(key("j"))
	assert.Equal(t, `{"a": 1}`, h.app.Document().Text)
	assert.Equal(t, 1, h.app.tree.CursorIndex)
}

func TestThemeToggle(t *testing.T) {
	h := newHarness(t, "")
	before := h.app.config.UI.Theme

	h.send(ctrl(tea.KeyCtrlT))
	assert.NotEqual(t, before, h.app.config.UI.Theme)
	assert.Equal(t, h.app.theme.Name, h.app.editor.Theme.Name)
}

func TestAI_WithoutKeyOpensSettings(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)

	h.send(alt('g'))
	assert.Equal(t, models.SettingsOverlay, h.app.State().Overlay)
	assert.Equal(t, missingKeyNotice, h.app.settings.Notice)
}

func TestRepair_RelaxedSyntaxIsFixedLocally(t *testing.T) {
	h := newHarness(t, "{\n  a: 1 // note\n  b: two\n}")

	h.send(alt('f'))
	require.Equal(t, models.ResultOverlay, h.app.State().Overlay)
	assert.True(t, h.app.result.Applyable)
	assert.Contains(t, h.app.result.Content, `"a": 1`)

	h.send(components.ApplyResultMsg{Content: h.app.result.Content})
	assert.Equal(t, models.NoOverlay, h.app.State().Overlay)
	assert.True(t, h.app.Document().Valid())
}

func TestConvert_LocalTargets(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)

	h.send(components.PromptSubmitMsg{Purpose: components.PromptConvert, Value: "YAML"})
	require.Equal(t, models.ResultOverlay, h.app.State().Overlay)
	assert.Contains(t, h.app.result.Content, "a: 1")
	assert.False(t, h.app.result.Applyable)
}

func TestLocalSchema(t *testing.T) {
	h := newHarness(t, `{"id": 1, "tags": ["x"]}`)

	h.send(alt('t'))
	require.Equal(t, models.ResultOverlay, h.app.State().Overlay)
	assert.Contains(t, h.app.result.Content, "interface Root")
}

func TestAI_ExplainUsesServer(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": "A list of numbers."}}}},
			},
		})
	}))
	defer srv.Close()

	h := newHarness(t, `[1, 2]`, func(o *Options) {
		o.Config.AI.Model = "gemini-test"
		o.AIOptions = []ai.Option{ai.WithBaseURL(srv.URL)}
	})
	t.Setenv(secrets.EnvAPIKey, "secret")
	h.app.apiKey = h.app.resolveKey()

	cmd := h.send(alt('e'))
	require.Equal(t, models.ResultOverlay, h.app.State().Overlay)
	assert.True(t, h.app.result.Loading)

	var result *AIResultMsg
	for _, msg := range drain(cmd) {
		if m, ok := msg.(AIResultMsg); ok {
			result = &m
		}
	}
	require.NotNil(t, result)
	require.NoError(t, result.Err)
	assert.Equal(t, "/models/gemini-test:generateContent", gotPath)

	h.send(*result)
	assert.False(t, h.app.result.Loading)
	assert.Equal(t, "A list of numbers.", h.app.result.Content)
}

func TestAI_GenerateDataFromEmptyEditor(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": `[{"name": "Ada"}, {"name": "Linus"}]`}}}},
			},
		})
	}))
	defer srv.Close()

	h := newHarness(t, "", func(o *Options) {
		o.Config.AI.Model = "gemini-test"
		o.AIOptions = []ai.Option{ai.WithBaseURL(srv.URL)}
	})
	t.Setenv(secrets.EnvAPIKey, "secret")
	h.app.apiKey = h.app.resolveKey()
	require.True(t, h.app.Document().IsEmpty())

	h.send(ctrl(tea.KeyCtrlK))
	require.Equal(t, models.PromptOverlay, h.app.State().Overlay)
	assert.Equal(t, components.PromptGenerate, h.app.prompt.Purpose)

	h.app.prompt.Input.SetValue("two users")
	submit := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, submit)
	cmd := h.send(submit())
	require.Equal(t, models.ResultOverlay, h.app.State().Overlay)

	var result *AIResultMsg
	for _, msg := range drain(cmd) {
		if m, ok := msg.(AIResultMsg); ok {
			result = &m
		}
	}
	require.NotNil(t, result)
	require.NoError(t, result.Err)
	assert.Equal(t, ai.ActionGenerate, result.Action)
	assert.Contains(t, gotPrompt, "Description: two users")

	h.send(*result)
	apply := h.send(key("a"))
	require.NotNil(t, apply)
	h.send(apply())

	assert.Equal(t, models.NoOverlay, h.app.State().Overlay)
	assert.True(t, h.app.Document().Valid())
	assert.Equal(t, jsontree.KindArray, h.app.Document().Value.Kind())
}

func TestAutosave_WritesSnapshot(t *testing.T) {
	h := newHarness(t, "")

	h.send(components.EditorChangedMsg{Text: `{"v": 1}`})
	stale := h.app.Document().Version
	h.send(components.EditorChangedMsg{Text: `{"v": 2}`})

	assert.Nil(t, h.send(autosaveMsg{version: stale}), "stale timers are ignored")

	msgs := drain(h.send(autosaveMsg{version: h.app.Document().Version}))
	require.Len(t, msgs, 1)
	assert.NoError(t, msgs[0].(snapshotSavedMsg).err)

	latest, err := h.history.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, `{"v": 2}`, latest.Content)
	assert.True(t, latest.Valid)
}

func TestRestoreLastDocument(t *testing.T) {
	store, err := history.NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	_, err = store.Add(history.Snapshot{Content: `{"restored": true}`, Valid: true})
	require.NoError(t, err)

	h := newHarness(t, "", func(o *Options) { o.History = store })
	assert.Equal(t, `{"restored": true}`, h.app.Document().Text)
}

func TestFlush(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)
	require.NoError(t, h.app.Flush())

	latest, err := h.history.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, `{"a": 1}`, latest.Content)
}

func TestOpenAndSaveFile(t *testing.T) {
	h := newHarness(t, "")
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: demo\ncount: 2\n"), 0644))

	h.send(loadFile(path, false)())
	assert.Equal(t, path, h.app.State().FilePath)
	assert.True(t, h.app.Document().Valid())
	require.Len(t, h.recent.GetAll(), 1)
	assert.Equal(t, path, h.recent.GetAll()[0].Path)

	h.send(components.EditorChangedMsg{Text: `{"name": "changed"}`})
	msg := h.send(ctrl(tea.KeyCtrlS))()
	saved, ok := msg.(FileSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: changed\n", string(data), "YAML files are written back as YAML")
}

func TestOpenMissingFileShowsError(t *testing.T) {
	h := newHarness(t, "")

	h.send(loadFile(filepath.Join(t.TempDir(), "missing.json"), false)())
	assert.True(t, h.app.showError)

	h.send(ctrl(tea.KeyEsc))
	assert.False(t, h.app.showError)
}

func TestCompare_LoadFileAndApply(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)
	path := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 2}`), 0644))

	h.send(alt('d'))
	require.Equal(t, models.DiffOverlay, h.app.State().Overlay)
	assert.Equal(t, `{"a": 1}`, h.app.diff.Left())

	h.send(h.send(key("o"))())
	require.Equal(t, models.PromptOverlay, h.app.State().Overlay)
	assert.Equal(t, components.PromptDiffFile, h.app.prompt.Purpose)

	h.send(components.ClosePromptMsg{})
	assert.Equal(t, models.DiffOverlay, h.app.State().Overlay, "cancel returns to the compare view")

	h.send(loadFile(path, true)())
	assert.Equal(t, models.DiffOverlay, h.app.State().Overlay)
	assert.Equal(t, `{"a": 2}`, h.app.diff.Right())
	assert.Equal(t, 1, h.app.diff.Hunks())
	assert.Empty(t, h.app.State().FilePath, "a compare file does not replace the open file")
	assert.Empty(t, h.recent.GetAll())
	assert.Equal(t, `{"a": 1}`, h.app.Document().Text)

	msgs := drain(h.send(key("a")))
	require.Len(t, msgs, 1)
	h.send(msgs[0])
	assert.Equal(t, models.NoOverlay, h.app.State().Overlay)
	assert.Equal(t, `{"a": 2}`, h.app.Document().Text)
}

func TestCopyDocument(t *testing.T) {
	h := newHarness(t, `{"a": 1}`)

	msgs := drain(h.send(ctrl(tea.KeyCtrlY)))
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{`{"a": 1}`}, h.clipboard.written)
}

func TestBookmarkFromTreeAndJump(t *testing.T) {
	h := newHarness(t, `{"a": {"b": 1}, "c": 2}`)
	h.send(ctrl(tea.KeyTab))
	h.send(key("j"))
	p := h.app.tree.CurrentPath()
	require.False(t, p.IsRoot())

	h.send(key("b"))
	require.Equal(t, models.PromptOverlay, h.app.State().Overlay)
	assert.Equal(t, p.String(), h.app.prompt.Input.Value())

	h.send(components.PromptSubmitMsg{Purpose: components.PromptBookmark, Value: "first"})
	all := h.bookmarks.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, p.String(), all[0].Path)

	// Move away, then jump back
	h.send(key("G"))
	h.send(components.JumpToBookmarkMsg{Bookmark: all[0]})
	assert.Equal(t, p, h.app.tree.CurrentPath())
	assert.Equal(t, models.TreePanel, h.app.State().FocusedPanel)
	assert.Equal(t, 1, h.bookmarks.GetAll()[0].UsageCount)
}

func TestSettingsSaveStoresKey(t *testing.T) {
	h := newHarness(t, "")

	h.send(components.SaveSettingsMsg{APIKey: "abc123456", KeyChanged: true, Model: "", Theme: "light"})
	assert.Equal(t, "abc123456", h.app.apiKey)
	assert.Equal(t, ai.AutoModel, h.app.config.AI.Model)
	assert.Equal(t, "light", h.app.config.UI.Theme)

	h.send(components.SaveSettingsMsg{KeyChanged: true, Theme: "light"})
	assert.Empty(t, h.app.apiKey)
}

func TestView(t *testing.T) {
	h := newHarness(t, `{"name": "demo"}`)

	view := h.app.View()
	assert.Contains(t, view, "jsonstudio")
	assert.Contains(t, view, "Tree")

	h.send(tea.KeyMsg{Type: tea.KeyF1})
	assert.Contains(t, h.app.View(), "Keyboard Shortcuts")
}
