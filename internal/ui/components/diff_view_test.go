package components

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

type fakePaste struct {
	text string
	err  error
}

func (f fakePaste) ReadAll() (string, error) { return f.text, f.err }

func newTestDiff(left, right string) *DiffView {
	v := NewDiffView(theme.DefaultTheme(), fakePaste{text: `{"pasted": true}`})
	v.Width = 80
	v.Height = 20
	v.SetRight(right)
	v.Open(left)
	return v
}

func TestDiffView_NextPrevWraps(t *testing.T) {
	v := newTestDiff("a\nb\nc\nd", "a\nB\nc\nD")

	if v.Hunks() != 2 {
		t.Fatalf("Expected 2 changes, got %d", v.Hunks())
	}
	if v.CurrentHunk() != -1 {
		t.Errorf("Expected no change selected, got %d", v.CurrentHunk())
	}

	for _, want := range []int{0, 1, 0} {
		v.Update(key("n"))
		if v.CurrentHunk() != want {
			t.Errorf("Expected change %d after n, got %d", want, v.CurrentHunk())
		}
	}
	v.Update(key("N"))
	v.Update(key("N"))
	if v.CurrentHunk() != 1 {
		t.Errorf("Expected N to wrap to change 1, got %d", v.CurrentHunk())
	}
	if v.Status() != "Change 2 of 2" {
		t.Errorf("Expected %q, got %q", "Change 2 of 2", v.Status())
	}
}

func TestDiffView_PrevBeforeFirstJumpSelectsLast(t *testing.T) {
	v := newTestDiff("a\nb\nc\nd", "a\nB\nc\nD")

	v.Update(key("["))
	if v.CurrentHunk() != 1 {
		t.Errorf("Expected last change, got %d", v.CurrentHunk())
	}
}

func TestDiffView_NoDifferences(t *testing.T) {
	v := newTestDiff("{}", "{}")

	v.Update(key("n"))
	if v.CurrentHunk() != -1 || v.Status() != "No differences found" {
		t.Errorf("Expected no selection, got %d %q", v.CurrentHunk(), v.Status())
	}
	if _, cmd := v.Update(key("a")); cmd != nil {
		t.Error("Expected apply to do nothing without differences")
	}
}

func TestDiffView_RevertChange(t *testing.T) {
	v := newTestDiff("a\nb\nc\nd", "a\nB\nc\nD")

	v.Update(key("r"))
	if v.Right() != "a\nB\nc\nD" {
		t.Errorf("Expected revert without a selection to do nothing, got %q", v.Right())
	}

	v.Update(key("n"))
	v.Update(key("r"))
	if v.Right() != "a\nb\nc\nD" {
		t.Errorf("Expected first change reverted, got %q", v.Right())
	}
	if v.Hunks() != 1 || v.CurrentHunk() != 0 {
		t.Errorf("Expected the remaining change selected, got %d of %d", v.CurrentHunk(), v.Hunks())
	}
}

func TestDiffView_SwapAndCopyLeft(t *testing.T) {
	v := newTestDiff("left", "right")

	v.Update(key("s"))
	if v.Left() != "right" || v.Right() != "left" {
		t.Errorf("Expected panes swapped, got %q | %q", v.Left(), v.Right())
	}

	v.Update(key("c"))
	if v.Right() != "right" || v.Hunks() != 0 {
		t.Errorf("Expected right pane to match left, got %q", v.Right())
	}
}

func TestDiffView_ApplySendsRightPane(t *testing.T) {
	v := newTestDiff(`{"a": 1}`, `{"a": 2}`)

	_, cmd := v.Update(key("a"))
	if cmd == nil {
		t.Fatal("Expected an apply command")
	}
	msg, ok := cmd().(ApplyResultMsg)
	if !ok {
		t.Fatalf("Expected ApplyResultMsg, got %T", cmd())
	}
	if msg.Content != `{"a": 2}` {
		t.Errorf("Expected right pane content, got %q", msg.Content)
	}
}

func TestDiffView_Paste(t *testing.T) {
	v := newTestDiff(`{}`, "")

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[1]"), Paste: true})
	if v.Right() != "[1]" {
		t.Errorf("Expected bracketed paste in right pane, got %q", v.Right())
	}

	v.Update(key("v"))
	if v.Right() != `{"pasted": true}` {
		t.Errorf("Expected clipboard text in right pane, got %q", v.Right())
	}

	v.paste = fakePaste{err: errors.New("no clipboard")}
	v.Update(key("v"))
	if v.Status() != "Could not read clipboard" {
		t.Errorf("Expected clipboard error, got %q", v.Status())
	}
}

func TestDiffView_SmartSort(t *testing.T) {
	v := newTestDiff(`{"b": 1, "a": 2}`, `{"a": 2, "b": 1}`)
	if v.Hunks() == 0 {
		t.Fatal("Expected differences before sorting")
	}

	v.Update(key("S"))
	if v.Status() != "Keys sorted & formatted" {
		t.Errorf("Expected sort notice, got %q", v.Status())
	}
	if v.Hunks() != 0 {
		t.Errorf("Expected sorted panes to match, got %d changes", v.Hunks())
	}

	v.Update(key("S"))
	if v.Status() != "Already sorted" {
		t.Errorf("Expected %q, got %q", "Already sorted", v.Status())
	}

	v.SetRight(`{"a":`)
	v.Update(key("S"))
	if !strings.HasPrefix(v.Status(), "Cannot sort right:") {
		t.Errorf("Expected sort error for right pane, got %q", v.Status())
	}
}

func TestDiffView_CloseAndOpenFile(t *testing.T) {
	v := newTestDiff("a", "b")

	_, cmd := v.Update(key("esc"))
	if cmd == nil {
		t.Fatal("Expected a close command")
	}
	if _, ok := cmd().(CloseDiffMsg); !ok {
		t.Errorf("Expected CloseDiffMsg, got %T", cmd())
	}

	_, cmd = v.Update(key("o"))
	if cmd == nil {
		t.Fatal("Expected an open file command")
	}
	if _, ok := cmd().(DiffOpenFileMsg); !ok {
		t.Errorf("Expected DiffOpenFileMsg, got %T", cmd())
	}
}

func TestDiffView_View(t *testing.T) {
	v := newTestDiff(`{"name": "Ada"}`, `{"name": "Bob"}`)

	view := v.View()
	for _, want := range []string{"Compare JSON", "1 change", "Ada", "Bob"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q, got:\n%s", want, view)
		}
	}
}
