package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

func newTestEditor(content string) *JSONEditor {
	e := NewJSONEditor(theme.DefaultTheme())
	e.Width = 60
	e.Height = 20
	e.SetContent(content)
	return e
}

func TestJSONEditor_TypingEmitsChange(t *testing.T) {
	e := newTestEditor("")

	_, cmd := e.Update(key("{"))
	if cmd == nil {
		t.Fatal("Expected a change command after typing")
	}
	msg, ok := cmd().(EditorChangedMsg)
	if !ok {
		t.Fatalf("Expected EditorChangedMsg, got %T", cmd())
	}
	if msg.Text != "{" {
		t.Errorf("Expected text %q, got %q", "{", msg.Text)
	}
}

func TestJSONEditor_MovementDoesNotEmit(t *testing.T) {
	e := newTestEditor("{\n}")

	_, cmd := e.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Error("Expected no command for cursor movement")
	}
	row, col := e.Cursor()
	if row != 1 || col != 0 {
		t.Errorf("Expected cursor at 1:0, got %d:%d", row, col)
	}
}

func TestJSONEditor_EnterIndentsAfterOpenBrace(t *testing.T) {
	e := newTestEditor("  {")
	e.Update(tea.KeyMsg{Type: tea.KeyEnd})
	e.Update(key("enter"))

	if got := e.GetContent(); got != "  {\n    " {
		t.Errorf("Expected indented new line, got %q", got)
	}
	row, col := e.Cursor()
	if row != 1 || col != 4 {
		t.Errorf("Expected cursor at 1:4, got %d:%d", row, col)
	}
}

func TestJSONEditor_BackspaceMergesLines(t *testing.T) {
	e := newTestEditor("[1,\n2]")
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	e.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	if got := e.GetContent(); got != "[1,2]" {
		t.Errorf("Expected merged line, got %q", got)
	}
	if e.LineCount() != 1 {
		t.Errorf("Expected 1 line, got %d", e.LineCount())
	}
	row, col := e.Cursor()
	if row != 0 || col != 3 {
		t.Errorf("Expected cursor at 0:3, got %d:%d", row, col)
	}
}

func TestJSONEditor_DeleteAtEndJoinsNextLine(t *testing.T) {
	e := newTestEditor("a\nb")
	e.Update(tea.KeyMsg{Type: tea.KeyEnd})
	e.Update(tea.KeyMsg{Type: tea.KeyDelete})

	if got := e.GetContent(); got != "ab" {
		t.Errorf("Expected %q, got %q", "ab", got)
	}
}

func TestJSONEditor_InsertTextKeepsLines(t *testing.T) {
	e := newTestEditor("")
	e.InsertText("{\r\n  \"a\": 1\r\n}")

	if e.LineCount() != 3 {
		t.Fatalf("Expected 3 lines, got %d", e.LineCount())
	}
	if got := e.GetContent(); got != "{\n  \"a\": 1\n}" {
		t.Errorf("Expected pasted text without carriage returns, got %q", got)
	}
}

func TestJSONEditor_Dedent(t *testing.T) {
	e := newTestEditor("    \"a\": 1")
	e.Update(tea.KeyMsg{Type: tea.KeyEnd})
	e.Update(tea.KeyMsg{Type: tea.KeyShiftTab})

	if got := e.GetContent(); got != "  \"a\": 1" {
		t.Errorf("Expected one level removed, got %q", got)
	}
	_, col := e.Cursor()
	if col != 8 {
		t.Errorf("Expected cursor column 8, got %d", col)
	}
}

func TestJSONEditor_ViewShowsStatus(t *testing.T) {
	e := newTestEditor(`{"a": 1}`)
	e.Status = "Valid JSON"

	view := e.View()
	if !strings.Contains(view, "Valid JSON") {
		t.Errorf("Expected status in view, got:\n%s", view)
	}
}

func TestToast_ExpiresOnlyForLatestMessage(t *testing.T) {
	toast := NewToast(theme.DefaultTheme(), time.Millisecond)

	toast.Show("first", ToastInfo)
	toast.Show("second", ToastSuccess)

	toast.Update(ToastExpiredMsg{Seq: 1})
	if !toast.Visible() || toast.Message != "second" {
		t.Fatalf("Expected stale expiry to keep %q, got %q", "second", toast.Message)
	}

	toast.Update(ToastExpiredMsg{Seq: 2})
	if toast.Visible() {
		t.Errorf("Expected toast hidden, got %q", toast.Message)
	}
	if toast.View(40) != "" {
		t.Error("Expected empty view for hidden toast")
	}
}

func TestToast_ViewTruncates(t *testing.T) {
	toast := NewToast(theme.DefaultTheme(), 0)
	toast.Show(strings.Repeat("x", 100), ToastError)

	if !strings.Contains(toast.View(20), "…") {
		t.Error("Expected long message to be truncated")
	}
}
