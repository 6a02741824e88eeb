package components

import (
	"errors"
	"testing"
	"time"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

type fakeClipboard struct {
	written []string
	err     error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, text)
	return nil
}

func TestPathCopier_RootIsNoop(t *testing.T) {
	cb := &fakeClipboard{}
	c := NewPathCopier(cb, time.Millisecond)

	if cmd := c.Copy(jsontree.Root); cmd != nil {
		t.Error("Expected nil command for root path")
	}
	if len(cb.written) != 0 {
		t.Errorf("Expected no clipboard writes, got %v", cb.written)
	}
}

func TestPathCopier_CopyAndAcknowledge(t *testing.T) {
	cb := &fakeClipboard{}
	c := NewPathCopier(cb, time.Millisecond)
	p := jsontree.Root.Key("users").Index(0)

	msg := c.Copy(p)()
	copied, ok := msg.(PathCopiedMsg)
	if !ok {
		t.Fatalf("Expected PathCopiedMsg, got %T", msg)
	}
	if len(cb.written) != 1 || cb.written[0] != `["users"][0]` {
		t.Errorf("Expected path written verbatim, got %v", cb.written)
	}

	if cmd := c.Update(copied); cmd == nil {
		t.Error("Expected expiry timer command")
	}
	if !c.Acknowledged(p) {
		t.Error("Expected path to be acknowledged")
	}

	c.Update(CopyAckExpiredMsg{Path: p, Seq: copied.Seq})
	if c.Acknowledged(p) {
		t.Error("Expected acknowledgment to expire")
	}
}

func TestPathCopier_StaleExpiryKeepsNewerAck(t *testing.T) {
	c := NewPathCopier(&fakeClipboard{}, time.Millisecond)
	p := jsontree.Root.Key("a")

	first := c.Copy(p)().(PathCopiedMsg)
	c.Update(first)
	second := c.Copy(p)().(PathCopiedMsg)
	c.Update(second)

	c.Update(CopyAckExpiredMsg{Path: p, Seq: first.Seq})
	if !c.Acknowledged(p) {
		t.Error("Expected the second copy to stay acknowledged")
	}
}

func TestPathCopier_Failure(t *testing.T) {
	c := NewPathCopier(&fakeClipboard{err: errors.New("no clipboard")}, time.Millisecond)
	p := jsontree.Root.Key("a")

	msg := c.Copy(p)()
	failed, ok := msg.(CopyFailedMsg)
	if !ok {
		t.Fatalf("Expected CopyFailedMsg, got %T", msg)
	}
	if failed.Err == nil || failed.Path != p {
		t.Errorf("Unexpected failure message: %+v", failed)
	}
	if cmd := c.Update(failed); cmd != nil {
		t.Error("Expected no command for a failed copy")
	}
	if c.Acknowledged(p) {
		t.Error("Expected no acknowledgment after failure")
	}
}
