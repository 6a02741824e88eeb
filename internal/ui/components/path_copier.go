package components

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

// DefaultCopyAck is how long a copied label stays acknowledged
const DefaultCopyAck = 1500 * time.Millisecond

// Clipboard is where copied paths go
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

// WriteAll implements Clipboard
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// PathCopiedMsg is sent after a path reached the clipboard
type PathCopiedMsg struct {
	Path jsontree.Path
	Seq  int
}

// CopyFailedMsg is sent when the clipboard rejected a write
type CopyFailedMsg struct {
	Path jsontree.Path
	Err  error
}

// CopyAckExpiredMsg ends the acknowledgment of a copy
type CopyAckExpiredMsg struct {
	Path jsontree.Path
	Seq  int
}

// PathCopier copies node paths and tracks which labels are currently
// showing a copy acknowledgment
type PathCopier struct {
	clipboard Clipboard
	ack       time.Duration
	seq       int
	acked     map[jsontree.Path]int
}

// NewPathCopier creates a copier. A nil clipboard selects the system one.
func NewPathCopier(cb Clipboard, ack time.Duration) *PathCopier {
	if cb == nil {
		cb = SystemClipboard{}
	}
	if ack <= 0 {
		ack = DefaultCopyAck
	}
	return &PathCopier{
		clipboard: cb,
		ack:       ack,
		acked:     make(map[jsontree.Path]int),
	}
}

// Copy writes p to the clipboard. The root path is never copied and
// yields a nil command.
func (c *PathCopier) Copy(p jsontree.Path) tea.Cmd {
	if p.IsRoot() {
		return nil
	}

	c.seq++
	seq := c.seq
	cb := c.clipboard
	return func() tea.Msg {
		if err := cb.WriteAll(p.String()); err != nil {
			return CopyFailedMsg{Path: p, Err: err}
		}
		return PathCopiedMsg{Path: p, Seq: seq}
	}
}

// Update records acknowledgments and schedules their expiry
func (c *PathCopier) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PathCopiedMsg:
		c.acked[msg.Path] = msg.Seq
		return tea.Tick(c.ack, func(time.Time) tea.Msg {
			return CopyAckExpiredMsg{Path: msg.Path, Seq: msg.Seq}
		})
	case CopyAckExpiredMsg:
		// A newer copy of the same path keeps its own timer
		if c.acked[msg.Path] == msg.Seq {
			delete(c.acked, msg.Path)
		}
	}
	return nil
}

// Acknowledged reports whether p was copied within the last ack interval
func (c *PathCopier) Acknowledged(p jsontree.Path) bool {
	_, ok := c.acked[p]
	return ok
}

// Reset forgets every acknowledgment, e.g. when the document changes
func (c *PathCopier) Reset() {
	c.acked = make(map[jsontree.Path]int)
}
