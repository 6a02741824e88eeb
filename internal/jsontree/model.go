package jsontree

import (
	"fmt"
	"strings"
)

// RowKind identifies what a rendered row represents
type RowKind int

const (
	// RowScalar is a null, boolean, number or string leaf
	RowScalar RowKind = iota
	// RowCollapsed is a container shown as a single preview line
	RowCollapsed
	// RowEmpty is an empty container, which has no toggle
	RowEmpty
	// RowOpen is the opening line of an expanded container
	RowOpen
	// RowClose is the closing line of an expanded container
	RowClose
	// RowShowMore is the pagination affordance below a partially shown container
	RowShowMore
)

// LabelKind identifies the clickable label in front of a row
type LabelKind int

const (
	LabelNone LabelKind = iota
	LabelKey
	LabelBullet
)

// Row is a single line of a render pass. Path is the path of the node the
// row belongs to; for RowShowMore it is the path of the paginated container.
type Row struct {
	Kind       RowKind
	Label      LabelKind
	Depth      int
	Name       string
	Path       Path
	Value      Value
	Text       string
	Trailing   bool // a "," separator follows
	Toggleable bool
	Expanded   bool
	Remaining  int // RowShowMore: children still hidden
	NextPage   int // RowShowMore: children revealed by the next step
}

// Open returns the opening glyph of a container row
func (r Row) Open() string {
	if r.Value.Kind() == KindArray {
		return "["
	}
	return "{"
}

// Close returns the closing glyph of a container row
func (r Row) Close() string {
	if r.Value.Kind() == KindArray {
		return "]"
	}
	return "}"
}

// Copyable reports whether clicking the row label copies a path
func (r Row) Copyable() bool {
	return r.Label != LabelNone && !r.Path.IsRoot()
}

// String renders the row as plain text, two spaces of indent per level
func (r Row) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))

	switch r.Kind {
	case RowShowMore:
		b.WriteString(r.Text)
		return b.String()
	case RowClose:
		b.WriteString(r.Close())
		if r.Trailing {
			b.WriteString(",")
		}
		return b.String()
	}

	switch {
	case r.Toggleable && r.Expanded:
		b.WriteString("▾ ")
	case r.Toggleable:
		b.WriteString("▸ ")
	}

	switch r.Label {
	case LabelKey:
		b.WriteString(r.Name)
		b.WriteString(": ")
	case LabelBullet:
		b.WriteString("• ")
	}

	if r.Kind == RowOpen {
		b.WriteString(r.Open())
		return b.String()
	}
	b.WriteString(r.Text)
	if r.Trailing {
		b.WriteString(",")
	}
	return b.String()
}

// Model renders a Value as rows according to a state table
type Model struct {
	root   Value
	states *States
}

// NewModel creates a model over root. A nil states selects a fresh table
// that expands only the root.
func NewModel(root Value, states *States) *Model {
	if states == nil {
		states = NewStates(0, DefaultPageSize)
	}
	return &Model{root: root, states: states}
}

// Root returns the rendered value
func (m *Model) Root() Value { return m.root }

// States returns the state table
func (m *Model) States() *States { return m.states }

// Rows performs a render pass. Only expanded containers contribute their
// children, and only the first VisibleCount of them.
func (m *Model) Rows() []Row {
	var rows []Row
	m.render(&rows, "", m.root, true, 0, Root)
	return rows
}

func (m *Model) render(rows *[]Row, name string, v Value, isLast bool, depth int, p Path) {
	label := LabelNone
	switch {
	case name != "":
		label = LabelKey
	case !p.IsRoot() && !v.IsContainer():
		label = LabelBullet
	}

	if !v.IsContainer() {
		*rows = append(*rows, Row{
			Kind:     RowScalar,
			Label:    label,
			Depth:    depth,
			Name:     name,
			Path:     p,
			Value:    v,
			Text:     Literal(v),
			Trailing: !isLast,
		})
		return
	}

	total := v.Len()
	if total == 0 {
		text := "{}"
		if v.Kind() == KindArray {
			text = "[]"
		}
		*rows = append(*rows, Row{
			Kind:     RowEmpty,
			Label:    label,
			Depth:    depth,
			Name:     name,
			Path:     p,
			Value:    v,
			Text:     text,
			Trailing: !isLast,
		})
		return
	}

	st := m.states.Get(p, depth)
	if !st.Expanded {
		text := Preview(v)
		if v.Kind() == KindArray {
			text = "[ " + text + " ]"
		}
		*rows = append(*rows, Row{
			Kind:       RowCollapsed,
			Label:      label,
			Depth:      depth,
			Name:       name,
			Path:       p,
			Value:      v,
			Text:       text,
			Trailing:   !isLast,
			Toggleable: true,
		})
		return
	}

	*rows = append(*rows, Row{
		Kind:       RowOpen,
		Label:      label,
		Depth:      depth,
		Name:       name,
		Path:       p,
		Value:      v,
		Trailing:   !isLast,
		Toggleable: true,
		Expanded:   true,
	})

	visible := st.VisibleCount
	if visible > total {
		visible = total
	}
	switch v.Kind() {
	case KindArray:
		for i, item := range v.Items()[:visible] {
			m.render(rows, "", item, i == total-1, depth+1, p.Index(i))
		}
	case KindObject:
		for i, member := range v.Members()[:visible] {
			m.render(rows, member.Key, member.Value, i == total-1, depth+1, p.Key(member.Key))
		}
	}

	if remaining := total - visible; remaining > 0 {
		next := m.states.PageSize()
		if next > remaining {
			next = remaining
		}
		*rows = append(*rows, Row{
			Kind:      RowShowMore,
			Depth:     depth + 1,
			Path:      p,
			Value:     v,
			Text:      fmt.Sprintf("Show %d more... (%d remaining)", next, remaining),
			Remaining: remaining,
			NextPage:  next,
		})
	}

	*rows = append(*rows, Row{
		Kind:     RowClose,
		Depth:    depth,
		Path:     p,
		Value:    v,
		Trailing: !isLast,
		Expanded: true,
	})
}

// Toggle expands or collapses the container a row belongs to and reports
// the new expanded flag. Rows without a toggle (scalars, empty containers,
// pagination rows) are left alone. The row carries its own path and depth,
// so keys that do not parse back and duplicate keys toggle like any other.
func (m *Model) Toggle(r Row) (expanded bool, changed bool) {
	if !r.Toggleable {
		return false, false
	}
	return m.states.Toggle(r.Path, r.Depth), true
}

// Collapse collapses the container a row belongs to if it is expanded
func (m *Model) Collapse(r Row) bool {
	if !r.Toggleable || !m.states.Get(r.Path, r.Depth).Expanded {
		return false
	}
	m.states.SetExpanded(r.Path, r.Depth, false)
	return true
}

// ShowMore reveals the next page of children of the container a row
// belongs to and returns the new visible count. It accepts the container's
// own rows and its RowShowMore row.
func (m *Model) ShowMore(r Row) int {
	if !r.Value.IsContainer() {
		return 0
	}
	depth := r.Depth
	if r.Kind == RowShowMore {
		depth--
	}
	return m.states.ShowMore(r.Path, depth, r.Value.Len())
}

// Find returns the first row of the node at p in the current render pass
func (m *Model) Find(p Path) (Row, bool) {
	for _, r := range m.Rows() {
		if r.Path == p && r.Kind != RowClose && r.Kind != RowShowMore {
			return r, true
		}
	}
	return Row{}, false
}

// Reveal expands every ancestor of the first node at p, in document order,
// and pages far enough that it is part of the next render pass
func (m *Model) Reveal(p Path) error {
	if m.reveal(func(n Node) bool { return n.Path == p }) {
		return nil
	}
	return fmt.Errorf("%s: no such node", p)
}

// RevealNode is Reveal for a node produced by Walk. It tells duplicate keys
// apart by the node's position in the walk.
func (m *Model) RevealNode(n Node) error {
	if m.reveal(func(c Node) bool { return c.Ordinal == n.Ordinal && c.Path == n.Path }) {
		return nil
	}
	return fmt.Errorf("%s: no such node", n.Path)
}

// reveal walks the document in Walk order and, once match succeeds, opens
// each ancestor on the way back up
func (m *Model) reveal(match func(Node) bool) bool {
	ordinal := 0
	var visit func(v Value, name string, p Path, depth int) bool
	visit = func(v Value, name string, p Path, depth int) bool {
		n := Node{Path: p, Name: name, Value: v, Depth: depth, Ordinal: ordinal}
		ordinal++
		if match(n) {
			return true
		}
		switch v.Kind() {
		case KindArray:
			for i, item := range v.Items() {
				if visit(item, "", p.Index(i), depth+1) {
					m.states.Reveal(p, depth, i, v.Len())
					return true
				}
			}
		case KindObject:
			for i, member := range v.Members() {
				if visit(member.Value, member.Key, p.Key(member.Key), depth+1) {
					m.states.Reveal(p, depth, i, v.Len())
					return true
				}
			}
		}
		return false
	}
	return visit(m.root, "", Root, 0)
}
