package jsontree

// DefaultPageSize is the number of children a container shows before a
// "show more" step, and the size of each step
const DefaultPageSize = 50

// State is the transient expansion state of a single container node
type State struct {
	Expanded     bool
	VisibleCount int
}

// States holds expansion state keyed by node path. Nodes without an entry
// use the defaults: the root and nodes no deeper than the initial depth
// start expanded, everything else starts collapsed, and every container
// shows one page of children.
type States struct {
	entries      map[Path]State
	initialDepth int
	pageSize     int
}

// NewStates creates an empty state table. A pageSize <= 0 selects
// DefaultPageSize; a negative initialDepth is treated as 0.
func NewStates(initialDepth, pageSize int) *States {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if initialDepth < 0 {
		initialDepth = 0
	}
	return &States{
		entries:      make(map[Path]State),
		initialDepth: initialDepth,
		pageSize:     pageSize,
	}
}

// PageSize returns the pagination step
func (s *States) PageSize() int { return s.pageSize }

// InitialDepth returns the default expansion depth
func (s *States) InitialDepth() int { return s.initialDepth }

// Get returns the state of the node at p, which sits at the given depth
func (s *States) Get(p Path, depth int) State {
	if st, ok := s.entries[p]; ok {
		return st
	}
	return State{
		Expanded:     depth <= s.initialDepth,
		VisibleCount: s.pageSize,
	}
}

// SetExpanded expands or collapses the node at p. Collapsing discards the
// state of every descendant, so re-expanding shows them at their defaults.
func (s *States) SetExpanded(p Path, depth int, expanded bool) {
	st := s.Get(p, depth)
	st.Expanded = expanded
	s.entries[p] = st
	if !expanded {
		s.forgetBelow(p)
	}
}

// Toggle flips the node at p and returns the new expanded flag
func (s *States) Toggle(p Path, depth int) bool {
	expanded := !s.Get(p, depth).Expanded
	s.SetExpanded(p, depth, expanded)
	return expanded
}

// ShowMore grows the visible window of the node at p by one page, capped at
// total, and returns the new count. The count never decreases.
func (s *States) ShowMore(p Path, depth, total int) int {
	st := s.Get(p, depth)
	if st.VisibleCount < total {
		st.VisibleCount += s.pageSize
		if st.VisibleCount > total {
			st.VisibleCount = total
		}
	}
	s.entries[p] = st
	return st.VisibleCount
}

// Reveal makes child index i of the node at p visible, growing the window
// in whole pages
func (s *States) Reveal(p Path, depth, i, total int) {
	st := s.Get(p, depth)
	st.Expanded = true
	for st.VisibleCount <= i && st.VisibleCount < total {
		st.VisibleCount += s.pageSize
		if st.VisibleCount > total {
			st.VisibleCount = total
		}
	}
	s.entries[p] = st
}

// Reset drops every entry. Used when the document is replaced.
func (s *States) Reset() {
	s.entries = make(map[Path]State)
}

// Len returns the number of explicit entries
func (s *States) Len() int { return len(s.entries) }

func (s *States) forgetBelow(p Path) {
	for k := range s.entries {
		if p.Contains(k) {
			delete(s.entries, k)
		}
	}
}
