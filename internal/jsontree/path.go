package jsontree

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node in a Value, e.g. `["users"][0]["name"]`.
// The root path is the empty string. Keys are embedded without escaping,
// so a key containing `"]` yields a path that does not parse back to the
// same segments.
type Path string

// Root is the path of the document root
const Root Path = ""

// Index returns the path of the i-th element of the array at p
func (p Path) Index(i int) Path {
	return p + Path("["+strconv.Itoa(i)+"]")
}

// Key returns the path of the member named key of the object at p
func (p Path) Key(key string) Path {
	return p + Path(`["`+key+`"]`)
}

// String returns the path text
func (p Path) String() string { return string(p) }

// IsRoot reports whether p addresses the document root
func (p Path) IsRoot() bool { return p == Root }

// Contains reports whether other lies strictly below p
func (p Path) Contains(other Path) bool {
	return len(other) > len(p) && strings.HasPrefix(string(other), string(p))
}

// Parent returns the path of the container holding p. The root and
// unparsable paths have no parent.
func (p Path) Parent() (Path, bool) {
	segs, err := ParsePath(string(p))
	if err != nil || len(segs) == 0 {
		return Root, false
	}
	return Join(segs[:len(segs)-1]), true
}

// Segment is a single accessor of a Path
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// String renders the segment using the path grammar
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return `["` + s.Key + `"]`
}

// Join builds a Path from segments
func Join(segs []Segment) Path {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.String())
	}
	return Path(b.String())
}

// ParsePath splits a path string into segments.
//
//	Path  := ( "[" Index "]" | `["` Key `"]` )*
//	Index := "0" | [1-9][0-9]*
//
// A key runs up to the first `"]`.
func ParsePath(s string) ([]Segment, error) {
	var segs []Segment
	pos := 0
	for pos < len(s) {
		if s[pos] != '[' {
			return nil, fmt.Errorf("invalid path %q: expected '[' at offset %d", s, pos)
		}
		pos++
		if pos < len(s) && s[pos] == '"' {
			end := strings.Index(s[pos+1:], `"]`)
			if end < 0 {
				return nil, fmt.Errorf("invalid path %q: unterminated key at offset %d", s, pos)
			}
			key := s[pos+1 : pos+1+end]
			segs = append(segs, Segment{Key: key})
			pos += 1 + end + 2
			continue
		}

		end := strings.IndexByte(s[pos:], ']')
		if end < 0 {
			return nil, fmt.Errorf("invalid path %q: unterminated index at offset %d", s, pos)
		}
		digits := s[pos : pos+end]
		idx, err := parseIndex(digits)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", s, err)
		}
		segs = append(segs, Segment{Index: idx, IsIndex: true})
		pos += end + 1
	}
	return segs, nil
}

func parseIndex(digits string) (int, error) {
	if digits == "" {
		return 0, fmt.Errorf("empty index")
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, fmt.Errorf("index %q has a leading zero", digits)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("index %q is not a non-negative integer", digits)
		}
	}
	return strconv.Atoi(digits)
}

// Lookup returns the value at path p
func Lookup(root Value, p Path) (Value, error) {
	segs, err := ParsePath(string(p))
	if err != nil {
		return Value{}, err
	}

	current := root
	for i, seg := range segs {
		switch current.Kind() {
		case KindObject:
			if seg.IsIndex {
				return Value{}, fmt.Errorf("%s: cannot index object with [%d]", where(segs[:i]), seg.Index)
			}
			next, ok := current.Get(seg.Key)
			if !ok {
				return Value{}, fmt.Errorf("%s: key '%s' not found", where(segs[:i]), seg.Key)
			}
			current = next
		case KindArray:
			if !seg.IsIndex {
				return Value{}, fmt.Errorf("%s: cannot read key '%s' of array", where(segs[:i]), seg.Key)
			}
			next, ok := current.Index(seg.Index)
			if !ok {
				return Value{}, fmt.Errorf("%s: array index out of bounds: %d", where(segs[:i]), seg.Index)
			}
			current = next
		default:
			return Value{}, fmt.Errorf("%s: cannot traverse into %s", where(segs[:i]), current.Kind())
		}
	}
	return current, nil
}

// Node is a path together with the value it addresses. Ordinal is the
// node's position in a Walk; duplicate keys share a Path but not an Ordinal.
type Node struct {
	Path    Path
	Name    string
	Value   Value
	Depth   int
	Ordinal int
}

// Walk visits every node of root depth-first in document order, starting
// with the root itself. Returning false from fn skips the node's children.
func Walk(root Value, fn func(Node) bool) {
	ordinal := 0
	walk(root, "", Root, 0, &ordinal, fn)
}

func walk(v Value, name string, p Path, depth int, ordinal *int, fn func(Node) bool) {
	n := Node{Path: p, Name: name, Value: v, Depth: depth, Ordinal: *ordinal}
	*ordinal++
	if !fn(n) {
		// Skipped subtrees still count, so ordinals match a full walk
		*ordinal += countBelow(v)
		return
	}
	switch v.Kind() {
	case KindArray:
		for i, item := range v.Items() {
			walk(item, "", p.Index(i), depth+1, ordinal, fn)
		}
	case KindObject:
		for _, m := range v.Members() {
			walk(m.Value, m.Key, p.Key(m.Key), depth+1, ordinal, fn)
		}
	}
}

func countBelow(v Value) int {
	n := 0
	switch v.Kind() {
	case KindArray:
		for _, item := range v.Items() {
			n += 1 + countBelow(item)
		}
	case KindObject:
		for _, m := range v.Members() {
			n += 1 + countBelow(m.Value)
		}
	}
	return n
}

// Paths returns the path of every node in root, the root path first
func Paths(root Value) []Path {
	var paths []Path
	Walk(root, func(n Node) bool {
		paths = append(paths, n.Path)
		return true
	})
	return paths
}

func where(segs []Segment) string {
	if len(segs) == 0 {
		return "root"
	}
	return Join(segs).String()
}
