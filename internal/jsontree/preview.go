package jsontree

import (
	"strconv"
	"strings"
)

// previewKeys are preferred, case-insensitively and in this order, when
// summarizing a collapsed object
var previewKeys = []string{"name", "id", "title", "key", "type", "label"}

// maxPreviewKeys caps the members shown in an object preview
const maxPreviewKeys = 3

// Literal renders a scalar the way the tree shows it: null, "text" wrapped
// in quotes with no escaping, numbers in their source form, true/false.
// Containers render as their preview.
func Literal(v Value) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.BoolValue())
	case KindNumber:
		return v.Text()
	case KindString:
		return `"` + v.Text() + `"`
	default:
		return Preview(v)
	}
}

// Preview summarizes a container without rendering its children.
//
//	[1,2,3]                           -> 3 items
//	{}                                -> {}
//	{"zz":1,"name":"Bob","id":42}     -> { name: "Bob", id: 42, zz: 1 }
//	{"a":1,"b":{},"c":3,"d":4}        -> { a: 1, b: [...], c: 3, ... }
func Preview(v Value) string {
	switch v.Kind() {
	case KindArray:
		return strconv.Itoa(v.Len()) + " items"
	case KindObject:
		return previewObject(v.Members())
	default:
		return Literal(v)
	}
}

func previewObject(members []Member) string {
	if len(members) == 0 {
		return "{}"
	}

	chosen := selectPreviewMembers(members)
	parts := make([]string, 0, len(chosen))
	for _, idx := range chosen {
		m := members[idx]
		if m.Value.IsContainer() {
			parts = append(parts, m.Key+": [...]")
			continue
		}
		parts = append(parts, m.Key+": "+Literal(m.Value))
	}

	var b strings.Builder
	b.WriteString("{ ")
	b.WriteString(strings.Join(parts, ", "))
	if len(members) > len(chosen) {
		b.WriteString(", ...")
	}
	b.WriteString(" }")
	return b.String()
}

// selectPreviewMembers returns member indexes: priority keys in priority
// order first, then unused members in document order, at most three.
func selectPreviewMembers(members []Member) []int {
	chosen := make([]int, 0, maxPreviewKeys)
	used := make(map[int]bool, maxPreviewKeys)

	for _, want := range previewKeys {
		for i, m := range members {
			if len(chosen) == maxPreviewKeys {
				return chosen
			}
			if !used[i] && strings.EqualFold(m.Key, want) {
				chosen = append(chosen, i)
				used[i] = true
			}
		}
	}

	for i := range members {
		if len(chosen) == maxPreviewKeys {
			break
		}
		if !used[i] {
			chosen = append(chosen, i)
			used[i] = true
		}
	}
	return chosen
}

// DefaultDepth picks the initial expansion depth from the serialized size
// of a document: small documents open three levels, medium ones one level,
// large ones only the root.
func DefaultDepth(size int) int {
	switch {
	case size < 10000:
		return 3
	case size < 50000:
		return 1
	default:
		return 0
	}
}
