// internal/ui/components/tree_filter_test.go
package components

import (
	"testing"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

func TestParseSearchQuery_Simple(t *testing.T) {
	q := ParseSearchQuery("name")

	if q.Pattern != "name" {
		t.Errorf("expected pattern 'name', got '%s'", q.Pattern)
	}
	if q.Negate {
		t.Error("expected Negate=false")
	}
	if q.KindFilter != "" {
		t.Errorf("expected empty KindFilter, got '%s'", q.KindFilter)
	}
}

func TestParseSearchQuery_Negate(t *testing.T) {
	q := ParseSearchQuery("!test")

	if q.Pattern != "test" {
		t.Errorf("expected pattern 'test', got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
}

func TestParseSearchQuery_KindPrefixes(t *testing.T) {
	tests := []struct {
		query   string
		kind    string
		pattern string
	}{
		{"s:mail", "string", "mail"},
		{"string:mail", "string", "mail"},
		{"n:age", "number", "age"},
		{"b:ok", "boolean", "ok"},
		{"bool:ok", "boolean", "ok"},
		{"o:meta", "object", "meta"},
		{"a:tags", "array", "tags"},
		{"null:x", "null", "x"},
		{"NL:x", "null", "x"},
	}

	for _, tt := range tests {
		q := ParseSearchQuery(tt.query)
		if q.KindFilter != tt.kind {
			t.Errorf("%s: expected KindFilter '%s', got '%s'", tt.query, tt.kind, q.KindFilter)
		}
		if q.Pattern != tt.pattern {
			t.Errorf("%s: expected pattern '%s', got '%s'", tt.query, tt.pattern, q.Pattern)
		}
	}
}

func TestParseSearchQuery_NegateWithKindAndPath(t *testing.T) {
	q := ParseSearchQuery("!o:p:users")

	if !q.Negate {
		t.Error("expected Negate=true")
	}
	if q.KindFilter != "object" {
		t.Errorf("expected KindFilter 'object', got '%s'", q.KindFilter)
	}
	if !q.MatchPath {
		t.Error("expected MatchPath=true")
	}
	if q.Pattern != "users" {
		t.Errorf("expected pattern 'users', got '%s'", q.Pattern)
	}
}

func TestFuzzyMatch_ExactPrefix(t *testing.T) {
	match, positions := FuzzyMatch("user", "user_name")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 4 || positions[0] != 0 || positions[3] != 3 {
		t.Errorf("expected positions [0,1,2,3], got %v", positions)
	}
}

func TestFuzzyMatch_Subsequence(t *testing.T) {
	match, positions := FuzzyMatch("unm", "user_name")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(positions))
	}
}

func TestFuzzyMatch_NoMatchAndCase(t *testing.T) {
	if match, _ := FuzzyMatch("xyz", "user_name"); match {
		t.Error("expected no match")
	}
	if match, _ := FuzzyMatch("USER", "user_name"); !match {
		t.Error("expected case-insensitive match")
	}
	if match, positions := FuzzyMatch("", "anything"); !match || len(positions) != 0 {
		t.Error("expected empty pattern to match everything")
	}
}

func filterDoc(t *testing.T) jsontree.Value {
	t.Helper()
	v, err := jsontree.Parse(`{
		"name": "Ada",
		"age": 36,
		"email": "ada@example.com",
		"meta": {"active": true, "nickname": null},
		"tags": ["math", "engines"]
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return v
}

func matchedPaths(nodes []jsontree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path.String()
	}
	return out
}

func TestFilterNodes_Pattern(t *testing.T) {
	got := matchedPaths(FilterNodes(filterDoc(t), ParseSearchQuery("nam")))

	want := []string{`["name"]`, `["meta"]["nickname"]`}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestFilterNodes_KindOnly(t *testing.T) {
	got := matchedPaths(FilterNodes(filterDoc(t), ParseSearchQuery("s:")))

	// name, email and the two tags
	if len(got) != 4 {
		t.Errorf("Expected 4 string nodes, got %v", got)
	}
}

func TestFilterNodes_ArrayElementsMatchOnPath(t *testing.T) {
	got := matchedPaths(FilterNodes(filterDoc(t), ParseSearchQuery("s:tags1")))

	if len(got) != 1 || got[0] != `["tags"][1]` {
		t.Errorf("Expected [\"tags\"][1], got %v", got)
	}
}

func TestFilterNodes_Negate(t *testing.T) {
	got := FilterNodes(filterDoc(t), ParseSearchQuery("!o:"))

	for _, n := range got {
		if n.Value.Kind() == jsontree.KindObject {
			t.Errorf("Expected no objects, got %s", n.Path)
		}
	}
	if len(got) != 8 {
		t.Errorf("Expected 8 non-object nodes, got %d", len(got))
	}
}

func TestFilterNodes_RootNeverMatches(t *testing.T) {
	got := FilterNodes(filterDoc(t), ParseSearchQuery(""))

	for _, n := range got {
		if n.Path.IsRoot() {
			t.Error("Expected root to be excluded")
		}
	}
	if len(got) != 9 {
		t.Errorf("Expected 9 nodes, got %d", len(got))
	}
}
