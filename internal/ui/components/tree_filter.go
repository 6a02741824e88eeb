// internal/ui/components/tree_filter.go
package components

import (
	"strings"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

// SearchQuery represents a parsed search query
type SearchQuery struct {
	Pattern    string // The search pattern (after removing prefixes)
	Negate     bool   // True if query starts with !
	KindFilter string // Normalized kind filter (e.g., "string", "object")
	MatchPath  bool   // Match against the full path instead of the key
}

// Kind prefix mappings
var kindPrefixes = map[string]string{
	// Short prefixes
	"s:":  "string",
	"n:":  "number",
	"b:":  "boolean",
	"o:":  "object",
	"a:":  "array",
	"nl:": "null",
	// Long prefixes
	"string:":  "string",
	"str:":     "string",
	"number:":  "number",
	"num:":     "number",
	"bool:":    "boolean",
	"boolean:": "boolean",
	"object:":  "object",
	"obj:":     "object",
	"array:":   "array",
	"arr:":     "array",
	"null:":    "null",
}

const pathPrefix = "p:"

// ParseSearchQuery parses a search query string into structured form
// Examples:
//   - "name" → {Pattern: "name"}
//   - "!id" → {Pattern: "id", Negate: true}
//   - "s:mail" → {Pattern: "mail", KindFilter: "string"}
//   - "!o:meta" → {Pattern: "meta", Negate: true, KindFilter: "object"}
//   - "p:users0" → {Pattern: "users0", MatchPath: true}
func ParseSearchQuery(query string) SearchQuery {
	q := SearchQuery{}

	// Check for negation prefix
	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	// Check for kind prefix
	queryLower := strings.ToLower(query)
	for prefix, kindName := range kindPrefixes {
		if strings.HasPrefix(queryLower, prefix) {
			q.KindFilter = kindName
			query = query[len(prefix):]
			break
		}
	}

	if strings.HasPrefix(strings.ToLower(query), pathPrefix) {
		q.MatchPath = true
		query = query[len(pathPrefix):]
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternLower := strings.ToLower(pattern)
	targetLower := strings.ToLower(target)

	positions := make([]int, 0, len(pattern))
	patternIdx := 0

	for i := 0; i < len(targetLower) && patternIdx < len(patternLower); i++ {
		if targetLower[i] == patternLower[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternLower) {
		return true, positions
	}
	return false, nil
}

// NodeMatchesKind checks if a node matches the given kind filter
// Empty filter matches all nodes
func NodeMatchesKind(node jsontree.Node, kindFilter string) bool {
	if kindFilter == "" {
		return true
	}
	return node.Value.Kind().String() == kindFilter
}

// searchTarget is the text a node is matched against. Array elements have
// no key, so they match on their path.
func searchTarget(node jsontree.Node, matchPath bool) string {
	if matchPath || node.Name == "" {
		return node.Path.String()
	}
	return node.Name
}

// FilterNodes filters the document based on search query
// Returns the matching nodes in document order. The root never matches.
func FilterNodes(root jsontree.Value, query SearchQuery) []jsontree.Node {
	var matches []jsontree.Node

	jsontree.Walk(root, func(node jsontree.Node) bool {
		if node.Path.IsRoot() {
			return true
		}

		// Check kind filter first
		kindMatches := NodeMatchesKind(node, query.KindFilter)

		// Check pattern match
		patternMatches := true
		if query.Pattern != "" {
			patternMatches, _ = FuzzyMatch(query.Pattern, searchTarget(node, query.MatchPath))
		}

		// Apply negation logic
		shouldInclude := false
		if query.Negate {
			if query.KindFilter != "" && !kindMatches {
				shouldInclude = true
			} else if kindMatches && !patternMatches {
				shouldInclude = true
			} else if query.KindFilter == "" && !patternMatches {
				shouldInclude = true
			}
		} else {
			shouldInclude = kindMatches && patternMatches
		}

		if shouldInclude {
			matches = append(matches, node)
		}

		// Always traverse children
		return true
	})

	return matches
}
