package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format pretty-prints text with the given indent width. Member order and
// number text are kept as written. Invalid input is returned unchanged.
func Format(text string, indent int) string {
	if indent <= 0 {
		indent = 2
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(text)), "", strings.Repeat(" ", indent)); err != nil {
		return text
	}
	return buf.String()
}

// Minify removes insignificant whitespace. Invalid input is returned unchanged.
func Minify(text string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(strings.TrimSpace(text))); err != nil {
		return text
	}
	return buf.String()
}

// SortAndFormat re-serializes text with object keys sorted at every level.
// This is the only transform that reorders keys; it works on raw text and
// returns an error for invalid input.
func SortAndFormat(text string, indent int) (string, error) {
	if indent <= 0 {
		indent = 2
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var parsed interface{}
	if err := dec.Decode(&parsed); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("invalid JSON: unexpected data after top-level value at offset %d", dec.InputOffset())
	}

	// encoding/json writes map keys in sorted order
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(parsed); err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Truncate shortens a JSON string for single-line display
func Truncate(jsonStr string, maxLen int) string {
	if len(jsonStr) <= maxLen {
		return jsonStr
	}
	if maxLen <= 3 {
		return jsonStr[:maxLen]
	}

	// Try to truncate at a reasonable boundary
	truncated := jsonStr[:maxLen-3]

	// Find last space, comma, or bracket
	lastGood := strings.LastIndexAny(truncated, " ,{}[]")
	if lastGood > maxLen/2 {
		truncated = truncated[:lastGood]
	}

	return truncated + "..."
}
