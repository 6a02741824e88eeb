package jsondoc

import (
	"errors"
	"strings"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

// ErrEmptyDocument is returned by transforms that need a value
var ErrEmptyDocument = errors.New("document is empty")

// Document is the raw editor text together with its parsed form. Every
// call to SetText replaces the parsed value wholesale.
type Document struct {
	Text    string
	Value   jsontree.Value
	Err     error
	Version int
}

// New creates a document from text
func New(text string) *Document {
	d := &Document{}
	d.SetText(text)
	return d
}

// SetText replaces the document text and re-parses it. Empty text leaves
// the document without a value and without an error.
func (d *Document) SetText(text string) {
	d.Text = text
	d.Version++
	d.Value = jsontree.Value{}
	d.Err = nil

	if d.IsEmpty() {
		return
	}

	v, err := jsontree.Parse(text)
	if err != nil {
		d.Err = err
		return
	}
	d.Value = v
}

// IsEmpty reports whether the text is blank
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// Valid reports whether the text parsed
func (d *Document) Valid() bool {
	return !d.IsEmpty() && d.Err == nil
}

// Size returns the text length used to pick the initial tree depth
func (d *Document) Size() int {
	return len(d.Text)
}

// Format pretty-prints the document in place. Returns false when the text
// is invalid and was left alone.
func (d *Document) Format(indent int) bool {
	if !d.Valid() {
		return false
	}
	d.SetText(Format(d.Text, indent))
	return true
}

// Minify compacts the document in place
func (d *Document) Minify() bool {
	if !d.Valid() {
		return false
	}
	d.SetText(Minify(d.Text))
	return true
}

// Sort rewrites the document with object keys sorted at every level.
// Invalid text is left alone and its parse error returned.
func (d *Document) Sort(indent int) error {
	if d.IsEmpty() {
		return ErrEmptyDocument
	}
	if d.Err != nil {
		return d.Err
	}
	out, err := SortAndFormat(d.Text, indent)
	if err != nil {
		return err
	}
	d.SetText(out)
	return nil
}

// Clear empties the document
func (d *Document) Clear() {
	d.SetText("")
}
