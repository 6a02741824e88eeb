package jsondoc

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// HunkKind says how a hunk changes the left text into the right
type HunkKind byte

const (
	HunkChanged  HunkKind = 'r'
	HunkRemoved  HunkKind = 'd'
	HunkInserted HunkKind = 'i'
)

// Hunk is a run of differing lines. Line ranges are half open and zero
// based.
type Hunk struct {
	Kind       HunkKind
	LeftStart  int
	LeftEnd    int
	RightStart int
	RightEnd   int
}

// DiffLine is one row of a side by side rendering. A line number of -1
// marks padding on that side.
type DiffLine struct {
	Left, Right     string
	LeftNo, RightNo int
	Hunk            int // index into Diff.Hunks, -1 for unchanged lines
}

// Diff is a line diff between two texts
type Diff struct {
	Left  []string
	Right []string
	Hunks []Hunk
	Lines []DiffLine
}

// Compare diffs left against right line by line
func Compare(left, right string) *Diff {
	d := &Diff{Left: splitLines(left), Right: splitLines(right)}

	// Brace-only lines repeat too often for autojunk to be useful on JSON
	m := difflib.NewMatcherWithJunk(d.Left, d.Right, false, nil)
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' {
			for i := 0; i < op.I2-op.I1; i++ {
				d.Lines = append(d.Lines, DiffLine{
					Left: d.Left[op.I1+i], Right: d.Right[op.J1+i],
					LeftNo: op.I1 + i, RightNo: op.J1 + i,
					Hunk: -1,
				})
			}
			continue
		}

		idx := len(d.Hunks)
		d.Hunks = append(d.Hunks, Hunk{
			Kind:       HunkKind(op.Tag),
			LeftStart:  op.I1,
			LeftEnd:    op.I2,
			RightStart: op.J1,
			RightEnd:   op.J2,
		})
		rows := max(op.I2-op.I1, op.J2-op.J1)
		for i := 0; i < rows; i++ {
			line := DiffLine{LeftNo: -1, RightNo: -1, Hunk: idx}
			if op.I1+i < op.I2 {
				line.Left, line.LeftNo = d.Left[op.I1+i], op.I1+i
			}
			if op.J1+i < op.J2 {
				line.Right, line.RightNo = d.Right[op.J1+i], op.J1+i
			}
			d.Lines = append(d.Lines, line)
		}
	}
	return d
}

// Equal reports whether the texts have no differing lines
func (d *Diff) Equal() bool {
	return len(d.Hunks) == 0
}

// HunkLine returns the index in Lines where hunk i starts
func (d *Diff) HunkLine(i int) int {
	for n, l := range d.Lines {
		if l.Hunk == i {
			return n
		}
	}
	return 0
}

// RevertHunk returns the right text with hunk i replaced by the left
// side's lines
func (d *Diff) RevertHunk(i int) string {
	if i < 0 || i >= len(d.Hunks) {
		return strings.Join(d.Right, "\n")
	}
	h := d.Hunks[i]
	out := make([]string, 0, len(d.Right)-(h.RightEnd-h.RightStart)+(h.LeftEnd-h.LeftStart))
	out = append(out, d.Right[:h.RightStart]...)
	out = append(out, d.Left[h.LeftStart:h.LeftEnd]...)
	out = append(out, d.Right[h.RightEnd:]...)
	return strings.Join(out, "\n")
}

// SortBoth runs SortAndFormat on both texts. changed is false when both
// were already in sorted form.
func SortBoth(left, right string, indent int) (sortedLeft, sortedRight string, changed bool, err error) {
	if sortedLeft, err = SortAndFormat(left, indent); err != nil {
		return "", "", false, fmt.Errorf("left: %w", err)
	}
	if sortedRight, err = SortAndFormat(right, indent); err != nil {
		return "", "", false, fmt.Errorf("right: %w", err)
	}
	return sortedLeft, sortedRight, sortedLeft != left || sortedRight != right, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
