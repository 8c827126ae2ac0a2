package position

import (
	"bufio"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// DefaultTabWidth is used when a caller passes a non-positive tab width.
const DefaultTabWidth = 4

// Place is a zero-based line and UTF-16 character offset.
type Place struct {
	Line      int
	Character int
}

// Range is a half-open span between two places.
type Range struct {
	Start Place
	End   Place
}

// Before reports whether p comes strictly before o.
func (p Place) Before(o Place) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

// Contains reports whether p falls inside r; the end is exclusive.
func (r Range) Contains(p Place) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// SplitLines splits text on \n, dropping a trailing \r from every line.
// Empty text yields a single empty line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ExpandTabs replaces every tab in line with spaces up to the next multiple
// of width. Columns are counted in grapheme clusters, so a combining sequence
// occupies one column.
func ExpandTabs(line string, width int) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	if width <= 0 {
		width = DefaultTabWidth
	}

	var sb strings.Builder
	sb.Grow(len(line) + width)

	sc := bufio.NewScanner(strings.NewReader(line))
	sc.Buffer(make([]byte, 0, len(line)+1), len(line)+1)
	sc.Split(textseg.ScanGraphemeClusters)

	col := 0
	for sc.Scan() {
		cluster := sc.Text()
		if cluster == "\t" {
			pad := width - col%width
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		sb.WriteString(cluster)
		col++
	}

	if sc.Err() != nil {
		// invalid input: fall back to a byte-wise expansion
		return strings.ReplaceAll(line, "\t", strings.Repeat(" ", width))
	}

	return sb.String()
}

// UTF16Column converts a byte offset within line into the number of UTF-16
// code units before it, which is what editors count columns in.
func UTF16Column(line string, byteCol int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return UTF16Len(line[:byteCol])
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if w := utf16.RuneLen(r); w > 0 {
			n += w
			continue
		}
		n++
	}
	return n
}

// ByteColumn converts a UTF-16 column within line back to a byte offset. A
// column inside a surrogate pair maps to the start of its rune; a column past
// the end maps to len(line).
func ByteColumn(line string, utf16Col int) int {
	n := 0
	for i, r := range line {
		w := utf16.RuneLen(r)
		if w <= 0 {
			w = 1
		}
		if n+w > utf16Col {
			return i
		}
		n += w
	}
	return len(line)
}
