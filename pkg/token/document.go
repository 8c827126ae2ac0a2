package token

import (
	"sort"

	"github.com/msarson/Clarion-Extension-sub003/pkg/diagnostic"
	"github.com/msarson/Clarion-Extension-sub003/pkg/position"
)

// Document is the result of one tokenization pass over one document snapshot.
type Document struct {
	// Tokens are ordered by position and never overlap.
	Tokens []Token `json:"tokens"`
	// Lines are the tab-expanded source lines the token columns refer to.
	Lines       []string                `json:"-"`
	Diagnostics diagnostic.Diagnostics `json:"-"`
}

// LastLine returns the index of the final line.
func (d *Document) LastLine() int {
	if len(d.Lines) == 0 {
		return 0
	}
	return len(d.Lines) - 1
}

// TokenAt returns the index of the token overlapping p. p.Character counts
// UTF-16 code units in the tab-expanded line, as editors do.
func (d *Document) TokenAt(p position.Place) (int, bool) {
	col := p.Character
	if p.Line >= 0 && p.Line < len(d.Lines) {
		col = position.ByteColumn(d.Lines[p.Line], p.Character)
	}

	i := sort.Search(len(d.Tokens), func(i int) bool {
		t := d.Tokens[i]
		return t.Line > p.Line || (t.Line == p.Line && t.End() > col)
	})
	if i == len(d.Tokens) {
		return NoIndex, false
	}
	t := d.Tokens[i]
	if t.Line != p.Line || t.Column > col {
		return NoIndex, false
	}
	return i, true
}

// EndLine returns the last line covered by the opener at index i: the line of
// its end marker, or the final line when it was never closed.
func (d *Document) EndLine(i int) int {
	t := d.Tokens[i]
	if t.ClosesAt == NoIndex {
		return d.LastLine()
	}
	return d.Tokens[t.ClosesAt].Line
}

// Range returns the extent of the token at index i in UTF-16 columns. An
// opener's range runs to the end of its end marker; an unclosed opener runs
// to the start of the line after the last one.
func (d *Document) Range(i int) position.Range {
	t := d.Tokens[i]
	r := position.Range{Start: d.place(t.Line, t.Column)}

	switch {
	case !t.IsOpener():
		r.End = d.place(t.Line, t.End())
	case t.ClosesAt == NoIndex:
		r.End = position.Place{Line: d.LastLine() + 1}
	default:
		end := d.Tokens[t.ClosesAt]
		r.End = d.place(end.Line, end.End())
	}
	return r
}

func (d *Document) place(line, col int) position.Place {
	if line < len(d.Lines) {
		col = position.UTF16Column(d.Lines[line], col)
	}
	return position.Place{Line: line, Character: col}
}

// Enclosing returns the innermost construct whose range contains p, or
// NoIndex. Columns are UTF-16 code units.
func (d *Document) Enclosing(p position.Place) int {
	best := NoIndex
	for i, t := range d.Tokens {
		if !t.IsOpener() {
			continue
		}
		r := d.Range(i)
		if p.Before(r.Start) {
			break
		}
		// later openers that still contain p are nested deeper
		if r.Contains(p) {
			best = i
		}
	}
	return best
}

func (d *Document) filter(keep func(Token) bool) []int {
	var out []int
	for i, t := range d.Tokens {
		if keep(t) {
			out = append(out, i)
		}
	}
	return out
}

// Constructs returns the indices of every construct opener.
func (d *Document) Constructs() []int {
	return d.filter(Token.IsOpener)
}

// References returns the indices of tokens carrying an external reference.
func (d *Document) References() []int {
	return d.filter(func(t Token) bool { return t.ExternalReference != "" })
}

// Orphans returns the indices of end markers that closed nothing.
func (d *Document) Orphans() []int {
	return d.filter(Token.IsOrphan)
}

// Unclosed returns the indices of openers still open at end of document.
func (d *Document) Unclosed() []int {
	return d.filter(Token.IsUnclosed)
}
