package semtok

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/msarson/Clarion-Extension-sub003/pkg/position"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// Record is one highlighted token. Column and Length are UTF-16 code units,
// as editors count them.
type Record struct {
	Line      uint32
	Column    uint32
	Length    uint32
	Category  Category
	Modifiers Modifier
}

// Classify returns records for construct openers, control-flow keywords and
// end markers, in document order.
func Classify(ctx context.Context, doc *token.Document) []Record {
	if doc == nil {
		return []Record{}
	}

	out := make([]Record, 0, len(doc.Tokens)/8)
	for i, t := range doc.Tokens {
		category, mods, ok := classify(ctx, doc, i)
		if !ok {
			continue
		}
		out = append(out, record(doc, t, category, mods))
	}
	return out
}

func classify(ctx context.Context, doc *token.Document, i int) (Category, Modifier, bool) {
	t := doc.Tokens[i]

	switch {
	case t.IsOpener():
		return categoryOf(t.Construct), ModifierDeclaration, true

	case t.Kind == token.ControlKeyword:
		if t.ClosedBy != token.NoIndex {
			return CategoryControl, ModifierClosing, true
		}
		return CategoryControl, 0, true

	case t.Kind == token.EndMarker:
		if t.ClosedBy == token.NoIndex {
			zerolog.Ctx(ctx).Debug().
				Int("line", t.Line).
				Int("column", t.Column).
				Msg("end marker closes nothing, using fallback category")
			return CategoryKeyword, ModifierClosing | ModifierOrphaned, true
		}
		return categoryOf(doc.Tokens[t.ClosedBy].Construct), ModifierClosing, true
	}

	return 0, 0, false
}

func record(doc *token.Document, t token.Token, c Category, m Modifier) Record {
	col, length := t.Column, len(t.Text)
	if t.Line < len(doc.Lines) {
		line := doc.Lines[t.Line]
		col = position.UTF16Column(line, t.Column)
		length = position.UTF16Len(t.Text)
	}
	return Record{
		Line:      uint32(t.Line),
		Column:    uint32(col),
		Length:    uint32(length),
		Category:  c,
		Modifiers: m,
	}
}

// Encode converts records into LSP SemanticTokens data. Records are sorted
// by position first; the input slice is not modified.
func Encode(records []Record) []uint32 {
	if len(records) == 0 {
		return []uint32{}
	}

	sorted := append([]Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].Column < sorted[j].Column
	})

	data := make([]uint32, 0, len(sorted)*5)
	var prevLine, prevStart uint32

	for _, r := range sorted {
		deltaLine := r.Line - prevLine
		deltaStart := r.Column
		if deltaLine == 0 {
			deltaStart = r.Column - prevStart
		}

		data = append(data,
			deltaLine,
			deltaStart,
			r.Length,
			uint32(r.Category),
			uint32(r.Modifiers),
		)

		prevLine = r.Line
		prevStart = r.Column
	}

	return data
}

// Decode reverses Encode. It is used by tooling that prints payloads.
func Decode(data []uint32) []Record {
	out := make([]Record, 0, len(data)/5)
	var line, start uint32
	for i := 0; i+4 < len(data); i += 5 {
		if data[i] != 0 {
			start = 0
		}
		line += data[i]
		start += data[i+1]
		out = append(out, Record{
			Line:      line,
			Column:    start,
			Length:    data[i+2],
			Category:  Category(data[i+3]),
			Modifiers: Modifier(data[i+4]),
		})
	}
	return out
}
