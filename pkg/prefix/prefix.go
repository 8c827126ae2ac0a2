// Package prefix tags the fields of prefixed structures. A structure declared
// with PRE(x) exposes its fields as x:Field; Resolve records x and the owning
// structure on every label or variable inside the structure's line range.
package prefix

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// Resolve runs over a finished document and mutates its tokens in place.
// Nested prefixed structures are visited after their parents, so the
// innermost prefix wins.
func Resolve(ctx context.Context, doc *token.Document) {
	if doc == nil {
		return
	}

	tagged := 0
	for i := range doc.Tokens {
		if !doc.Tokens[i].IsOpener() {
			continue
		}

		pre, declEnd, ok := declared(doc, i)
		if !ok {
			continue
		}

		doc.Tokens[i].StructurePrefix = pre
		tagged += tag(doc, i, pre, declEnd)
	}

	if tagged > 0 {
		zerolog.Ctx(ctx).Debug().Int("fields", tagged).Msg("resolved structure prefixes")
	}
}

// declared looks for PRE(x) on the declaration of the opener at i, following
// line continuations. It returns the prefix and the last declaration line.
func declared(doc *token.Document, i int) (string, int, bool) {
	toks := doc.Tokens
	line := toks[i].Line
	continued := false

	for j := i + 1; j < len(toks); j++ {
		t := toks[j]
		if t.Line != line {
			if !continued {
				break
			}
			line = t.Line
		}
		if t.Kind == token.Comment {
			continue
		}
		continued = t.Kind == token.LineContinuation

		if t.Kind != token.Attribute || t.Upper() != "PRE" {
			continue
		}
		if j+2 >= len(toks) {
			return "", 0, false
		}
		open, name := toks[j+1], toks[j+2]
		if open.Kind != token.Delimiter || open.Text != "(" || name.Line != t.Line {
			return "", 0, false
		}
		if name.Kind == token.Delimiter || name.Kind == token.String {
			return "", 0, false
		}
		return name.Text, line, true
	}

	return "", 0, false
}

// tag marks the fields strictly between the declaration and the closing line.
// An unclosed structure extends to the end of the document.
func tag(doc *token.Document, opener int, pre string, declEnd int) int {
	last := doc.LastLine() + 1
	if end := doc.Tokens[opener].ClosesAt; end != token.NoIndex {
		last = doc.Tokens[end].Line
	}

	n := 0
	for j := opener + 1; j < len(doc.Tokens); j++ {
		t := &doc.Tokens[j]
		if t.Line >= last {
			break
		}
		if t.Line <= declEnd {
			continue
		}
		if t.Kind != token.Label && t.Kind != token.Variable {
			continue
		}
		t.StructurePrefix = pre
		t.IsPrefixedField = true
		t.OwningConstruct = opener
		n++
	}
	return n
}
