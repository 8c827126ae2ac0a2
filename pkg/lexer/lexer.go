// Package lexer splits a single line into raw token matches using the
// pattern registry. It knows nothing about nesting or surrounding lines.
package lexer

import (
	"unicode/utf8"

	"github.com/msarson/Clarion-Extension-sub003/pkg/charclass"
	"github.com/msarson/Clarion-Extension-sub003/pkg/pattern"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// Match is one raw token found on a line. Column is a byte offset.
type Match struct {
	Kind   token.Kind
	Text   string
	Column int
	// Rule names the registry rule that matched; empty for the unknown fallback.
	Rule string
}

// End returns the byte offset just past the match.
func (m Match) End() int {
	return m.Column + len(m.Text)
}

// Matcher finds tokens on a line. It holds no per-call state.
type Matcher struct {
	reg *pattern.Registry
}

func NewMatcher(reg *pattern.Registry) *Matcher {
	if reg == nil {
		reg = pattern.Shared()
	}
	return &Matcher{reg: reg}
}

// Next skips whitespace from col and returns the next token on line. It
// reports false only when the rest of the line is blank. A character no rule
// accepts becomes a one-character Unknown token, so every call advances.
func (m *Matcher) Next(line string, col int) (Match, bool) {
	for col < len(line) {
		r, size := utf8.DecodeRuneInString(line[col:])
		class := charclass.Classify(r)
		if class == charclass.Whitespace {
			col += size
			continue
		}

		rest := line[col:]
		for _, rule := range m.reg.Candidates(class, col == 0) {
			if text, ok := rule.Match(rest); ok {
				return Match{Kind: rule.Kind, Text: text, Column: col, Rule: rule.Name}, true
			}
		}

		return Match{Kind: token.Unknown, Text: rest[:size], Column: col}, true
	}

	return Match{}, false
}

// Line returns every token on line in order.
func (m *Matcher) Line(line string) []Match {
	var out []Match
	col := 0
	for {
		match, ok := m.Next(line, col)
		if !ok {
			return out
		}
		out = append(out, match)
		col = match.End()
	}
}
