// Package tokenizer drives the line matcher over a whole document and
// resolves nesting: every construct opener is pushed on a stack and the
// generic end marker (END or '.') closes whatever is innermost.
//
// Tokenize never fails. Malformed input degrades to Unknown tokens, orphaned
// end markers and unclosed constructs, each reported as a diagnostic.
package tokenizer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/msarson/Clarion-Extension-sub003/pkg/lexer"
	"github.com/msarson/Clarion-Extension-sub003/pkg/pattern"
	"github.com/msarson/Clarion-Extension-sub003/pkg/position"
	"github.com/msarson/Clarion-Extension-sub003/pkg/prefix"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// Tokenizer holds the frozen registry and per-caller options. It is safe for
// concurrent use; each Tokenize call owns its own stack and output.
type Tokenizer struct {
	matcher  *lexer.Matcher
	tabWidth int
	children bool
}

type Option func(*Tokenizer)

// WithTabWidth sets the tab stop used to expand tabs before matching.
func WithTabWidth(width int) Option {
	return func(t *Tokenizer) {
		if width > 0 {
			t.tabWidth = width
		}
	}
}

// WithChildren records, for every construct, the tokens it directly owns.
func WithChildren(enabled bool) Option {
	return func(t *Tokenizer) {
		t.children = enabled
	}
}

// New returns a tokenizer over reg. A nil registry falls back to pattern.Shared.
func New(reg *pattern.Registry, opts ...Option) *Tokenizer {
	me := &Tokenizer{
		matcher:  lexer.NewMatcher(reg),
		tabWidth: position.DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(me)
	}
	return me
}

// Tokenize classifies every lexeme of text, pairs openers with end markers,
// and tags structure fields with their owning prefix.
func (me *Tokenizer) Tokenize(ctx context.Context, text string) *token.Document {
	start := time.Now()

	lines := position.SplitLines(text)
	for i, line := range lines {
		lines[i] = position.ExpandTabs(line, me.tabWidth)
	}

	p := newPass(ctx, lines, me.children)
	for n, line := range lines {
		p.line(n, me.matcher.Line(line))
	}
	p.finish()

	prefix.Resolve(ctx, p.doc)

	zerolog.Ctx(ctx).Debug().
		Int("lines", len(lines)).
		Int("tokens", len(p.doc.Tokens)).
		Int("diagnostics", p.doc.Diagnostics.Len()).
		Dur("took", time.Since(start)).
		Msg("tokenized document")

	return p.doc
}
