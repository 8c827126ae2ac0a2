package tokenizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/msarson/Clarion-Extension-sub003/pkg/diagnostic"
	"github.com/msarson/Clarion-Extension-sub003/pkg/lexer"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// pass is the state of one Tokenize call.
type pass struct {
	ctx      context.Context
	doc      *token.Document
	children bool

	stack []int

	// open procedure-like scopes; a routine nests inside a procedure
	procedure int
	routine   int

	// statement context, carried over continued lines
	stmt      bool
	prev      int
	parens    int
	continued bool

	ref refState
}

type refState uint8

const (
	refIdle refState = iota
	refKeyword
	refOpen
)

func newPass(ctx context.Context, lines []string, children bool) *pass {
	return &pass{
		ctx: ctx,
		doc: &token.Document{
			Tokens: make([]token.Token, 0, len(lines)*4),
			Lines:  lines,
		},
		children:  children,
		procedure: token.NoIndex,
		routine:   token.NoIndex,
		prev:      token.NoIndex,
	}
}

func (p *pass) line(n int, matches []lexer.Match) {
	if !p.continued {
		p.stmt = true
		p.prev = token.NoIndex
		p.parens = 0
		p.ref = refIdle
	}
	p.continued = false

	for i, m := range matches {
		var next *lexer.Match
		if i+1 < len(matches) {
			next = &matches[i+1]
		}
		p.emit(n, m, next)
	}
}

func (p *pass) emit(line int, m lexer.Match, next *lexer.Match) {
	kind := p.refine(m, next)

	idx := len(p.doc.Tokens)
	tok := token.New(kind, m.Text, line, m.Column)
	tok.Parent = p.top()
	p.doc.Tokens = append(p.doc.Tokens, tok)

	if kind == token.Comment {
		return
	}

	p.reference(idx)

	switch {
	case kind.IsOpener():
		p.doc.Tokens[idx].Construct = token.CategoryOf(kind, m.Text)
		p.adopt(idx)
		p.stack = append(p.stack, idx)
	case kind == token.EndMarker:
		p.close(idx)
	case p.loopTerminator(idx):
		p.close(idx)
	default:
		p.adopt(idx)
		p.scopes(idx, next)
	}

	p.advance(idx)
}

func (p *pass) top() int {
	if len(p.stack) == 0 {
		return token.NoIndex
	}
	return p.stack[len(p.stack)-1]
}

func (p *pass) adopt(idx int) {
	parent := p.top()
	if !p.children || parent == token.NoIndex {
		return
	}
	p.doc.Tokens[parent].Children = append(p.doc.Tokens[parent].Children, idx)
}

// close pops the innermost construct and links it with the marker at idx. An
// empty stack leaves the marker orphaned.
func (p *pass) close(idx int) {
	end := &p.doc.Tokens[idx]

	opener := p.top()
	if opener == token.NoIndex {
		p.doc.Diagnostics.Add(p.diagnostic(*end, fmt.Sprintf("%s does not close any open structure", end.Text)))
		zerolog.Ctx(p.ctx).Debug().
			Int("line", end.Line).
			Int("column", end.Column).
			Str("text", end.Text).
			Msg("orphaned end marker")
		return
	}

	p.stack = p.stack[:len(p.stack)-1]
	end.ClosedBy = opener
	p.doc.Tokens[opener].ClosesAt = idx
}

// loopTerminator reports whether idx is a WHILE or UNTIL that starts a
// statement and so ends a LOOP opened on an earlier line.
func (p *pass) loopTerminator(idx int) bool {
	t := p.doc.Tokens[idx]
	if t.Kind != token.ControlKeyword || !p.stmt {
		return false
	}
	if u := t.Upper(); u != "WHILE" && u != "UNTIL" {
		return false
	}
	top := p.top()
	if top == token.NoIndex {
		return false
	}
	opener := p.doc.Tokens[top]
	return opener.Upper() == "LOOP" && opener.Line < t.Line
}

// scopes maintains the procedure-like scope flags. next is the raw match
// after idx on the same line, if any.
func (p *pass) scopes(idx int, next *lexer.Match) {
	t := &p.doc.Tokens[idx]

	switch t.Kind {
	case token.Procedure:
		if p.prevKind() != token.Label || p.inPrototypes() {
			return
		}
		p.closeScope(&p.routine, t.Line-1)
		p.closeScope(&p.procedure, t.Line-1)
		p.procedure = idx
	case token.Directive:
		if t.Upper() != "PROGRAM" {
			return
		}
		p.closeScope(&p.routine, t.Line-1)
		p.closeScope(&p.procedure, t.Line-1)
		p.procedure = idx
	case token.Routine:
		if p.prevKind() != token.Label {
			return
		}
		p.closeScope(&p.routine, t.Line-1)
		p.routine = idx
	case token.ExecutionMarker:
		if s := p.scope(); s != token.NoIndex {
			p.doc.Tokens[s].ExecutionMarkerSeen = true
		}
	case token.DataMarker:
		if s := p.scope(); s != token.NoIndex {
			p.doc.Tokens[s].HasLocalDataSection = true
		}
	case token.Label:
		// a declaration before CODE means the procedure has local data; the
		// label of the next procedure or routine is not a declaration
		if p.startsScope(next) {
			return
		}
		if p.routine == token.NoIndex && p.procedure != token.NoIndex && !p.doc.Tokens[p.procedure].ExecutionMarkerSeen {
			p.doc.Tokens[p.procedure].HasLocalDataSection = true
		}
	}
}

// startsScope reports whether a label followed by next begins a new
// procedure-like scope.
func (p *pass) startsScope(next *lexer.Match) bool {
	if next == nil {
		return false
	}
	switch next.Kind {
	case token.Routine:
		return true
	case token.Procedure:
		return !p.inPrototypes()
	}
	return false
}

func (p *pass) scope() int {
	if p.routine != token.NoIndex {
		return p.routine
	}
	return p.procedure
}

func (p *pass) closeScope(s *int, endLine int) {
	if *s == token.NoIndex {
		return
	}
	t := &p.doc.Tokens[*s]
	if endLine < t.Line {
		endLine = t.Line
	}
	t.ScopeEndLine = endLine
	t.IsImplicitExecutionStart = !t.ExecutionMarkerSeen
	*s = token.NoIndex
}

// inCode reports whether the innermost scope is executing statements. A
// routine without a DATA section executes from its first line.
func (p *pass) inCode() bool {
	if p.routine != token.NoIndex {
		r := p.doc.Tokens[p.routine]
		return r.ExecutionMarkerSeen || !r.HasLocalDataSection
	}
	return p.procedure != token.NoIndex && p.doc.Tokens[p.procedure].ExecutionMarkerSeen
}

func (p *pass) inWindow() bool {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.doc.Tokens[p.stack[i]].Construct == token.ConstructWindow {
			return true
		}
	}
	return false
}

// inPrototypes reports whether a MAP, MODULE, CLASS or INTERFACE is open, so
// that PROCEDURE declares a prototype rather than starting a body.
func (p *pass) inPrototypes() bool {
	for _, i := range p.stack {
		if token.PrototypeContainers.Has(p.doc.Tokens[i].Text) {
			return true
		}
	}
	return false
}

func (p *pass) prevKind() token.Kind {
	if p.prev == token.NoIndex {
		return token.Unknown
	}
	return p.doc.Tokens[p.prev].Kind
}

func (p *pass) prevIs(text string) bool {
	return p.prev != token.NoIndex && p.doc.Tokens[p.prev].Kind == token.Delimiter && p.doc.Tokens[p.prev].Text == text
}

// reference records the first string argument of INCLUDE, MEMBER, MODULE and
// LINK as an external reference.
func (p *pass) reference(idx int) {
	t := &p.doc.Tokens[idx]

	switch {
	case referrer(t.Kind) && token.ReferenceDirectives.Has(t.Text):
		p.ref = refKeyword
	case p.ref == refKeyword && t.Kind == token.Delimiter && t.Text == "(":
		p.ref = refOpen
	case p.ref == refOpen && t.Kind == token.String:
		t.ExternalReference = unquote(t.Text)
		p.ref = refIdle
	default:
		p.ref = refIdle
	}
}

func referrer(k token.Kind) bool {
	return k == token.Directive || k == token.Structure || k == token.Attribute
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return strings.ReplaceAll(s, "''", "'")
}

// advance updates the statement context after the token at idx.
func (p *pass) advance(idx int) {
	t := p.doc.Tokens[idx]

	if t.Kind == token.LineContinuation {
		p.continued = true
		return
	}
	p.continued = false

	switch {
	case t.Kind == token.Delimiter && t.Text == "(":
		p.parens++
	case t.Kind == token.Delimiter && t.Text == ")" && p.parens > 0:
		p.parens--
	}

	p.stmt = false
	switch t.Kind {
	case token.Label, token.EndMarker:
		p.stmt = true
	case token.ControlKeyword:
		if u := t.Upper(); u == "THEN" || u == "ELSE" {
			p.stmt = true
		}
	case token.Delimiter:
		p.stmt = t.Text == ";" && p.parens == 0
	}
	p.prev = idx
}

// finish closes every scope and reports constructs left open.
func (p *pass) finish() {
	last := p.doc.LastLine()
	p.closeScope(&p.routine, last)
	p.closeScope(&p.procedure, last)

	for _, i := range p.stack {
		t := p.doc.Tokens[i]
		p.doc.Diagnostics.Add(p.diagnostic(t, fmt.Sprintf("%s is never closed", t.Text)))
		zerolog.Ctx(p.ctx).Debug().
			Int("line", t.Line).
			Int("column", t.Column).
			Str("text", t.Text).
			Msg("unclosed structure")
	}
	p.stack = nil
}

func (p *pass) diagnostic(t token.Token, msg string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Message:  msg,
		Line:     t.Line + 1,
		Column:   t.Column + 1,
		EndLine:  t.Line + 1,
		EndCol:   t.End() + 1,
		Severity: diagnostic.Warning,
	}
}
