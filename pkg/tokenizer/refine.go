package tokenizer

import (
	"github.com/msarson/Clarion-Extension-sub003/pkg/lexer"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// refine settles the kind of a raw match using the surrounding statement.
// Keyword-shaped identifiers only keep their keyword kind in the position
// where the keyword is legal; elsewhere they are ordinary names.
func (p *pass) refine(m lexer.Match, next *lexer.Match) token.Kind {
	statement := p.stmt && p.parens == 0

	switch m.Kind {
	case token.Structure, token.Class, token.Interface, token.ControlFlow:
		if statement {
			return m.Kind
		}
		return p.demote(next)

	case token.Window:
		if statement {
			if token.TopWindows.Has(m.Text) || p.inWindow() {
				return token.Window
			}
			if token.ControlKeywords.Has(m.Text) {
				return token.ControlKeyword
			}
		}
		return p.demote(next)

	case token.WindowControl:
		if statement && p.inWindow() {
			return token.WindowControl
		}
		return p.demote(next)

	case token.Type:
		if statement && p.inWindow() && token.ControlTypes.Has(m.Text) {
			return token.WindowControl
		}
		if p.inCode() && p.parens == 0 && p.prevKind() != token.Label && opens(next) {
			return token.Function
		}
		return token.Type

	case token.Attribute:
		if p.prevIs(",") {
			return token.Attribute
		}
		return p.demote(next)
	}

	return m.Kind
}

// demote picks the kind of a keyword used outside its keyword position.
func (p *pass) demote(next *lexer.Match) token.Kind {
	switch {
	case p.prevIs(",") && p.parens == 0:
		return token.Attribute
	case opens(next):
		return token.Function
	case p.parens > 0 && next != nil && next.Kind.IsIdentifier():
		// parameter type in a prototype, as in (QUEUE q)
		return token.Type
	}
	return token.Variable
}

func opens(next *lexer.Match) bool {
	return next != nil && next.Kind == token.Delimiter && next.Text == "("
}
