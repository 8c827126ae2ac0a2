// Package token holds the token model shared by the tokenizer and its
// post-passes. Tokens live in a flat arena (Document.Tokens); every
// relationship between tokens is an index into that arena, NoIndex when unset.
package token

import (
	"fmt"
	"strings"
)

// NoIndex marks an unset token reference.
const NoIndex = -1

// Token is a single classified lexeme. Line and Column are 0-based; Column is
// a byte offset into the tab-expanded line.
type Token struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`

	// Construct is the category of an opener; ConstructNone otherwise.
	Construct Construct `json:"construct,omitempty"`

	// Parent is the innermost construct open when the token was emitted.
	Parent int `json:"parent"`
	// ClosesAt is the end marker that closed this opener.
	ClosesAt int `json:"closesAt"`
	// ClosedBy is the opener this end marker closed.
	ClosedBy int   `json:"closedBy"`
	Children []int `json:"children,omitempty"`

	// Procedure-like scope flags, set on Procedure, Routine and PROGRAM tokens.
	ExecutionMarkerSeen      bool `json:"executionMarkerSeen,omitempty"`
	HasLocalDataSection      bool `json:"hasLocalDataSection,omitempty"`
	IsImplicitExecutionStart bool `json:"isImplicitExecutionStart,omitempty"`
	ScopeEndLine             int  `json:"scopeEndLine,omitempty"`

	StructurePrefix string `json:"structurePrefix,omitempty"`
	IsPrefixedField bool   `json:"isPrefixedField,omitempty"`
	OwningConstruct int    `json:"owningConstruct"`

	// ExternalReference is an unresolved filename; ResolvedPath is attached
	// by callers that resolve it.
	ExternalReference string `json:"externalReference,omitempty"`
	ResolvedPath      string `json:"resolvedPath,omitempty"`
}

// New returns a token with every reference unset.
func New(kind Kind, text string, line, column int) Token {
	return Token{
		Kind:            kind,
		Text:            text,
		Line:            line,
		Column:          column,
		Parent:          NoIndex,
		ClosesAt:        NoIndex,
		ClosedBy:        NoIndex,
		OwningConstruct: NoIndex,
	}
}

// End returns the column just past the token.
func (t Token) End() int {
	return t.Column + len(t.Text)
}

// Upper returns the token text upper-cased, for keyword comparisons.
func (t Token) Upper() string {
	return strings.ToUpper(t.Text)
}

// IsOpener reports whether the token opens a construct.
func (t Token) IsOpener() bool {
	return t.Kind.IsOpener()
}

// IsOrphan reports whether the token is an end marker that closed nothing.
func (t Token) IsOrphan() bool {
	return t.Kind == EndMarker && t.ClosedBy == NoIndex
}

// IsUnclosed reports whether the token is an opener left open at end of document.
func (t Token) IsUnclosed() bool {
	return t.IsOpener() && t.ClosesAt == NoIndex
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Column)
}
