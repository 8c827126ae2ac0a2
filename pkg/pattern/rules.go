package pattern

import (
	"github.com/msarson/Clarion-Extension-sub003/pkg/charclass"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

const ident = `[A-Za-z_][A-Za-z0-9_]*`

var (
	letters    = []charclass.Class{charclass.Upper, charclass.Lower, charclass.Underscore}
	digits     = []charclass.Class{charclass.Digit}
	delimiters = []charclass.Class{charclass.Delimiter}
	operators  = []charclass.Class{charclass.Operator}
	others     = []charclass.Class{charclass.Other}
)

// words builds a case-insensitive whole-word recognizer for a keyword set.
func words(w token.Words) string {
	return `(?i)^(?:` + w.Alternation() + `)\b`
}

// prefixed builds a recognizer for PREFIX:Name forms.
func prefixed(w token.Words) string {
	return `(?i)^(?:` + w.Alternation() + `):[A-Za-z0-9_]+`
}

// definitions is the priority table. Earlier rules win when several could
// match at the same cursor; the matcher never compares match lengths.
//
// Ordering constraints, each covered by a test:
//   - comments and strings precede every identifier rule
//   - reserved words (END, CODE, DATA, directives) precede Label, so they are
//     never taken for labels in column 0
//   - prefixed and dotted names precede keyword rules, so PROP:Text or
//     Cus:Name is one token
//   - Type precedes Function, so STRING(20) is a type with a size
//   - Function precedes Variable
//   - the numeric rule precedes the '.' terminator for .5 style literals
func definitions() []Rule {
	return []Rule{
		{Kind: token.Comment, Name: "comment", Starts: []charclass.Class{charclass.CommentMarker}, Source: `^!.*`},
		{Kind: token.String, Name: "string", Starts: []charclass.Class{charclass.Quote}, Source: `^'(?:[^']|'')*'?`},

		{Kind: token.Number, Name: "hex-number", Starts: digits, Source: `^[0-9][0-9A-Fa-f]*[hH]\b`},
		{Kind: token.Number, Name: "radix-number", Starts: digits, Source: `^(?:[01]+[bB]|[0-7]+[oO])\b`},
		{Kind: token.Number, Name: "number", Starts: append(append([]charclass.Class{}, digits...), delimiters...), Source: `^(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`},

		{Kind: token.Picture, Name: "picture", Starts: others, Source: `^@[A-Za-z][^\s,()']*`},
		{Kind: token.FieldEquate, Name: "field-equate", Starts: others, Source: `^\?[A-Za-z_][A-Za-z0-9_:]*`},

		{Kind: token.EndMarker, Name: "end", Starts: letters, Source: `(?i)^END\b`},
		{Kind: token.ExecutionMarker, Name: "code", Starts: letters, Source: `(?i)^CODE\b`},
		{Kind: token.DataMarker, Name: "data", Starts: letters, Source: `(?i)^DATA\b`},
		{Kind: token.Directive, Name: "directive", Starts: letters, Source: words(token.Directives)},

		{Kind: token.Label, Name: "label", Starts: letters, LineStart: true, Source: `^` + ident + `(?::[A-Za-z0-9_]+)*(?:\.` + ident + `)*`},

		{Kind: token.Property, Name: "property", Starts: letters, Source: prefixed(token.PropertyPrefixes)},
		{Kind: token.Constant, Name: "equate", Starts: letters, Source: prefixed(token.EquatePrefixes)},
		{Kind: token.ImplicitVariable, Name: "implicit-variable", Starts: letters, Source: `^` + ident + `[$#"]`},
		{Kind: token.ClassMember, Name: "class-member", Starts: letters, Source: `(?i)^(?:SELF|PARENT)(?:\.` + ident + `)+`},
		{Kind: token.StructureField, Name: "prefixed-field", Starts: letters, Source: `^` + ident + `(?::[A-Za-z0-9_]+)+(?:\.` + ident + `)*`},
		{Kind: token.StructureField, Name: "dotted-field", Starts: letters, Source: `^` + ident + `(?:\.` + ident + `)+`},

		{Kind: token.Constant, Name: "constant", Starts: letters, Source: words(token.ConstantWords)},
		{Kind: token.Operator, Name: "word-operator", Starts: letters, Source: words(token.WordOperators)},

		{Kind: token.Procedure, Name: "procedure", Starts: letters, Source: `(?i)^(?:PROCEDURE|FUNCTION)\b`},
		{Kind: token.Routine, Name: "routine", Starts: letters, Source: `(?i)^ROUTINE\b`},
		{Kind: token.Class, Name: "class", Starts: letters, Source: `(?i)^CLASS\b`},
		{Kind: token.Interface, Name: "interface", Starts: letters, Source: `(?i)^INTERFACE\b`},
		{Kind: token.Structure, Name: "structure", Starts: letters, Source: words(token.Union(token.DataStructures, token.OtherStructures))},
		{Kind: token.Window, Name: "window", Starts: letters, Source: words(token.Union(token.TopWindows, token.NestedWindows))},
		{Kind: token.ControlFlow, Name: "control-flow", Starts: letters, Source: words(token.ControlOpeners)},
		{Kind: token.ControlKeyword, Name: "control-keyword", Starts: letters, Source: words(token.ControlKeywords)},

		{Kind: token.Type, Name: "type", Starts: letters, Source: words(token.Types)},
		{Kind: token.Attribute, Name: "attribute", Starts: letters, Source: words(token.Attributes)},
		{Kind: token.WindowControl, Name: "window-control", Starts: letters, Source: words(token.WindowControls)},
		{Kind: token.Keyword, Name: "keyword", Starts: letters, Source: words(token.Keywords)},

		{Kind: token.Function, Name: "function", Starts: letters, Source: `^(` + ident + `)\(`, Group: 1},
		{Kind: token.Variable, Name: "variable", Starts: letters, Source: `^` + ident},

		{Kind: token.ReferenceVariable, Name: "reference", Starts: operators, Source: `^&` + ident},
		{Kind: token.PointerParameter, Name: "pointer", Starts: operators, Source: `(?i)^\*(?:` + token.Union(token.Types, token.DataStructures).Alternation() + `)\b`},
		{Kind: token.Operator, Name: "deep-assign", Starts: delimiters, Source: `^:=:`},
		{Kind: token.Operator, Name: "operator", Starts: operators, Source: `^(?:<>|<=|>=|=<|=>|~=|~<|~>|&=|\+=|-=|\*=|/=|\^=|%=|\*\*|[-+*/%^=<>~&])`},

		{Kind: token.LineContinuation, Name: "continuation", Starts: delimiters, Source: `^\|`},
		{Kind: token.EndMarker, Name: "terminator", Starts: delimiters, Source: `^\.`},
		{Kind: token.Delimiter, Name: "delimiter", Starts: delimiters, Source: `^[(),\[\]{}:;]`},
	}
}
