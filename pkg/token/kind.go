package token

import (
	"gitlab.com/tozd/go/errors"
)

// Kind classifies a lexeme. The set is closed.
type Kind uint8

const (
	Unknown Kind = iota
	Comment
	String
	Number
	Picture
	Operator
	Delimiter
	LineContinuation

	Label
	Variable
	ImplicitVariable
	ReferenceVariable
	PointerParameter
	FieldEquate
	StructureField
	ClassMember
	Property
	Constant

	Keyword
	Directive
	ExecutionMarker
	DataMarker
	Procedure
	Routine
	Function
	Type
	Attribute
	WindowControl

	// construct openers
	Structure
	Class
	Interface
	Window
	ControlFlow

	ControlKeyword
	EndMarker

	numKinds
)

var kindNames = [numKinds]string{
	Unknown:           "unknown",
	Comment:           "comment",
	String:            "string",
	Number:            "number",
	Picture:           "picture",
	Operator:          "operator",
	Delimiter:         "delimiter",
	LineContinuation:  "lineContinuation",
	Label:             "label",
	Variable:          "variable",
	ImplicitVariable:  "implicitVariable",
	ReferenceVariable: "referenceVariable",
	PointerParameter:  "pointerParameter",
	FieldEquate:       "fieldEquate",
	StructureField:    "structureField",
	ClassMember:       "classMember",
	Property:          "property",
	Constant:          "constant",
	Keyword:           "keyword",
	Directive:         "directive",
	ExecutionMarker:   "executionMarker",
	DataMarker:        "dataMarker",
	Procedure:         "procedure",
	Routine:           "routine",
	Function:          "function",
	Type:              "type",
	Attribute:         "attribute",
	WindowControl:     "windowControl",
	Structure:         "structure",
	Class:             "class",
	Interface:         "interface",
	Window:            "window",
	ControlFlow:       "controlFlow",
	ControlKeyword:    "controlKeyword",
	EndMarker:         "endMarker",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return errors.Errorf("unknown token kind %q", string(b))
}

// IsOpener reports whether tokens of this kind are pushed on the nesting stack.
func (k Kind) IsOpener() bool {
	switch k {
	case Structure, Class, Interface, Window, ControlFlow:
		return true
	}
	return false
}

// IsIdentifier reports whether the kind names a declared or referenced value,
// the set the prefix resolver tags.
func (k Kind) IsIdentifier() bool {
	switch k {
	case Label, Variable, ImplicitVariable, ReferenceVariable, StructureField:
		return true
	}
	return false
}

// Construct is the highlighting category of a construct.
type Construct uint8

const (
	ConstructNone Construct = iota
	ConstructData
	ConstructOOP
	ConstructWindow
	ConstructControl
	// ConstructOther covers openers outside the named categories, such as MAP.
	ConstructOther
)

func (c Construct) String() string {
	switch c {
	case ConstructData:
		return "data"
	case ConstructOOP:
		return "oop"
	case ConstructWindow:
		return "window"
	case ConstructControl:
		return "control"
	case ConstructOther:
		return "other"
	default:
		return "none"
	}
}

func (c Construct) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CategoryOf returns the construct category of an opener with the given kind
// and text. Non-openers are ConstructNone.
func CategoryOf(k Kind, text string) Construct {
	switch k {
	case Class, Interface:
		return ConstructOOP
	case Window:
		return ConstructWindow
	case ControlFlow:
		return ConstructControl
	case Structure:
		if DataStructures.Has(text) {
			return ConstructData
		}
		return ConstructOther
	}
	return ConstructNone
}
