package semtok

import (
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// Category is an index into Legend.TokenTypes.
type Category uint32

const (
	CategoryKeyword Category = iota
	CategoryStructure
	CategoryClass
	CategoryWindow
	CategoryControl
)

// Modifier is a bit in a record's modifier mask.
type Modifier uint32

const (
	ModifierDeclaration Modifier = 1 << iota
	ModifierClosing
	ModifierOrphaned
)

// LegendVersion changes whenever the order of either legend list changes.
const LegendVersion = 1

// Legend is the list of names an editor registers for semantic tokens.
type Legend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// DefaultLegend returns the legend matching Category and Modifier.
func DefaultLegend() Legend {
	return Legend{
		TokenTypes:     []string{"keyword", "structure", "class", "window", "controlFlow"},
		TokenModifiers: []string{"declaration", "closing", "orphaned"},
	}
}

func (c Category) String() string {
	types := DefaultLegend().TokenTypes
	if int(c) < len(types) {
		return types[c]
	}
	return "unknown"
}

// Names returns the legend names of the bits set in m.
func (m Modifier) Names() []string {
	var out []string
	for i, name := range DefaultLegend().TokenModifiers {
		if m&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// categoryOf maps a construct category onto the legend.
func categoryOf(c token.Construct) Category {
	switch c {
	case token.ConstructData:
		return CategoryStructure
	case token.ConstructOOP:
		return CategoryClass
	case token.ConstructWindow:
		return CategoryWindow
	case token.ConstructControl:
		return CategoryControl
	}
	return CategoryKeyword
}
