package token

import (
	"regexp"
	"sort"
	"strings"
)

// Words is a case-insensitive keyword set. The same value feeds the pattern
// registry and every other consumer that needs to test membership.
type Words struct {
	list []string
	set  map[string]struct{}
}

func NewWords(words ...string) Words {
	w := Words{
		list: make([]string, 0, len(words)),
		set:  make(map[string]struct{}, len(words)),
	}
	for _, word := range words {
		up := strings.ToUpper(word)
		if _, ok := w.set[up]; ok {
			continue
		}
		w.set[up] = struct{}{}
		w.list = append(w.list, up)
	}
	return w
}

// Has reports whether s is in the set, ignoring case.
func (w Words) Has(s string) bool {
	_, ok := w.set[strings.ToUpper(s)]
	return ok
}

// List returns the words in declaration order, upper-cased.
func (w Words) List() []string {
	return append([]string(nil), w.list...)
}

// Alternation returns the words as a regexp alternation, longest first.
func (w Words) Alternation() string {
	sorted := w.List()
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, s := range sorted {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return strings.Join(quoted, "|")
}

// Union returns a new set holding the words of every argument.
func Union(sets ...Words) Words {
	var all []string
	for _, s := range sets {
		all = append(all, s.list...)
	}
	return NewWords(all...)
}

var (
	// DataStructures open a construct in the data-structure category.
	DataStructures = NewWords("FILE", "RECORD", "GROUP", "QUEUE", "VIEW", "JOIN")

	// OtherStructures open a construct with no dedicated category.
	OtherStructures = NewWords("MAP", "MODULE", "ITEMIZE")

	// TopWindows open a window construct anywhere a statement may start.
	TopWindows = NewWords("WINDOW", "REPORT", "APPLICATION")

	// NestedWindows open a window construct only inside another window construct.
	NestedWindows = NewWords("MENUBAR", "MENU", "TOOLBAR", "SHEET", "TAB", "OPTION",
		"DETAIL", "HEADER", "FOOTER", "FORM", "BREAK")

	ControlOpeners = NewWords("IF", "LOOP", "CASE", "EXECUTE", "BEGIN", "ACCEPT")

	ControlKeywords = NewWords("ELSIF", "ELSE", "OF", "OROF", "THEN", "WHILE", "UNTIL",
		"TIMES", "TO", "BY", "CYCLE", "BREAK", "RETURN", "EXIT", "DO", "CHOOSE", "GOTO")

	Directives = NewWords("PROGRAM", "MEMBER", "INCLUDE", "SECTION", "EQUATE",
		"OMIT", "COMPILE", "ONCE")

	Types = NewWords("BYTE", "SHORT", "USHORT", "LONG", "ULONG", "SIGNED", "UNSIGNED",
		"REAL", "SREAL", "DECIMAL", "PDECIMAL", "STRING", "CSTRING", "PSTRING",
		"ASTRING", "BSTRING", "USTRING", "DATE", "TIME", "BOOL", "KEY", "INDEX",
		"MEMO", "BLOB", "LIKE", "ANY")

	Attributes = NewWords("PRE", "DIM", "OVER", "NAME", "TYPE", "DRIVER", "CREATE",
		"OWNER", "ENCRYPT", "RECLAIM", "THREAD", "STATIC", "EXTERNAL", "DLL", "LINK",
		"PRIVATE", "PROTECTED", "VIRTUAL", "DERIVED", "PROC", "RAW", "PASCAL", "AUTO",
		"BINDABLE", "IMPLEMENTS", "PRIMARY", "NOCASE", "OPT", "DUP", "AT", "USE",
		"FONT", "CENTER", "LEFT", "RIGHT", "SYSTEM", "GRAY", "MDI", "TIMER", "ICON",
		"STATUS", "MAX", "IMM", "FROM", "DROP", "HLP", "MSG", "TIP", "COLOR",
		"VSCROLL", "HSCROLL", "RESIZE", "MODAL", "DOUBLE", "FLAT", "SKIP", "DISABLE",
		"HIDE", "REQ", "READONLY", "TRN", "BOXED", "FORMAT", "PAPER", "LANDSCAPE",
		"PREVIEW", "THOUS", "MM", "POINTS")

	WindowControls = NewWords("BUTTON", "ENTRY", "PROMPT", "LIST", "CHECK", "RADIO",
		"COMBO", "SPIN", "TEXT", "IMAGE", "BOX", "LINE", "ELLIPSE", "PANEL",
		"PROGRESS", "REGION", "ITEM")

	// ControlTypes are data types that double as window controls.
	ControlTypes = NewWords("STRING")

	Keywords = NewWords("NEW", "DISPOSE", "SELF", "PARENT")

	ConstantWords = NewWords("TRUE", "FALSE", "NULL")

	WordOperators = NewWords("AND", "OR", "NOT", "XOR")

	// EquatePrefixes introduce runtime library equates such as EVENT:Accepted.
	EquatePrefixes = NewWords("EVENT", "COLOR", "ICON", "CURSOR", "STD", "FONT",
		"LEVEL", "BUTTON", "CREATE", "PEN", "BEEP", "CHARSET", "PAPER", "MATCH")

	PropertyPrefixes = NewWords("PROP", "PROPLIST", "PROPPRINT", "PROPSTYLE")

	// ReferenceDirectives take a filename as their first argument.
	ReferenceDirectives = NewWords("INCLUDE", "MEMBER", "MODULE", "LINK")

	// PrototypeContainers hold procedure prototypes rather than implementations.
	PrototypeContainers = NewWords("MAP", "MODULE", "CLASS", "INTERFACE")
)
