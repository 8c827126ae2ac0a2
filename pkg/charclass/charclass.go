// Package charclass maps single characters to the coarse classes used to
// select candidate token patterns.
package charclass

// Class is the coarse category of a single character.
type Class uint8

const (
	Other Class = iota
	Upper
	Lower
	Digit
	Underscore
	Quote
	CommentMarker
	Operator
	Delimiter
	Whitespace

	// NumClasses is the number of classes; useful for sizing dispatch tables.
	NumClasses
)

var names = [NumClasses]string{
	Other:         "other",
	Upper:         "upper",
	Lower:         "lower",
	Digit:         "digit",
	Underscore:    "underscore",
	Quote:         "quote",
	CommentMarker: "comment",
	Operator:      "operator",
	Delimiter:     "delimiter",
	Whitespace:    "whitespace",
}

func (c Class) String() string {
	if c < NumClasses {
		return names[c]
	}
	return "unknown"
}

// Classify returns the class of r. It is total: any rune not covered by a
// specific class is Other.
func Classify(r rune) Class {
	switch {
	case r >= 'A' && r <= 'Z':
		return Upper
	case r >= 'a' && r <= 'z':
		return Lower
	case r >= '0' && r <= '9':
		return Digit
	}

	switch r {
	case '_':
		return Underscore
	case '\'':
		return Quote
	case '!':
		return CommentMarker
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return Whitespace
	case '+', '-', '*', '/', '%', '^', '=', '<', '>', '~', '&':
		return Operator
	case '(', ')', ',', '[', ']', '{', '}', ':', ';', '.', '|':
		return Delimiter
	}

	return Other
}
