/*
Package semtok emits semantic highlighting records for the tokens whose color
depends on context rather than on their kind alone.

Pairing:
-------

	   MyQ QUEUE          <- opener, category "structure", declaration
	   ...
	   END                <- end marker, category of its opener, closing

	   IF x THEN y.       <- IF and THEN "controlFlow", '.' closes IF

Every END and '.' is the same token kind, so an editor cannot color it
without knowing which construct it closed. Classify looks that up through
ClosedBy and gives the marker the category of its opener. An orphaned marker
falls back to "keyword" with the orphaned modifier.

Encoding:
--------

Encode turns records into the five-integer delta form of an LSP
SemanticTokens payload:

	deltaLine, deltaStart, length, tokenType, tokenModifiers

The legend order is part of the wire contract with the editor.
*/
package semtok
