package tokenizer_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
	"github.com/msarson/Clarion-Extension-sub003/pkg/tokenizer"
)

func tokenize(t *testing.T, text string, opts ...tokenizer.Option) *token.Document {
	t.Helper()
	doc := tokenizer.New(nil, opts...).Tokenize(context.Background(), text)
	require.NotNil(t, doc)
	require.NotNil(t, doc.Tokens)
	return doc
}

// find returns the index of the first token with exactly this text.
func find(t *testing.T, doc *token.Document, text string) int {
	t.Helper()
	for i, tok := range doc.Tokens {
		if tok.Text == text {
			return i
		}
	}
	require.Failf(t, "token not found", "no token %q", text)
	return token.NoIndex
}

func findLast(t *testing.T, doc *token.Document, text string) int {
	t.Helper()
	for i := len(doc.Tokens) - 1; i >= 0; i-- {
		if doc.Tokens[i].Text == text {
			return i
		}
	}
	require.Failf(t, "token not found", "no token %q", text)
	return token.NoIndex
}

func src(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestEmptyDocument(t *testing.T) {
	doc := tokenize(t, "")

	assert.Empty(t, doc.Tokens)
	assert.Zero(t, doc.Diagnostics.Len())
	assert.Equal(t, []string{""}, doc.Lines)
}

func TestNestedStructures(t *testing.T) {
	doc := tokenize(t, src(
		"MyClass CLASS",
		"Grp GROUP",
		"F LONG",
		"  END",
		"  END",
	))

	require.Len(t, doc.Tokens, 8)
	class, group := 1, 3
	assert.Equal(t, token.Class, doc.Tokens[class].Kind)
	assert.Equal(t, token.Structure, doc.Tokens[group].Kind)

	assert.Equal(t, 6, doc.Tokens[group].ClosesAt)
	assert.Equal(t, group, doc.Tokens[6].ClosedBy)
	assert.Equal(t, 7, doc.Tokens[class].ClosesAt)
	assert.Equal(t, class, doc.Tokens[7].ClosedBy)

	assert.Equal(t, token.NoIndex, doc.Tokens[class].Parent)
	assert.Equal(t, class, doc.Tokens[group].Parent)
	assert.Equal(t, group, doc.Tokens[4].Parent)

	assert.Equal(t, token.ConstructOOP, doc.Tokens[class].Construct)
	assert.Equal(t, token.ConstructData, doc.Tokens[group].Construct)
	assert.Zero(t, doc.Diagnostics.Len())

	assert.Nil(t, doc.Tokens[class].Children, "children are only recorded on request")
}

func TestChildren(t *testing.T) {
	doc := tokenize(t, src(
		"MyClass CLASS",
		"Grp GROUP",
		"F LONG",
		"  END",
		"  END",
	), tokenizer.WithChildren(true))

	assert.Equal(t, []int{2, 3}, doc.Tokens[1].Children)
	assert.Equal(t, []int{4, 5}, doc.Tokens[3].Children)
}

func TestSingleLineIf(t *testing.T) {
	doc := tokenize(t, "  IF x > 1 THEN Total += x.")

	last := len(doc.Tokens) - 1
	assert.Equal(t, token.EndMarker, doc.Tokens[last].Kind)
	assert.Equal(t, last, doc.Tokens[0].ClosesAt)
	assert.Equal(t, 0, doc.Tokens[last].ClosedBy)
}

func TestOrphanEndMarker(t *testing.T) {
	doc := tokenize(t, src(
		"  IF a",
		"  END",
		"  END",
	))

	first, second := find(t, doc, "END"), findLast(t, doc, "END")
	assert.Equal(t, first, doc.Tokens[0].ClosesAt)
	assert.Equal(t, token.NoIndex, doc.Tokens[second].ClosedBy)
	assert.Equal(t, []int{second}, doc.Orphans())

	require.Equal(t, 1, doc.Diagnostics.Len())
	require.Len(t, doc.Diagnostics.Warnings, 1)
	d := doc.Diagnostics.Warnings[0]
	assert.Equal(t, 3, d.Line)
	assert.Equal(t, 3, d.Column)
}

func TestOrphanIsLogged(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	doc := tokenizer.New(nil).Tokenize(ctx, "  x = 1\n  END")

	assert.Len(t, doc.Orphans(), 1)
	assert.Contains(t, buf.String(), "orphaned end marker")
}

func TestUnclosedConstruct(t *testing.T) {
	doc := tokenize(t, src(
		"  IF x",
		"    y = 1",
		"",
	))

	assert.Equal(t, token.NoIndex, doc.Tokens[0].ClosesAt)
	assert.Equal(t, []int{0}, doc.Unclosed())
	assert.Equal(t, 2, doc.EndLine(0), "an unclosed construct extends to the end of the document")
	require.Len(t, doc.Diagnostics.Warnings, 1)
	assert.Contains(t, doc.Diagnostics.Warnings[0].Message, "IF")
}

func TestCaseInsensitive(t *testing.T) {
	shape := func(doc *token.Document) []token.Token {
		out := make([]token.Token, len(doc.Tokens))
		for i, tok := range doc.Tokens {
			tok.Text = strings.ToUpper(tok.Text)
			out[i] = tok
		}
		return out
	}

	variants := []string{
		src("Q QUEUE,PRE(Q)", "  END", "  IF a THEN b = 1.", "  LOOP", "  END"),
		src("Q queue,pre(Q)", "  end", "  if a then b = 1.", "  loop", "  end"),
		src("Q Queue,Pre(Q)", "  End", "  If a Then b = 1.", "  Loop", "  eNd"),
	}

	want := shape(tokenize(t, variants[0]))
	for _, v := range variants[1:] {
		assert.Equal(t, want, shape(tokenize(t, v)), v)
	}
}

func TestLoopTerminator(t *testing.T) {
	doc := tokenize(t, src(
		"  LOOP",
		"    x += 1",
		"  UNTIL x > 10",
	))

	until := find(t, doc, "UNTIL")
	assert.Equal(t, until, doc.Tokens[0].ClosesAt)
	assert.Zero(t, doc.Diagnostics.Len())

	doc = tokenize(t, src(
		"  LOOP WHILE x < 10",
		"    x += 1",
		"  END",
	))

	assert.Equal(t, find(t, doc, "END"), doc.Tokens[0].ClosesAt)
	assert.Equal(t, token.NoIndex, doc.Tokens[find(t, doc, "WHILE")].ClosedBy)
}

func TestRefinement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		target   string
		expected token.Kind
	}{
		{name: "window_control_outside_window", input: "  Button = 1", target: "Button", expected: token.Variable},
		{name: "nested_window_outside_window", input: "  Detail = 2", target: "Detail", expected: token.Variable},
		{name: "attribute_not_after_comma", input: "  Name = 'x'", target: "Name", expected: token.Variable},
		{name: "attribute_called", input: "  x = Format(y)", target: "Format", expected: token.Function},
		{name: "structure_in_expression", input: "  x = Queue", target: "Queue", expected: token.Variable},
		{name: "structure_as_argument", input: "  FREE(Queue)", target: "Queue", expected: token.Variable},
		{name: "structure_as_parameter_type", input: src("  MAP", "    P PROCEDURE(QUEUE q)", "  END"), target: "QUEUE", expected: token.Type},
		{name: "structure_declared", input: src("MyQ QUEUE,TYPE", "  END"), target: "QUEUE", expected: token.Structure},
		{name: "attribute_after_comma", input: src("MyQ QUEUE,TYPE", "  END"), target: "TYPE", expected: token.Attribute},
		{name: "type_called_in_code", input: src("Go PROCEDURE", "  CODE", "  d = DATE(1,2,2000)"), target: "DATE", expected: token.Function},
		{name: "type_declared", input: "D DATE", target: "DATE", expected: token.Type},
		{name: "type_with_size_in_data", input: src("Go PROCEDURE", "S STRING(20)", "  CODE"), target: "STRING", expected: token.Type},
		{name: "break_in_loop", input: src("  LOOP", "    BREAK", "  END"), target: "BREAK", expected: token.ControlKeyword},
		{name: "break_after_then", input: "  IF a THEN BREAK.", target: "BREAK", expected: token.ControlKeyword},
		{name: "break_in_report", input: src("Rpt REPORT", "Brk BREAK(x)", "  END", "  END"), target: "BREAK", expected: token.Window},
		{name: "control_word_in_expression", input: "  x = Loop + 1", target: "Loop", expected: token.Variable},
		{name: "if_statement", input: src("  IF x = 1", "  END"), target: "IF", expected: token.ControlFlow},
		{name: "call", input: "  Message('hi')", target: "Message", expected: token.Function},
		{name: "string_control", input: src("Win WINDOW", "  STRING('t')", "  END"), target: "STRING", expected: token.WindowControl},
		{name: "list_control", input: src("Win WINDOW", "  LIST,FROM(Q)", "  END"), target: "LIST", expected: token.WindowControl},
		{name: "control_attribute", input: src("Win WINDOW", "  LIST,FROM(Q)", "  END"), target: "FROM", expected: token.Attribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tokenize(t, tt.input)
			assert.Equal(t, tt.expected, doc.Tokens[find(t, doc, tt.target)].Kind)
		})
	}
}

func TestWindowNesting(t *testing.T) {
	doc := tokenize(t, src(
		"Win WINDOW('x'),AT(0,0,10,10)",
		"  BUTTON('OK'),USE(?Ok)",
		"  MENUBAR",
		"    ITEM('Exit')",
		"  END",
		"  END",
	))

	win, menu := find(t, doc, "WINDOW"), find(t, doc, "MENUBAR")
	assert.Equal(t, token.ConstructWindow, doc.Tokens[win].Construct)
	assert.Equal(t, token.ConstructWindow, doc.Tokens[menu].Construct)
	assert.Equal(t, win, doc.Tokens[menu].Parent)
	assert.Equal(t, find(t, doc, "END"), doc.Tokens[menu].ClosesAt)
	assert.Equal(t, findLast(t, doc, "END"), doc.Tokens[win].ClosesAt)
	assert.Equal(t, token.WindowControl, doc.Tokens[find(t, doc, "ITEM")].Kind)
	assert.Equal(t, token.FieldEquate, doc.Tokens[find(t, doc, "?Ok")].Kind)
	assert.Zero(t, doc.Diagnostics.Len())
}

func TestLineContinuation(t *testing.T) {
	doc := tokenize(t, src(
		"Win WINDOW('x'),AT(0,0,10,10), |",
		"       CENTER",
		"  END",
	))

	assert.Equal(t, token.LineContinuation, doc.Tokens[find(t, doc, "|")].Kind)
	assert.Equal(t, token.Attribute, doc.Tokens[find(t, doc, "CENTER")].Kind)
	assert.Equal(t, find(t, doc, "END"), doc.Tokens[find(t, doc, "WINDOW")].ClosesAt)
}

func TestScopes(t *testing.T) {
	doc := tokenize(t, src(
		"  PROGRAM",           // 0
		"  MAP",               // 1
		"    Main PROCEDURE",  // 2
		"  END",               // 3
		"  CODE",              // 4
		"  Main()",            // 5
		"",                    // 6
		"Main PROCEDURE",      // 7
		"Count LONG",          // 8
		"  CODE",              // 9
		"  Count = 1",         // 10
		"  DO Init",           // 11
		"",                    // 12
		"Init ROUTINE",        // 13
		"  Count = 0",         // 14
		"",                    // 15
		"Other PROCEDURE",     // 16
		"  CODE",              // 17
	))

	program := doc.Tokens[find(t, doc, "PROGRAM")]
	assert.True(t, program.ExecutionMarkerSeen)
	assert.False(t, program.IsImplicitExecutionStart)
	assert.False(t, program.HasLocalDataSection)
	assert.Equal(t, 6, program.ScopeEndLine)

	prototype := doc.Tokens[find(t, doc, "PROCEDURE")]
	assert.Equal(t, 2, prototype.Line)
	assert.False(t, prototype.ExecutionMarkerSeen)
	assert.Zero(t, prototype.ScopeEndLine, "a prototype opens no scope")

	var procs []token.Token
	for _, tok := range doc.Tokens {
		if tok.Kind == token.Procedure && tok.Line > 2 {
			procs = append(procs, tok)
		}
	}
	require.Len(t, procs, 2)

	main, other := procs[0], procs[1]
	assert.True(t, main.HasLocalDataSection)
	assert.True(t, main.ExecutionMarkerSeen)
	assert.False(t, main.IsImplicitExecutionStart)
	assert.Equal(t, 15, main.ScopeEndLine)

	assert.True(t, other.ExecutionMarkerSeen)
	assert.Equal(t, 17, other.ScopeEndLine)

	routine := doc.Tokens[find(t, doc, "ROUTINE")]
	assert.True(t, routine.IsImplicitExecutionStart)
	assert.False(t, routine.HasLocalDataSection)
	assert.Equal(t, 15, routine.ScopeEndLine)

	assert.Equal(t, token.ControlKeyword, doc.Tokens[find(t, doc, "DO")].Kind)
	assert.Zero(t, doc.Diagnostics.Len())
}

func TestRoutineDataSection(t *testing.T) {
	doc := tokenize(t, src(
		"Calc ROUTINE",
		"  DATA",
		"Tmp LONG",
		"  CODE",
		"  Tmp = 1",
	))

	routine := doc.Tokens[find(t, doc, "ROUTINE")]
	assert.True(t, routine.HasLocalDataSection)
	assert.True(t, routine.ExecutionMarkerSeen)
	assert.False(t, routine.IsImplicitExecutionStart)
	assert.Equal(t, 4, routine.ScopeEndLine)
}

func TestProcedureDataSection(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []bool
	}{
		{
			name:     "next_procedure_label_is_not_data",
			lines:    []string{"  MEMBER('main.clw')", "A PROCEDURE", "B PROCEDURE", "  CODE"},
			expected: []bool{false, false},
		},
		{
			name:     "declaration_before_next_procedure",
			lines:    []string{"A PROCEDURE", "X LONG", "B PROCEDURE", "  CODE"},
			expected: []bool{true, false},
		},
		{
			name:     "routine_label_is_not_data",
			lines:    []string{"A PROCEDURE", "Init ROUTINE", "  x = 1"},
			expected: []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tokenize(t, src(tt.lines...))

			var got []bool
			for _, tok := range doc.Tokens {
				if tok.Kind == token.Procedure {
					got = append(got, tok.HasLocalDataSection)
				}
			}
			assert.Equal(t, tt.expected, got)
		})
	}

	doc := tokenize(t, src("  MEMBER('main.clw')", "A PROCEDURE", "B PROCEDURE", "  CODE"))
	a := doc.Tokens[find(t, doc, "PROCEDURE")]
	assert.False(t, a.ExecutionMarkerSeen)
	assert.True(t, a.IsImplicitExecutionStart)
	assert.Equal(t, 1, a.ScopeEndLine)
}

func TestExternalReferences(t *testing.T) {
	doc := tokenize(t, src(
		"  MEMBER('main.clw')",
		"  INCLUDE('it''s.inc'),ONCE",
		"  MAP",
		"    MODULE('util.clw')",
		"    END",
		"  END",
		"MyClass CLASS,MODULE('myclass.clw'),LINK('myclass.clw',1)",
		"  END",
		"  s = 'plain.clw'",
	))

	var got []string
	for _, i := range doc.References() {
		got = append(got, doc.Tokens[i].ExternalReference)
	}
	assert.Equal(t, []string{"main.clw", "it's.inc", "util.clw", "myclass.clw", "myclass.clw"}, got)

	module := find(t, doc, "MODULE")
	assert.Equal(t, token.Structure, doc.Tokens[module].Kind)
	assert.Equal(t, token.ConstructOther, doc.Tokens[module].Construct)
	assert.Equal(t, token.Attribute, doc.Tokens[findLast(t, doc, "MODULE")].Kind)
	assert.Zero(t, doc.Diagnostics.Len())
}

func TestTabWidth(t *testing.T) {
	doc := tokenize(t, "\tIF x\n\tEND")
	assert.Equal(t, 4, doc.Tokens[0].Column)

	doc = tokenize(t, "\tIF x\n\tEND", tokenizer.WithTabWidth(2))
	assert.Equal(t, 2, doc.Tokens[0].Column)
	assert.Equal(t, "  IF x", doc.Lines[0])
}

func TestCRLF(t *testing.T) {
	lf := tokenize(t, "  IF a\n  END\n")
	crlf := tokenize(t, "  IF a\r\n  END\r\n")

	assert.Equal(t, lf.Tokens, crlf.Tokens)
}

func TestMalformedInput(t *testing.T) {
	inputs := []string{
		"\x00\xff'unterminated\n#$%",
		"END END . . END",
		"))))((((",
		"|\n|\n|",
		strings.Repeat("  IF a\n", 200),
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			doc := tokenize(t, input)
			for i := 1; i < len(doc.Tokens); i++ {
				prev, cur := doc.Tokens[i-1], doc.Tokens[i]
				ordered := prev.Line < cur.Line || (prev.Line == cur.Line && prev.End() <= cur.Column)
				assert.True(t, ordered, "tokens %v and %v overlap", prev, cur)
			}
		})
	}
}

const sample = `  PROGRAM
  INCLUDE('equates.clw'),ONCE
  MAP
    Main PROCEDURE
  END
Customer FILE,DRIVER('TOPSPEED'),PRE(CUS),CREATE
Record RECORD
Name STRING(40)
Id LONG
  END
  END
  CODE
  Main()

Main PROCEDURE
Win WINDOW('Customers'),AT(,,200,100),CENTER
  LIST,AT(5,5,190,80),USE(?List),FROM(Customer)
  BUTTON('Close'),AT(150,88),USE(?Close)
  END
  CODE
  OPEN(Win)
  ACCEPT
    CASE EVENT()
    OF EVENT:Accepted
      IF FIELD() = ?Close THEN BREAK.
    END
  END
  CLOSE(Win)
`

func TestIdempotent(t *testing.T) {
	tk := tokenizer.New(nil)
	first := tk.Tokenize(context.Background(), sample)
	second := tk.Tokenize(context.Background(), sample)

	assert.Equal(t, first, second)
	assert.Zero(t, first.Diagnostics.Len())
}

func TestConcurrentUse(t *testing.T) {
	tk := tokenizer.New(nil)
	want := tk.Tokenize(context.Background(), sample)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want.Tokens, tk.Tokenize(context.Background(), sample).Tokens)
		}()
	}
	wg.Wait()
}

func TestEveryOpenerIsClosedOrReported(t *testing.T) {
	doc := tokenize(t, sample+"  IF x\n")

	for _, i := range doc.Constructs() {
		tok := doc.Tokens[i]
		if tok.ClosesAt == token.NoIndex {
			continue
		}
		end := doc.Tokens[tok.ClosesAt]
		assert.Equal(t, i, end.ClosedBy, "%v", tok)
		assert.Greater(t, tok.ClosesAt, i)
	}
	assert.Len(t, doc.Unclosed(), 1)
	assert.Equal(t, len(doc.Unclosed())+len(doc.Orphans()), doc.Diagnostics.Len())
}
