package diagnostic

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"
)

// Diagnostics represents diagnostic information that can be formatted in different ways
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Hints    []Diagnostic
}

// Diagnostic represents a single diagnostic message. Lines and columns are 1-based.
type Diagnostic struct {
	Message  string
	Line     int
	Column   int
	EndLine  int
	EndCol   int
	Severity DiagnosticSeverity
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Info    DiagnosticSeverity = "info"
	Hint    DiagnosticSeverity = "hint"
)

// Add files d under the bucket matching its severity. Info is kept with hints.
func (me *Diagnostics) Add(d Diagnostic) {
	switch d.Severity {
	case Error:
		me.Errors = append(me.Errors, d)
	case Warning:
		me.Warnings = append(me.Warnings, d)
	default:
		me.Hints = append(me.Hints, d)
	}
}

// Len returns the total number of diagnostics of every severity.
func (me *Diagnostics) Len() int {
	if me == nil {
		return 0
	}
	return len(me.Errors) + len(me.Warnings) + len(me.Hints)
}

// All returns every diagnostic, errors first.
func (me *Diagnostics) All() []Diagnostic {
	if me == nil {
		return nil
	}
	all := make([]Diagnostic, 0, me.Len())
	all = append(all, me.Errors...)
	all = append(all, me.Warnings...)
	all = append(all, me.Hints...)
	return all
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

// Err folds the error and warning diagnostics into a single error, or nil
// when there are none. Warnings are only included when strict is set.
func (me *Diagnostics) Err(strict bool) error {
	if me == nil {
		return nil
	}

	var result *multierror.Error
	for _, d := range me.Errors {
		result = multierror.Append(result, errors.New(d.String()))
	}
	if strict {
		for _, d := range me.Warnings {
			result = multierror.Append(result, errors.New(d.String()))
		}
	}

	return result.ErrorOrNil()
}

// Formatter formats diagnostics into different output formats
type Formatter interface {
	// Format formats diagnostics into a specific output format
	Format(diagnostics *Diagnostics) ([]byte, error)
}

// VSCodeFormatter formats diagnostics into VSCode-compatible format
type VSCodeFormatter struct{}

// NewVSCodeFormatter creates a new VSCodeFormatter
func NewVSCodeFormatter() *VSCodeFormatter {
	return &VSCodeFormatter{}
}

type vscodePlace struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type vscodeRange struct {
	Start vscodePlace `json:"start"`
	End   vscodePlace `json:"end"`
}

type vscodeDiagnostic struct {
	Severity int         `json:"severity"`
	Message  string      `json:"message"`
	Range    vscodeRange `json:"range"`
}

func (d Diagnostic) vscode(severity int) vscodeDiagnostic {
	// VSCode is 0-based
	return vscodeDiagnostic{
		Severity: severity,
		Message:  d.Message,
		Range: vscodeRange{
			Start: vscodePlace{Line: d.Line - 1, Character: d.Column - 1},
			End:   vscodePlace{Line: d.EndLine - 1, Character: d.EndCol - 1},
		},
	}
}

// Format implements Formatter
func (f *VSCodeFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	// Error = 1, Warning = 2, Information = 3, Hint = 4
	result := make([]vscodeDiagnostic, 0, diagnostics.Len())
	for _, err := range diagnostics.Errors {
		result = append(result, err.vscode(1))
	}
	for _, warn := range diagnostics.Warnings {
		result = append(result, warn.vscode(2))
	}
	for _, hint := range diagnostics.Hints {
		if hint.Severity == Info {
			result = append(result, hint.vscode(3))
			continue
		}
		result = append(result, hint.vscode(4))
	}

	return json.Marshal(result)
}

// TextFormatter formats diagnostics one per line, prefixed with a file name.
type TextFormatter struct {
	File string
}

// Format implements Formatter
func (f *TextFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	var out []byte
	for _, d := range diagnostics.All() {
		out = fmt.Appendf(out, "%s:%s\n", f.File, d.String())
	}
	return out, nil
}
