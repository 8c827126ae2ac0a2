package check

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/msarson/Clarion-Extension-sub003/pkg/config"
	"github.com/msarson/Clarion-Extension-sub003/pkg/diagnostic"
	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

type Handler struct {
	format string
	strict bool
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "report unbalanced structures and unresolved references",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", "", "output format: text or vscode (default from config)")
	cmd.Flags().BoolVar(&me.strict, "strict", false, "fail on warnings")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, args []string) error {
	ws := workspace.FromContext(ctx)
	cfg := ws.Config()

	format := me.format
	if format == "" {
		format = cfg.Format
	}
	strict := me.strict || cfg.Strict

	paths, err := ws.Expand(ctx, args)
	if err != nil {
		return err
	}

	return ws.Each(ctx, paths, func(f *workspace.File) error {
		if err := ws.Resolve(ctx, f); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("file", f.Path).Msg("unresolved references")
			unresolved(f)
		}

		zerolog.Ctx(ctx).Debug().
			Str("file", f.Path).
			Int("orphaned", len(f.Document.Orphans())).
			Int("unclosed", len(f.Document.Unclosed())).
			Msg("checked structure")

		var formatter diagnostic.Formatter
		switch format {
		case config.FormatVSCode:
			formatter = diagnostic.NewVSCodeFormatter()
		case config.FormatText:
			formatter = &diagnostic.TextFormatter{File: f.Path}
		case config.FormatJSON:
			formatter = &jsonFormatter{file: f.Path}
		default:
			return errors.Errorf("unsupported format %q", format)
		}

		data, err := formatter.Format(&f.Document.Diagnostics)
		if err != nil {
			return errors.Errorf("formatting diagnostics: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return errors.Errorf("writing diagnostics: %w", err)
		}
		if format != config.FormatText {
			io.WriteString(out, "\n")
		}

		return f.Document.Diagnostics.Err(strict)
	})
}

// unresolved adds a hint for every reference that has no resolved path.
func unresolved(f *workspace.File) {
	for _, i := range f.Document.References() {
		t := f.Document.Tokens[i]
		if t.ResolvedPath != "" {
			continue
		}
		f.Document.Diagnostics.Add(diagnostic.Diagnostic{
			Message:  "cannot find " + t.ExternalReference,
			Line:     t.Line + 1,
			Column:   t.Column + 1,
			EndLine:  t.Line + 1,
			EndCol:   t.End() + 1,
			Severity: diagnostic.Hint,
		})
	}
}

type jsonFormatter struct {
	file string
}

func (f *jsonFormatter) Format(diagnostics *diagnostic.Diagnostics) ([]byte, error) {
	return json.Marshal(struct {
		File        string                  `json:"file"`
		Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
	}{f.file, diagnostics.All()})
}
