package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/msarson/Clarion-Extension-sub003/pkg/semtok"
	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

type Handler struct {
	raw bool
}

// Output is what the command prints per file in raw mode.
type Output struct {
	File          string        `json:"file"`
	LegendVersion int           `json:"legendVersion"`
	Legend        semtok.Legend `json:"legend"`
	Data          []uint32      `json:"data"`
}

func NewSemanticCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "semantic <file|dir>...",
		Short: "print semantic highlighting records for each file",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().BoolVar(&me.raw, "raw", false, "print the legend and delta-encoded data as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, args []string) error {
	ws := workspace.FromContext(ctx)
	paths, err := ws.Expand(ctx, args)
	if err != nil {
		return err
	}

	return ws.Each(ctx, paths, func(f *workspace.File) error {
		records := semtok.Classify(ctx, f.Document)

		if me.raw {
			if err := json.NewEncoder(out).Encode(Output{
				File:          f.Path,
				LegendVersion: semtok.LegendVersion,
				Legend:        semtok.DefaultLegend(),
				Data:          semtok.Encode(records),
			}); err != nil {
				return errors.Errorf("encoding semantic tokens: %w", err)
			}
			return nil
		}

		fmt.Fprintf(out, "# %s\n", f.Path)
		for _, r := range records {
			fmt.Fprintf(out, "%d:%d+%d\t%s", r.Line+1, r.Column+1, r.Length, r.Category)
			if names := r.Modifiers.Names(); len(names) > 0 {
				fmt.Fprintf(out, "\t%s", strings.Join(names, ","))
			}
			fmt.Fprintln(out)
		}
		return nil
	})
}
