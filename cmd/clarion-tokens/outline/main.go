package outline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

type Handler struct{}

func NewOutlineCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "outline <file|dir>...",
		Short: "print the nested constructs of each file with their line ranges",
		Args:  cobra.MinimumNArgs(1),
	}

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
		doc := f.Document

		fmt.Fprintf(out, "# %s\n", f.Path)
		for _, i := range doc.Constructs() {
			t := doc.Tokens[i]
			start := doc.Range(i).Start

			fmt.Fprintf(out, "%s%s\t%s\t%d:%d-%d", strings.Repeat("  ", depth(doc, i)), t.Text, t.Construct, start.Line+1, start.Character+1, doc.EndLine(i)+1)
			if t.IsUnclosed() {
				fmt.Fprint(out, "\tunclosed")
			}
			fmt.Fprintln(out)
		}
		for _, i := range doc.Orphans() {
			start := doc.Range(i).Start
			fmt.Fprintf(out, "%s\torphan\t%d:%d\n", doc.Tokens[i].Text, start.Line+1, start.Character+1)
		}
		return nil
	})
}

func depth(doc *token.Document, i int) int {
	n := 0
	for p := doc.Tokens[i].Parent; p != token.NoIndex; p = doc.Tokens[p].Parent {
		n++
	}
	return n
}
