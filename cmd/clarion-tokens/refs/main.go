package refs

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

type Handler struct {
	allowMissing bool
}

func NewRefsCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "refs <file|dir>...",
		Short: "list INCLUDE, MEMBER, MODULE and LINK references and where they resolve",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().BoolVar(&me.allowMissing, "allow-missing", false, "do not fail on references that cannot be found")

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
		rerr := ws.Resolve(ctx, f)

		for _, i := range f.Document.References() {
			t := f.Document.Tokens[i]
			resolved := t.ResolvedPath
			if resolved == "" {
				resolved = "-"
			}
			fmt.Fprintf(out, "%s:%d\t%s\t%s\n", f.Path, t.Line+1, t.ExternalReference, resolved)
		}

		if me.allowMissing {
			return nil
		}
		return rerr
	})
}
