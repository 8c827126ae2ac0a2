package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/msarson/Clarion-Extension-sub003/pkg/position"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

type Handler struct {
	json  bool
	kinds []string
	at    string
}

func NewTokensCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "tokens <file|dir>...",
		Short: "print the classified tokens of each file",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().BoolVar(&me.json, "json", false, "print tokens as JSON")
	cmd.Flags().StringSliceVar(&me.kinds, "kind", nil, "only print tokens of these kinds: "+strings.Join(kindNames(), ", "))
	cmd.Flags().StringVar(&me.at, "at", "", "print the token and innermost construct at line:column (1-based, UTF-16 columns)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, args []string) error {
	filter := map[token.Kind]bool{}
	for _, name := range me.kinds {
		var k token.Kind
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return errors.Errorf("parsing --kind: %w", err)
		}
		filter[k] = true
	}

	var place *position.Place
	if me.at != "" {
		p, err := parsePlace(me.at)
		if err != nil {
			return err
		}
		place = &p
	}

	ws := workspace.FromContext(ctx)
	paths, err := ws.Expand(ctx, args)
	if err != nil {
		return err
	}

	return ws.Each(ctx, paths, func(f *workspace.File) error {
		if place != nil {
			return me.query(out, f, *place)
		}

		var idxs []int
		toks := make([]token.Token, 0, len(f.Document.Tokens))
		for i, t := range f.Document.Tokens {
			if len(filter) == 0 || filter[t.Kind] {
				idxs = append(idxs, i)
				toks = append(toks, t)
			}
		}

		if me.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				File   string        `json:"file"`
				Tokens []token.Token `json:"tokens"`
			}{f.Path, toks}); err != nil {
				return errors.Errorf("encoding tokens: %w", err)
			}
			return nil
		}

		fmt.Fprintf(out, "# %s\n", f.Path)
		for _, i := range idxs {
			line(out, f.Document, i)
		}
		return nil
	})
}

// query prints the token at p and the construct enclosing it.
func (me *Handler) query(out io.Writer, f *workspace.File, p position.Place) error {
	doc := f.Document

	fmt.Fprintf(out, "# %s\n", f.Path)
	if i, ok := doc.TokenAt(p); ok {
		line(out, doc, i)
	}
	if e := doc.Enclosing(p); e != token.NoIndex {
		start := doc.Range(e).Start
		fmt.Fprintf(out, "in\t%s\t%d:%d-%d\n", doc.Tokens[e].Text, start.Line+1, start.Character+1, doc.EndLine(e)+1)
	}
	return nil
}

// line prints one token with a 1-based UTF-16 position.
func line(out io.Writer, doc *token.Document, i int) {
	t := doc.Tokens[i]
	start := doc.Range(i).Start
	fmt.Fprintf(out, "%d:%d\t%s\t%q\n", start.Line+1, start.Character+1, t.Kind, t.Text)
}

func parsePlace(s string) (position.Place, error) {
	var line, col int
	if _, err := fmt.Sscanf(s, "%d:%d", &line, &col); err != nil {
		return position.Place{}, errors.Errorf("parsing --at %q: %w", s, err)
	}
	if line < 1 || col < 1 {
		return position.Place{}, errors.Errorf("parsing --at %q: line and column start at 1", s)
	}
	return position.Place{Line: line - 1, Character: col - 1}, nil
}

func kindNames() []string {
	var out []string
	for _, k := range token.Kinds() {
		out = append(out, k.String())
	}
	return out
}
