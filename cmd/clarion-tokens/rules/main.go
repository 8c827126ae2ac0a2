package rules

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/msarson/Clarion-Extension-sub003/pkg/charclass"
	"github.com/msarson/Clarion-Extension-sub003/pkg/pattern"
)

type Handler struct {
	char string
}

func NewRulesCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "rules [name]...",
		Short: "print the token rules in priority order",
	}

	cmd.Flags().StringVar(&me.char, "char", "", "only print the rules tried for a token starting with this character at line start")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, args []string) error {
	reg := pattern.Shared()

	var list []pattern.Rule
	switch {
	case me.char != "":
		r, _ := utf8.DecodeRuneInString(me.char)
		class := charclass.Classify(r)
		fmt.Fprintf(out, "# %s\n", class)
		list = reg.Candidates(class, true)
	case len(args) > 0:
		for _, name := range args {
			rule, ok := reg.Rule(name)
			if !ok {
				return errors.Errorf("unknown rule %q", name)
			}
			list = append(list, rule)
		}
	default:
		list = reg.Rules()
	}

	for _, rule := range list {
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", rule.Priority(), rule.Name, rule.Kind, rule.Source)
	}
	return nil
}
