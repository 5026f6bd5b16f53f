package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/pimfix/pkg/engine"
	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/highlight"
	"github.com/arthur-debert/pimfix/pkg/style"
)

func newFixCmd(a *app) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "fix [text]",
		Short: MsgFixShort,
		Long: `Normalize a text given as argument, or standard input when no argument
is given. The result is written to standard output.

With --trace, every rule that changed the text is listed on standard
error with the characters it changed highlighted.`,
		Example: `  pimfix fix 'Tested to EN 388:2016'
  pimfix fix --only "fix En:yyyy standard" < description.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := a.loadRules(cmd)
			if err != nil {
				return err
			}

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, errors.ErrFileRead, MsgReadInputFailed)
				}
				text = string(data)
			}

			e := engine.New(rs)
			out, steps := e.Trace(text)

			if trace {
				h := highlight.New(a.color)
				w := cmd.ErrOrStderr()
				for _, s := range steps {
					if !s.Changed() {
						continue
					}
					before, after := h.Diff(s.Before, s.After)
					fmt.Fprintln(w, style.TitleStyle.Render(fmt.Sprintf(MsgTraceStep, s.Rule, s.Matches)))
					fmt.Fprintln(w, "  - "+before)
					fmt.Fprintln(w, "  + "+after)
				}
			}

			if len(args) == 1 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			} else {
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "show each rule's changes on stderr")
	return cmd
}
