package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/rules"
	"github.com/arthur-debert/pimfix/pkg/style"
)

func newRulesCmd(a *app) *cobra.Command {
	var showDefault bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: MsgRulesShort,
		Long: `Load the active rule set, report every rule that fails to compile and
list the rest in application order. Exits non-zero when any rule failed.

With --default, print the built-in rule file, a starting point for a
custom --rules file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showDefault {
				_, err := fmt.Fprint(out, rules.DefaultContent())
				return err
			}

			rs, loadErr := a.cfg.LoadRules()

			rows := make([][]string, 0, len(rs))
			for i, r := range rs {
				rows = append(rows, []string{
					fmt.Sprint(i + 1),
					r.Name(),
					r.Pattern().String(),
					r.Template().String(),
					string(r.PostProcess()),
					strings.Join(r.Exceptions(), " "),
					formatOverrides(r.Overrides()),
				})
			}
			if len(rows) > 0 {
				table, err := style.RenderTable(
					[]string{"#", "Name", "Pattern", "Replacement", "Post-process", "Exceptions", "Overrides"},
					rows,
				)
				if err != nil {
					return errors.Wrap(err, errors.ErrInternal, "failed to render table")
				}
				fmt.Fprintln(out, table)
			}

			source := a.ruleSource()
			failed := errors.All(loadErr)
			if loadErr == nil {
				fmt.Fprintln(out, style.RenderStatus(true, MsgRulesValid, len(rs), source))
				return nil
			}
			fmt.Fprintln(out, style.RenderStatus(false, MsgRulesInvalid, len(rs), source, len(failed)))
			return loadErr
		},
	}

	cmd.Flags().BoolVar(&showDefault, "default", false, "print the built-in rule file")
	return cmd
}

func (a *app) ruleSource() string {
	switch {
	case a.cfg.Rules.File != "":
		return a.cfg.Rules.File
	case len(a.cfg.Transformations) > 0:
		return fmt.Sprintf(MsgSourceInline, a.cfg.Source)
	default:
		return MsgSourceDefaults
	}
}

func formatOverrides(overrides []rules.Override) string {
	parts := make([]string, 0, len(overrides))
	for _, o := range overrides {
		parts = append(parts, o.From+" → "+o.To)
	}
	return strings.Join(parts, " ")
}
