package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/pimfix/pkg/catalog"
	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/highlight"
	"github.com/arthur-debert/pimfix/pkg/scan"
	"github.com/arthur-debert/pimfix/pkg/style"
)

func newScanCmd(a *app) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "scan <in.csv>",
		Short: MsgScanShort,
		Long: `Scan the configured field of a CSV export and list, per rule, every
distinct text the rule's pattern matches, how often it occurs and what
the rule alone turns it into. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := a.loadRules(cmd)
			if err != nil {
				return err
			}
			if field == "" {
				field = a.cfg.Catalog.Field
			}

			in, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileRead, "failed to open %s", args[0]).
					WithDetail("path", args[0])
			}
			defer in.Close()

			table, err := catalog.Read(in, a.cfg.CatalogOptions().Delimiter)
			if err != nil {
				return err
			}
			values, err := table.Values(field)
			if err != nil {
				return err
			}

			c := scan.NewCollector(rs)
			for _, v := range values {
				c.Add(v)
			}
			results := c.Results()

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, style.RenderStatus(true, MsgNothingFound))
				return nil
			}

			h := highlight.New(a.color)
			for _, res := range results {
				rows := make([][]string, 0, len(res.Findings))
				for _, f := range res.Findings {
					match, fixed := h.Diff(f.Match, f.Preview)
					rows = append(rows, []string{match, strconv.Itoa(f.Count), fixed})
				}
				table, err := style.RenderTable([]string{"Match", "Count", "Fixed"}, rows)
				if err != nil {
					return errors.Wrap(err, errors.ErrInternal, "failed to render table")
				}
				fmt.Fprintln(out, style.TitleStyle.Render(fmt.Sprintf(MsgScanRuleHeader, res.Rule, len(res.Findings))))
				fmt.Fprintln(out, table)
			}
			fmt.Fprintln(out, style.RenderStatus(true, MsgScanSummary, c.Texts(), len(results)))
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "column to scan (overrides catalog.field)")
	return cmd
}
