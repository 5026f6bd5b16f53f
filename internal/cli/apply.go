package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/pimfix/pkg/catalog"
	"github.com/arthur-debert/pimfix/pkg/engine"
	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/highlight"
	"github.com/arthur-debert/pimfix/pkg/style"
)

func newApplyCmd(a *app) *cobra.Command {
	var (
		outPath     string
		field       string
		showChanges bool
	)

	cmd := &cobra.Command{
		Use:   "apply <in.csv>",
		Short: MsgApplyShort,
		Long: `Normalize the configured field (catalog.field) of every row of a CSV
export. The CSV is written to --out, or to standard output. A UTF-8 byte
order mark in the input is kept in the output.

With --show-changes, each changed row is listed on standard error with
its key columns, the rules that changed it and the highlighted change.`,
		Example: `  pimfix apply export.csv --out fixed.csv --show-changes
  pimfix apply export.csv --field "Short Description" > fixed.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := a.loadRules(cmd)
			if err != nil {
				return err
			}

			opts := a.cfg.CatalogOptions()
			if field != "" {
				opts.Field = field
			}
			p, err := catalog.NewProcessor(engine.New(rs), opts)
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileRead, "failed to open %s", args[0]).
					WithDetail("path", args[0])
			}
			defer in.Close()

			// Buffer the result so --out may name the input file.
			var buf bytes.Buffer
			report, err := p.Process(cmd.Context(), in, &buf)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
					return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", outPath).
						WithDetail("path", outPath)
				}
			} else if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "failed to write output")
			}

			w := cmd.ErrOrStderr()
			if showChanges {
				h := highlight.New(a.color)
				for _, c := range report.Changes {
					before, after := h.Diff(c.Old, c.New)
					fmt.Fprintln(w, style.TitleStyle.Render(fmt.Sprintf(MsgChangeHeader,
						c.Row, formatKeys(c.Keys, opts.KeyColumns), strings.Join(c.Rules, ", "))))
					fmt.Fprintln(w, "  - "+before)
					fmt.Fprintln(w, "  + "+after)
				}
			}

			summary := fmt.Sprintf(MsgApplySummary, report.Changed, report.Rows)
			if report.CacheHits > 0 {
				summary += fmt.Sprintf(MsgCacheSummary, report.CacheHits)
			}
			fmt.Fprintln(w, style.RenderStatus(true, "%s", summary))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the normalized CSV here instead of stdout")
	cmd.Flags().StringVar(&field, "field", "", "column to normalize (overrides catalog.field)")
	cmd.Flags().BoolVar(&showChanges, "show-changes", false, "list changed rows on stderr")
	return cmd
}

// formatKeys renders key column values in configured order, for example
// " [Product no.=1001 Language=en]".
func formatKeys(keys map[string]string, order []string) string {
	var parts []string
	for _, name := range order {
		if v, ok := keys[name]; ok {
			parts = append(parts, name+"="+v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}
