// Package cli builds the pimfix command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/pimfix/internal/version"
	"github.com/arthur-debert/pimfix/pkg/config"
	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/highlight"
	"github.com/arthur-debert/pimfix/pkg/logging"
	"github.com/arthur-debert/pimfix/pkg/rules"
	"github.com/arthur-debert/pimfix/pkg/style"
)

// app carries global flag values and the configuration resolved from
// them to subcommands.
type app struct {
	verbosity  int
	configFile string
	rulesFile  string
	only       []string
	noColor    bool

	cfg   *config.Config
	color bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "pimfix",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.configure(cmd)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVar(&a.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/pimfix/config.toml or ./pimfix.toml)")
	flags.StringVar(&a.rulesFile, "rules", "", "rule file (.toml or .yaml) instead of the built-in rules")
	flags.StringSliceVar(&a.only, "only", nil, `run only the named rules, in rule file order ("all" for every rule)`)
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newFixCmd(a))
	rootCmd.AddCommand(newApplyCmd(a))
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newRulesCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// configure loads configuration with changed flags layered on top.
func (a *app) configure(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("rules") {
		overrides["rules.file"] = a.rulesFile
	}
	if flags.Changed("only") {
		overrides["rules.only"] = a.only
	}
	if flags.Changed("no-color") {
		overrides["output.no_color"] = a.noColor
	}

	cfg, err := config.Load(config.Options{File: a.configFile, Overrides: overrides})
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.color = !cfg.Output.NoColor && isColorTerminal(cmd.OutOrStdout())
	style.SetColor(a.color)
	return nil
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && highlight.ColorEnabled(f)
}

// loadRules resolves the configured rule set. Rules that failed to load
// are reported on stderr; it is an error only when nothing is left.
func (a *app) loadRules(cmd *cobra.Command) ([]*rules.Rule, error) {
	rs, err := a.cfg.LoadRules()
	if err != nil {
		for _, e := range errors.All(err) {
			log.Warn().Str("code", string(e.Code)).Msg(e.Error())
		}
		fmt.Fprintln(cmd.ErrOrStderr(), style.RenderStatus(false, MsgRuleWarning, err))
	}
	if len(rs) == 0 {
		if err != nil {
			return nil, err
		}
		return nil, errors.New(errors.ErrConfigValid, MsgNoRules)
	}
	return rs, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		// Skip config loading so version works with a broken config.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}
