package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mudrockdev/mudrockreportdiff/config"
	"github.com/mudrockdev/mudrockreportdiff/history"
	"github.com/mudrockdev/mudrockreportdiff/logging"
)

var rootExamples = `
Compare two AWR reports:
reportdiff compare baseline.html target.html

Compare an AWR report with a pg_profile report and keep the result:
reportdiff compare --save --history-url sqlite://runs.db awr.html pg_profile.html

Generate a report with a 40% regression:
reportdiff sample --engine postgresql_pg_profile --scale 1.4 > target.html
`

// app holds what the commands share once flags are parsed.
type app struct {
	v      *viper.Viper
	out    io.Writer
	logger *zap.Logger
	cfg    *config.Config
}

func newApp(out io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("REPORTDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v, out: out, logger: zap.NewNop()}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reportdiff",
		Short:         "Compare Oracle AWR and PostgreSQL pg_profile performance reports",
		Example:       rootExamples,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	cmd.SetOut(a.out)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a YAML comparison configuration")
	flags.Bool("debug", false, "Run in debug mode")
	flags.String("history-driver", "sqlite", fmt.Sprintf("history database driver (%s)", strings.Join(history.Drivers(), ", ")))
	flags.String("history-url", "sqlite://reportdiff-history.db", "history database connection url")
	bindFlags(a.v, flags)

	cmd.AddCommand(a.compareCmd(), a.parseCmd(), a.sampleCmd(), a.historyCmd())
	return cmd
}

func (a *app) setup() error {
	logger, err := logging.New(a.v.GetBool("debug"))
	if err != nil {
		return err
	}
	a.logger = logger

	path := a.v.GetString("config")
	if path == "" {
		a.cfg = config.Default()
		return nil
	}
	a.cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	a.logger.Debug("loaded configuration", zap.String("path", path))
	return nil
}

func (a *app) openHistory() (*history.Store, error) {
	return history.Open(a.v.GetString("history-driver"), a.v.GetString("history-url"),
		history.WithLogger(a.logger.Named("history")))
}

// bindFlags lets viper resolve every flag of flags, falling back to the
// REPORTDIFF_ environment variables when a flag is not set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}
