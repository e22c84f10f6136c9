package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mudrockdev/mudrockreportdiff/populator"
	"github.com/mudrockdev/mudrockreportdiff/report"
)

func (a *app) sampleCmd() *cobra.Command {
	var (
		opts   populator.Options
		engine string
		format string
		start  string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic performance report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch e := report.Engine(engine); e {
			case report.EngineAWR, report.EnginePgProfile:
				opts.Engine = e
			default:
				return fmt.Errorf("unknown engine %q", engine)
			}
			switch f := report.Format(format); f {
			case report.Markup, report.PlainText:
				opts.Format = f
			default:
				return fmt.Errorf("unknown report format %q", format)
			}
			if start != "" {
				t, err := time.Parse(time.DateTime, start)
				if err != nil {
					return fmt.Errorf("invalid start time: %w", err)
				}
				opts.Start = t
			}

			sample := populator.Generate(opts)
			a.logger.Debug("generated report",
				zap.String("engine", engine),
				zap.String("format", format),
				zap.Any("rows", sample.Rows))

			w, closeFn, err := outputWriter(a.out, out)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprint(w, sample.Document); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&engine, "engine", string(report.EngineAWR), "report engine (oracle_awr, postgresql_pg_profile)")
	flags.StringVar(&format, "format", string(report.Markup), "report format (markup, text)")
	flags.Int64Var(&opts.Seed, "seed", 1, "random seed")
	flags.Float64Var(&opts.Scale, "scale", 1, "multiplier applied to every metric")
	flags.IntVar(&opts.MalformedRows, "malformed-rows", 0, "rows per table with a wrong number of cells")
	flags.StringVar(&opts.Database, "database", "", "database name")
	flags.StringVar(&opts.Instance, "instance", "", "instance name")
	flags.StringVar(&start, "start", "", "snapshot start, as 2006-01-02 15:04:05")
	flags.DurationVar(&opts.Duration, "duration", time.Hour, "snapshot interval")
	flags.StringVar(&out, "out", "", "write the report to this file instead of stdout")
	return cmd
}
