package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mudrockdev/mudrockreportdiff/compare"
	"github.com/mudrockdev/mudrockreportdiff/extract"
	"github.com/mudrockdev/mudrockreportdiff/render"
	"github.com/mudrockdev/mudrockreportdiff/report"
)

func (a *app) compareCmd() *cobra.Command {
	var (
		tables []string
		format string
		out    string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "compare <baseline> <target>",
		Short: "Compare a target report against a baseline report",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return render.CheckFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := a.parseReports(args[0], args[1])
			if err != nil {
				return err
			}

			engine := compare.New(a.cfg, compare.WithLogger(a.logger.Named("compare")))
			result, err := engine.Compare(models[0], models[1], tableIDs(tables))
			if err != nil {
				return err
			}
			a.logger.Debug("compared reports",
				zap.String("mode", string(result.Mode)),
				zap.Int("metrics", result.Summary.TotalMetrics),
				zap.Int("critical", result.Summary.CriticalCount),
				zap.Int("warning", result.Summary.WarningCount))

			if save {
				id, err := a.saveResult(cmd, result)
				if err != nil {
					return err
				}
				a.logger.Info("comparison saved", zap.String("id", id))
			}

			w, closeFn, err := outputWriter(a.out, out)
			if err != nil {
				return err
			}
			if err := render.Write(w, result, format); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringSliceVar(&tables, "tables", nil, "tables to compare (default: every table present in both reports)")
	cmd.Flags().StringVarP(&format, "output", "o", render.Text, fmt.Sprintf("output format (%s)", strings.Join(render.Formats(), ", ")))
	cmd.Flags().StringVar(&out, "out", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&save, "save", false, "store the result in the history database")
	return cmd
}

// parseReports parses the baseline and the target concurrently.
func (a *app) parseReports(paths ...string) ([]*report.Model, error) {
	models := make([]*report.Model, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			m, err := extract.ParseFile(path, extract.WithLogger(a.logger.Named("extract").With(zap.String("file", path))))
			if err != nil {
				return err
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

func (a *app) saveResult(cmd *cobra.Command, result *compare.Result) (string, error) {
	store, err := a.openHistory()
	if err != nil {
		return "", err
	}
	defer store.Close()

	if err := store.Init(cmd.Context()); err != nil {
		return "", err
	}
	return store.Save(cmd.Context(), result)
}
