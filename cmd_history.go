package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mudrockdev/mudrockreportdiff/history"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect comparisons saved with compare --save",
	}
	cmd.AddCommand(a.historyInitCmd(), a.historyListCmd(), a.historyShowCmd(), a.historyInfoCmd())
	return cmd
}

// withStore opens the history database and checks its tables exist.
func (a *app) withStore(cmd *cobra.Command, fn func(*history.Store) error) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Check(cmd.Context()); err != nil {
		return err
	}
	return fn(store)
}

func (a *app) historyInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the history tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Init(cmd.Context())
		},
	}
}

func (a *app) historyListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved comparisons, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(a.out, "No saved comparisons.")
					return nil
				}

				table := tablewriter.NewWriter(a.out)
				table.Header("ID", "Created", "Mode", "Baseline", "Target", "Metrics", "Critical", "Warnings")
				for _, r := range runs {
					err := table.Append([]string{
						r.ID,
						r.Created.Format(timeLayout),
						string(r.Mode),
						r.BaselineDatabase,
						r.TargetDatabase,
						humanize.Comma(int64(r.Summary.TotalMetrics)),
						humanize.Comma(int64(r.Summary.CriticalCount)),
						humanize.Comma(int64(r.Summary.WarningCount)),
					})
					if err != nil {
						return err
					}
				}
				return table.Render()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show, 0 for all")
	return cmd
}

func (a *app) historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the outcomes of a saved comparison",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store *history.Store) error {
				run, err := store.Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				outcomes, err := store.Outcomes(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "Run:      %s (%s)\n", run.ID, humanize.Time(run.Created))
				fmt.Fprintf(a.out, "Mode:     %s\n", run.Mode)
				fmt.Fprintf(a.out, "Baseline: %s - %s\n", run.BaselineEngine, run.BaselineDatabase)
				fmt.Fprintf(a.out, "Target:   %s - %s\n", run.TargetEngine, run.TargetDatabase)
				fmt.Fprintf(a.out, "Critical: %d, warnings: %d of %d metrics\n",
					run.Summary.CriticalCount, run.Summary.WarningCount, run.Summary.TotalMetrics)

				table := tablewriter.NewWriter(a.out)
				table.Header("Table", "Row", "Metric", "Baseline", "Target", "Change", "Status")
				for _, o := range outcomes {
					err := table.Append([]string{
						a.cfg.Description(string(o.Table)),
						o.Row,
						o.Metric,
						o.Baseline.String(),
						o.Target.String(),
						percent(o.PercentChange),
						o.Status(),
					})
					if err != nil {
						return err
					}
				}
				return table.Render()
			})
		},
	}
}

func (a *app) historyInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := store.Info(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Driver:   %s\n", a.v.GetString("history-driver"))
			fmt.Fprintf(a.out, "Host:     %s\n", info.Host)
			fmt.Fprintf(a.out, "Database: %s\n", info.Database)
			fmt.Fprintf(a.out, "Tables:   %d\n", info.Tables)
			fmt.Fprintf(a.out, "Size:     %s\n", humanize.IBytes(uint64(info.Size)))
			return nil
		},
	}
}
