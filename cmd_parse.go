package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mudrockdev/mudrockreportdiff/render"
)

func (a *app) parseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <report>",
		Short: "Show the metadata and tables extracted from a report",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return render.CheckModelFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := a.parseReports(args[0])
			if err != nil {
				return err
			}
			return render.WriteModel(a.out, models[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", render.Text, fmt.Sprintf("output format (%s)", strings.Join(render.ModelFormats(), ", ")))
	return cmd
}
