package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aexvir/hugodist/platform"
)

func newPlatformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the supported hosts and the targets they build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Platform", "Machine", "GOOS", "GOARCH", "Wheel Tag")

			for _, row := range platform.Supported() {
				tag, err := platform.BasePlatformTag(row.Host)
				if err != nil {
					tag = "-"
				}

				_ = table.Append([]string{
					row.Host.Platform,
					row.Host.Machine,
					row.Target.GOOS,
					row.Target.GOARCH,
					tag,
				})
			}

			return table.Render()
		},
	}
}
