package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aexvir/hugodist/wheel"
)

func newWheelCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wheel",
		Short: "Build the platform wheel, compiling hugo if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			return wheel.Bdist(cmd.Context(), cfg)
		},
	}

	settingsFlags(cmd.Flags())

	return cmd
}

func newTagCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Print the wheel tag for the configured target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			tag, err := wheel.Tag(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tag)
			return nil
		},
	}

	settingsFlags(cmd.Flags())

	return cmd
}

func newRepairCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repair <wheel-dir> <dest-dir>",
		Short: "Retag linux wheels as manylinux",
		Long: `Link every wheel in <wheel-dir> into <dest-dir> with its linux platform tag
replaced by the manylinux2014 one. Wheels for architectures without a
manylinux tag are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := wheel.Repair(args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d wheels, skipped %d\n", len(report.Repaired), len(report.Skipped))
			return nil
		},
	}
}
