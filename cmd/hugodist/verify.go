package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aexvir/hugodist/release"
)

func newVerifyCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the pinned commit against the upstream release tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			commit, err := release.Verify(cmd.Context(), cfg.Release)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", cfg.Release.Tag(), commit)
			return nil
		},
	}

	settingsFlags(cmd.Flags())

	return cmd
}
