package main

import (
	"github.com/spf13/cobra"

	"github.com/aexvir/hugodist/builder"
)

func newBuildCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile hugo and stage the binary in the package",
		Long: `Download the hugo release sources, compile them with the go toolchain and
stage the binary under <package-dir>/binaries, named after the version,
platform and architecture it was built for.

Set GOARCH, or pass --goarch, to cross compile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			b, err := builder.New(cfg)
			if err != nil {
				return err
			}

			return b.Build(cmd.Context())
		},
	}

	settingsFlags(cmd.Flags())

	return cmd
}

func newEnsureCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Build hugo only if the expected binary isn't staged yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			b, err := builder.New(cfg)
			if err != nil {
				return err
			}

			return b.Ensure(cmd.Context())
		},
	}

	settingsFlags(cmd.Flags())

	return cmd
}

func newCleanCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove python build leftovers from the project root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			return builder.Clean(cfg.Root)
		},
	}

	settingsFlags(cmd.Flags())

	return cmd
}

func newVersionFileCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version-file",
		Short: "Write the VERSION file of the package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			return builder.WriteVersion(cfg.PackageDir, cfg.Release.Version)
		},
	}

	settingsFlags(cmd.Flags())

	return cmd
}
