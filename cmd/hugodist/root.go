package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aexvir/hugodist/config"
)

type options struct {
	config  string
	envfile string
}

func NewRootCommand(version, commit, date string) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "hugodist",
		Short: "Build hugo and package it as python wheels",
		Long: `hugodist compiles the hugo static site generator from its release sources
and packages the binary as a platform specific python wheel.

Settings are read from hugodist.yaml, HUGODIST_* environment variables and
flags, in increasing order of precedence.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(opts.envfile, cmd.Flags().Changed("env-file"))
		},
	}

	root.PersistentFlags().StringVar(&opts.config, "config", "", "config file (default is ./hugodist.yaml)")
	root.PersistentFlags().StringVar(&opts.envfile, "env-file", ".env", "file with environment variables to load")

	root.AddCommand(
		newBuildCommand(&opts),
		newEnsureCommand(&opts),
		newWheelCommand(&opts),
		newTagCommand(&opts),
		newCleanCommand(&opts),
		newRepairCommand(),
		newVerifyCommand(&opts),
		newVersionFileCommand(&opts),
		newPlatformsCommand(),
	)

	return root
}

// loadEnv loads variables from file without overriding the ones already set.
// The default file is optional, an explicit one is not.
func loadEnv(file string, explicit bool) error {
	err := godotenv.Load(file)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

// settingsFlags registers the flags overriding config keys.
func settingsFlags(flags *pflag.FlagSet) {
	flags.String("root", "", "project root")
	flags.String("version", "", "hugo version to build")
	flags.String("goarch", "", "architecture to compile for, defaults to the host one")
	flags.String("cache-dir", "", "folder for sources and go caches")
	flags.String("package-dir", "", "python package folder")
	flags.String("dist-dir", "", "folder receiving the built wheels")
	flags.StringSlice("tags", nil, "go build tags")
	flags.String("python", "", "python interpreter used to build wheels")
	flags.String("platform-tag", "", "platform tag of the wheel builder, detected if empty")
	flags.String("shim-source", "", "module holding the hugo command bundled with the package")
}

func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	return config.Load(o.config, cmd.Flags())
}
