// Package wheel turns the staged hugo binary into a platform wheel.
//
// Wheels are produced by the python build frontend and retagged by the wheel
// tool; this package only decides which tag a wheel deserves and drives them.
package wheel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aexvir/hugodist"
	"github.com/aexvir/hugodist/builder"
	"github.com/aexvir/hugodist/config"
	"github.com/aexvir/hugodist/platform"
)

// Tag computes the tag of the wheel built on this host for the configured target.
func Tag(cfg config.Config) (platform.WheelTag, error) {
	host, err := platform.DetectHost()
	if err != nil {
		return platform.WheelTag{}, err
	}
	return tagFor(host, cfg)
}

func tagFor(host platform.Host, cfg config.Config) (platform.WheelTag, error) {
	base := cfg.PlatformTag
	if base == "" {
		detected, err := platform.BasePlatformTag(host)
		if err != nil {
			return platform.WheelTag{}, err
		}
		base = detected
	}

	goarch := cfg.GOARCH
	if goarch == "" {
		native, err := platform.LookupArch(host.Machine)
		if err != nil {
			return platform.WheelTag{}, err
		}
		goarch = native
	}

	return platform.Tag(host.Platform, base, goarch, cfg.CIBuildWheel)
}

// Bdist builds the wheel for the configured target into the dist dir.
func Bdist(ctx context.Context, cfg config.Config) error {
	b, err := builder.New(cfg)
	if err != nil {
		return err
	}

	tag, err := Tag(cfg)
	if err != nil {
		return err
	}

	return hugodist.New().Execute(ctx, Steps(cfg, b, tag)...)
}

// Steps lists the packaging steps in execution order.
func Steps(cfg config.Config, b *builder.Builder, tag platform.WheelTag) []hugodist.Step {
	// wheels are built apart so that only fresh ones get retagged
	var workdir string

	return []hugodist.Step{
		hugodist.Do("cleaning build leftovers", func(_ context.Context) error {
			return builder.Clean(cfg.Root)
		}),
		hugodist.Do("ensuring hugo binary", b.Ensure),
		hugodist.Do("building wheel", func(ctx context.Context) error {
			if err := os.MkdirAll(cfg.DistDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", cfg.DistDir, err)
			}

			dir, err := os.MkdirTemp(cfg.DistDir, ".build-")
			if err != nil {
				return err
			}
			workdir = dir

			err = hugodist.Run(
				ctx,
				cfg.Python,
				hugodist.WithArgs("-m", "build", "--wheel", "--outdir", workdir),
				hugodist.WithDir(cfg.Root),
				hugodist.WithErrMsg("failed to build wheel"),
			)
			if err != nil {
				os.RemoveAll(workdir)
			}
			return err
		}),
		hugodist.Do(fmt.Sprintf("retagging wheels as %s", tag), func(ctx context.Context) error {
			defer os.RemoveAll(workdir)

			wheels, err := filepath.Glob(filepath.Join(workdir, "*.whl"))
			if err != nil {
				return err
			}
			if len(wheels) == 0 {
				return fmt.Errorf("no wheel was built in %s", workdir)
			}

			for _, whl := range wheels {
				if err := Retag(ctx, cfg.Python, whl, tag); err != nil {
					return err
				}
			}

			retagged, err := filepath.Glob(filepath.Join(workdir, "*.whl"))
			if err != nil {
				return err
			}

			for _, whl := range retagged {
				dest := filepath.Join(cfg.DistDir, filepath.Base(whl))
				if err := os.Rename(whl, dest); err != nil {
					return fmt.Errorf("failed to move %s to %s: %w", whl, cfg.DistDir, err)
				}
				hugodist.LogDetail(fmt.Sprintf("built %s", dest))
			}

			return nil
		}),
	}
}

// Retag replaces the tags of the wheel in place using the wheel tool.
func Retag(ctx context.Context, python, whl string, tag platform.WheelTag) error {
	return hugodist.Run(
		ctx,
		python,
		hugodist.WithArgs(
			"-m", "wheel", "tags", "--remove",
			"--python-tag", tag.Python,
			"--abi-tag", tag.ABI,
			"--platform-tag", tag.Platform,
			whl,
		),
		hugodist.WithErrMsg(fmt.Sprintf("failed to retag %s", filepath.Base(whl))),
	)
}
