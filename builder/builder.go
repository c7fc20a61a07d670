// Package builder compiles hugo from its release sources and stages the
// resulting binary inside the python package, named after the version,
// platform and architecture it was built for.
package builder

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aexvir/hugodist"
	"github.com/aexvir/hugodist/config"
	"github.com/aexvir/hugodist/platform"
	"github.com/aexvir/hugodist/release"
	"github.com/aexvir/hugodist/toolchain"
)

const (
	// ShimPackage is the main package of the hugo command, relative to the
	// module in [config.Config.ShimSource].
	ShimPackage = "./cmd/hugo"
	// ShimVersionVar is the linker symbol receiving the release version.
	ShimVersionVar = "github.com/aexvir/hugodist/shim.BundledVersion"
)

// Builder produces the staged hugo binary described by a config.
type Builder struct {
	cfg    config.Config
	host   platform.Target
	target platform.Target

	// checks run before anything is downloaded
	checks []toolchain.Requirement
}

// New creates a builder for the host, or for the GOARCH override of the config.
func New(cfg config.Config) (*Builder, error) {
	host, err := platform.HostTarget()
	if err != nil {
		return nil, err
	}

	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:    cfg,
		host:   host,
		target: target,
		checks: []toolchain.Requirement{toolchain.Go, toolchain.C, toolchain.Git},
	}, nil
}

// Target is the platform the binary is compiled for.
func (b *Builder) Target() platform.Target {
	return b.target
}

// BinaryName is the name of the staged binary.
func (b *Builder) BinaryName() string {
	return b.target.BinaryName(b.cfg.Release.Version)
}

// BinPath is the path of the staged binary.
func (b *Builder) BinPath() string {
	return filepath.Join(b.cfg.BinariesDir(), b.BinaryName())
}

// ShimPath is where the hugo command lands inside the package.
func (b *Builder) ShimPath() string {
	return filepath.Join(b.cfg.PackageDir, "hugo"+b.target.Extension())
}

// Build runs every step needed to produce the staged binary.
func (b *Builder) Build(ctx context.Context) error {
	return hugodist.New().Execute(ctx, b.Steps()...)
}

// Ensure builds the binary only if it isn't already staged with the expected version.
func (b *Builder) Ensure(ctx context.Context) error {
	if b.isStaged() && b.isExpectedVersion(ctx) {
		hugodist.LogDetail(fmt.Sprintf("%s already staged", b.BinaryName()))
		return nil
	}
	return b.Build(ctx)
}

// Steps lists the build steps in execution order.
func (b *Builder) Steps() []hugodist.Step {
	rel := b.cfg.Release
	srcdir := filepath.Join(b.cfg.CacheDir, rel.SourceDir())

	var url, archive string

	return []hugodist.Step{
		hugodist.Do("writing VERSION", func(_ context.Context) error {
			return WriteVersion(b.cfg.PackageDir, rel.Version)
		}),
		hugodist.Do("checking build toolchain", func(ctx context.Context) error {
			return toolchain.Check(ctx, b.checks...)
		}),
		hugodist.Do(fmt.Sprintf("fetching hugo %s sources", rel.Version), func(ctx context.Context) error {
			resolved, err := rel.SourceURL()
			if err != nil {
				return fmt.Errorf("failed to resolve url: %w", err)
			}
			url = resolved
			archive = filepath.Join(b.cfg.CacheDir, path.Base(url))
			return release.Fetch(ctx, url, archive, rel.SHA256)
		}),
		hugodist.Do("extracting sources", func(_ context.Context) error {
			return release.Extract(archive, b.cfg.CacheDir)
		}),
		hugodist.Do("checking go version", func(ctx context.Context) error {
			err := toolchain.CheckGoVersion(ctx, srcdir)
			if err == nil {
				return nil
			}
			// newer toolchains are fetched on demand unless pinned to the local one
			if os.Getenv("GOTOOLCHAIN") == "local" {
				return err
			}
			hugodist.LogDetail(fmt.Sprintf("%s; relying on GOTOOLCHAIN to fetch a newer one", err))
			return nil
		}),
		hugodist.Do(fmt.Sprintf("compiling hugo for %s", b.target), func(ctx context.Context) error {
			return b.compile(ctx, srcdir)
		}),
		hugodist.Do("staging binary", func(_ context.Context) error {
			staged, err := Stage(
				Output(b.cfg.CacheDir, b.host, b.target),
				b.cfg.BinariesDir(),
				b.BinaryName(),
			)
			if err != nil {
				return err
			}
			hugodist.LogDetail(fmt.Sprintf("staged %s", staged))
			return nil
		}),
		hugodist.Do(fmt.Sprintf("building shim for %s", b.target), func(ctx context.Context) error {
			return b.buildShim(ctx)
		}),
		hugodist.Do("recording manifest", func(_ context.Context) error {
			return Record(filepath.Join(b.cfg.CacheDir, ManifestName), b.BinPath(), rel, b.target, url)
		}),
	}
}

// buildShim compiles the hugo command proxying to the staged binary into the
// package dir, with the version it looks for baked in.
func (b *Builder) buildShim(ctx context.Context) error {
	return GoBuild(
		ctx,
		b.cfg.ShimSource,
		ShimPackage,
		b.ShimPath(),
		WithTarget(b.target),
		WithCGO(false),
		WithLDFlags(ShimVersionVar+"="+b.cfg.Release.Version),
	)
}

func (b *Builder) compile(ctx context.Context, srcdir string) error {
	// leftovers from previous builds would be picked up as the output
	if err := os.RemoveAll(filepath.Join(b.cfg.CacheDir, "bin")); err != nil {
		return fmt.Errorf("failed to clean previous output: %w", err)
	}

	opts := []GoOpt{
		WithWorkspace(b.cfg.CacheDir),
		WithTarget(b.target),
		WithCGO(b.cfg.CGO),
		WithTags(b.cfg.Tags...),
	}
	if b.cfg.Release.Vendor != "" {
		opts = append(opts, WithLDFlags(release.VendorInfoVar+"="+b.cfg.Release.Vendor))
	}

	return GoInstall(ctx, srcdir, opts...)
}

// isStaged returns true if both the binary and the shim are present in the package.
func (b *Builder) isStaged() bool {
	for _, path := range []string{b.BinPath(), b.ShimPath()} {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// isExpectedVersion runs the staged binary to check its version. Binaries
// for other architectures can't be run, their name is trusted instead.
func (b *Builder) isExpectedVersion(ctx context.Context) bool {
	if b.target != b.host {
		return true
	}

	out, err := hugodist.Output(ctx, b.BinPath(), hugodist.WithArgs("version"))
	if err != nil {
		return false
	}

	return strings.Contains(out, "v"+b.cfg.Release.Version) &&
		(b.cfg.Release.Vendor == "" || strings.Contains(out, b.cfg.Release.Vendor))
}
