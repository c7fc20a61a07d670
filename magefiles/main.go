//go:build mage

package main

import (
	"context"

	"github.com/aexvir/hugodist"
	"github.com/aexvir/hugodist/builder"
	"github.com/aexvir/hugodist/config"
	"github.com/aexvir/hugodist/release"
	"github.com/aexvir/hugodist/wheel"
)

var p = hugodist.New(
	hugodist.WithPreExecFunc(
		func(ctx context.Context) error { // ensure go mod download is run before any task
			return hugodist.Run(ctx, "go", hugodist.WithArgs("mod", "download"))
		},
	),
)

// Dist groups the packaging steps, in the order a release runs them.
type Dist struct{}

// compile hugo and stage the binary in the python package
func (Dist) Build(ctx context.Context) error {
	cfg, err := config.Load("", nil)
	if err != nil {
		return err
	}

	b, err := builder.New(cfg)
	if err != nil {
		return err
	}

	return b.Ensure(ctx)
}

// check the pinned commit against the upstream tag
func (Dist) Verify(ctx context.Context) error {
	cfg, err := config.Load("", nil)
	if err != nil {
		return err
	}

	commit, err := release.Verify(ctx, cfg.Release)
	if err != nil {
		return err
	}

	hugodist.LogDetail(cfg.Release.Tag() + " -> " + commit)
	return nil
}

// build the platform wheel
func (Dist) Wheel(ctx context.Context) error {
	cfg, err := config.Load("", nil)
	if err != nil {
		return err
	}

	return wheel.Bdist(ctx, cfg)
}

// verify the release, then build the binary and its wheel
func Release(ctx context.Context) error {
	return p.Execute(ctx, hugodist.AsSteps(Dist.Verify, Dist.Build, Dist.Wheel)...)
}

// compile hugo for the host, or for $GOARCH
func Build(ctx context.Context) error {
	return p.Execute(ctx, hugodist.AsSteps(Dist.Build)...)
}

// Dev groups the checks run before pushing.
type Dev struct{}

// format codebase using gofmt
func (Dev) Format(ctx context.Context) error {
	return hugodist.Run(ctx, "gofmt", hugodist.WithArgs("-l", "-w", "."))
}

// run unit tests
func (Dev) Test(ctx context.Context) error {
	return hugodist.Run(ctx, "go", hugodist.WithArgs("test", "-race", "-cover", "./..."))
}

// run go mod tidy
func (Dev) Tidy(ctx context.Context) error {
	return hugodist.Run(ctx, "go", hugodist.WithArgs("mod", "tidy", "-v"))
}

// format, test and tidy
func Check(ctx context.Context) error {
	return p.Execute(ctx, hugodist.StepsFrom[Dev]()...)
}

// format codebase using gofmt
func Format(ctx context.Context) error {
	return p.Execute(ctx, hugodist.AsSteps(Dev.Format)...)
}

// run unit tests
func Test(ctx context.Context) error {
	return p.Execute(ctx, hugodist.AsSteps(Dev.Test)...)
}

// run go mod tidy
func Tidy(ctx context.Context) error {
	return p.Execute(ctx, hugodist.AsSteps(Dev.Tidy)...)
}
