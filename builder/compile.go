package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aexvir/hugodist"
	"github.com/aexvir/hugodist/platform"
)

// GoInstall compiles the main package in dir with go install.
// Build tags and ldflags can be customized via [GoOpt] arguments.
func GoInstall(ctx context.Context, dir string, opts ...GoOpt) error {
	var conf goconf

	for _, opt := range opts {
		opt(&conf)
	}

	return hugodist.Run(
		ctx,
		"go",
		hugodist.WithArgs(conf.args("install")...),
		hugodist.WithEnv(conf.env...),
		hugodist.WithDir(dir),
		hugodist.WithErrMsg("failed to compile hugo"),
	)
}

// GoBuild compiles pkg, relative to the module in dir, into out.
func GoBuild(ctx context.Context, dir, pkg, out string, opts ...GoOpt) error {
	var conf goconf

	for _, opt := range opts {
		opt(&conf)
	}

	args := append(conf.args("build", "-o", out), pkg)

	return hugodist.Run(
		ctx,
		"go",
		hugodist.WithArgs(args...),
		hugodist.WithEnv(conf.env...),
		hugodist.WithDir(dir),
		hugodist.WithErrMsg(fmt.Sprintf("failed to compile %s", pkg)),
	)
}

type goconf struct {
	tags    []string
	ldflags []string
	env     []string
}

func (c goconf) args(cmd ...string) []string {
	args := append([]string{}, cmd...)

	if len(c.ldflags) > 0 {
		flags := make([]string, 0, len(c.ldflags))
		for _, flag := range c.ldflags {
			flags = append(flags, fmt.Sprintf("-X '%s'", flag))
		}
		args = append(args, "-ldflags", strings.Join(flags, " "))
	}

	if len(c.tags) > 0 {
		args = append(args, "-tags", strings.Join(c.tags, ","))
	}

	return args
}

type GoOpt func(c *goconf)

// WithTags allows specifying build tags, e.g. extended for the sass/webp enabled build.
func WithTags(tags ...string) GoOpt {
	return func(c *goconf) {
		c.tags = tags
	}
}

// WithLDFlags allows specifying variables set by the linker, as pkg.name=value.
func WithLDFlags(flags ...string) GoOpt {
	return func(c *goconf) {
		c.ldflags = flags
	}
}

// WithWorkspace points GOPATH and GOCACHE at dir, so that downloaded modules,
// build cache and installed binaries all stay inside it. The path must be absolute.
func WithWorkspace(dir string) GoOpt {
	return func(c *goconf) {
		c.env = append(c.env,
			"GOPATH="+dir,
			"GOCACHE="+dir,
			// go refuses to install cross compiled binaries when GOBIN is set
			"GOBIN=",
		)
	}
}

// WithTarget sets GOOS and GOARCH.
func WithTarget(target platform.Target) GoOpt {
	return func(c *goconf) {
		c.env = append(c.env, "GOOS="+target.GOOS, "GOARCH="+target.GOARCH)
	}
}

// WithCGO enables or disables cgo.
func WithCGO(enabled bool) GoOpt {
	return func(c *goconf) {
		value := "0"
		if enabled {
			value = "1"
		}
		c.env = append(c.env, "CGO_ENABLED="+value)
	}
}

// Output returns where go install leaves the binary inside gopath.
// Binaries built for the host architecture land in GOPATH/bin, cross compiled
// ones in GOPATH/bin/GOOS_GOARCH.
func Output(gopath string, host, target platform.Target) string {
	name := "hugo" + target.Extension()

	if target.GOARCH != host.GOARCH || target.GOOS != host.GOOS {
		return filepath.Join(gopath, "bin", target.GOOS+"_"+target.GOARCH, name)
	}

	return filepath.Join(gopath, "bin", name)
}
