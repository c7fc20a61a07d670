// Package config resolves build settings from defaults, an optional
// hugodist.yaml file, HUGODIST_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aexvir/hugodist/platform"
	"github.com/aexvir/hugodist/release"
)

const (
	EnvPrefix = "HUGODIST"
	FileName  = "hugodist"

	KeyVersion      = "version"
	KeyURL          = "url"
	KeyCommit       = "commit"
	KeySHA256       = "sha256"
	KeyVendor       = "vendor"
	KeyRepository   = "repository"
	KeyRoot         = "root"
	KeyCacheDir     = "cache_dir"
	KeyPackageDir   = "package_dir"
	KeyDistDir      = "dist_dir"
	KeyGOARCH       = "goarch"
	KeyTags         = "tags"
	KeyCGO          = "cgo"
	KeyPlatformTag  = "platform_tag"
	KeyCIBuildWheel = "cibuildwheel"
	KeyPython       = "python"
	KeyShimSource   = "shim_source"
)

var keys = []string{
	KeyVersion, KeyURL, KeyCommit, KeySHA256, KeyVendor, KeyRepository,
	KeyRoot, KeyCacheDir, KeyPackageDir, KeyDistDir,
	KeyGOARCH, KeyTags, KeyCGO, KeyPlatformTag, KeyCIBuildWheel, KeyPython,
	KeyShimSource,
}

// Config holds everything the build and packaging steps need.
type Config struct {
	Release release.Release

	// Root is the project root, everything else is relative to it.
	Root string
	// CacheDir receives the source tarball, the extracted sources, GOPATH and GOCACHE.
	CacheDir string
	// PackageDir is the python package directory receiving VERSION and binaries/.
	PackageDir string
	// DistDir receives built wheels.
	DistDir string

	// GOARCH overrides the architecture to compile for, enabling cross compilation.
	GOARCH string
	Tags   []string
	CGO    bool

	// PlatformTag overrides the platform tag detected for the build host.
	PlatformTag  string
	CIBuildWheel bool
	Python       string

	// ShimSource is the module providing the hugo command installed with the package.
	ShimSource string
}

// Defaults registers default values on v.
func Defaults(v *viper.Viper) {
	r := release.Default()

	v.SetDefault(KeyVersion, r.Version)
	v.SetDefault(KeyURL, r.URL)
	v.SetDefault(KeyCommit, r.Commit)
	v.SetDefault(KeySHA256, r.SHA256)
	v.SetDefault(KeyVendor, r.Vendor)
	v.SetDefault(KeyRepository, r.Repository)
	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyCacheDir, "hugo_cache")
	v.SetDefault(KeyPackageDir, "hugo")
	v.SetDefault(KeyDistDir, "dist")
	v.SetDefault(KeyGOARCH, "")
	v.SetDefault(KeyTags, []string{"extended"})
	v.SetDefault(KeyCGO, true)
	v.SetDefault(KeyPlatformTag, "")
	v.SetDefault(KeyCIBuildWheel, false)
	v.SetDefault(KeyPython, "python3")
	v.SetDefault(KeyShimSource, ".")
}

// New returns a viper instance with defaults and environment bindings.
// When file is empty, hugodist.yaml is looked up in the working directory.
func New(file string) *viper.Viper {
	v := viper.New()
	Defaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	// variables understood by the go toolchain and cibuildwheel keep their names
	_ = v.BindEnv(KeyGOARCH, "GOARCH")
	_ = v.BindEnv(KeyCIBuildWheel, "CIBUILDWHEEL")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Read loads the config file if there is one. A missing default file is fine,
// an explicitly requested one must exist.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notfound viper.ConfigFileNotFoundError
	if errors.As(err, &notfound) {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// From builds a [Config] out of the values in v.
func From(v *viper.Viper) (Config, error) {
	root, err := filepath.Abs(v.GetString(KeyRoot))
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve root: %w", err)
	}

	cfg := Config{
		Release: release.Release{
			Version:    strings.TrimPrefix(v.GetString(KeyVersion), "v"),
			URL:        v.GetString(KeyURL),
			Commit:     v.GetString(KeyCommit),
			SHA256:     v.GetString(KeySHA256),
			Vendor:     v.GetString(KeyVendor),
			Repository: v.GetString(KeyRepository),
		},
		Root:         root,
		CacheDir:     within(root, v.GetString(KeyCacheDir)),
		PackageDir:   within(root, v.GetString(KeyPackageDir)),
		DistDir:      within(root, v.GetString(KeyDistDir)),
		GOARCH:       v.GetString(KeyGOARCH),
		Tags:         v.GetStringSlice(KeyTags),
		CGO:          v.GetBool(KeyCGO),
		PlatformTag:  v.GetString(KeyPlatformTag),
		CIBuildWheel: v.GetBool(KeyCIBuildWheel),
		Python:       v.GetString(KeyPython),
		ShimSource:   within(root, v.GetString(KeyShimSource)),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// BindFlags makes flags named after a key, with dashes instead of
// underscores, take precedence over every other source once set.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(flag *pflag.Flag) {
		key := strings.ReplaceAll(flag.Name, "-", "_")
		if !slices.Contains(keys, key) {
			return
		}
		errs = append(errs, v.BindPFlag(key, flag))
	})
	return errors.Join(errs...)
}

// Load is the one-call variant used by the commands. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := New(file)
	if err := Read(v); err != nil {
		return Config{}, err
	}
	if flags != nil {
		if err := BindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}
	return From(v)
}

// Validate checks the settings are consistent.
func (c Config) Validate() error {
	var errs []error

	if err := c.Release.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.GOARCH != "" {
		if _, ok := goarches[c.GOARCH]; !ok {
			errs = append(errs, fmt.Errorf("%w: GOARCH %q", platform.ErrUnsupported, c.GOARCH))
		}
	}

	return errors.Join(errs...)
}

// Target returns the target to compile for: the host, with the architecture
// replaced by the GOARCH override if any.
func (c Config) Target() (platform.Target, error) {
	target, err := platform.HostTarget()
	if err != nil {
		return platform.Target{}, err
	}

	if c.GOARCH != "" {
		target.GOARCH = c.GOARCH
	}

	return target, nil
}

// BinariesDir is where staged binaries live inside the package.
func (c Config) BinariesDir() string {
	return filepath.Join(c.PackageDir, "binaries")
}

// goarches are the architectures a wheel can be produced for.
var goarches = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, goarch := range platform.Architectures {
		set[goarch] = struct{}{}
	}
	return set
}()

func within(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
