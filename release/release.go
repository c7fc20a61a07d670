package release

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// DefaultVersion of hugo that gets packaged.
	DefaultVersion = "0.124.1"
	// DefaultCommit is the commit the v[DefaultVersion] tag points at.
	// It has to be updated together with the version; see [Verify].
	DefaultCommit = "db083b05f16c945fec04f745f0ca8640560cf1ec"
	// DefaultSHA256 is the digest of the source tarball of [DefaultVersion].
	DefaultSHA256 = "0beb0436f6bd90abb425523229a37f1d31e2e9c7ba9fac4556a72aab3b11bfef"
	// DefaultVendor is injected into the vendorInfo variable of the binary,
	// hugo shows it in its version output.
	DefaultVendor = "hugo-python-distributions"

	DefaultURL        = "https://github.com/gohugoio/hugo/archive/refs/tags/v{{.Version}}.tar.gz"
	DefaultRepository = "https://github.com/gohugoio/hugo"

	// VendorInfoVar is the linker symbol receiving [Release.Vendor].
	VendorInfoVar = "github.com/gohugoio/hugo/common/hugo.vendorInfo"
)

// Release describes the upstream hugo release being packaged.
type Release struct {
	Version    string
	URL        string
	Commit     string
	SHA256     string
	Vendor     string
	Repository string
}

// Default returns the release pinned by this module.
func Default() Release {
	return Release{
		Version:    DefaultVersion,
		URL:        DefaultURL,
		Commit:     DefaultCommit,
		SHA256:     DefaultSHA256,
		Vendor:     DefaultVendor,
		Repository: DefaultRepository,
	}
}

// Validate checks the release is usable for a build.
func (r Release) Validate() error {
	var errs []error

	if !semver.IsValid("v" + strings.TrimPrefix(r.Version, "v")) {
		errs = append(errs, fmt.Errorf("invalid version %q", r.Version))
	}
	if r.URL == "" {
		errs = append(errs, errors.New("release url must be set"))
	}
	if r.SHA256 != "" && len(r.SHA256) != 64 {
		errs = append(errs, fmt.Errorf("invalid sha256 %q", r.SHA256))
	}

	return errors.Join(errs...)
}

// Tag is the git tag of the release.
func (r Release) Tag() string {
	return "v" + strings.TrimPrefix(r.Version, "v")
}

// SourceURL resolves the tarball url of the release.
func (r Release) SourceURL() (string, error) {
	return Template{Version: strings.TrimPrefix(r.Version, "v")}.Resolve(r.URL)
}

// SourceDir is the directory name the source tarball extracts to.
func (r Release) SourceDir() string {
	return "hugo-" + strings.TrimPrefix(r.Version, "v")
}
