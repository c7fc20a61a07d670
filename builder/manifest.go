package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aexvir/hugodist/platform"
	"github.com/aexvir/hugodist/release"
)

// ManifestName is the file name of the build manifest inside the cache dir.
const ManifestName = "manifest.yaml"

// Manifest records which binaries were staged and where they came from.
type Manifest struct {
	Generated time.Time `yaml:"generated"`
	Binaries  []Entry   `yaml:"binaries"`
}

type Entry struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	GOOS    string `yaml:"goos"`
	GOARCH  string `yaml:"goarch"`
	Source  string `yaml:"source"`
	Commit  string `yaml:"commit,omitempty"`
	Vendor  string `yaml:"vendor,omitempty"`
	// SHA256 is the digest of the staged binary.
	SHA256 string `yaml:"sha256"`
}

// ReadManifest loads a manifest, returning an empty one if the file doesn't exist.
func ReadManifest(path string) (Manifest, error) {
	var manifest Manifest

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return manifest, nil
	}
	if err != nil {
		return manifest, err
	}

	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return manifest, nil
}

// Record adds or replaces the entry for binary in the manifest at path.
func Record(path, binary string, rel release.Release, target platform.Target, source string) error {
	manifest, err := ReadManifest(path)
	if err != nil {
		return err
	}

	digest, err := release.Digest(binary)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", binary, err)
	}

	entry := Entry{
		Name:    filepath.Base(binary),
		Version: rel.Version,
		GOOS:    target.GOOS,
		GOARCH:  target.GOARCH,
		Source:  source,
		Commit:  rel.Commit,
		Vendor:  rel.Vendor,
		SHA256:  digest,
	}

	replaced := false
	for i := range manifest.Binaries {
		if manifest.Binaries[i].Name == entry.Name {
			manifest.Binaries[i] = entry
			replaced = true
		}
	}
	if !replaced {
		manifest.Binaries = append(manifest.Binaries, entry)
	}

	sort.Slice(manifest.Binaries, func(i, j int) bool {
		return manifest.Binaries[i].Name < manifest.Binaries[j].Name
	})
	manifest.Generated = time.Now().UTC()

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
