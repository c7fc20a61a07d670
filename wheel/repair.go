package wheel

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aexvir/hugodist"
	"github.com/aexvir/hugodist/platform"
)

// Report lists what [Repair] did with each wheel.
type Report struct {
	Repaired []string
	Skipped  []string
}

// Repair links every wheel of in into out under its manylinux name.
// Wheels for other architectures are skipped and reported.
func Repair(in, out string) (Report, error) {
	var report Report

	wheels, err := filepath.Glob(filepath.Join(in, "*.whl"))
	if err != nil {
		return report, err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return report, fmt.Errorf("failed to create %s: %w", out, err)
	}

	for _, whl := range wheels {
		name, ok := platform.ManylinuxName(filepath.Base(whl))
		if !ok {
			hugodist.LogDetail(fmt.Sprintf("skipping %s, not a manylinux architecture", filepath.Base(whl)))
			report.Skipped = append(report.Skipped, whl)
			continue
		}

		dest := filepath.Join(out, name)
		if sameFile(whl, dest) {
			report.Repaired = append(report.Repaired, dest)
			continue
		}

		if err := link(whl, dest); err != nil {
			return report, err
		}

		hugodist.LogDetail(fmt.Sprintf("%s -> %s", filepath.Base(whl), name))
		report.Repaired = append(report.Repaired, dest)
	}

	return report, nil
}

// link hardlinks src as dst, copying when links aren't possible. An existing
// dst is only replaced once the new file is complete.
func link(src, dst string) error {
	tmp := dst + ".tmp"
	_ = os.Remove(tmp)

	if err := os.Link(src, tmp); err != nil {
		if err := copyFile(src, tmp); err != nil {
			os.Remove(tmp)
			return err
		}
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return out.Close()
}

// sameFile reports whether both paths point at the same existing file.
func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
