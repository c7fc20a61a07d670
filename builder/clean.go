package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aexvir/hugodist"
)

// CleanPatterns are the ancillary build files removed before packaging.
var CleanPatterns = []string{"build", "*.pyc", "*.egg-info", "__pycache__"}

// Clean removes the paths matching patterns in root. Patterns resolving
// outside of root are refused.
func Clean(root string, patterns ...string) error {
	if len(patterns) == 0 {
		patterns = CleanPatterns
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			rel, err := filepath.Rel(root, match)
			if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return fmt.Errorf("refusing to remove %s, outside of %s", match, root)
			}

			hugodist.LogDetail(fmt.Sprintf("removing %s", rel))
			if err := os.RemoveAll(match); err != nil {
				return fmt.Errorf("failed to remove %s: %w", match, err)
			}
		}
	}

	return nil
}
