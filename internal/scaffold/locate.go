package scaffold

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FindRoot searches start and its parents for a folder holding Assets.
// It returns the project root, or an empty string if none is found.
func FindRoot(fs afero.Fs, start string) (string, error) {
	currentDir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		// a folder named Assets is never its own project root
		if filepath.Base(currentDir) != AssetsDir {
			ok, err := afero.DirExists(fs, filepath.Join(currentDir, AssetsDir))
			if err != nil {
				return "", fmt.Errorf("failed to check %s: %w", currentDir, err)
			}
			if ok {
				return currentDir, nil
			}
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			// reached root directory
			return "", nil
		}
		currentDir = parent
	}
}
