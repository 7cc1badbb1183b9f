package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootMarkers are the entries that identify a vault root, in priority order.
var RootMarkers = []string{".linker.yaml", ".obsidian", ".git"}

// FindRoot looks upwards from startDir for a vault root indicator
// (.linker.yaml, .obsidian or .git) and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range RootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("vault root not found above %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
