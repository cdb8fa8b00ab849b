package rcfile

import (
	"os"
	"path/filepath"
)

// DefaultName is the config file name searched for when none is given.
const DefaultName = ".konchrc"

// Resolve locates the config file to use.
//
// When explicit is non-empty it must name an existing file; a missing
// explicit path is an error rather than a fallthrough to the search.
// Otherwise the current directory and its ancestors are searched for
// DefaultName, nearest first. Finding nothing is not an error: the
// caller proceeds with defaults, so Resolve returns an empty path.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", err
		}
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			return "", &NotFoundError{Path: explicit}
		}
		return abs, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, DefaultName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
