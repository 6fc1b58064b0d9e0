package projects

import (
	"os"
	"path/filepath"
)

// List returns the names of the immediate subdirectories of root in the
// order the filesystem enumerates them. Symlinks to directories count as
// directories. An empty root yields an empty, non-nil slice.
func List(root string) ([]string, error) {
	f, err := os.Open(root)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(root, e.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
