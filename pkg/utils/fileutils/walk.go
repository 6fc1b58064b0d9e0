package fileutils

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/olimci/cordova-dev/pkg/utils/set"
)

// Entry is a file or directory found by WalkInfo, keyed by its path
// relative to the walk root.
type Entry struct {
	Rel  string
	Info fs.FileInfo
}

// WalkInfo walks a directory tree and returns every entry below root (root
// itself excluded) in walk order.
func WalkInfo(root string) ([]Entry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0)
	err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == abs {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		entries = append(entries, Entry{Rel: rel, Info: info})
		return nil
	})

	return entries, err
}

// WalkFiles walks a directory tree and returns the set of regular files,
// relative to root.
func WalkFiles(root string) (*set.Set[string], error) {
	entries, err := WalkInfo(root)
	if err != nil {
		return nil, err
	}

	files := set.New[string]()
	for _, e := range entries {
		if !e.Info.IsDir() {
			files.Add(e.Rel)
		}
	}
	return files, nil
}
