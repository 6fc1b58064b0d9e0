package scaffold

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// Source locates a template tree. Open returns the filesystem holding it and
// the directory within that filesystem where the manifest lives.
type Source interface {
	Open(ctx context.Context) (fs.FS, string, error)
}

// Bundled is a template compiled into the binary, rooted at Dir inside FS.
type Bundled struct {
	FS  fs.FS
	Dir string
}

func (b Bundled) Open(ctx context.Context) (fs.FS, string, error) {
	dir := cmp.Or(b.Dir, ".")
	if err := hasManifest(b.FS, dir); err != nil {
		return nil, "", err
	}
	return b.FS, dir, nil
}

// Dir is a template directory on disk, as set by webTemplateDirectory.
type Dir string

func (d Dir) Open(ctx context.Context) (fs.FS, string, error) {
	info, err := os.Stat(string(d))
	if err != nil {
		return nil, "", fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("template directory %s is not a directory", string(d))
	}

	fsys := os.DirFS(string(d))
	if err := hasManifest(fsys, "."); err != nil {
		return nil, "", fmt.Errorf("template directory %s: %w", string(d), err)
	}
	return fsys, ".", nil
}

func hasManifest(fsys fs.FS, dir string) error {
	info, err := fs.Stat(fsys, path.Join(dir, ManifestFile))
	if err != nil {
		return fmt.Errorf("missing %s: %w", ManifestFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", ManifestFile)
	}
	return nil
}
