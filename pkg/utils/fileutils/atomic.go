package fileutils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// AtomicWrite writes a file atomically. Readers observe either the previous
// contents or the complete new contents, never a partial write.
func AtomicWrite(path string, gen func(w io.Writer) error) error {
	tmp, err := writeTemp(path, gen)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	return replace(tmp, path)
}

// AtomicWriteFile is AtomicWrite for an in-memory payload.
func AtomicWriteFile(path string, data []byte) error {
	return AtomicWrite(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// AtomicEdit rewrites a file atomically, leaving it untouched when the
// generated content is identical. It reports whether the file changed.
func AtomicEdit(path string, edit func(old []byte) ([]byte, error)) (bool, error) {
	old, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	updated, err := edit(old)
	if err != nil {
		return false, err
	}
	if bytes.Equal(old, updated) {
		return false, nil
	}

	if err := AtomicWriteFile(path, updated); err != nil {
		return false, err
	}
	return true, nil
}

func writeTemp(path string, gen func(w io.Writer) error) (string, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", err
	}

	name := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}

	if err := gen(tmp); err != nil {
		return fail(err)
	}
	if info, err := os.Stat(path); err == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			return fail(err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := tmp.Chmod(0644); err != nil {
			return fail(err)
		}
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}

	return name, nil
}

func replace(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if df, err := os.Open(dir); err == nil {
		_ = df.Sync()
		_ = df.Close()
	}

	return nil
}
