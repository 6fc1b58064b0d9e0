package fileutils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile copies src to dst, overwriting dst and giving it the access and
// modification times of src.
func CopyFile(src, dst string) error {
	return CopyFileWith(src, dst, func(w io.Writer, r io.Reader) error {
		_, err := io.Copy(w, r)
		return err
	})
}

// CopyFileWith copies src to dst through transform, then stamps dst with the
// times of src.
func CopyFileWith(src, dst string, transform func(w io.Writer, r io.Reader) error) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("copy %s: is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if err := transform(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	mtime := info.ModTime()
	return os.Chtimes(dst, mtime, mtime)
}

// CopyDir recursively copies the tree at src into dst, creating dst if
// needed. Existing files in dst are overwritten.
func CopyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("copy %s: not a directory", src)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	entries, err := WalkInfo(src)
	if err != nil {
		return err
	}

	for _, e := range entries {
		target := filepath.Join(dst, e.Rel)
		if e.Info.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if !e.Info.Mode().IsRegular() {
			continue
		}
		if err := CopyFile(filepath.Join(src, e.Rel), target); err != nil {
			return err
		}
	}

	return nil
}

// RemoveAll deletes path and everything below it. A missing path is not an
// error.
func RemoveAll(path string) error {
	err := os.RemoveAll(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
