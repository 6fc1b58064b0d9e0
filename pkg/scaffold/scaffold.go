package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
)

// BuildResult contains information about what was created.
type BuildResult struct {
	FilesCreated []string
	FilesSkipped []string
	DirsCreated  []string
}

// Build renders the template into targetPath. Files already present in the
// target are left untouched and reported as skipped.
func (t *Template) Build(ctx context.Context, targetPath string, opts ...Option) (*BuildResult, error) {
	o := defaultOptions().apply(opts...)

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	result := &BuildResult{
		FilesCreated: make([]string, 0),
		FilesSkipped: make([]string, 0),
		DirsCreated:  make([]string, 0),
	}

	err := fs.WalkDir(t.fsys, t.Base, func(src string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := relative(t.Base, src)
		if rel == "." || rel == ManifestFile {
			return nil
		}

		destRel := t.Destination(rel)
		destPath := filepath.Join(targetPath, destRel)

		if d.IsDir() {
			if fileutils.IsDir(destPath) {
				return nil
			}
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", destRel, err)
			}
			result.DirsCreated = append(result.DirsCreated, destRel)
			return nil
		}

		if fileutils.Exists(destPath) {
			o.report.Debugf("%s already exists, leaving it", destRel)
			result.FilesSkipped = append(result.FilesSkipped, destRel)
			return nil
		}

		content, err := fs.ReadFile(t.fsys, src)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}

		if t.IsTemplate(rel) {
			content, err = render(rel, content, o.variables)
			if err != nil {
				return fmt.Errorf("processing template %s: %w", rel, err)
			}
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("creating parent directory for %s: %w", destRel, err)
		}
		if err := os.WriteFile(destPath, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", destRel, err)
		}

		result.FilesCreated = append(result.FilesCreated, destRel)
		o.report.Infof("Created %s", destRel)
		return nil
	})

	if err != nil {
		return result, err
	}

	return result, nil
}

func relative(base, p string) string {
	if base == "." || base == "" {
		return p
	}
	if p == base {
		return "."
	}
	rel, ok := strings.CutPrefix(p, base+"/")
	if !ok {
		return p
	}
	return rel
}

func render(name string, content []byte, vars map[string]any) ([]byte, error) {
	tmpl, err := template.New(path.Base(name)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("executing: %w", err)
	}

	return buf.Bytes(), nil
}
