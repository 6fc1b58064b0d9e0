package scaffold

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	ManifestFile = "template.toml"
	StripSuffix  = ".scaffold"
)

type Manifest struct {
	Name             string            `toml:"name"`
	Description      string            `toml:"description"`
	TemplatePatterns []string          `toml:"template_patterns"`
	Renames          map[string]string `toml:"renames"`
}

// Template is a tree of files plus the manifest describing how to render it.
type Template struct {
	Manifest Manifest
	Base     string

	fsys fs.FS
}

// Load opens src and reads its manifest.
func Load(ctx context.Context, src Source) (*Template, error) {
	fsy, base, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}

	file, err := fsy.Open(path.Join(base, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("opening template manifest: %w", err)
	}
	defer file.Close()

	var manifest Manifest
	if md, err := toml.NewDecoder(file).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("decoding template manifest: %w", err)
	} else if len(md.Undecoded()) > 0 {
		return nil, fmt.Errorf("unknown keys in template manifest: %v", md.Undecoded())
	}

	for _, p := range manifest.TemplatePatterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid template pattern %q", p)
		}
	}
	if manifest.Renames == nil {
		manifest.Renames = make(map[string]string)
	}

	return &Template{
		Manifest: manifest,
		Base:     base,
		fsys:     fsy,
	}, nil
}

// LoadFS is Load over an in-memory or embedded tree.
func LoadFS(ctx context.Context, fsy fs.FS, root string) (*Template, error) {
	return Load(ctx, Bundled{FS: fsy, Dir: root})
}

// IsTemplate reports whether rel should be rendered rather than copied.
// A trailing .scaffold is ignored and patterns without a slash also match the
// base name.
func (t *Template) IsTemplate(rel string) bool {
	rel = filepath.ToSlash(rel)
	if trimmed, ok := strings.CutSuffix(rel, StripSuffix); ok && path.Base(trimmed) != "" {
		rel = trimmed
	}
	for _, pattern := range t.Manifest.TemplatePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, path.Base(rel)); ok && !strings.Contains(pattern, "/") {
			return true
		}
	}
	return false
}

// Destination maps a template-relative path onto the project tree.
func (t *Template) Destination(rel string) string {
	rel = filepath.ToSlash(rel)
	if dest, ok := t.Manifest.Renames[rel]; ok {
		return filepath.FromSlash(dest)
	}

	dir, name := path.Split(rel)
	if dest, ok := t.Manifest.Renames[name]; ok {
		name = dest
	}
	if trimmed, ok := strings.CutSuffix(name, StripSuffix); ok && trimmed != "" {
		name = trimmed
	}
	return filepath.FromSlash(path.Join(dir, name))
}
