package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
)

func webTemplate() fstest.MapFS {
	return fstest.MapFS{
		"web/template.toml": {Data: []byte(`
name = "web"
description = "Blank web project"
template_patterns = ["*.html", "js/**/*.js"]

[renames]
"gitignore" = ".gitignore"
`)},
		"web/index.html.scaffold": {Data: []byte(`<title>{{ .Title }}</title><p>{{ .Package }}</p>`)},
		"web/css/app.css":         {Data: []byte(`body { color: {{ .Project }}; }`)},
		"web/js/lib/app.js":       {Data: []byte(`var v = "{{ .Version }}";`)},
		"web/gitignore":           {Data: []byte("bin/\n")},
	}
}

func load(t *testing.T) *Template {
	t.Helper()
	tmpl, err := LoadFS(context.Background(), webTemplate(), "web")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	return tmpl
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestBuildRendersTemplate(t *testing.T) {
	tmpl := load(t)
	if tmpl.Manifest.Name != "web" {
		t.Errorf("Manifest.Name = %q", tmpl.Manifest.Name)
	}

	target := filepath.Join(t.TempDir(), "my-app")
	vars := NewVariables(VariablesConfig{Project: "my-app", Version: "2.0.0"})

	res, err := tmpl.Build(context.Background(), target, WithVariables(vars))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		file string
		want string
	}{
		{"index.html", `<title>My App</title><p>org.apache.cordova.my-app</p>`},
		{filepath.Join("css", "app.css"), `body { color: {{ .Project }}; }`},
		{filepath.Join("js", "lib", "app.js"), `var v = "2.0.0";`},
		{".gitignore", "bin/\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := read(t, filepath.Join(target, tt.file)); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.file, got, tt.want)
			}
		})
	}

	if slices.Contains(res.FilesCreated, ManifestFile) {
		t.Errorf("manifest copied into project")
	}
	if len(res.FilesCreated) != 4 {
		t.Errorf("FilesCreated = %v", res.FilesCreated)
	}
}

func TestBuildKeepsExistingFiles(t *testing.T) {
	tmpl := load(t)
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "index.html"), []byte("mine"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := tmpl.Build(context.Background(), target, WithVariables(NewVariables(VariablesConfig{Project: "x"})))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := read(t, filepath.Join(target, "index.html")); got != "mine" {
		t.Errorf("index.html overwritten: %q", got)
	}
	if !slices.Equal(res.FilesSkipped, []string{"index.html"}) {
		t.Errorf("FilesSkipped = %v", res.FilesSkipped)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"template.toml": {Data: []byte("name = \"x\"\ngenerator_version = \"1\"\n")},
	}
	_, err := LoadFS(context.Background(), fsys, ".")
	if err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Errorf("LoadFS() error = %v, want unknown keys", err)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	if _, err := LoadFS(context.Background(), fstest.MapFS{"index.html": {}}, "."); err == nil {
		t.Errorf("LoadFS() without manifest succeeded")
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(`name = "disk"`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmpl, err := Load(context.Background(), Dir(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Manifest.Name != "disk" {
		t.Errorf("Manifest.Name = %q", tmpl.Manifest.Name)
	}

	empty := t.TempDir()
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"missing directory", filepath.Join(dir, "missing"), "template directory"},
		{"not a directory", filepath.Join(dir, ManifestFile), "not a directory"},
		{"no manifest", empty, "missing " + ManifestFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), Dir(tt.dir))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestBundledSource(t *testing.T) {
	fsys := fstest.MapFS{
		"web/template.toml": {Data: []byte(`name = "bundled"`)},
		"other/index.html":  {Data: []byte("<html>")},
	}

	tmpl, err := Load(context.Background(), Bundled{FS: fsys, Dir: "web"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Manifest.Name != "bundled" || tmpl.Base != "web" {
		t.Errorf("template = %q at %q", tmpl.Manifest.Name, tmpl.Base)
	}

	if _, _, err := (Bundled{FS: fsys, Dir: "other"}).Open(context.Background()); err == nil {
		t.Errorf("Open() of a tree without a manifest succeeded")
	}
}

func TestDestination(t *testing.T) {
	tmpl := &Template{Manifest: Manifest{Renames: map[string]string{"a/b.txt": "c.txt"}}}
	tests := map[string]string{
		"a/b.txt":         "c.txt",
		"x/page.scaffold": filepath.Join("x", "page"),
		".scaffold":       ".scaffold",
		"plain/file.js":   filepath.Join("plain", "file.js"),
	}
	for in, want := range tests {
		if got := tmpl.Destination(in); got != want {
			t.Errorf("Destination(%q) = %q, want %q", in, got, want)
		}
	}
}
