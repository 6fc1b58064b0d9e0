package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Well-known repository names the operations look up.
const (
	RepoAndroid   = "android"
	RepoCordovaJS = "cordova-js"
	RepoSpec      = "spec"
)

const (
	DefaultBranch        = "master"
	DefaultWatchDebounce = 10 * time.Second
)

// Config is the persisted state of the tool.
type Config struct {
	Initialized            bool         `json:"initialized" yaml:"initialized"`
	BaseDirectory          string       `json:"baseDirectory" yaml:"baseDirectory"`
	DefaultBranch          string       `json:"defaultBranch,omitempty" yaml:"defaultBranch,omitempty"`
	ApplicationDirectories []string     `json:"applicationDirectories" yaml:"applicationDirectories"`
	Repositories           Repositories `json:"repositories" yaml:"repositories"`

	AndroidProjectsDirectory string `json:"androidProjectsDirectory,omitempty" yaml:"androidProjectsDirectory,omitempty"`
	WebProjectsDirectory     string `json:"webProjectsDirectory,omitempty" yaml:"webProjectsDirectory,omitempty"`
	OldVersionsDirectory     string `json:"oldVersionsDirectory,omitempty" yaml:"oldVersionsDirectory,omitempty"`
	WebTemplateDirectory     string `json:"webTemplateDirectory,omitempty" yaml:"webTemplateDirectory,omitempty"`
	MinifyWebAssets          bool   `json:"minifyWebAssets,omitempty" yaml:"minifyWebAssets,omitempty"`
	WatchDebounce            string `json:"watchDebounce,omitempty" yaml:"watchDebounce,omitempty"`
}

// Repository describes one remote source repository and its sync policy.
type Repository struct {
	Name        string `json:"-" yaml:"-"`
	Directory   string `json:"directory" yaml:"directory"`
	URI         string `json:"uri" yaml:"uri"`
	SyncEnabled bool   `json:"syncEnabled" yaml:"syncEnabled"`
	Branch      string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// Validate checks the structural invariants of a loaded Config.
func (c *Config) Validate() error {
	c.BaseDirectory = strings.TrimSpace(c.BaseDirectory)
	if c.BaseDirectory == "" {
		return errors.New("baseDirectory is required")
	}

	seen := make(map[string]bool, len(c.Repositories))
	for _, repo := range c.Repositories {
		if repo.Name == "" {
			return errors.New("repository with empty name")
		}
		if seen[repo.Name] {
			return fmt.Errorf("duplicate repository %q", repo.Name)
		}
		seen[repo.Name] = true

		if strings.TrimSpace(repo.Directory) == "" {
			return fmt.Errorf("repository %q: directory is required", repo.Name)
		}
	}

	if c.WatchDebounce != "" {
		if _, err := time.ParseDuration(c.WatchDebounce); err != nil {
			return fmt.Errorf("watchDebounce: %w", err)
		}
	}

	return nil
}

// Branch returns the branch pulled for repo.
func (c *Config) Branch(repo Repository) string {
	if repo.Branch != "" {
		return repo.Branch
	}
	if c.DefaultBranch != "" {
		return c.DefaultBranch
	}
	return DefaultBranch
}

// RepositoryDir returns the absolute-or-base-relative directory of a repo.
func (c *Config) RepositoryDir(repo Repository) string {
	return filepath.Join(c.BaseDirectory, repo.Directory)
}

// AndroidProjectsDir is the container of generated Android projects.
func (c *Config) AndroidProjectsDir() string {
	return filepath.Join(c.BaseDirectory, orDefault(c.AndroidProjectsDirectory, "android-apps"))
}

// WebProjectsDir is the container of web projects.
func (c *Config) WebProjectsDir() string {
	return filepath.Join(c.BaseDirectory, orDefault(c.WebProjectsDirectory, "web-apps"))
}

// OldVersionsDir holds archived SDK versions.
func (c *Config) OldVersionsDir() string {
	return filepath.Join(c.BaseDirectory, orDefault(c.OldVersionsDirectory, "old-versions"))
}

// AndroidProjectsRel is AndroidProjectsDir relative to a repository
// directory, as bin/create expects.
func (c *Config) AndroidProjectsRel() string {
	return filepath.Join("..", orDefault(c.AndroidProjectsDirectory, "android-apps"))
}

func (c *Config) Debounce() time.Duration {
	if d, err := time.ParseDuration(c.WatchDebounce); err == nil && d > 0 {
		return d
	}
	return DefaultWatchDebounce
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
