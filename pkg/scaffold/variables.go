package scaffold

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Variables are the values available to rendered template files.
type Variables struct {
	Project string
	Package string
	Title   string
	Version string
	Custom  map[string]string
}

type VariablesConfig struct {
	Project string
	Package string
	Version string
	Custom  map[string]string
}

func NewVariables(cfg VariablesConfig) *Variables {
	project := filepath.Base(cfg.Project)

	vars := &Variables{
		Project: project,
		Package: cfg.Package,
		Title:   toTitleCase(project),
		Version: cfg.Version,
		Custom:  cfg.Custom,
	}
	if vars.Package == "" {
		vars.Package = DefaultPackage(project)
	}
	if vars.Custom == nil {
		vars.Custom = make(map[string]string)
	}

	return vars
}

// DefaultPackage is the Java package suggested for a new project.
func DefaultPackage(project string) string {
	return "org.apache.cordova." + project
}

func (v *Variables) ToMap() map[string]any {
	m := map[string]any{
		"Project": v.Project,
		"Package": v.Package,
		"Title":   v.Title,
		"Version": v.Version,
	}

	for k, val := range v.Custom {
		m[k] = val
	}

	return m
}

func toTitleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
