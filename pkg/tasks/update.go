package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/olimci/cordova-dev/pkg/artifacts"
	"github.com/olimci/cordova-dev/pkg/events"
	"github.com/olimci/cordova-dev/pkg/projects"
	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
)

const allProjects = "all"

// UpdateProjects copies the current framework jar and js into one project, or
// into every project when the answer is "all".
func (s *Session) UpdateProjects(ctx context.Context) error {
	s.banner("Update Android project...")

	androidDir, _, err := s.androidEnv(ctx)
	if err != nil {
		return err
	}

	root := s.cfg().AndroidProjectsDir()
	names, err := s.listProjects(root)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return ErrNoProjects
	}

	pair, err := s.locate(androidDir)
	if err != nil {
		return err
	}

	answer, err := s.Prompt.Input(ctx, `Enter Android project to update or "all" to update all`, s.CurrentProject)
	if err != nil {
		return err
	}
	targets, err := s.updateTargets(strings.TrimSpace(answer), names)
	if err != nil {
		return err
	}

	report := s.reporter("update")
	for _, project := range targets {
		report.Infof("Updating project %s...", project)
		dir := filepath.Join(root, project)
		if err := installPair(androidDir, pair, dir); err != nil {
			return fmt.Errorf("updating %s: %w", project, err)
		}
		if err := retarget(dir, pair, report); err != nil {
			return fmt.Errorf("updating %s: %w", project, err)
		}
	}
	return nil
}

func (s *Session) updateTargets(answer string, names []string) ([]string, error) {
	switch answer {
	case allProjects:
		return names, nil
	case "":
		if s.CurrentProject == "" {
			return nil, ErrAborted
		}
		answer = s.CurrentProject
	}
	if !slices.Contains(names, answer) {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, answer)
	}
	s.CurrentProject = answer
	return []string{answer}, nil
}

// UseOldVersion switches a project to an archived jar and js from the old
// versions directory.
func (s *Session) UseOldVersion(ctx context.Context) error {
	s.banner("Modify Android project...")

	if _, _, err := s.androidEnv(ctx); err != nil {
		return err
	}

	root := s.cfg().AndroidProjectsDir()
	project, err := s.pickExisting(ctx, root, "Enter Android project to update")
	if err != nil {
		return err
	}

	versionsDir := s.cfg().OldVersionsDir()
	versions, err := projects.List(versionsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingError{What: "old versions directory", Path: versionsDir}
	} else if err != nil {
		return err
	}
	if s.Out != nil {
		fmt.Fprintln(s.Out, "* List of versions:")
		for _, v := range versions {
			fmt.Fprintf(s.Out, "*  %s\n", v)
		}
	}
	if len(versions) == 0 {
		return ErrNoVersions
	}

	v, err := s.Prompt.Input(ctx, "Enter version to use", "")
	if err != nil {
		return err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return ErrAborted
	}
	if !slices.Contains(versions, v) {
		return &MissingError{What: "version " + v, Path: filepath.Join(versionsDir, v)}
	}

	report := s.reporter("update")
	report.Infof("Updating project %s...", project)

	dir := filepath.Join(root, project)
	src := filepath.Join(versionsDir, v, "android")
	pair := artifacts.Pair{JS: v + ".js", Jar: v + ".jar"}
	copies := []struct{ src, dst string }{
		{filepath.Join(src, pair.Jar), filepath.Join(dir, "libs", pair.Jar)},
		{filepath.Join(src, pair.JS), filepath.Join(dir, "assets", "www", pair.JS)},
	}
	for _, c := range copies {
		if err := os.MkdirAll(filepath.Dir(c.dst), 0755); err != nil {
			return err
		}
		if err := fileutils.CopyFile(c.src, c.dst); err != nil {
			return fmt.Errorf("copying %s: %w", filepath.Base(c.src), err)
		}
	}

	s.CurrentProject = project
	return retarget(dir, pair, report)
}

// retarget removes every other versioned jar and js from an Android project
// and points its html pages at pair.JS.
func retarget(projectDir string, pair artifacts.Pair, report events.Reporter) error {
	libs := filepath.Join(projectDir, "libs")
	www := filepath.Join(projectDir, "assets", "www")

	removed, err := removeOthers(libs, pair.Jar, artifacts.IsJar, report)
	if err != nil {
		return err
	}
	more, err := removeOthers(www, pair.JS, artifacts.IsJS, report)
	if err != nil {
		return err
	}
	removed = append(removed, more...)

	if next, ok := pair.Version(); ok {
		for _, name := range removed {
			if prev, ok := artifacts.VersionOf(name); ok && next.Compare(prev) < 0 {
				report.Warnf("Downgrading from %s to %s", prev, next)
				break
			}
		}
	}

	return rewriteHTML(www, pair.JS, report)
}

func removeOthers(dir, keep string, match func(string) bool, report events.Reporter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == keep || !match(name) {
			continue
		}
		report.Infof("Deleting old %s from project.", name)
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// rewriteHTML points every versioned cordova script reference in the html
// files below www at js.
func rewriteHTML(www, js string, report events.Reporter) error {
	if !fileutils.IsDir(www) {
		return nil
	}
	files, err := fileutils.WalkFiles(www)
	if err != nil {
		return err
	}
	for _, rel := range files.Values() {
		if !strings.EqualFold(filepath.Ext(rel), ".html") {
			continue
		}
		changed, err := fileutils.AtomicEdit(filepath.Join(www, rel), func(old []byte) ([]byte, error) {
			return artifacts.Rewrite(old, js), nil
		})
		if err != nil {
			return fmt.Errorf("rewriting %s: %w", rel, err)
		}
		if changed {
			report.Infof("Updated cordova version in %s", rel)
		}
	}
	return nil
}
