package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"

	"github.com/olimci/cordova-dev/pkg/artifacts"
	"github.com/olimci/cordova-dev/pkg/events"
	"github.com/olimci/cordova-dev/pkg/scaffold"
	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
	"github.com/olimci/cordova-dev/pkg/version"
)

// WebToAndroid creates or refreshes the Android project that wraps a web
// project, then builds it.
func (s *Session) WebToAndroid(ctx context.Context) error {
	s.banner("Creating or updating Android project from web project...")

	androidRepo, _, err := s.androidEnv(ctx)
	if err != nil {
		return err
	}

	cfg := s.cfg()
	if _, err := s.listProjects(cfg.WebProjectsDir()); err != nil {
		return err
	}
	project, err := s.Prompt.Input(ctx, "Enter web project to create or update", s.CurrentProject)
	if err != nil {
		return err
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return ErrAborted
	}

	report := s.reporter("web")

	webDir := filepath.Join(cfg.WebProjectsDir(), project)
	if !fileutils.Exists(webDir) {
		if err := s.scaffoldWeb(ctx, project, webDir); err != nil {
			return err
		}
	}

	androidDir := filepath.Join(cfg.AndroidProjectsDir(), project)
	if fileutils.Exists(androidDir) {
		report.Infof("Updating project '%s'.", project)
	} else {
		report.Infof("Creating project '%s'.", project)
		if err := s.createAndroid(ctx, androidRepo, project); err != nil {
			return err
		}
	}

	pair, err := s.locate(androidRepo)
	if err != nil {
		return err
	}

	www := filepath.Join(androidDir, "assets", "www")
	if err := os.MkdirAll(www, 0755); err != nil {
		return err
	}

	plan, err := planWebSync(webDir, www, pair.JS, cfg.MinifyWebAssets)
	if err != nil {
		return err
	}
	if err := plan.apply(webDir, www, newMinifier(cfg.MinifyWebAssets), report); err != nil {
		return err
	}

	if _, err := removeOthers(filepath.Join(androidDir, "libs"), pair.Jar, func(string) bool { return true }, report); err != nil {
		return err
	}

	// always copied: a rebuilt framework keeps its version number
	if err := installPair(androidRepo, pair, androidDir); err != nil {
		return err
	}

	if !plan.SameVersion {
		report.Infof("Updating cordova version in HTML files...")
		if err := rewriteHTML(www, pair.JS, report); err != nil {
			return err
		}
	}

	s.CurrentProject = project
	return s.run(ctx, androidDir, "ant", "debug")
}

func (s *Session) scaffoldWeb(ctx context.Context, project, dir string) error {
	src := s.WebTemplate
	if tmplDir := s.cfg().WebTemplateDirectory; tmplDir != "" {
		src = scaffold.Dir(tmplDir)
	}
	if src == nil {
		return errors.New("no web project template available")
	}

	tmpl, err := scaffold.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("loading web template: %w", err)
	}

	vars := scaffold.NewVariables(scaffold.VariablesConfig{
		Project: project,
		Version: version.String(),
	})
	res, err := tmpl.Build(ctx, dir, scaffold.WithVariables(vars), scaffold.WithEventHandler(s.Events))
	if err != nil {
		return fmt.Errorf("creating web project: %w", err)
	}
	s.reporter("web").Infof("Created web project %s from %s (%d files)", project, tmpl.Manifest.Name, len(res.FilesCreated))
	return nil
}

// webSyncPlan is what it takes to make an Android www tree mirror a web
// project.
type webSyncPlan struct {
	Mkdir  []string
	Copy   []string
	Delete []string

	// SameVersion is set when the www tree already held the current cordova
	// script.
	SameVersion bool
}

// planWebSync compares the web project with the Android www tree. A file is
// copied when it is new or its size or modification time differ. Minified
// copies are compared by time only. Files only present in www are deleted,
// except the cordova script js.
func planWebSync(webDir, www, js string, minified bool) (webSyncPlan, error) {
	var plan webSyncPlan

	web, err := fileutils.WalkInfo(webDir)
	if err != nil {
		return plan, fmt.Errorf("reading web project: %w", err)
	}
	existing, err := fileutils.WalkInfo(www)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return plan, fmt.Errorf("reading android www: %w", err)
	}

	stale := make(map[string]fs.FileInfo, len(existing))
	for _, e := range existing {
		stale[e.Rel] = e.Info
	}

	for _, e := range web {
		have, ok := stale[e.Rel]
		delete(stale, e.Rel)

		switch {
		case e.Info.IsDir():
			if !ok {
				plan.Mkdir = append(plan.Mkdir, e.Rel)
			}
		case !e.Info.Mode().IsRegular():
		case !ok:
			plan.Copy = append(plan.Copy, e.Rel)
		case !minified && have.Size() != e.Info.Size():
			plan.Copy = append(plan.Copy, e.Rel)
		case !have.ModTime().Equal(e.Info.ModTime()):
			plan.Copy = append(plan.Copy, e.Rel)
		}
	}

	for rel := range stale {
		if rel == js {
			plan.SameVersion = true
			continue
		}
		plan.Delete = append(plan.Delete, rel)
	}
	sort.Strings(plan.Delete)

	return plan, nil
}

func (p webSyncPlan) apply(webDir, www string, m *minifier, report events.Reporter) error {
	for _, rel := range p.Mkdir {
		if err := os.MkdirAll(filepath.Join(www, rel), 0755); err != nil {
			return err
		}
	}
	for _, rel := range p.Copy {
		src, dst := filepath.Join(webDir, rel), filepath.Join(www, rel)
		report.Debugf("copy %s", rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := fileutils.CopyFileWith(src, dst, m.transform(rel)); err != nil {
			return err
		}
	}
	// reverse order removes children before their directories
	for i := len(p.Delete) - 1; i >= 0; i-- {
		rel := p.Delete[i]
		report.Infof("Deleting old file from Android project = %s", rel)
		if err := fileutils.RemoveAll(filepath.Join(www, rel)); err != nil {
			return err
		}
	}
	return nil
}

var minifiedTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

type minifier struct {
	m     *minify.M
	mimes map[string]string
}

// newMinifier returns nil when minification is off; a nil minifier copies
// bytes unchanged.
func newMinifier(enabled bool) *minifier {
	if !enabled {
		return nil
	}

	m := minify.New()
	m.AddFunc("text/html", minhtml.Minify)
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)

	return &minifier{m: m, mimes: minifiedTypes}
}

func (mf *minifier) transform(rel string) func(w io.Writer, r io.Reader) error {
	plain := func(w io.Writer, r io.Reader) error {
		_, err := io.Copy(w, r)
		return err
	}
	if mf == nil {
		return plain
	}
	mime, ok := mf.mimes[strings.ToLower(filepath.Ext(rel))]
	if !ok || artifacts.IsJS(filepath.Base(rel)) {
		return plain
	}
	return func(w io.Writer, r io.Reader) error {
		return mf.m.Minify(mime, w, r)
	}
}

// DeleteWebProject removes a web project together with its Android project.
func (s *Session) DeleteWebProject(ctx context.Context) error {
	s.banner("Delete Web project...")

	cfg := s.cfg()
	project, err := s.pickExisting(ctx, cfg.WebProjectsDir(), "Enter project to delete")
	if err != nil {
		return err
	}

	ok, err := s.confirm(ctx, fmt.Sprintf("Are you sure you want to delete project '%s'? This will delete web project and Android project.", project))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}

	s.reporter("web").Infof("Deleting project '%s'.", project)
	for _, dir := range []string{cfg.WebProjectsDir(), cfg.AndroidProjectsDir()} {
		if err := fileutils.RemoveAll(filepath.Join(dir, project)); err != nil {
			return err
		}
	}
	if s.CurrentProject == project {
		s.CurrentProject = ""
	}
	return nil
}
