package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/olimci/cordova-dev/pkg/artifacts"
	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/runner"
	"github.com/olimci/cordova-dev/pkg/scaffold"
	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
)

const (
	mobileSpecProject = "mobile-spec"
	mobileSpecPackage = "org.apache.cordova.mobiletest"
	mobileSpecProgram = "MobileTest"
)

// BuildJS runs jake in the cordova-js checkout.
func (s *Session) BuildJS(ctx context.Context) error {
	s.banner("Building cordova.js...")

	dir, err := s.repoDir(config.RepoCordovaJS)
	if err != nil {
		return err
	}
	return s.run(ctx, dir, "jake")
}

// BuildAndroid builds cordova-x.y.z.jar and .js and copies them into the
// framework's test project.
func (s *Session) BuildAndroid(ctx context.Context) error {
	s.banner("Building Cordova for Android...")

	androidDir, jsDir, err := s.androidEnv(ctx)
	if err != nil {
		return err
	}

	src := filepath.Join(jsDir, "pkg", "cordova.android.js")
	dst := filepath.Join(androidDir, "framework", "assets", "js", "cordova.android.js")
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := fileutils.CopyFile(src, dst); err != nil {
		return fmt.Errorf("copying cordova.android.js: %w", err)
	}

	if err := s.run(ctx, filepath.Join(androidDir, "framework"), "ant", "jar"); err != nil {
		return err
	}

	pair, err := s.locate(androidDir)
	if err != nil {
		return err
	}
	return installPair(androidDir, pair, filepath.Join(androidDir, "test"))
}

// CreateAndroidProject asks for a name, package and program name and runs
// bin/create for them.
func (s *Session) CreateAndroidProject(ctx context.Context) error {
	s.banner("Creating a new Android project...")

	androidDir, _, err := s.androidEnv(ctx)
	if err != nil {
		return err
	}

	project, err := s.Prompt.Input(ctx, "Enter project name", "")
	if err != nil {
		return err
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return ErrAborted
	}
	if fileutils.Exists(filepath.Join(s.cfg().AndroidProjectsDir(), project)) {
		return fmt.Errorf("%w: %s", ErrProjectExists, project)
	}

	return s.createAndroid(ctx, androidDir, project)
}

// createAndroid prompts for the package and program name of project and
// creates it with bin/create.
func (s *Session) createAndroid(ctx context.Context, androidDir, project string) error {
	def := scaffold.DefaultPackage(project)
	pkg, err := s.Prompt.Input(ctx, fmt.Sprintf("Enter package (%s)", def), def)
	if err != nil {
		return err
	}
	if pkg = strings.TrimSpace(pkg); pkg == "" {
		pkg = def
	}

	program, err := s.Prompt.Input(ctx, fmt.Sprintf("Enter program name (%s)", project), project)
	if err != nil {
		return err
	}
	if program = strings.TrimSpace(program); program == "" {
		program = project
	}

	return s.bincreate(ctx, androidDir, project, pkg, program)
}

func (s *Session) bincreate(ctx context.Context, androidDir, project, pkg, program string) error {
	target := filepath.Join(s.cfg().AndroidProjectsRel(), project)
	return s.run(ctx, androidDir, "bin/create", target, pkg, program)
}

// MobileSpec creates the mobile-spec project when needed and refreshes its
// www tree from the mobile-spec checkout.
func (s *Session) MobileSpec(ctx context.Context) error {
	s.banner("Creating or updating a new Android mobile-spec project...")

	androidDir, _, err := s.androidEnv(ctx)
	if err != nil {
		return err
	}
	specDir, err := s.repoDir(config.RepoSpec)
	if err != nil {
		return err
	}
	s.CurrentProject = mobileSpecProject

	projectDir := filepath.Join(s.cfg().AndroidProjectsDir(), mobileSpecProject)
	if !fileutils.Exists(projectDir) {
		if err := s.bincreate(ctx, androidDir, mobileSpecProject, mobileSpecPackage, mobileSpecProgram); err != nil {
			return err
		}
	}

	www := filepath.Join(projectDir, "assets", "www")
	if err := fileutils.RemoveAll(www); err != nil {
		return fmt.Errorf("clearing %s: %w", www, err)
	}
	if err := fileutils.CopyDir(specDir, www); err != nil {
		return fmt.Errorf("copying mobile-spec: %w", err)
	}

	pair, err := s.locate(androidDir)
	if err != nil {
		return err
	}
	if err := installPair(androidDir, pair, projectDir); err != nil {
		return err
	}

	loader := filepath.Join(www, "phonegap.js")
	if !fileutils.Exists(loader) {
		s.reporter("android").Warnf("%s not found, leaving script references alone", loader)
		return nil
	}
	_, err = fileutils.AtomicEdit(loader, func(old []byte) ([]byte, error) {
		return artifacts.RewritePhonegap(old, pair.JS), nil
	})
	return err
}

// BuildProject runs ant clean then ant debug in an Android project.
func (s *Session) BuildProject(ctx context.Context) error {
	s.banner("Build Android project...")

	if _, _, err := s.androidEnv(ctx); err != nil {
		return err
	}
	project, err := s.chooseProject(ctx, s.cfg().AndroidProjectsDir(), "Enter Android project to build")
	if err != nil {
		return err
	}

	dir := filepath.Join(s.cfg().AndroidProjectsDir(), project)
	_, err = runner.Sequence(ctx, s.Runner,
		runner.Command{Name: "ant", Args: []string{"clean"}, Dir: dir},
		runner.Command{Name: "ant", Args: []string{"debug"}, Dir: dir},
	)
	return err
}

// RunProject installs and starts an Android project on the default device.
func (s *Session) RunProject(ctx context.Context) error {
	s.banner("Run Android project on default device or emulator...")

	if _, _, err := s.androidEnv(ctx); err != nil {
		return err
	}
	project, err := s.chooseProject(ctx, s.cfg().AndroidProjectsDir(), "Enter Android project to run")
	if err != nil {
		return err
	}

	return s.run(ctx, filepath.Join(s.cfg().AndroidProjectsDir(), project), "cordova/debug")
}

// DeleteAndroidProject removes an Android project after confirmation.
func (s *Session) DeleteAndroidProject(ctx context.Context) error {
	s.banner("Delete Android project...")

	if _, _, err := s.androidEnv(ctx); err != nil {
		return err
	}

	root := s.cfg().AndroidProjectsDir()
	project, err := s.pickExisting(ctx, root, "Enter project to delete")
	if err != nil {
		return err
	}

	ok, err := s.confirm(ctx, fmt.Sprintf("Are you sure you want to delete project '%s'?", project))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}

	s.reporter("android").Infof("Deleting project '%s'.", project)
	if err := fileutils.RemoveAll(filepath.Join(root, project)); err != nil {
		return err
	}
	if s.CurrentProject == project {
		s.CurrentProject = ""
	}
	return nil
}

// pickExisting asks for one of the projects under root with no default.
func (s *Session) pickExisting(ctx context.Context, root, title string) (string, error) {
	names, err := s.listProjects(root)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNoProjects
	}

	project, err := s.Prompt.Input(ctx, title, "")
	if err != nil {
		return "", err
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return "", ErrAborted
	}
	if !slices.Contains(names, project) {
		return "", fmt.Errorf("%w: %s", ErrProjectNotFound, project)
	}
	return project, nil
}

func (s *Session) locate(androidDir string) (artifacts.Pair, error) {
	pair, err := artifacts.Locate(androidDir)
	if err != nil {
		return artifacts.Pair{}, err
	}
	s.reporter("android").Infof("Jar file=%s JS file=%s", pair.Jar, pair.JS)
	return pair, nil
}

// installPair copies the framework's jar into project/libs and its js into
// project/assets/www.
func installPair(androidDir string, pair artifacts.Pair, project string) error {
	copies := []struct{ src, dst string }{
		{filepath.Join(androidDir, artifacts.FrameworkWWW, pair.JS), filepath.Join(project, "assets", "www", pair.JS)},
		{filepath.Join(androidDir, artifacts.FrameworkDir, pair.Jar), filepath.Join(project, "libs", pair.Jar)},
	}
	for _, c := range copies {
		if err := os.MkdirAll(filepath.Dir(c.dst), 0755); err != nil {
			return err
		}
		if err := fileutils.CopyFile(c.src, c.dst); err != nil {
			return fmt.Errorf("copying %s: %w", filepath.Base(c.src), err)
		}
	}
	return nil
}
