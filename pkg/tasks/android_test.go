package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/events"
	"github.com/olimci/cordova-dev/pkg/runner"
)

func TestBuildJS(t *testing.T) {
	t.Run("missing repository", func(t *testing.T) {
		f := newFixture(t)

		err := f.BuildJS(context.Background())
		var missing *MissingError
		if !errors.As(err, &missing) {
			t.Fatalf("BuildJS() error = %v, want MissingError", err)
		}
		if !strings.Contains(missing.What, config.RepoCordovaJS) {
			t.Errorf("MissingError.What = %q", missing.What)
		}
		if len(f.runner.calls) != 0 {
			t.Errorf("ran %v", f.runner.commands())
		}
	})

	t.Run("repository not configured", func(t *testing.T) {
		f := newFixture(t)
		mkdir(t, f.repo(config.RepoCordovaJS))
		if err := f.store.Update(func(c *config.Config) error {
			c.Repositories = slices.DeleteFunc(c.Repositories, func(r config.Repository) bool {
				return r.Name == config.RepoCordovaJS
			})
			return nil
		}); err != nil {
			t.Fatal(err)
		}

		err := f.BuildJS(context.Background())
		var missing *MissingError
		if !errors.As(err, &missing) || missing.Path != "" {
			t.Fatalf("BuildJS() error = %v, want MissingError without a path", err)
		}
		if len(f.runner.calls) != 0 {
			t.Errorf("ran %v", f.runner.commands())
		}
	})

	t.Run("runs jake", func(t *testing.T) {
		f := newFixture(t)
		dir := f.repo(config.RepoCordovaJS)
		mkdir(t, dir)

		if err := f.BuildJS(context.Background()); err != nil {
			t.Fatalf("BuildJS() error = %v", err)
		}
		if got := f.runner.commands(); !slices.Equal(got, []string{"jake"}) {
			t.Errorf("commands = %v", got)
		}
		if got := f.runner.calls[0].Dir; got != dir {
			t.Errorf("Dir = %q, want %q", got, dir)
		}
	})
}

func TestAndroidEnvLocalProperties(t *testing.T) {
	t.Run("writes sdk location", func(t *testing.T) {
		f := newFixture(t, "/opt/android-sdk")
		f.withFramework(t, "2.0.0")
		props := filepath.Join(f.repo(config.RepoAndroid), "framework", "local.properties")
		if err := os.Remove(props); err != nil {
			t.Fatal(err)
		}

		if _, _, err := f.androidEnv(context.Background()); err != nil {
			t.Fatalf("androidEnv() error = %v", err)
		}
		if got := read(t, props); !strings.Contains(got, "sdk.dir=/opt/android-sdk\n") {
			t.Errorf("local.properties = %q", got)
		}
		if !hasMessage(f.events, events.Warn, "local.properties") {
			t.Errorf("missing warning, got %v", f.events.Messages())
		}
	})

	t.Run("blank answer aborts", func(t *testing.T) {
		f := newFixture(t, "")
		f.withFramework(t, "2.0.0")
		props := filepath.Join(f.repo(config.RepoAndroid), "framework", "local.properties")
		if err := os.Remove(props); err != nil {
			t.Fatal(err)
		}

		if _, _, err := f.androidEnv(context.Background()); !errors.Is(err, ErrAborted) {
			t.Fatalf("androidEnv() error = %v, want ErrAborted", err)
		}
		if exists(props) {
			t.Error("local.properties written after abort")
		}
	})

	t.Run("both repositories missing", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.androidEnv(context.Background())
		if err == nil {
			t.Fatal("androidEnv() error = nil")
		}
		for _, name := range []string{config.RepoAndroid, config.RepoCordovaJS} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q does not mention %s", err, name)
			}
		}
	})
}

func TestBuildAndroid(t *testing.T) {
	f := newFixture(t)
	f.withFramework(t, "2.0.0")
	android := f.repo(config.RepoAndroid)

	if err := f.BuildAndroid(context.Background()); err != nil {
		t.Fatalf("BuildAndroid() error = %v", err)
	}

	if got := f.runner.commands(); !slices.Equal(got, []string{"ant jar"}) {
		t.Errorf("commands = %v", got)
	}
	if got, want := f.runner.calls[0].Dir, filepath.Join(android, "framework"); got != want {
		t.Errorf("Dir = %q, want %q", got, want)
	}

	if got := read(t, filepath.Join(android, "framework", "assets", "js", "cordova.android.js")); got != "android js" {
		t.Errorf("cordova.android.js = %q", got)
	}
	for _, p := range []string{
		filepath.Join(android, "test", "libs", "cordova-2.0.0.jar"),
		filepath.Join(android, "test", "assets", "www", "cordova-2.0.0.js"),
	} {
		if !exists(p) {
			t.Errorf("%s not installed", p)
		}
	}
}

func TestCreateAndroidProject(t *testing.T) {
	tests := []struct {
		name     string
		answers  []any
		existing bool
		wantArgs []string
		wantErr  error
	}{
		{
			name:     "defaults",
			answers:  []any{"demo", "", ""},
			wantArgs: []string{filepath.Join("..", "android-apps", "demo"), "org.apache.cordova.demo", "demo"},
		},
		{
			name:     "custom package and program",
			answers:  []any{" demo ", "com.example.demo", "Demo"},
			wantArgs: []string{filepath.Join("..", "android-apps", "demo"), "com.example.demo", "Demo"},
		},
		{
			name:    "blank name",
			answers: []any{""},
			wantErr: ErrAborted,
		},
		{
			name:     "existing project",
			answers:  []any{"demo"},
			existing: true,
			wantErr:  ErrProjectExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.answers...)
			f.withFramework(t, "2.0.0")
			if tt.existing {
				f.project(t, "demo", nil)
			}

			err := f.CreateAndroidProject(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateAndroidProject() error = %v, want %v", err, tt.wantErr)
				}
				if len(f.runner.calls) != 0 {
					t.Errorf("ran %v", f.runner.commands())
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateAndroidProject() error = %v", err)
			}

			if len(f.runner.calls) != 1 {
				t.Fatalf("commands = %v", f.runner.commands())
			}
			call := f.runner.calls[0]
			if call.Name != "bin/create" || !slices.Equal(call.Args, tt.wantArgs) {
				t.Errorf("ran %s, want bin/create %v", call, tt.wantArgs)
			}
			if call.Dir != f.repo(config.RepoAndroid) {
				t.Errorf("Dir = %q", call.Dir)
			}
		})
	}
}

func TestMobileSpec(t *testing.T) {
	f := newFixture(t)
	f.withFramework(t, "2.0.0")
	spec := f.repo(config.RepoSpec)
	write(t, filepath.Join(spec, "index.html"), "<html></html>")
	write(t, filepath.Join(spec, "phonegap.js"), `document.write('<script src="phonegap-1.4.1.js"></script>');`)

	project := f.project(t, mobileSpecProject, map[string]string{
		"assets/www/stale.html": "old",
	})

	if err := f.MobileSpec(context.Background()); err != nil {
		t.Fatalf("MobileSpec() error = %v", err)
	}

	if len(f.runner.calls) != 0 {
		t.Errorf("existing project recreated: %v", f.runner.commands())
	}
	www := filepath.Join(project, "assets", "www")
	if exists(filepath.Join(www, "stale.html")) {
		t.Error("www was not cleared")
	}
	if !exists(filepath.Join(www, "index.html")) || !exists(filepath.Join(www, "cordova-2.0.0.js")) {
		t.Error("www was not refreshed")
	}
	if !exists(filepath.Join(project, "libs", "cordova-2.0.0.jar")) {
		t.Error("jar not installed")
	}
	if got := read(t, filepath.Join(www, "phonegap.js")); !strings.Contains(got, `src="cordova-2.0.0.js"`) {
		t.Errorf("phonegap.js = %s", got)
	}
	if f.CurrentProject != mobileSpecProject {
		t.Errorf("CurrentProject = %q", f.CurrentProject)
	}
}

func TestBuildProject(t *testing.T) {
	tests := []struct {
		name      string
		answers   []any
		current   string
		projects  []string
		failClean bool
		want      []string
		wantErr   error
	}{
		{
			name:     "current project by default",
			answers:  []any{""},
			current:  "app",
			projects: []string{"app", "other"},
			want:     []string{"ant clean", "ant debug"},
		},
		{
			name:      "clean failure stops the chain",
			answers:   []any{"app"},
			projects:  []string{"app"},
			failClean: true,
			want:      []string{"ant clean"},
		},
		{
			name:    "no projects",
			wantErr: ErrNoProjects,
		},
		{
			name:     "unknown project",
			answers:  []any{"nope"},
			projects: []string{"app"},
			wantErr:  ErrProjectNotFound,
		},
		{
			name:     "blank without current project",
			answers:  []any{""},
			projects: []string{"app"},
			wantErr:  ErrAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.answers...)
			f.withFramework(t, "2.0.0")
			f.CurrentProject = tt.current
			for _, p := range tt.projects {
				f.project(t, p, nil)
			}
			if tt.failClean {
				f.runner.hook = func(cmd runner.Command) int {
					if slices.Equal(cmd.Args, []string{"clean"}) {
						return 1
					}
					return 0
				}
			}

			err := f.BuildProject(context.Background())
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BuildProject() error = %v, want %v", err, tt.wantErr)
				}
			case tt.failClean:
				var exit *runner.ExitError
				if !errors.As(err, &exit) || exit.Code != 1 {
					t.Fatalf("BuildProject() error = %v, want exit code 1", err)
				}
			case err != nil:
				t.Fatalf("BuildProject() error = %v", err)
			}

			if got := f.runner.commands(); !slices.Equal(got, tt.want) {
				t.Errorf("commands = %v, want %v", got, tt.want)
			}
			for _, c := range f.runner.calls {
				if filepath.Base(c.Dir) != "app" {
					t.Errorf("%s ran in %s", c, c.Dir)
				}
			}
		})
	}
}

func TestDeleteAndroidProject(t *testing.T) {
	for _, confirmed := range []bool{true, false} {
		name := "declined"
		if confirmed {
			name = "confirmed"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, "app", confirmed)
			f.withFramework(t, "2.0.0")
			f.CurrentProject = "app"
			dir := f.project(t, "app", map[string]string{"AndroidManifest.xml": "<manifest/>"})

			err := f.DeleteAndroidProject(context.Background())
			if confirmed {
				if err != nil {
					t.Fatalf("DeleteAndroidProject() error = %v", err)
				}
				if exists(dir) {
					t.Error("project still exists")
				}
				if f.CurrentProject != "" {
					t.Errorf("CurrentProject = %q after delete", f.CurrentProject)
				}
				return
			}

			if !errors.Is(err, ErrAborted) {
				t.Fatalf("DeleteAndroidProject() error = %v, want ErrAborted", err)
			}
			if !exists(dir) {
				t.Error("project deleted without confirmation")
			}
		})
	}
}
