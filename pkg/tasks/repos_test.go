package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/events"
	"github.com/olimci/cordova-dev/pkg/runner"
)

func TestSelectRepositoriesPersists(t *testing.T) {
	// base dir kept; android, cordova-js off, spec, docs on; no download
	f := newFixture(t, "", true, false, true, true, false)

	if err := f.SelectRepositories(context.Background()); err != nil {
		t.Fatalf("SelectRepositories() error = %v", err)
	}
	if len(f.runner.calls) != 0 {
		t.Errorf("downloaded anyway: %v", f.runner.commands())
	}

	reopened, err := config.Open(f.store.Path())
	if err != nil {
		t.Fatalf("config.Open() error = %v", err)
	}
	want := map[string]bool{"android": true, "cordova-js": false, "spec": true, "docs": true}
	for name, sync := range want {
		repo, ok := reopened.Config().Repositories.Get(name)
		if !ok {
			t.Fatalf("repository %s missing after reload", name)
		}
		if repo.SyncEnabled != sync {
			t.Errorf("%s SyncEnabled = %v, want %v", name, repo.SyncEnabled, sync)
		}
	}
	if got := reopened.Config().BaseDirectory; got != f.base {
		t.Errorf("BaseDirectory = %q, want %q", got, f.base)
	}
}

func TestConfigureRepositoriesBaseDirectory(t *testing.T) {
	next := filepath.Join(t.TempDir(), "checkouts")
	f := newFixture(t, next, true, true, true, false)

	if err := f.configureRepositories(context.Background()); err != nil {
		t.Fatalf("configureRepositories() error = %v", err)
	}
	if got := f.cfg().BaseDirectory; got != next {
		t.Errorf("BaseDirectory = %q, want %q", got, next)
	}
}

func TestSetup(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		f := newFixture(t, "", true, true, true, false, false)

		ok, err := f.Setup(context.Background())
		if err != nil || ok {
			t.Fatalf("Setup() = %v, %v, want false, nil", ok, err)
		}
		if len(f.runner.calls) != 0 {
			t.Errorf("ran %v", f.runner.commands())
		}
		if f.cfg().Initialized {
			t.Error("Initialized set after decline")
		}
		if !f.NeedsSetup() {
			t.Error("NeedsSetup() = false after decline")
		}
	})

	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t, "", true, true, true, false, true)

		ok, err := f.Setup(context.Background())
		if err != nil || !ok {
			t.Fatalf("Setup() = %v, %v, want true, nil", ok, err)
		}

		want := make([]string, 0, 3)
		for _, name := range []string{"android", "cordova-js", "spec"} {
			repo, _ := f.cfg().Repositories.Get(name)
			want = append(want, "git clone "+repo.URI)
		}
		if got := f.runner.commands(); !slices.Equal(got, want) {
			t.Errorf("commands = %v, want %v", got, want)
		}
		if !f.cfg().Initialized || f.NeedsSetup() {
			t.Error("configuration not marked initialized")
		}
	})
}

func TestDownloadRepositoriesReportsFailures(t *testing.T) {
	f := newFixture(t)
	f.runner.hook = func(cmd runner.Command) int {
		if cmd.Args[1] == mustRepo(t, f, "spec").URI {
			return 128
		}
		return 0
	}

	if err := f.DownloadRepositories(context.Background()); err != nil {
		t.Fatalf("DownloadRepositories() error = %v", err)
	}
	if len(f.runner.calls) != 3 {
		t.Errorf("commands = %v", f.runner.commands())
	}
	if !hasMessage(f.events, events.Warn, "1 of 4 repositories failed: spec") {
		t.Errorf("no failure summary in %v", f.events.Messages())
	}
}

func mustRepo(t *testing.T, f *fixture, name string) config.Repository {
	t.Helper()
	repo, ok := f.cfg().Repositories.Get(name)
	if !ok {
		t.Fatalf("repository %s not configured", name)
	}
	return repo
}

func TestMenu(t *testing.T) {
	items := Menu()
	if len(items) != 15 {
		t.Fatalf("len(Menu()) = %d, want 15", len(items))
	}
	titles := Titles(items)
	if titles[len(titles)-1] != "Exit" {
		t.Errorf("last entry = %q", titles[len(titles)-1])
	}

	exit := items[len(items)-1]
	if err := exit.Run(&Session{}, context.Background()); !errors.Is(err, ErrExit) {
		t.Errorf("Exit.Run() error = %v, want ErrExit", err)
	}
}
