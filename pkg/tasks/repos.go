package tasks

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/repos"
	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
)

// NeedsSetup reports whether first-run configuration has to happen before
// the menu is shown.
func (s *Session) NeedsSetup() bool {
	cfg := s.cfg()
	return !cfg.Initialized || !fileutils.IsDir(cfg.BaseDirectory)
}

// Setup runs the first-run configuration. It returns false when the user
// declines, in which case nothing is downloaded.
func (s *Session) Setup(ctx context.Context) (bool, error) {
	if err := s.configureRepositories(ctx); err != nil {
		return false, err
	}

	ok, err := s.confirm(ctx, "Do you want to run configuration?")
	if err != nil || !ok {
		return false, err
	}
	return true, s.install(ctx)
}

// SelectRepositories asks which repositories to keep in sync and offers to
// download them straight away.
func (s *Session) SelectRepositories(ctx context.Context) error {
	if err := s.configureRepositories(ctx); err != nil {
		return err
	}

	ok, err := s.confirm(ctx, "Do you want to download?")
	if err != nil {
		return err
	}
	if err := s.Store.Save(); err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.install(ctx)
}

// DownloadRepositories clones or pulls every sync-enabled repository.
func (s *Session) DownloadRepositories(ctx context.Context) error {
	s.banner("Downloading Cordova from Apache GIT server...")

	report := s.reporter("sync")
	sync := repos.NewSynchronizer(repos.NewRegistry(s.Store), s.Runner,
		repos.WithEventHandler(s.Events),
		repos.OnComplete(func(r repos.Report) {
			if failed := r.Failed(); len(failed) > 0 {
				names := make([]string, len(failed))
				for i, o := range failed {
					names[i] = o.Name
				}
				report.Warnf("%d of %d repositories failed: %s", len(failed), len(r.Outcomes), strings.Join(names, ", "))
				return
			}
			report.Infof("Repositories are up to date.")
		}),
	)

	_, err := sync.Sync(ctx)
	return err
}

func (s *Session) configureRepositories(ctx context.Context) error {
	s.banner("Configuration:")

	cfg := s.cfg()
	base, err := s.Prompt.Input(ctx, fmt.Sprintf("Git directory (%s)", cfg.BaseDirectory), cfg.BaseDirectory)
	if err != nil {
		return err
	}
	if base = strings.TrimSpace(base); base != "" && base != cfg.BaseDirectory {
		if err := s.Store.Update(func(c *config.Config) error {
			c.BaseDirectory = base
			return nil
		}); err != nil {
			return err
		}
	}

	for _, repo := range s.cfg().Repositories {
		def := "n"
		if repo.SyncEnabled {
			def = "y"
		}
		sync, err := s.Prompt.Confirm(ctx, fmt.Sprintf("Download %s (default=%s)?", repo.Name, def), repo.SyncEnabled)
		if err != nil {
			return err
		}
		if sync == repo.SyncEnabled {
			continue
		}
		if err := s.Store.SetRepositorySync(repo.Name, sync); err != nil {
			return err
		}
	}
	return nil
}

// install creates the base directory, downloads everything and marks the
// configuration as initialized.
func (s *Session) install(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg().BaseDirectory, 0755); err != nil {
		return fmt.Errorf("creating base directory: %w", err)
	}
	if err := s.DownloadRepositories(ctx); err != nil {
		return err
	}
	return s.Store.Update(func(c *config.Config) error {
		c.Initialized = true
		return nil
	})
}
