package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/olimci/cordova-dev/pkg/artifacts"
	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/watcher"
)

const (
	watchCordovaJS = "cordova-js"
	watchFramework = "framework"
)

// Watch rebuilds cordova.js and the Android framework whenever the
// cordova-js sources change, until ctx is cancelled.
func (s *Session) Watch(ctx context.Context) error {
	s.banner("Watching for changes (Ctrl+C to stop)...")

	jsDir, jsErr := s.repoDir(config.RepoCordovaJS)
	androidDir, androidErr := s.repoDir(config.RepoAndroid)
	if err := errors.Join(jsErr, androidErr); err != nil {
		return err
	}

	w, err := watcher.New(watchTargets(jsDir, androidDir), s.cfg().Debounce())
	if err != nil {
		return err
	}

	report := s.reporter("watch")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.Run(gctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case err := <-w.Errors:
				report.Warnf("%v", err)
			case ev := <-w.Events:
				if err := s.onChange(gctx, ev); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					report.Errorf(err, "rebuild after %s failed", ev.Reason)
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		report.Infof("Stopped watching.")
		return nil
	}
	return err
}

func watchTargets(jsDir, androidDir string) []watcher.Target {
	return []watcher.Target{
		{Name: watchCordovaJS, Root: filepath.Join(jsDir, "lib")},
		{Name: watchFramework, Root: filepath.Join(androidDir, artifacts.FrameworkDir), Patterns: []string{"cordova-*.jar"}},
	}
}

func (s *Session) onChange(ctx context.Context, ev watcher.Event) error {
	report := s.reporter("watch")

	switch ev.Target {
	case watchCordovaJS:
		report.Infof("Change to cordovajs (%d files, %s)", len(ev.Paths), ev.Reason)
		if err := s.BuildJS(ctx); err != nil {
			return fmt.Errorf("building cordova.js: %w", err)
		}
		return s.BuildAndroid(ctx)

	case watchFramework:
		for _, p := range ev.Paths {
			report.Infof("Change to Android %s", filepath.Base(p))
		}
	}
	return nil
}
