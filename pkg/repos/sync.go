package repos

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/events"
	"github.com/olimci/cordova-dev/pkg/runner"
	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
)

type Action string

const (
	ActionSkip  Action = "skip"
	ActionClone Action = "clone"
	ActionPull  Action = "pull"
)

// Outcome is what happened to one repository during a sync pass.
type Outcome struct {
	Name     string
	Action   Action
	ExitCode int
	Err      error
}

// Report summarizes a sync pass in registry order.
type Report struct {
	Outcomes []Outcome
}

// Failed returns outcomes whose command did not succeed.
func (r Report) Failed() []Outcome {
	out := make([]Outcome, 0)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Synchronizer clones or pulls every sync-enabled repository, one at a time.
type Synchronizer struct {
	registry *Registry
	runner   runner.Runner
	report   events.Reporter
	done     func(Report)
}

type SyncOption func(s *Synchronizer)

// WithEventHandler routes progress events to h.
func WithEventHandler(h events.Handler) SyncOption {
	return func(s *Synchronizer) {
		s.report = events.NewReporter("sync", h)
	}
}

// OnComplete registers a hook run exactly once per Sync after the last
// repository has been processed.
func OnComplete(fn func(Report)) SyncOption {
	return func(s *Synchronizer) {
		s.done = fn
	}
}

func NewSynchronizer(registry *Registry, r runner.Runner, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		registry: registry,
		runner:   r,
		report:   events.NewReporter("sync", nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync brings every sync-enabled repository up to date. A failing git
// command is reported and the pass moves on; only setup failures and
// context cancellation end it early.
func (s *Synchronizer) Sync(ctx context.Context) (Report, error) {
	cfg := s.registry.src.Config()
	if cfg == nil {
		return Report{}, errors.New("configuration not loaded")
	}

	if err := EnsureDirs(cfg.BaseDirectory, cfg.ApplicationDirectories, s.report); err != nil {
		return Report{}, err
	}

	var report Report
	it := s.registry.Iterator()
	for it.HasMore() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		repo, _ := it.Next()
		s.report.Debugf("processing %s", it.Key())

		if !repo.SyncEnabled {
			report.Outcomes = append(report.Outcomes, Outcome{Name: repo.Name, Action: ActionSkip})
			continue
		}

		outcome := s.syncOne(ctx, cfg, repo)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	if s.done != nil {
		s.done(report)
	}
	return report, nil
}

func (s *Synchronizer) syncOne(ctx context.Context, cfg *config.Config, repo config.Repository) Outcome {
	dir := cfg.RepositoryDir(repo)

	var (
		action Action
		cmd    runner.Command
	)
	if fileutils.Exists(dir) {
		action = ActionPull
		cmd = runner.Command{Name: "git", Args: []string{"pull", "origin", cfg.Branch(repo)}, Dir: dir}
		s.report.Infof("Updating repository %s (dir=%s)", repo.Directory, dir)
	} else {
		action = ActionClone
		cmd = runner.Command{Name: "git", Args: []string{"clone", repo.URI}, Dir: cfg.BaseDirectory}
		s.report.Infof("Creating repository %s", repo.Directory)
	}

	res, err := s.runner.Run(ctx, cmd)
	outcome := Outcome{Name: repo.Name, Action: action, ExitCode: res.ExitCode, Err: err}
	if err != nil {
		s.report.Errorf(err, "%s of %s failed (exit code %d)", action, repo.Name, res.ExitCode)
	}
	return outcome
}

// EnsureDirs creates base and each of dirs beneath it. Existing directories
// are left alone.
func EnsureDirs(base string, dirs []string, report events.Reporter) error {
	if err := os.MkdirAll(base, 0755); err != nil {
		return fmt.Errorf("creating base directory: %w", err)
	}
	for _, d := range dirs {
		path := filepath.Join(base, d)
		if fileutils.IsDir(path) {
			report.Debugf("Dir %s already exists.", path)
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		report.Infof("Creating dir %s", path)
	}
	return nil
}
