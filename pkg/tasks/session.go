package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/events"
	"github.com/olimci/cordova-dev/pkg/projects"
	"github.com/olimci/cordova-dev/pkg/repos"
	"github.com/olimci/cordova-dev/pkg/runner"
	"github.com/olimci/cordova-dev/pkg/scaffold"
	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
)

// Prompter asks the user for input. Input returns "" for a blank answer;
// def is only a hint shown to the user.
type Prompter interface {
	Input(ctx context.Context, title, def string) (string, error)
	Confirm(ctx context.Context, title string, def bool) (bool, error)
	Select(ctx context.Context, title string, options []string) (int, error)
}

// Store is the persisted configuration. *config.Store satisfies it.
type Store interface {
	Config() *config.Config
	Save() error
	Update(fn func(cfg *config.Config) error) error
	SetRepositorySync(name string, enabled bool) error
}

// Session is the state shared by every operation of one interactive run.
type Session struct {
	Store  Store
	Runner runner.Runner
	Prompt Prompter
	Events events.Handler
	Out    io.Writer

	// WebTemplate scaffolds new web projects when the configuration names no
	// template directory.
	WebTemplate scaffold.Source

	// CurrentProject is the last project operated on. It is the default
	// answer of project prompts.
	CurrentProject string
}

func (s *Session) cfg() *config.Config {
	return s.Store.Config()
}

func (s *Session) reporter(task string) events.Reporter {
	return events.NewReporter(task, s.Events)
}

const rule = "***************************************************************"

// banner prints the section header shown before each operation.
func (s *Session) banner(title string) {
	if s.Out == nil {
		return
	}
	fmt.Fprintln(s.Out, rule)
	fmt.Fprintf(s.Out, "* %s\n", title)
	fmt.Fprintln(s.Out, rule)
}

func (s *Session) run(ctx context.Context, dir, name string, args ...string) error {
	_, err := s.Runner.Run(ctx, runner.Command{Name: name, Args: args, Dir: dir})
	return err
}

// repoDir resolves a well-known repository and requires it to be present.
func (s *Session) repoDir(name string) (string, error) {
	repo, ok := repos.NewRegistry(s.Store).Get(name)
	if !ok {
		return "", &MissingError{What: name + " repository"}
	}
	dir := s.cfg().RepositoryDir(repo)
	if !fileutils.Exists(dir) {
		return "", &MissingError{What: name + " repository", Path: dir}
	}
	return dir, nil
}

// listProjects prints and returns the projects under root.
func (s *Session) listProjects(root string) ([]string, error) {
	names, err := projects.List(root)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if s.Out != nil {
		fmt.Fprintln(s.Out, "* List of projects:")
		for _, n := range names {
			fmt.Fprintf(s.Out, "*  %s\n", n)
		}
	}
	return names, nil
}

// chooseProject lists the projects under root and asks for one. A blank
// answer picks the current project when there is one.
func (s *Session) chooseProject(ctx context.Context, root, title string) (string, error) {
	names, err := s.listProjects(root)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNoProjects
	}

	answer, err := s.Prompt.Input(ctx, title, s.CurrentProject)
	if err != nil {
		return "", err
	}
	project := strings.TrimSpace(answer)
	if project == "" {
		project = s.CurrentProject
	}
	if project == "" {
		return "", ErrAborted
	}
	if !slices.Contains(names, project) {
		return "", fmt.Errorf("%w: %s", ErrProjectNotFound, project)
	}

	s.CurrentProject = project
	return project, nil
}

// confirm asks a y/n question that defaults to no.
func (s *Session) confirm(ctx context.Context, title string) (bool, error) {
	return s.Prompt.Confirm(ctx, title, false)
}
