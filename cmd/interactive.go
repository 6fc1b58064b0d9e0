package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/olimci/cordova-dev/cmd/embed"
	"github.com/olimci/cordova-dev/cmd/internal"
	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/runner"
	"github.com/olimci/cordova-dev/pkg/tasks"
)

func runInteractive(ctx context.Context, cmd *cli.Command) error {
	logger := internal.NewLogger(os.Stderr, cmd.Bool("debug"))

	var opts []config.Option
	if tmpl := cmd.String("template"); tmpl != "" {
		opts = append(opts, config.WithTemplateFile(tmpl))
	}
	store, err := config.Open(cmd.String("config"), opts...)
	if err != nil {
		return err
	}
	if store.Seeded() {
		logger.Info("Created configuration", "path", store.Path())
	}
	logger.Debug("Loaded configuration", "path", store.Path())

	exec := runner.NewExec(os.Stdout, os.Stderr)
	exec.Header = newConsole(os.Stdout).Header

	s := &tasks.Session{
		Store:       store,
		Runner:      exec,
		Prompt:      internal.NewPrompter(os.Stdin, os.Stdout),
		Events:      internal.NewLogHandler(logger),
		Out:         os.Stdout,
		WebTemplate: embed.WebTemplate(),
	}

	return interact(ctx, s, logger, os.Stdout)
}

// interact runs first-run setup when needed, then the menu until the user
// exits.
func interact(ctx context.Context, s *tasks.Session, logger *log.Logger, out io.Writer) error {
	if s.NeedsSetup() {
		var ok bool
		err := interruptible(ctx, func(ctx context.Context) error {
			var err error
			ok, err = s.Setup(ctx)
			return err
		})
		switch {
		case errors.Is(err, tasks.ErrAborted), errors.Is(err, context.Canceled):
		case err != nil:
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Goodbye.")
			return nil
		}
	}

	if err := menu(ctx, s, logger); err != nil {
		return err
	}
	fmt.Fprintln(out, "Goodbye.")
	return nil
}

func menu(ctx context.Context, s *tasks.Session, logger *log.Logger) error {
	items := tasks.Menu()
	labels := make([]string, len(items))
	for i, title := range tasks.Titles(items) {
		labels[i] = fmt.Sprintf("%2d. %s", i+1, title)
	}

	for {
		choice, err := s.Prompt.Select(ctx, menuTitle(s), labels)
		if errors.Is(err, tasks.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		item := items[choice]
		err = interruptible(ctx, func(ctx context.Context) error {
			return item.Run(s, ctx)
		})
		if errors.Is(err, tasks.ErrExit) {
			return nil
		}
		if err != nil {
			logFailure(logger, item.Title, err)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func menuTitle(s *tasks.Session) string {
	if s.CurrentProject == "" {
		return "Cordova development"
	}
	return fmt.Sprintf("Cordova development (current project: %s)", s.CurrentProject)
}

// interruptible runs fn with a context that Ctrl+C cancels, so an
// interrupt stops the running operation and returns to the menu.
func interruptible(ctx context.Context, fn func(ctx context.Context) error) error {
	opCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return fn(opCtx)
}

func logFailure(logger *log.Logger, title string, err error) {
	var (
		missing *tasks.MissingError
		exit    *runner.ExitError
	)

	switch {
	case errors.Is(err, tasks.ErrAborted), errors.Is(err, context.Canceled):
		logger.Info("Cancelled.", "operation", title)
	case errors.As(err, &missing):
		logger.Warn("Cannot continue", "operation", title, "reason", err)
	case errors.As(err, &exit):
		logger.Error("Command failed", "command", exit.Command.String(), "code", exit.Code)
	case errors.Is(err, tasks.ErrNoProjects), errors.Is(err, tasks.ErrNoVersions):
		logger.Warn(err.Error(), "operation", title)
	default:
		logger.Error("Operation failed", "operation", title, "err", err)
	}
}
