package internal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/olimci/cordova-dev/pkg/tasks"
)

// Prompter asks questions with single-field huh forms. Esc or Ctrl+C on a
// prompt returns tasks.ErrAborted, as does running out of piped input.
type Prompter struct {
	in         io.Reader
	out        io.Writer
	keymap     *huh.KeyMap
	accessible bool

	lines *lineReader
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "back"),
	)

	p := &Prompter{
		in:         in,
		out:        out,
		keymap:     km,
		accessible: !isTerminal(in),
	}
	if p.accessible {
		p.lines = &lineReader{r: bufio.NewReader(in)}
		p.in = p.lines
	}
	return p
}

// isTerminal is false for piped input, which gets huh's line-based
// accessible mode.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Prompter) run(ctx context.Context, field huh.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.lines != nil && p.lines.done() {
		return tasks.ErrAborted
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithKeyMap(p.keymap).
		WithShowHelp(false).
		WithAccessible(p.accessible).
		WithInput(p.in).
		WithOutput(p.out).
		WithProgramOptions(tea.WithoutSignalHandler())

	var before int
	if p.lines != nil {
		before = p.lines.count()
	}

	err := form.RunWithContext(ctx)
	switch {
	case errors.Is(err, huh.ErrUserAborted):
		return tasks.ErrAborted
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		return err
	}

	// huh falls back to the default answer at end of input
	if p.lines != nil && p.lines.done() && p.lines.count() == before {
		return tasks.ErrAborted
	}
	return nil
}

func (p *Prompter) Input(ctx context.Context, title, def string) (string, error) {
	var value string
	field := huh.NewInput().Title(title).Value(&value)
	if def != "" {
		field = field.Placeholder(def)
	}
	if err := p.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *Prompter) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	value := def
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if err := p.run(ctx, field); err != nil {
		return false, err
	}
	return value, nil
}

func (p *Prompter) Select(ctx context.Context, title string, options []string) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, label := range options {
		opts[i] = huh.NewOption(label, i)
	}

	var value int
	field := huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Value(&value)
	if err := p.run(ctx, field); err != nil {
		return 0, err
	}
	return value, nil
}

// lineReader hands out at most one line per Read. huh scans each accessible
// prompt with a fresh bufio.Scanner, so anything read past the answer would
// be lost to the next prompt.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
	lines   int
	err     error
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		if l.err != nil {
			return 0, l.err
		}
		line, err := l.r.ReadBytes('\n')
		if err != nil {
			l.err = err
		}
		if len(line) == 0 {
			return 0, l.err
		}
		l.pending = line
		l.lines++
	}

	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

// done reports whether the input is exhausted.
func (l *lineReader) done() bool {
	return l.err != nil && len(l.pending) == 0
}

func (l *lineReader) count() int {
	return l.lines
}
