package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result describes a finished process.
type Result struct {
	Command  Command
	ExitCode int
	Duration time.Duration
}

// ExitError is returned for a process that ran and exited non-zero.
type ExitError struct {
	Command Command
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Runner runs external commands one at a time per call.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Exec runs commands as child processes, streaming their output line by
// line as it arrives.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer

	// Header, when set, is written before each command starts and after it
	// exits.
	Header func(w io.Writer, cmd Command, res *Result)

	// WaitDelay bounds how long Run waits for output once a cancelled
	// process is killed. Background children can hold the pipes open.
	WaitDelay time.Duration

	mu sync.Mutex
}

func NewExec(stdout, stderr io.Writer) *Exec {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = stdout
	}
	return &Exec{
		Stdout:    stdout,
		Stderr:    stderr,
		Header:    DefaultHeader,
		WaitDelay: 2 * time.Second,
	}
}

// DefaultHeader prints the banner around a command.
func DefaultHeader(w io.Writer, cmd Command, res *Result) {
	if res == nil {
		fmt.Fprintln(w, strings.Repeat("*", 63))
		fmt.Fprintf(w, "* Execute '%s':\n", cmd)
		fmt.Fprintln(w, strings.Repeat("*", 63))
		return
	}
	fmt.Fprintf(w, "Exit code: %d\n", res.ExitCode)
}

func (e *Exec) Run(ctx context.Context, c Command) (Result, error) {
	res := Result{Command: c, ExitCode: -1}
	if e.Header != nil {
		e.Header(e.Stdout, c, nil)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = e.WaitDelay

	stdout := &lineWriter{w: e.Stdout, mu: &e.mu}
	stderr := &lineWriter{w: e.Stderr, mu: &e.mu}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return res, fmt.Errorf("starting %s: %w", c.Name, err)
	}

	err := cmd.Wait()
	stdout.flush()
	stderr.flush()
	res.Duration = time.Since(start)
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if e.Header != nil {
		e.Header(e.Stdout, c, &res)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		return res, ctx.Err()
	case errors.Is(err, exec.ErrWaitDelay):
		// exited cleanly but a leftover child kept the output open
		return res, nil
	case errors.As(err, &exitErr):
		return res, &ExitError{Command: c, Code: res.ExitCode}
	default:
		return res, err
	}
}

// lineWriter forwards whole lines to w so interleaved stdout and stderr
// lines are never split. A trailing partial line is held until flush.
type lineWriter struct {
	w   io.Writer
	mu  *sync.Mutex
	buf []byte
}

func (l *lineWriter) Write(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	i := bytes.LastIndexByte(l.buf, '\n')
	if i < 0 {
		return len(p), nil
	}

	l.mu.Lock()
	_, err := l.w.Write(l.buf[:i+1])
	l.mu.Unlock()
	l.buf = append(l.buf[:0], l.buf[i+1:]...)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (l *lineWriter) flush() {
	if len(l.buf) == 0 {
		return
	}
	l.mu.Lock()
	_, _ = l.w.Write(append(l.buf, '\n'))
	l.mu.Unlock()
	l.buf = nil
}
