package tasks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/events"
	"github.com/olimci/cordova-dev/pkg/runner"
)

// scripted answers prompts from a queue: strings for Input, bools for
// Confirm and ints for Select.
type scripted struct {
	t     *testing.T
	queue []any
	asked []string
}

func (p *scripted) next(title string) any {
	p.t.Helper()
	p.asked = append(p.asked, title)
	if len(p.queue) == 0 {
		p.t.Fatalf("unexpected prompt %q", title)
	}
	v := p.queue[0]
	p.queue = p.queue[1:]
	return v
}

func (p *scripted) Input(ctx context.Context, title, def string) (string, error) {
	p.t.Helper()
	v, ok := p.next(title).(string)
	if !ok {
		p.t.Fatalf("prompt %q wants a string answer", title)
	}
	return v, nil
}

func (p *scripted) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	p.t.Helper()
	v, ok := p.next(title).(bool)
	if !ok {
		p.t.Fatalf("prompt %q wants a bool answer", title)
	}
	return v, nil
}

func (p *scripted) Select(ctx context.Context, title string, options []string) (int, error) {
	p.t.Helper()
	v, ok := p.next(title).(int)
	if !ok {
		p.t.Fatalf("prompt %q wants an int answer", title)
	}
	return v, nil
}

// recorder records commands. hook may create files and returns the exit
// code.
type recorder struct {
	calls []runner.Command
	hook  func(cmd runner.Command) int
}

func (r *recorder) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	r.calls = append(r.calls, cmd)
	res := runner.Result{Command: cmd}
	if r.hook != nil {
		res.ExitCode = r.hook(cmd)
	}
	if res.ExitCode != 0 {
		return res, &runner.ExitError{Command: cmd, Code: res.ExitCode}
	}
	return res, nil
}

func (r *recorder) commands() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}

type fixture struct {
	*Session
	base   string
	prompt *scripted
	runner *recorder
	events *events.Collector
	store  *config.Store
}

func newFixture(t *testing.T, answers ...any) *fixture {
	t.Helper()

	base := t.TempDir()
	store, err := config.Open(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("config.Open() error = %v", err)
	}
	if err := store.Update(func(c *config.Config) error {
		c.BaseDirectory = base
		return nil
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	for _, dir := range store.Config().ApplicationDirectories {
		mkdir(t, filepath.Join(base, dir))
	}

	f := &fixture{
		base:   base,
		prompt: &scripted{t: t, queue: answers},
		runner: &recorder{},
		events: events.NewCollector(nil),
		store:  store,
	}
	f.Session = &Session{
		Store:  store,
		Runner: f.runner,
		Prompt: f.prompt,
		Events: f.events,
	}
	return f
}

func (f *fixture) repo(name string) string {
	repo, _ := f.cfg().Repositories.Get(name)
	return f.cfg().RepositoryDir(repo)
}

// withFramework lays out cordova-js and an Android checkout whose framework
// has been built at version v.
func (f *fixture) withFramework(t *testing.T, v string) {
	t.Helper()
	android := f.repo(config.RepoAndroid)
	write(t, filepath.Join(android, "framework", "local.properties"), "sdk.dir=/sdk\n")
	write(t, filepath.Join(android, "framework", "cordova-"+v+".jar"), "jar "+v)
	write(t, filepath.Join(android, "framework", "assets", "www", "cordova-"+v+".js"), "js "+v)
	write(t, filepath.Join(f.repo(config.RepoCordovaJS), "pkg", "cordova.android.js"), "android js")
}

func (f *fixture) project(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(f.cfg().AndroidProjectsDir(), name)
	mkdir(t, dir)
	for rel, content := range files {
		write(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func hasMessage(c *events.Collector, level events.Level, substr string) bool {
	for _, e := range c.AtLevel(level) {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
