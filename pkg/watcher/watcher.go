package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/olimci/cordova-dev/pkg/utils/set"
)

var ErrNothingWatched = errors.New("no watch target could be watched")

// Target is a directory tree to watch. Patterns are doublestar globs matched
// against slash-separated paths relative to Root; no patterns matches
// everything.
type Target struct {
	Name     string
	Root     string
	Patterns []string
}

// Match reports whether path, inside t.Root, is of interest.
func (t Target) Match(path string) bool {
	rel, err := filepath.Rel(t.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	if len(t.Patterns) == 0 {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, p := range t.Patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Event is a debounced batch of changes belonging to one target.
type Event struct {
	Reason string
	Target string
	Paths  []string
}

type Watcher struct {
	Events chan Event
	Errors chan error

	watcher  *fsnotify.Watcher
	debounce time.Duration
	targets  []Target
	watched  *set.Set[string]
}

func New(targets []Target, debounce time.Duration) (*Watcher, error) {
	for _, t := range targets {
		for _, p := range t.Patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("target %s: invalid pattern %q", t.Name, p)
			}
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		Events:   make(chan Event, 64),
		Errors:   make(chan error, 64),
		watcher:  w,
		debounce: debounce,
		targets:  targets,
		watched:  set.New[string](),
	}, nil
}

// Run watches every target until ctx is done. It fails immediately when no
// target root can be watched; missing roots are reported on Errors.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ok := 0
	for _, t := range w.targets {
		if err := w.addPath(t.Root); err != nil {
			lazySend(w.Errors, fmt.Errorf("watch %s: %w", t.Name, err))
			continue
		}
		ok++
	}
	if ok == 0 {
		return ErrNothingWatched
	}

	w.loop(ctx)
	return ctx.Err()
}

func (w *Watcher) loop(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = make(map[string]*set.Set[string])
		order   = set.New[string]()
	)

	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
		timerCh = timer.C
	}

	flush := func() {
		reason := fmt.Sprintf("file change (%s quiet)", w.debounce)
		for _, name := range order.Values() {
			lazySend(w.Events, Event{Reason: reason, Target: name, Paths: pending[name].Values()})
		}
		clear(pending)
		order.Clear()
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				w.addDirectoryIfNeeded(ev.Name)
			}

			matched := false
			for _, t := range w.targets {
				if !t.Match(ev.Name) {
					continue
				}
				if pending[t.Name] == nil {
					pending[t.Name] = set.New[string]()
				}
				pending[t.Name].Add(ev.Name)
				order.Add(t.Name)
				matched = true
			}
			if matched {
				resetTimer()
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			lazySend(w.Errors, fmt.Errorf("watch error: %w", err))
		}
	}
}

func (w *Watcher) addPath(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.addWatch(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(path string) error {
	normalized := filepath.Clean(path)
	if w.watched.Has(normalized) {
		return nil
	}
	if err := w.watcher.Add(normalized); err != nil {
		return err
	}
	w.watched.Add(normalized)
	return nil
}

func (w *Watcher) addDirectoryIfNeeded(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addPath(path); err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to watch new directory: %w", err))
	}
}

// lazySend drops value when nobody is keeping up with ch.
func lazySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
