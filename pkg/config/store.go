package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
)

//go:embed default.json
var defaultTemplate []byte

// DefaultTemplate returns the bundled first-run configuration.
func DefaultTemplate() []byte {
	return bytes.Clone(defaultTemplate)
}

var ErrUnknownKey = errors.New("unknown configuration key")

// CorruptError reports a configuration file whose contents cannot be used.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("configuration %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Store owns the configuration document on disk and its in-memory copy.
// Every mutation is persisted before it returns.
type Store struct {
	path     string
	format   format
	template []byte
	tmplPath string
	seeded   bool

	cfg *Config
}

type Option func(s *Store)

// WithTemplateFile seeds a missing configuration from the file at path
// instead of the bundled template.
func WithTemplateFile(path string) Option {
	return func(s *Store) {
		s.tmplPath = path
	}
}

// Open creates a Store for path and loads it.
func Open(path string, opts ...Option) (*Store, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:     path,
		format:   f,
		template: defaultTemplate,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path is the configuration file location.
func (s *Store) Path() string {
	return s.path
}

// Seeded reports whether the last Load created the file from the template.
func (s *Store) Seeded() bool {
	return s.seeded
}

// Load reads the configuration file, creating it from the template first if
// it does not exist.
func (s *Store) Load() error {
	s.seeded = false

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if err := s.seed(); err != nil {
			return fmt.Errorf("seeding configuration: %w", err)
		}
		s.seeded = true
	} else if err != nil {
		return err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	cfg := new(Config)
	if err := decode(s.format, b, cfg); err != nil {
		return &CorruptError{Path: s.path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return &CorruptError{Path: s.path, Err: err}
	}

	s.cfg = cfg
	return nil
}

func (s *Store) seed() error {
	data := s.template
	if s.tmplPath != "" {
		b, err := os.ReadFile(s.tmplPath)
		if err != nil {
			return err
		}
		data = b
	}

	tf := formatJSON
	if s.tmplPath != "" {
		if f, err := formatFor(s.tmplPath); err == nil {
			tf = f
		}
	}
	if tf == s.format {
		return fileutils.AtomicWriteFile(s.path, data)
	}

	// Template and target differ in format: translate through Config.
	cfg := new(Config)
	if err := decode(tf, data, cfg); err != nil {
		return &CorruptError{Path: s.tmplPath, Err: err}
	}
	return fileutils.AtomicWrite(s.path, func(w io.Writer) error {
		return encode(s.format, w, cfg)
	})
}

// Config returns the live configuration. Callers must mutate it only through
// Set, Update or SetRepositorySync.
func (s *Store) Config() *Config {
	return s.cfg
}

// Save writes the whole configuration, replacing the file atomically.
func (s *Store) Save() error {
	if s.cfg == nil {
		return errors.New("configuration not loaded")
	}
	return fileutils.AtomicWrite(s.path, func(w io.Writer) error {
		return encode(s.format, w, s.cfg)
	})
}

// Get returns a copy of the value stored under the document key name.
func (s *Store) Get(name string) (any, bool) {
	if s.cfg == nil {
		return nil, false
	}
	field, ok := lookupField(reflect.ValueOf(s.cfg.clone()).Elem(), name)
	if !ok {
		return nil, false
	}
	return field.Interface(), true
}

// Set assigns value to the document key name and saves. The value's type
// must match the field's type exactly.
func (s *Store) Set(name string, value any) error {
	return s.Update(func(cfg *Config) error {
		field, ok := lookupField(reflect.ValueOf(cfg).Elem(), name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKey, name)
		}

		v := reflect.ValueOf(value)
		if !v.IsValid() {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		if v.Type() != field.Type() {
			return fmt.Errorf("configuration key %q: cannot assign %T to %s", name, value, field.Type())
		}
		field.Set(v)
		return nil
	})
}

// Update applies fn to a copy of the configuration and, if fn succeeds and
// the result validates, makes it current and saves it.
func (s *Store) Update(fn func(cfg *Config) error) error {
	if s.cfg == nil {
		return errors.New("configuration not loaded")
	}

	next := s.cfg.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	prev := *s.cfg
	*s.cfg = *next
	if err := s.Save(); err != nil {
		*s.cfg = prev
		return err
	}
	return nil
}

// SetRepositorySync toggles syncEnabled for the named repository and saves.
func (s *Store) SetRepositorySync(name string, enabled bool) error {
	return s.Update(func(cfg *Config) error {
		for i := range cfg.Repositories {
			if cfg.Repositories[i].Name == name {
				cfg.Repositories[i].SyncEnabled = enabled
				return nil
			}
		}
		return fmt.Errorf("unknown repository %q", name)
	})
}

func (c *Config) clone() *Config {
	out := *c
	out.ApplicationDirectories = append([]string(nil), c.ApplicationDirectories...)
	out.Repositories = append(Repositories(nil), c.Repositories...)
	return &out
}

func lookupField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		key, _, _ := strings.Cut(tag, ",")
		if key == "" || key == "-" {
			continue
		}
		if key == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
