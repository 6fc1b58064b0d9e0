package repos

import "github.com/olimci/cordova-dev/pkg/config"

// Source yields the live configuration. *config.Store satisfies it.
type Source interface {
	Config() *config.Config
}

// Registry is an ordered view over the configured repositories. It holds no
// copy of its own; every iterator reads the configuration as it is now.
type Registry struct {
	src Source
}

func NewRegistry(src Source) *Registry {
	return &Registry{src: src}
}

// All returns the descriptors in configuration order.
func (r *Registry) All() []config.Repository {
	cfg := r.src.Config()
	if cfg == nil {
		return nil
	}
	return append([]config.Repository(nil), cfg.Repositories...)
}

// Get looks a descriptor up by name.
func (r *Registry) Get(name string) (config.Repository, bool) {
	cfg := r.src.Config()
	if cfg == nil {
		return config.Repository{}, false
	}
	return cfg.Repositories.Get(name)
}

// Iterator starts a single-pass traversal.
func (r *Registry) Iterator() *Iterator {
	return &Iterator{items: r.All()}
}

// Iterator walks a snapshot of the registry taken when it was created.
type Iterator struct {
	items []config.Repository
	index int
	key   string
}

func (it *Iterator) HasMore() bool {
	return it.index < len(it.items)
}

// Next advances and returns the next descriptor. It returns false once the
// traversal is exhausted.
func (it *Iterator) Next() (config.Repository, bool) {
	if !it.HasMore() {
		return config.Repository{}, false
	}
	repo := it.items[it.index]
	it.index++
	it.key = repo.Name
	return repo, true
}

// Key is the name of the descriptor last returned by Next.
func (it *Iterator) Key() string {
	return it.key
}
