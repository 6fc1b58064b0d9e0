package lazy

import "sync"

// Value computes its content on the first Get and caches the result,
// error included.
type Value[T any] struct {
	once  sync.Once
	value T
	err   error
	get   func() (T, error)
}

func New[T any](get func() (T, error)) *Value[T] {
	return &Value[T]{get: get}
}

func (v *Value[T]) Get() (T, error) {
	v.once.Do(func() {
		v.value, v.err = v.get()
	})
	return v.value, v.err
}
