package set

// Set is a set that remembers insertion order. Values returns members in
// the order they were first added.
type Set[T comparable] struct {
	m     map[T]int
	order []T
}

func New[T comparable]() *Set[T] {
	return &Set[T]{m: make(map[T]int)}
}

func FromSlice[T comparable](values []T) *Set[T] {
	s := New[T]()
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s *Set[T]) Add(v T) {
	if _, ok := s.m[v]; ok {
		return
	}
	s.m[v] = len(s.order)
	s.order = append(s.order, v)
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.m[v]
	return ok
}

func (s *Set[T]) Delete(v T) {
	i, ok := s.m[v]
	if !ok {
		return
	}
	delete(s.m, v)
	s.order = append(s.order[:i], s.order[i+1:]...)
	for j := i; j < len(s.order); j++ {
		s.m[s.order[j]] = j
	}
}

func (s *Set[T]) Len() int {
	return len(s.order)
}

func (s *Set[T]) Values() []T {
	return append([]T(nil), s.order...)
}

func (s *Set[T]) Clear() {
	clear(s.m)
	s.order = s.order[:0]
}
