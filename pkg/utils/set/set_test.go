package set

import (
	"slices"
	"testing"
)

func TestSetKeepsInsertionOrder(t *testing.T) {
	s := FromSlice([]string{"b", "a", "c", "a"})

	if got, want := s.Values(), []string{"b", "a", "c"}; !slices.Equal(got, want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}

	s.Delete("a")
	if s.Has("a") {
		t.Fatalf("Has(a) after Delete = true")
	}
	if got, want := s.Values(), []string{"b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("Values() after Delete = %v, want %v", got, want)
	}

	s.Add("a")
	if got, want := s.Values(), []string{"b", "c", "a"}; !slices.Equal(got, want) {
		t.Fatalf("Values() after re-Add = %v, want %v", got, want)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", s.Len())
	}
}
