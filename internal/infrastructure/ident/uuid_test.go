package ident

import "testing"

func TestNewIDUnique(t *testing.T) {
	t.Parallel()

	alloc := NewUUIDAllocator()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := alloc.NewID()
		if id == "" {
			t.Fatalf("empty id at iteration %d", i)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s at iteration %d", id, i)
		}
		seen[id] = struct{}{}
	}
}
