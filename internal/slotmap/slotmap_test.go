package slotmap

import "testing"

func TestInsertGetRemove(t *testing.T) {
	var m Map[string]
	a := m.Insert("a")
	b := m.Insert("b")

	if v, ok := m.Get(a); !ok || v != "a" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	if v, ok := m.Get(b); !ok || v != "b" {
		t.Fatalf("Get(b) = %q, %v", v, ok)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}

	m.Remove(a)
	if _, ok := m.Get(a); ok {
		t.Fatalf("Get(a) ok after Remove")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}

	// The freed slot is recycled.
	c := m.Insert("c")
	if c != a {
		t.Fatalf("Insert(c) = %v, want reused handle %v", c, a)
	}
}

func TestGrowBeyondOneWord(t *testing.T) {
	var m Map[int]
	handles := make([]Handle, 200)
	for i := range handles {
		handles[i] = m.Insert(i)
	}
	for i, h := range handles {
		v, ok := m.Get(h)
		if !ok || v != i {
			t.Fatalf("Get(%v) = %d, %v, want %d, true", h, v, ok, i)
		}
	}
	if m.Len() != 200 {
		t.Fatalf("Len() = %d, want 200", m.Len())
	}
}

func TestRemoveUnknownHandleIsNoop(t *testing.T) {
	var m Map[int]
	m.Remove(Handle(42))
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}
}
