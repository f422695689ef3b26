package store

import (
	"testing"

	"github.com/dshills/simcore/internal/entity"
	"pgregory.net/rapid"
)

const testCapacity = 32

type payload struct {
	V int
}

// TestSparseDenseConsistency checks that for every live entity e,
// dense[sparse[e]] == e.
func TestSparseDenseConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New[payload](testCapacity)
		live := map[entity.ID]bool{}

		steps := rapid.IntRange(0, 200).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			e := entity.ID(rapid.IntRange(0, testCapacity-1).Draw(t, "e"))
			if rapid.Bool().Draw(t, "doAdd") {
				err := s.Add(e, payload{V: int(e)})
				if err == nil {
					live[e] = true
				}
			} else {
				err := s.Remove(e)
				if err == nil {
					delete(live, e)
				}
			}
		}

		for e := range live {
			if !s.Has(e) {
				t.Fatalf("entity %d expected live but Has()=false", e)
			}
		}
		checkInvariants(t, s)
	})
}

// checkInvariants verifies packing and uniqueness directly against
// internal state via the exported surface (Entities, Count, Has, Get).
func checkInvariants(t *rapid.T, s *Store[payload]) {
	ents := s.Entities()
	if len(ents) != s.Count() {
		t.Fatalf("Entities() length %d != Count() %d", len(ents), s.Count())
	}
	seen := map[entity.ID]bool{}
	for _, e := range ents {
		if seen[e] {
			t.Fatalf("duplicate entity %d in packed dense list", e)
		}
		seen[e] = true
		if !s.Has(e) {
			t.Fatalf("entity %d in dense list but Has()=false", e)
		}
		if _, ok := s.Get(e); !ok {
			t.Fatalf("entity %d in dense list but Get() absent", e)
		}
	}
	if s.Count() > s.Cap() {
		t.Fatalf("count %d exceeds capacity %d", s.Count(), s.Cap())
	}
}

// TestRoundTripAddRemove is the algebraic law: add(e,v); remove(e) is
// observationally equal to doing nothing, for Has and Count.
func TestRoundTripAddRemove(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New[payload](testCapacity)
		e := entity.ID(rapid.IntRange(0, testCapacity-1).Draw(t, "e"))

		beforeCount := s.Count()
		beforeHas := s.Has(e)

		if err := s.Add(e, payload{V: 7}); err != nil {
			t.Fatalf("Add failed unexpectedly: %v", err)
		}
		if err := s.Remove(e); err != nil {
			t.Fatalf("Remove failed unexpectedly: %v", err)
		}

		if s.Count() != beforeCount {
			t.Fatalf("Count() = %d, want %d (round trip should be a no-op)", s.Count(), beforeCount)
		}
		if s.Has(e) != beforeHas {
			t.Fatalf("Has(%d) = %v, want %v", e, s.Has(e), beforeHas)
		}
	})
}

// TestAddThenGet is the algebraic law: add(e,v); get(e) == v.
func TestAddThenGet(t *testing.T) {
	s := New[payload](4)
	if err := s.Add(0, payload{V: 42}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, ok := s.Get(0)
	if !ok {
		t.Fatal("Get() after Add() returned absent")
	}
	if got.V != 42 {
		t.Fatalf("Get().V = %d, want 42", got.V)
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	s := New[payload](4)
	_ = s.Add(0, payload{})
	if err := s.Add(0, payload{}); err != ErrDuplicate {
		t.Fatalf("Add duplicate = %v, want ErrDuplicate", err)
	}
}

func TestAddOutOfRangeRejected(t *testing.T) {
	s := New[payload](4)
	if err := s.Add(10, payload{}); err != ErrOutOfRange {
		t.Fatalf("Add out of range = %v, want ErrOutOfRange", err)
	}
}

func TestAddFullRejected(t *testing.T) {
	s := New[payload](2)
	_ = s.Add(0, payload{})
	_ = s.Add(1, payload{})
	if err := s.Add(2, payload{}); err != ErrFull && err != ErrOutOfRange {
		t.Fatalf("Add beyond capacity = %v, want ErrFull or ErrOutOfRange", err)
	}
}

func TestRemoveAbsentRejected(t *testing.T) {
	s := New[payload](4)
	if err := s.Remove(0); err != ErrAbsent {
		t.Fatalf("Remove absent = %v, want ErrAbsent", err)
	}
}

// TestSwapAndPopKeepsOthersIntact exercises the concrete swap-and-pop
// scenario: removing a middle element must not disturb unrelated entries'
// payloads (only the moved one relocates).
func TestSwapAndPopKeepsOthersIntact(t *testing.T) {
	s := New[payload](4)
	_ = s.Add(0, payload{V: 10})
	_ = s.Add(1, payload{V: 11})
	_ = s.Add(2, payload{V: 12})

	if err := s.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if !s.Has(1) || !s.Has(2) {
		t.Fatal("surviving entities lost after removal")
	}
	v1, _ := s.Get(1)
	v2, _ := s.Get(2)
	if v1.V != 11 || v2.V != 12 {
		t.Fatalf("payloads corrupted after swap-and-pop: %+v %+v", v1, v2)
	}
	if s.Has(0) {
		t.Fatal("removed entity still reported live")
	}
}

func TestEachVisitsEveryLiveEntryOnce(t *testing.T) {
	s := New[payload](8)
	for i := entity.ID(0); i < 5; i++ {
		_ = s.Add(i, payload{V: int(i)})
	}
	seen := map[entity.ID]bool{}
	s.Each(func(e entity.ID, data *payload) {
		seen[e] = true
		data.V *= 2
	})
	if len(seen) != 5 {
		t.Fatalf("Each visited %d entries, want 5", len(seen))
	}
	for i := entity.ID(0); i < 5; i++ {
		v, _ := s.Get(i)
		if v.V != int(i)*2 {
			t.Fatalf("entity %d payload = %d, want %d (Each should allow mutation)", i, v.V, int(i)*2)
		}
	}
}
