package ordering

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// makeSlots builds n siblings with the given order indexes (already sorted
// ascending, as the store returns them).
func makeSlots(indexes ...int) []Slot {
	slots := make([]Slot, len(indexes))
	for i, idx := range indexes {
		slots[i] = Slot{ID: primitive.NewObjectID(), OrderIndex: idx}
	}
	return slots
}

// apply mutates a copy of slots as if both changes had been persisted and the
// store re-sorted the siblings.
func apply(slots []Slot, changes ...Change) []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	for _, ch := range changes {
		for i := range out {
			if out[i].ID == ch.ID {
				out[i].OrderIndex = ch.OrderIndex
			}
		}
	}
	// Re-sort ascending by OrderIndex (insertion sort; lists are tiny).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].OrderIndex < out[j-1].OrderIndex; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func TestMoveSwapsAdjacentPair(t *testing.T) {
	slots := makeSlots(0, 1, 2)

	a, b, ok := Move(slots, 1, DirectionUp)
	if !ok {
		t.Fatal("expected move to succeed")
	}
	if a.ID != slots[1].ID || a.OrderIndex != 0 {
		t.Errorf("moved item: got (%s, %d), want (%s, 0)", a.ID.Hex(), a.OrderIndex, slots[1].ID.Hex())
	}
	if b.ID != slots[0].ID || b.OrderIndex != 1 {
		t.Errorf("displaced item: got (%s, %d), want (%s, 1)", b.ID.Hex(), b.OrderIndex, slots[0].ID.Hex())
	}
}

func TestMoveBoundaryIsNoOp(t *testing.T) {
	slots := makeSlots(0, 1, 2)

	if _, _, ok := Move(slots, 0, DirectionUp); ok {
		t.Error("moving first item up should be a no-op")
	}
	if _, _, ok := Move(slots, len(slots)-1, DirectionDown); ok {
		t.Error("moving last item down should be a no-op")
	}
	if _, _, ok := Move(slots, -1, DirectionUp); ok {
		t.Error("negative index should be a no-op")
	}
	if _, _, ok := Move(slots, len(slots), DirectionDown); ok {
		t.Error("out-of-range index should be a no-op")
	}
	if _, _, ok := Move(nil, 0, DirectionUp); ok {
		t.Error("empty list should be a no-op")
	}
}

func TestMoveThenMoveBackRestoresOrder(t *testing.T) {
	// Gaps in the indexes are deliberate: order is relative, not contiguous.
	slots := makeSlots(0, 3, 4, 9)

	for i := 1; i < len(slots); i++ {
		a, b, ok := Move(slots, i, DirectionUp)
		if !ok {
			t.Fatalf("move up at %d failed", i)
		}
		after := apply(slots, a, b)

		// The item now sits at i-1; moving it back down must restore the
		// original assignment exactly.
		a2, b2, ok := Move(after, i-1, DirectionDown)
		if !ok {
			t.Fatalf("move back down at %d failed", i-1)
		}
		restored := apply(after, a2, b2)

		for j := range slots {
			if restored[j].ID != slots[j].ID || restored[j].OrderIndex != slots[j].OrderIndex {
				t.Errorf("position %d not restored: got (%s, %d), want (%s, %d)",
					j, restored[j].ID.Hex(), restored[j].OrderIndex, slots[j].ID.Hex(), slots[j].OrderIndex)
			}
		}
	}
}

func TestMoveLeavesOtherSiblingsUntouched(t *testing.T) {
	slots := makeSlots(1, 2, 5, 6, 10)

	for i := 0; i < len(slots); i++ {
		for _, dir := range []Direction{DirectionUp, DirectionDown} {
			a, b, ok := Move(slots, i, dir)
			if !ok {
				continue
			}
			touched := map[primitive.ObjectID]bool{a.ID: true, b.ID: true}
			after := apply(slots, a, b)
			for _, s := range after {
				if touched[s.ID] {
					continue
				}
				orig := slots[IndexOf(slots, s.ID)]
				if s.OrderIndex != orig.OrderIndex {
					t.Errorf("move(%d, %s) changed bystander %s: %d -> %d",
						i, dir, s.ID.Hex(), orig.OrderIndex, s.OrderIndex)
				}
			}
		}
	}
}

func TestMovePreservesUniqueIndexes(t *testing.T) {
	slots := makeSlots(0, 1, 2, 3)

	a, b, ok := Move(slots, 2, DirectionDown)
	if !ok {
		t.Fatal("expected move to succeed")
	}
	after := apply(slots, a, b)

	seen := map[int]bool{}
	for _, s := range after {
		if seen[s.OrderIndex] {
			t.Fatalf("duplicate order index %d after swap", s.OrderIndex)
		}
		seen[s.OrderIndex] = true
	}
}

func TestIndexOf(t *testing.T) {
	slots := makeSlots(0, 1)
	if got := IndexOf(slots, slots[1].ID); got != 1 {
		t.Errorf("IndexOf known id: got %d, want 1", got)
	}
	if got := IndexOf(slots, primitive.NewObjectID()); got != -1 {
		t.Errorf("IndexOf unknown id: got %d, want -1", got)
	}
}
