// Package ordering maintains the user-controllable display order of sibling
// workouts within a day. Order is an integer orderIndex per workout, unique
// per day but not necessarily contiguous (deletions leave gaps). Reordering is
// a pairwise exchange of orderIndex values between two adjacent siblings —
// never a full renumbering — so the relative order of every other sibling is
// untouched by construction.
//
// The package is pure: it takes a snapshot of the sibling list and returns the
// writes a move entails. Persisting them is the caller's job.
package ordering

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Direction of a move operation.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Slot is one sibling's position: its identity and current order index.
type Slot struct {
	ID         primitive.ObjectID
	OrderIndex int
}

// Change is a single pending write: set OrderIndex on the workout with ID.
type Change struct {
	ID         primitive.ObjectID
	OrderIndex int
}

// Move computes the pairwise swap that moves the item at index one position up
// or down within slots (which must be sorted ascending by OrderIndex, the
// order the store returns siblings in).
//
// Moving the first item up or the last item down is a no-op: ok is false and
// no writes are produced. Otherwise the two returned changes carry the
// exchanged order-index values for the item and its neighbor. Applying both
// preserves uniqueness of order-index values within the day, since the swap
// only permutes existing values.
func Move(slots []Slot, index int, dir Direction) (a, b Change, ok bool) {
	if index < 0 || index >= len(slots) {
		return Change{}, Change{}, false
	}

	target := index - 1
	if dir == DirectionDown {
		target = index + 1
	}
	if target < 0 || target >= len(slots) {
		// Boundary: silently do nothing.
		return Change{}, Change{}, false
	}

	a = Change{ID: slots[index].ID, OrderIndex: slots[target].OrderIndex}
	b = Change{ID: slots[target].ID, OrderIndex: slots[index].OrderIndex}
	return a, b, true
}

// IndexOf returns the position of id within slots, or -1 if absent.
func IndexOf(slots []Slot, id primitive.ObjectID) int {
	for i, s := range slots {
		if s.ID == id {
			return i
		}
	}
	return -1
}
