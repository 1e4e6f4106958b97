package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a single workout within a Day. OrderIndex defines the relative
// display order among siblings of the same Day; values are unique within a Day
// but not required to be contiguous (deletions leave gaps, which is fine —
// order is relative, not positional).
type Workout struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	DayID          primitive.ObjectID   `bson:"dayId" json:"dayId"`
	ProgramID      primitive.ObjectID   `bson:"programId" json:"programId"` // Denormalized for program-wide queries
	Title          string               `bson:"title" json:"title"`
	Instructions   string               `bson:"instructions,omitempty" json:"instructions,omitempty"`
	VideoObjectKey string               `bson:"videoObjectKey,omitempty" json:"videoObjectKey,omitempty"` // S3 key of the demo video, if any
	OrderIndex     int                  `bson:"orderIndex" json:"orderIndex"`
	EquipmentIDs   []primitive.ObjectID `bson:"equipmentIds,omitempty" json:"equipmentIds,omitempty"` // Weak references, never cascaded
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}
