package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Day is a training day within a Program. DayNumber is a display/creation-order
// field assigned sequentially at creation; it is distinct from workout ordering.
// Days have no archive state: they are either present or deleted, and deletion
// is guarded on the Day owning zero Workouts.
type Day struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"`
	Title     string             `bson:"title" json:"title"`
	DayNumber int                `bson:"dayNumber" json:"dayNumber"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
