package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is the root of the two-level content tree (Program -> Day -> Workout).
// Programs are never hard-deleted in the normal flow; they are archived and
// restored via the IsArchived flag. Archiving does not touch Days or Workouts.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	IsArchived  bool               `bson:"isArchived" json:"isArchived"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
