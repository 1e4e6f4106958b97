package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Equipment is an inventory item referenced by id from Workout.EquipmentIDs.
// The reference is weak: deleting or archiving equipment does not modify
// workouts that point at it.
type Equipment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
