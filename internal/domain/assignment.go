package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramAssignment is a many-to-many join record between a Client and a
// Program. It is created and destroyed independently of either side: archiving
// a client or a program does not cascade to assignments, and deleting an
// assignment touches nothing else.
type ProgramAssignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	ProgramID   primitive.ObjectID `bson:"programId" json:"programId"`
	ProgramName string             `bson:"programName" json:"programName"` // Denormalized so assignment lists render without a join
	AssignedAt  time.Time          `bson:"assignedAt" json:"assignedAt"`
}
