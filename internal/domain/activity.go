package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType enumerates the kinds of events recorded in the activity feed.
type ActivityType string

const (
	ActivityAssignment ActivityType = "assignment"
	ActivityUnassigned ActivityType = "unassigned"
	ActivityArchive    ActivityType = "archive"
	ActivityRestore    ActivityType = "restore"
	ActivityOnboarded  ActivityType = "onboarded"
)

// ActivityEntry is an append-only, human-readable audit record. Entries are
// never mutated or deleted by the application.
type ActivityEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        ActivityType       `bson:"type" json:"type"`
	ClientName  string             `bson:"clientName" json:"clientName"`
	ProgramName string             `bson:"programName,omitempty" json:"programName,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}
