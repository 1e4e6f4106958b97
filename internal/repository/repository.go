package repository

import (
	"coachdesk/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository manages staff accounts (coaches/admins).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProgramRepository manages training programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	List(ctx context.Context, includeArchived bool) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error
}

// DayRepository manages training days within a program.
type DayRepository interface {
	Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error)
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Day, error)
	CountByProgramID(ctx context.Context, programID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, day *domain.Day) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository manages workouts within a day.
//
// CountByDayID is the authoritative fresh read used by the day deletion guard:
// it must go to the store, never a cached snapshot. SetOrderIndex is the
// field-level partial update used by pairwise reorder swaps.
// CountByVideoObjectKey tells workout deletion whether a demo-video object is
// still referenced elsewhere; program duplication copies video keys, so an
// object can back several workouts.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.Workout, error)
	CountByDayID(ctx context.Context, dayID primitive.ObjectID) (int64, error)
	CountByVideoObjectKey(ctx context.Context, objectKey string) (int64, error)
	MaxOrderIndex(ctx context.Context, dayID primitive.ObjectID) (int, error)
	Update(ctx context.Context, workout *domain.Workout) error
	SetOrderIndex(ctx context.Context, id primitive.ObjectID, orderIndex int) error
	SetVideoObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ClientRepository manages athlete records.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// AssignmentRepository manages the client<->program join records.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// EquipmentRepository manages the equipment inventory.
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Equipment, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Equipment, error)
	Update(ctx context.Context, equipment *domain.Equipment) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ActivityRepository is append-only: entries are created and read, never
// updated or removed. Watch tails the collection for the live feed.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityEntry) (primitive.ObjectID, error)
	ListRecent(ctx context.Context, limit int64) ([]domain.ActivityEntry, error)
	Watch(ctx context.Context) (<-chan domain.ActivityEntry, error)
}
