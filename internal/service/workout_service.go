package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/ordering"
	"coachdesk/internal/repository"
	"coachdesk/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrInvalidDirection  = errors.New("invalid move direction")
	ErrWorkoutNoVideo    = errors.New("workout has no demo video")
)

// WorkoutService manages workouts within a day: CRUD, pairwise reordering,
// equipment references and demo-video storage.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, dayID primitive.ObjectID, title, instructions string, equipmentIDs []primitive.ObjectID) (*domain.Workout, error)
	GetWorkoutsForDay(ctx context.Context, dayID primitive.ObjectID) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID primitive.ObjectID, title, instructions string, equipmentIDs []primitive.ObjectID) (*domain.Workout, error)
	MoveWorkout(ctx context.Context, workoutID primitive.ObjectID, dir ordering.Direction) error
	DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error
	RequestVideoUploadURL(ctx context.Context, workoutID primitive.ObjectID, contentType string) (uploadURL, objectKey string, err error)
	GetVideoDownloadURL(ctx context.Context, workoutID primitive.ObjectID) (string, error)
}

type workoutService struct {
	dayRepo       repository.DayRepository
	workoutRepo   repository.WorkoutRepository
	equipmentRepo repository.EquipmentRepository
	fileStorage   storage.FileStorage
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	dayRepo repository.DayRepository,
	workoutRepo repository.WorkoutRepository,
	equipmentRepo repository.EquipmentRepository,
	fileStorage storage.FileStorage,
) WorkoutService {
	return &workoutService{
		dayRepo:       dayRepo,
		workoutRepo:   workoutRepo,
		equipmentRepo: equipmentRepo,
		fileStorage:   fileStorage,
	}
}

// CreateWorkout appends a workout to a day. The new workout goes to the end of
// the order: its index is the current maximum plus one (gaps from earlier
// deletions are left alone).
func (s *workoutService) CreateWorkout(ctx context.Context, dayID primitive.ObjectID, title, instructions string, equipmentIDs []primitive.ObjectID) (*domain.Workout, error) {
	if title == "" {
		return nil, errors.New("workout title is required")
	}

	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	if err := s.verifyEquipmentExists(ctx, equipmentIDs); err != nil {
		return nil, err
	}

	maxIndex, err := s.workoutRepo.MaxOrderIndex(ctx, dayID)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		DayID:        dayID,
		ProgramID:    day.ProgramID,
		Title:        title,
		Instructions: instructions,
		OrderIndex:   maxIndex + 1,
		EquipmentIDs: equipmentIDs,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// GetWorkoutsForDay lists a day's workouts sorted ascending by order index.
func (s *workoutService) GetWorkoutsForDay(ctx context.Context, dayID primitive.ObjectID) ([]domain.Workout, error) {
	return s.workoutRepo.GetByDayID(ctx, dayID)
}

// UpdateWorkout edits title, instructions and equipment references in place.
// Order index is not editable here; reordering goes through MoveWorkout.
func (s *workoutService) UpdateWorkout(ctx context.Context, workoutID primitive.ObjectID, title, instructions string, equipmentIDs []primitive.ObjectID) (*domain.Workout, error) {
	if title == "" {
		return nil, errors.New("workout title is required")
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if err := s.verifyEquipmentExists(ctx, equipmentIDs); err != nil {
		return nil, err
	}

	workout.Title = title
	workout.Instructions = instructions
	workout.EquipmentIDs = equipmentIDs

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// MoveWorkout moves a workout one position up or down among its siblings by
// exchanging order-index values with its neighbor. Moving the first workout up
// or the last one down is a silent no-op: no write is issued.
//
// The two field updates are persisted sequentially without a transaction. If
// the second write fails the pair is left with duplicated indexes until the
// operator retries; the error is surfaced, nothing is rolled back.
func (s *workoutService) MoveWorkout(ctx context.Context, workoutID primitive.ObjectID, dir ordering.Direction) error {
	if !dir.Valid() {
		return ErrInvalidDirection
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	siblings, err := s.workoutRepo.GetByDayID(ctx, workout.DayID)
	if err != nil {
		return err
	}
	slots := make([]ordering.Slot, len(siblings))
	for i, w := range siblings {
		slots[i] = ordering.Slot{ID: w.ID, OrderIndex: w.OrderIndex}
	}

	index := ordering.IndexOf(slots, workoutID)
	if index < 0 {
		// Deleted between the two reads.
		return ErrWorkoutNotFound
	}

	a, b, ok := ordering.Move(slots, index, dir)
	if !ok {
		return nil // Boundary: nothing to do
	}

	if err := s.workoutRepo.SetOrderIndex(ctx, a.ID, a.OrderIndex); err != nil {
		return err
	}
	if err := s.workoutRepo.SetOrderIndex(ctx, b.ID, b.OrderIndex); err != nil {
		return fmt.Errorf("reorder partially applied, retry to fix order: %w", err)
	}
	return nil
}

// DeleteWorkout removes a workout and, if no other workout still references
// it, its demo video. Program duplication copies video keys, so the object may
// back workouts in several programs; it is only removed with its last
// referent. Sibling order indexes are not renumbered. A failed video delete is
// logged only: the document removal is what matters, the orphaned object can
// be reaped later.
func (s *workoutService) DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	if workout.VideoObjectKey != "" {
		refs, err := s.workoutRepo.CountByVideoObjectKey(ctx, workout.VideoObjectKey)
		switch {
		case err != nil:
			// Keep the object when in doubt; an orphan beats a dead link.
			log.Printf("WARN: failed to count references to video object %q: %v", workout.VideoObjectKey, err)
		case refs == 0:
			if err := s.fileStorage.DeleteObject(ctx, workout.VideoObjectKey); err != nil {
				log.Printf("WARN: failed to delete video object %q for workout %s: %v", workout.VideoObjectKey, workoutID.Hex(), err)
			}
		}
	}
	return nil
}

// RequestVideoUploadURL generates a presigned PUT URL for a workout's demo
// video and records the object key on the workout. The client uploads directly
// to object storage with the returned URL.
func (s *workoutService) RequestVideoUploadURL(ctx context.Context, workoutID primitive.ObjectID, contentType string) (string, string, error) {
	if contentType == "" {
		return "", "", errors.New("content type is required")
	}

	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrWorkoutNotFound
		}
		return "", "", err
	}

	objectKey := fmt.Sprintf("workout-videos/%s/%s", workoutID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}

	if err := s.workoutRepo.SetVideoObjectKey(ctx, workoutID, objectKey); err != nil {
		return "", "", err
	}
	return uploadURL, objectKey, nil
}

// GetVideoDownloadURL generates a presigned GET URL for a workout's demo video.
func (s *workoutService) GetVideoDownloadURL(ctx context.Context, workoutID primitive.ObjectID) (string, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrWorkoutNotFound
		}
		return "", err
	}
	if workout.VideoObjectKey == "" {
		return "", ErrWorkoutNoVideo
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, workout.VideoObjectKey, storage.DefaultPresignedURLExpiry)
}

// verifyEquipmentExists checks each referenced equipment id at attach time.
// The reference stays weak afterwards: later equipment deletion does not come
// back to clean these up.
func (s *workoutService) verifyEquipmentExists(ctx context.Context, equipmentIDs []primitive.ObjectID) error {
	for _, id := range equipmentIDs {
		if _, err := s.equipmentRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEquipmentNotFound
			}
			return err
		}
	}
	return nil
}
