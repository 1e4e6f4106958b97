package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrDayNotFound = errors.New("day not found")

	// ErrDayHasWorkouts is the deletion guard's refusal. It is a precondition
	// failure, not a fault: nothing was written.
	ErrDayHasWorkouts = errors.New("cannot delete a day that contains workouts")
)

// DayService manages training days within a program, including the guarded
// deletion that keeps a non-empty day from being removed.
type DayService interface {
	CreateDay(ctx context.Context, programID primitive.ObjectID, title string) (*domain.Day, error)
	GetDaysForProgram(ctx context.Context, programID primitive.ObjectID) ([]domain.Day, error)
	UpdateDay(ctx context.Context, dayID primitive.ObjectID, title string) (*domain.Day, error)
	DeleteDay(ctx context.Context, dayID primitive.ObjectID) error
}

type dayService struct {
	programRepo repository.ProgramRepository
	dayRepo     repository.DayRepository
	workoutRepo repository.WorkoutRepository
}

// NewDayService creates a new instance of dayService.
func NewDayService(
	programRepo repository.ProgramRepository,
	dayRepo repository.DayRepository,
	workoutRepo repository.WorkoutRepository,
) DayService {
	return &dayService{
		programRepo: programRepo,
		dayRepo:     dayRepo,
		workoutRepo: workoutRepo,
	}
}

// CreateDay adds a day to a program with the next sequential day number.
// Day numbers are creation-order labels; they are not renumbered on delete.
func (s *dayService) CreateDay(ctx context.Context, programID primitive.ObjectID, title string) (*domain.Day, error) {
	if title == "" {
		return nil, errors.New("day title is required")
	}

	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	count, err := s.dayRepo.CountByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}

	day := &domain.Day{
		ProgramID: programID,
		Title:     title,
		DayNumber: int(count) + 1,
	}
	dayID, err := s.dayRepo.Create(ctx, day)
	if err != nil {
		return nil, err
	}
	day.ID = dayID
	return day, nil
}

// GetDaysForProgram lists a program's days ordered by day number.
func (s *dayService) GetDaysForProgram(ctx context.Context, programID primitive.ObjectID) ([]domain.Day, error) {
	return s.dayRepo.GetByProgramID(ctx, programID)
}

// UpdateDay renames a day.
func (s *dayService) UpdateDay(ctx context.Context, dayID primitive.ObjectID, title string) (*domain.Day, error) {
	if title == "" {
		return nil, errors.New("day title is required")
	}

	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	day.Title = title
	if err := s.dayRepo.Update(ctx, day); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return day, nil
}

// DeleteDay removes a day if and only if it owns zero workouts.
//
// The emptiness check is a fresh count against the store, issued immediately
// before the delete — any cached or subscribed count a caller may hold is not
// trusted. A workout inserted between the count and the delete write is a
// known race this design does not eliminate.
func (s *dayService) DeleteDay(ctx context.Context, dayID primitive.ObjectID) error {
	if _, err := s.dayRepo.GetByID(ctx, dayID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDayNotFound
		}
		return err
	}

	count, err := s.workoutRepo.CountByDayID(ctx, dayID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDayHasWorkouts
	}

	err = s.dayRepo.Delete(ctx, dayID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrDayNotFound
	}
	return err
}
