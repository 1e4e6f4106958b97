package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound = errors.New("program not found")
)

// ProgramService manages training programs and their deep duplication.
type ProgramService interface {
	CreateProgram(ctx context.Context, name, description string, price float64) (*domain.Program, error)
	GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error)
	ListPrograms(ctx context.Context, includeArchived bool) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, programID primitive.ObjectID, name, description string, price float64) (*domain.Program, error)
	SetArchived(ctx context.Context, programID primitive.ObjectID, archived bool) error
	DuplicateProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error)
}

type programService struct {
	programRepo repository.ProgramRepository
	dayRepo     repository.DayRepository
	workoutRepo repository.WorkoutRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	dayRepo repository.DayRepository,
	workoutRepo repository.WorkoutRepository,
) ProgramService {
	return &programService{
		programRepo: programRepo,
		dayRepo:     dayRepo,
		workoutRepo: workoutRepo,
	}
}

// CreateProgram creates a new, unarchived program.
func (s *programService) CreateProgram(ctx context.Context, name, description string, price float64) (*domain.Program, error) {
	if name == "" {
		return nil, errors.New("program name is required")
	}
	if price < 0 {
		return nil, errors.New("program price cannot be negative")
	}

	program := &domain.Program{
		Name:        name,
		Description: description,
		Price:       price,
		IsArchived:  false,
	}
	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

// GetProgram retrieves a single program.
func (s *programService) GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// ListPrograms retrieves programs, optionally including archived ones.
func (s *programService) ListPrograms(ctx context.Context, includeArchived bool) ([]domain.Program, error) {
	return s.programRepo.List(ctx, includeArchived)
}

// UpdateProgram edits a program's name, description and price in place.
func (s *programService) UpdateProgram(ctx context.Context, programID primitive.ObjectID, name, description string, price float64) (*domain.Program, error) {
	if name == "" {
		return nil, errors.New("program name is required")
	}
	if price < 0 {
		return nil, errors.New("program price cannot be negative")
	}

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	program.Name = name
	program.Description = description
	program.Price = price

	if err := s.programRepo.Update(ctx, program); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// SetArchived flips only the archived flag. Days and workouts belonging to the
// program are never touched: archiving is non-destructive and reversible.
func (s *programService) SetArchived(ctx context.Context, programID primitive.ObjectID, archived bool) error {
	err := s.programRepo.SetArchived(ctx, programID, archived)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// DuplicateProgram deep-copies a program and its entire day/workout tree.
// The copy gets a "(Copy)" name suffix, the archived flag reset to false, and
// fresh ids at every level; titles, day numbers, instructions, order indexes
// and equipment references are preserved.
//
// There is no transaction: a failure partway through leaves the already
// created part of the copy in place, and the error is returned as-is.
func (s *programService) DuplicateProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error) {
	source, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	copyProgram := &domain.Program{
		Name:        fmt.Sprintf("%s (Copy)", source.Name),
		Description: source.Description,
		Price:       source.Price,
		IsArchived:  false, // Always active, even when the source is archived
	}
	copyProgramID, err := s.programRepo.Create(ctx, copyProgram)
	if err != nil {
		return nil, err
	}
	copyProgram.ID = copyProgramID

	days, err := s.dayRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}

	for _, sourceDay := range days {
		copyDay := &domain.Day{
			ProgramID: copyProgramID,
			Title:     sourceDay.Title,
			DayNumber: sourceDay.DayNumber,
		}
		copyDayID, err := s.dayRepo.Create(ctx, copyDay)
		if err != nil {
			return nil, err
		}

		workouts, err := s.workoutRepo.GetByDayID(ctx, sourceDay.ID)
		if err != nil {
			return nil, err
		}
		for _, sourceWorkout := range workouts {
			copyWorkout := &domain.Workout{
				DayID:          copyDayID,
				ProgramID:      copyProgramID,
				Title:          sourceWorkout.Title,
				Instructions:   sourceWorkout.Instructions,
				VideoObjectKey: sourceWorkout.VideoObjectKey,
				OrderIndex:     sourceWorkout.OrderIndex,
				EquipmentIDs:   sourceWorkout.EquipmentIDs,
			}
			if _, err := s.workoutRepo.Create(ctx, copyWorkout); err != nil {
				return nil, err
			}
		}
	}

	return copyProgram, nil
}
