package service

import (
	"coachdesk/internal/domain"
	"context"
	"errors"
	"testing"
)

func newDayServiceFixture() (DayService, *fakeProgramRepo, *fakeDayRepo, *fakeWorkoutRepo) {
	programRepo := newFakeProgramRepo()
	dayRepo := newFakeDayRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := NewDayService(programRepo, dayRepo, workoutRepo)
	return svc, programRepo, dayRepo, workoutRepo
}

func TestCreateDayNumbersSequentially(t *testing.T) {
	ctx := context.Background()
	svc, programRepo, _, _ := newDayServiceFixture()

	program := &domain.Program{Name: "Strength Block"}
	programID, err := programRepo.Create(ctx, program)
	if err != nil {
		t.Fatalf("seed program: %v", err)
	}

	first, err := svc.CreateDay(ctx, programID, "Push")
	if err != nil {
		t.Fatalf("CreateDay: %v", err)
	}
	second, err := svc.CreateDay(ctx, programID, "Pull")
	if err != nil {
		t.Fatalf("CreateDay: %v", err)
	}

	if first.DayNumber != 1 {
		t.Errorf("first day number = %d, want 1", first.DayNumber)
	}
	if second.DayNumber != 2 {
		t.Errorf("second day number = %d, want 2", second.DayNumber)
	}
}

func TestCreateDayUnknownProgram(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newDayServiceFixture()

	if _, err := svc.CreateDay(ctx, newTestID(), "Push"); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("CreateDay error = %v, want ErrProgramNotFound", err)
	}
}

func TestDeleteDayBlockedWhenDayHasWorkouts(t *testing.T) {
	ctx := context.Background()
	svc, programRepo, dayRepo, workoutRepo := newDayServiceFixture()

	programID, _ := programRepo.Create(ctx, &domain.Program{Name: "Strength Block"})
	dayID, _ := dayRepo.Create(ctx, &domain.Day{ProgramID: programID, Title: "Push", DayNumber: 1})
	if _, err := workoutRepo.Create(ctx, &domain.Workout{DayID: dayID, ProgramID: programID, Title: "Bench Press"}); err != nil {
		t.Fatalf("seed workout: %v", err)
	}

	err := svc.DeleteDay(ctx, dayID)
	if !errors.Is(err, ErrDayHasWorkouts) {
		t.Fatalf("DeleteDay error = %v, want ErrDayHasWorkouts", err)
	}
	if err.Error() != "cannot delete a day that contains workouts" {
		t.Errorf("error message = %q", err.Error())
	}

	// Refusal must leave the day in place.
	if _, err := dayRepo.GetByID(ctx, dayID); err != nil {
		t.Errorf("day was removed despite guard: %v", err)
	}
}

func TestDeleteDayRemovesEmptyDay(t *testing.T) {
	ctx := context.Background()
	svc, programRepo, dayRepo, _ := newDayServiceFixture()

	programID, _ := programRepo.Create(ctx, &domain.Program{Name: "Strength Block"})
	dayID, _ := dayRepo.Create(ctx, &domain.Day{ProgramID: programID, Title: "Rest", DayNumber: 1})

	if err := svc.DeleteDay(ctx, dayID); err != nil {
		t.Fatalf("DeleteDay: %v", err)
	}
	if _, err := dayRepo.GetByID(ctx, dayID); err == nil {
		t.Error("day still present after delete")
	}
}

func TestDeleteDayAllowedAfterLastWorkoutRemoved(t *testing.T) {
	ctx := context.Background()
	svc, programRepo, dayRepo, workoutRepo := newDayServiceFixture()

	programID, _ := programRepo.Create(ctx, &domain.Program{Name: "Strength Block"})
	dayID, _ := dayRepo.Create(ctx, &domain.Day{ProgramID: programID, Title: "Push", DayNumber: 1})
	workoutID, _ := workoutRepo.Create(ctx, &domain.Workout{DayID: dayID, ProgramID: programID, Title: "Bench Press"})

	if err := svc.DeleteDay(ctx, dayID); !errors.Is(err, ErrDayHasWorkouts) {
		t.Fatalf("DeleteDay before emptying = %v, want ErrDayHasWorkouts", err)
	}

	// The count is taken fresh each attempt, so removing the workout
	// unblocks the very next call.
	if err := workoutRepo.Delete(ctx, workoutID); err != nil {
		t.Fatalf("delete workout: %v", err)
	}
	if err := svc.DeleteDay(ctx, dayID); err != nil {
		t.Fatalf("DeleteDay after emptying: %v", err)
	}
}

func TestDeleteDayNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newDayServiceFixture()

	if err := svc.DeleteDay(ctx, newTestID()); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("DeleteDay error = %v, want ErrDayNotFound", err)
	}
}
