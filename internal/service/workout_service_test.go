package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/ordering"
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newWorkoutServiceFixture() (WorkoutService, *fakeDayRepo, *fakeWorkoutRepo, *fakeEquipmentRepo, *fakeFileStorage) {
	dayRepo := newFakeDayRepo()
	workoutRepo := newFakeWorkoutRepo()
	equipmentRepo := newFakeEquipmentRepo()
	fs := &fakeFileStorage{}
	svc := NewWorkoutService(dayRepo, workoutRepo, equipmentRepo, fs)
	return svc, dayRepo, workoutRepo, equipmentRepo, fs
}

// seedDayWithWorkouts creates a day holding the given workout titles at
// consecutive order indexes and returns the day id and workout ids in order.
func seedDayWithWorkouts(t *testing.T, dayRepo *fakeDayRepo, workoutRepo *fakeWorkoutRepo, titles ...string) (primitive.ObjectID, []primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()

	programID := newTestID()
	dayID, err := dayRepo.Create(ctx, &domain.Day{ProgramID: programID, Title: "Upper", DayNumber: 1})
	if err != nil {
		t.Fatalf("seed day: %v", err)
	}

	ids := make([]primitive.ObjectID, len(titles))
	for i, title := range titles {
		id, err := workoutRepo.Create(ctx, &domain.Workout{
			DayID:      dayID,
			ProgramID:  programID,
			Title:      title,
			OrderIndex: i,
		})
		if err != nil {
			t.Fatalf("seed workout %q: %v", title, err)
		}
		ids[i] = id
	}
	return dayID, ids
}

func TestCreateWorkoutAppendsAtEnd(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	dayID, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press", "Barbell Row")

	// Leave a gap: deleting the first workout must not affect where the
	// next one lands.
	if err := workoutRepo.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete workout: %v", err)
	}

	created, err := svc.CreateWorkout(ctx, dayID, "Pull Up", "3xAMRAP", nil)
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}
	if created.OrderIndex != 2 {
		t.Errorf("new workout order index = %d, want 2 (max+1)", created.OrderIndex)
	}
}

func TestCreateWorkoutFirstInDay(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, _, _, _ := newWorkoutServiceFixture()
	dayID, _ := dayRepo.Create(ctx, &domain.Day{ProgramID: newTestID(), Title: "Upper", DayNumber: 1})

	created, err := svc.CreateWorkout(ctx, dayID, "Bench Press", "", nil)
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}
	if created.OrderIndex != 0 {
		t.Errorf("first workout order index = %d, want 0", created.OrderIndex)
	}
}

func TestCreateWorkoutUnknownEquipment(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, _, _, _ := newWorkoutServiceFixture()
	dayID, _ := dayRepo.Create(ctx, &domain.Day{ProgramID: newTestID(), Title: "Upper", DayNumber: 1})

	_, err := svc.CreateWorkout(ctx, dayID, "Bench Press", "", []primitive.ObjectID{newTestID()})
	if !errors.Is(err, ErrEquipmentNotFound) {
		t.Errorf("CreateWorkout error = %v, want ErrEquipmentNotFound", err)
	}
}

func TestMoveWorkoutSwapsWithNeighbor(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	_, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press", "Barbell Row", "Pull Up")

	if err := svc.MoveWorkout(ctx, ids[1], ordering.DirectionUp); err != nil {
		t.Fatalf("MoveWorkout: %v", err)
	}

	moved, _ := workoutRepo.GetByID(ctx, ids[1])
	neighbor, _ := workoutRepo.GetByID(ctx, ids[0])
	bystander, _ := workoutRepo.GetByID(ctx, ids[2])
	if moved.OrderIndex != 0 || neighbor.OrderIndex != 1 {
		t.Errorf("after move up: moved=%d neighbor=%d, want 0 and 1", moved.OrderIndex, neighbor.OrderIndex)
	}
	if bystander.OrderIndex != 2 {
		t.Errorf("bystander order index = %d, want untouched 2", bystander.OrderIndex)
	}
	if workoutRepo.setOrderCalls != 2 {
		t.Errorf("order writes = %d, want exactly 2", workoutRepo.setOrderCalls)
	}
}

func TestMoveWorkoutThereAndBack(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	dayID, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press", "Barbell Row")

	if err := svc.MoveWorkout(ctx, ids[0], ordering.DirectionDown); err != nil {
		t.Fatalf("move down: %v", err)
	}
	if err := svc.MoveWorkout(ctx, ids[0], ordering.DirectionUp); err != nil {
		t.Fatalf("move up: %v", err)
	}

	workouts, _ := workoutRepo.GetByDayID(ctx, dayID)
	if workouts[0].ID != ids[0] || workouts[1].ID != ids[1] {
		t.Error("round trip did not restore original order")
	}
}

func TestMoveWorkoutBoundaryIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	_, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press", "Barbell Row")

	if err := svc.MoveWorkout(ctx, ids[0], ordering.DirectionUp); err != nil {
		t.Fatalf("move first up: %v", err)
	}
	if err := svc.MoveWorkout(ctx, ids[1], ordering.DirectionDown); err != nil {
		t.Fatalf("move last down: %v", err)
	}

	if workoutRepo.setOrderCalls != 0 {
		t.Errorf("order writes = %d, want 0 for boundary moves", workoutRepo.setOrderCalls)
	}
	first, _ := workoutRepo.GetByID(ctx, ids[0])
	last, _ := workoutRepo.GetByID(ctx, ids[1])
	if first.OrderIndex != 0 || last.OrderIndex != 1 {
		t.Errorf("boundary move changed indexes: %d, %d", first.OrderIndex, last.OrderIndex)
	}
}

func TestMoveWorkoutInvalidDirection(t *testing.T) {
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	_, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press")

	err := svc.MoveWorkout(context.Background(), ids[0], ordering.Direction("sideways"))
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("MoveWorkout error = %v, want ErrInvalidDirection", err)
	}
}

func TestMoveWorkoutSecondWriteFailureSurfaced(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	_, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press", "Barbell Row")

	workoutRepo.failSetOrderAfter = 1
	err := svc.MoveWorkout(ctx, ids[1], ordering.DirectionUp)
	if err == nil {
		t.Fatal("MoveWorkout succeeded, want error from second write")
	}
	if !strings.Contains(err.Error(), "reorder partially applied") {
		t.Errorf("error = %v, want partial-apply wrapping", err)
	}
	// The first write landed and stays: no rollback.
	moved, _ := workoutRepo.GetByID(ctx, ids[1])
	if moved.OrderIndex != 0 {
		t.Errorf("moved workout index = %d, want first write (0) applied", moved.OrderIndex)
	}
}

func TestDeleteWorkoutRemovesVideoObject(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, workoutRepo, _, fs := newWorkoutServiceFixture()
	dayID, _ := dayRepo.Create(ctx, &domain.Day{ProgramID: newTestID(), Title: "Upper", DayNumber: 1})
	workoutID, _ := workoutRepo.Create(ctx, &domain.Workout{
		DayID:          dayID,
		Title:          "Bench Press",
		VideoObjectKey: "workout-videos/abc/def",
	})

	if err := svc.DeleteWorkout(ctx, workoutID); err != nil {
		t.Fatalf("DeleteWorkout: %v", err)
	}
	if _, err := workoutRepo.GetByID(ctx, workoutID); err == nil {
		t.Error("workout still present after delete")
	}
	if len(fs.deletedKeys) != 1 || fs.deletedKeys[0] != "workout-videos/abc/def" {
		t.Errorf("deleted storage keys = %v, want the workout's video key", fs.deletedKeys)
	}
}

func TestDeleteWorkoutKeepsVideoSharedWithDuplicate(t *testing.T) {
	ctx := context.Background()
	programRepo := newFakeProgramRepo()
	dayRepo := newFakeDayRepo()
	workoutRepo := newFakeWorkoutRepo()
	fs := &fakeFileStorage{}
	programSvc := NewProgramService(programRepo, dayRepo, workoutRepo)
	workoutSvc := NewWorkoutService(dayRepo, workoutRepo, newFakeEquipmentRepo(), fs)

	programID, _ := programRepo.Create(ctx, &domain.Program{Name: "Strength Block"})
	dayID, _ := dayRepo.Create(ctx, &domain.Day{ProgramID: programID, Title: "Upper", DayNumber: 1})
	sourceID, _ := workoutRepo.Create(ctx, &domain.Workout{
		DayID:          dayID,
		ProgramID:      programID,
		Title:          "Bench Press",
		VideoObjectKey: "workout-videos/src/bench",
	})

	// Duplication copies the video key, so source and copy share the object.
	if _, err := programSvc.DuplicateProgram(ctx, programID); err != nil {
		t.Fatalf("DuplicateProgram: %v", err)
	}

	if err := workoutSvc.DeleteWorkout(ctx, sourceID); err != nil {
		t.Fatalf("delete source workout: %v", err)
	}
	if len(fs.deletedKeys) != 0 {
		t.Fatalf("storage deletes = %v, want none while the copy still references the object", fs.deletedKeys)
	}

	var copyID primitive.ObjectID
	for id, w := range workoutRepo.workouts {
		if w.VideoObjectKey == "workout-videos/src/bench" {
			copyID = id
		}
	}
	if copyID.IsZero() {
		t.Fatal("copied workout lost its video key")
	}
	if _, err := workoutSvc.GetVideoDownloadURL(ctx, copyID); err != nil {
		t.Fatalf("copy's video no longer resolves: %v", err)
	}

	// The last referent takes the object with it.
	if err := workoutSvc.DeleteWorkout(ctx, copyID); err != nil {
		t.Fatalf("delete copied workout: %v", err)
	}
	if len(fs.deletedKeys) != 1 || fs.deletedKeys[0] != "workout-videos/src/bench" {
		t.Errorf("storage deletes = %v, want the object removed with its last referent", fs.deletedKeys)
	}
}

func TestRequestVideoUploadURLRecordsKey(t *testing.T) {
	ctx := context.Background()
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	_, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press")

	uploadURL, objectKey, err := svc.RequestVideoUploadURL(ctx, ids[0], "video/mp4")
	if err != nil {
		t.Fatalf("RequestVideoUploadURL: %v", err)
	}
	if !strings.HasPrefix(objectKey, "workout-videos/"+ids[0].Hex()+"/") {
		t.Errorf("object key = %q, want workout-videos/<id>/ prefix", objectKey)
	}
	if !strings.Contains(uploadURL, objectKey) {
		t.Errorf("upload URL %q does not reference object key", uploadURL)
	}

	stored, _ := workoutRepo.GetByID(ctx, ids[0])
	if stored.VideoObjectKey != objectKey {
		t.Errorf("stored video key = %q, want %q", stored.VideoObjectKey, objectKey)
	}
}

func TestGetVideoDownloadURLWithoutVideo(t *testing.T) {
	svc, dayRepo, workoutRepo, _, _ := newWorkoutServiceFixture()
	_, ids := seedDayWithWorkouts(t, dayRepo, workoutRepo, "Bench Press")

	if _, err := svc.GetVideoDownloadURL(context.Background(), ids[0]); !errors.Is(err, ErrWorkoutNoVideo) {
		t.Errorf("GetVideoDownloadURL error = %v, want ErrWorkoutNoVideo", err)
	}
}
