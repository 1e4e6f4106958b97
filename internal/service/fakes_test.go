package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// In-memory fakes for the repository interfaces. They model the same
// semantics as the Mongo implementations (ErrNotFound, fresh counts, partial
// field updates) so the services can be exercised without a store.

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]*domain.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: map[primitive.ObjectID]*domain.Program{}}
}

func (r *fakeProgramRepo) Create(ctx context.Context, p *domain.Program) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.programs[p.ID] = &cp
	return p.ID, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgramRepo) List(ctx context.Context, includeArchived bool) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range r.programs {
		if !includeArchived && p.IsArchived {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProgramRepo) Update(ctx context.Context, p *domain.Program) error {
	stored, ok := r.programs[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.Price = p.Price
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeProgramRepo) SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error {
	stored, ok := r.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.IsArchived = archived
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeDayRepo struct {
	days map[primitive.ObjectID]*domain.Day
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: map[primitive.ObjectID]*domain.Day{}}
}

func (r *fakeDayRepo) Create(ctx context.Context, d *domain.Day) (primitive.ObjectID, error) {
	d.ID = primitive.NewObjectID()
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	r.days[d.ID] = &cp
	return d.ID, nil
}

func (r *fakeDayRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error) {
	d, ok := r.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDayRepo) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Day, error) {
	var out []domain.Day
	for _, d := range r.days {
		if d.ProgramID == programID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (r *fakeDayRepo) CountByProgramID(ctx context.Context, programID primitive.ObjectID) (int64, error) {
	var n int64
	for _, d := range r.days {
		if d.ProgramID == programID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDayRepo) Update(ctx context.Context, d *domain.Day) error {
	stored, ok := r.days[d.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = d.Title
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeDayRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.days[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.days, id)
	return nil
}

type fakeWorkoutRepo struct {
	workouts          map[primitive.ObjectID]*domain.Workout
	createCalls       int
	failCreateAfter   int // fail Create once this many calls have succeeded; 0 disables
	setOrderCalls     int
	failSetOrderAfter int // fail SetOrderIndex once this many calls have succeeded; 0 disables
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: map[primitive.ObjectID]*domain.Workout{}}
}

func (r *fakeWorkoutRepo) Create(ctx context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	if r.failCreateAfter > 0 && r.createCalls >= r.failCreateAfter {
		return primitive.NilObjectID, errors.New("store write failed")
	}
	r.createCalls++
	w.ID = primitive.NewObjectID()
	w.CreatedAt = time.Now().UTC()
	w.UpdatedAt = w.CreatedAt
	cp := *w
	r.workouts[w.ID] = &cp
	return w.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWorkoutRepo) GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range r.workouts {
		if w.DayID == dayID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeWorkoutRepo) CountByDayID(ctx context.Context, dayID primitive.ObjectID) (int64, error) {
	var n int64
	for _, w := range r.workouts {
		if w.DayID == dayID {
			n++
		}
	}
	return n, nil
}

func (r *fakeWorkoutRepo) CountByVideoObjectKey(ctx context.Context, objectKey string) (int64, error) {
	var n int64
	for _, w := range r.workouts {
		if w.VideoObjectKey == objectKey {
			n++
		}
	}
	return n, nil
}

func (r *fakeWorkoutRepo) MaxOrderIndex(ctx context.Context, dayID primitive.ObjectID) (int, error) {
	max := -1
	for _, w := range r.workouts {
		if w.DayID == dayID && w.OrderIndex > max {
			max = w.OrderIndex
		}
	}
	return max, nil
}

func (r *fakeWorkoutRepo) Update(ctx context.Context, w *domain.Workout) error {
	stored, ok := r.workouts[w.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = w.Title
	stored.Instructions = w.Instructions
	stored.EquipmentIDs = w.EquipmentIDs
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeWorkoutRepo) SetOrderIndex(ctx context.Context, id primitive.ObjectID, orderIndex int) error {
	if r.failSetOrderAfter > 0 && r.setOrderCalls >= r.failSetOrderAfter {
		return errors.New("store write failed")
	}
	stored, ok := r.workouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.OrderIndex = orderIndex
	stored.UpdatedAt = time.Now().UTC()
	r.setOrderCalls++
	return nil
}

func (r *fakeWorkoutRepo) SetVideoObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	stored, ok := r.workouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.VideoObjectKey = objectKey
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeWorkoutRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

type fakeClientRepo struct {
	clients map[primitive.ObjectID]*domain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[primitive.ObjectID]*domain.Client{}}
}

func (r *fakeClientRepo) Create(ctx context.Context, cl *domain.Client) (primitive.ObjectID, error) {
	cl.ID = primitive.NewObjectID()
	cl.CreatedAt = time.Now().UTC()
	cl.UpdatedAt = cl.CreatedAt
	cp := *cl
	r.clients[cl.ID] = &cp
	return cl.ID, nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	cl, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *cl
	return &cp, nil
}

func (r *fakeClientRepo) List(ctx context.Context, includeInactive bool) ([]domain.Client, error) {
	var out []domain.Client
	for _, cl := range r.clients {
		if !includeInactive && !cl.IsActive {
			continue
		}
		out = append(out, *cl)
	}
	return out, nil
}

func (r *fakeClientRepo) Update(ctx context.Context, cl *domain.Client) error {
	stored, ok := r.clients[cl.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = cl.Name
	stored.Email = cl.Email
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeClientRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	stored, ok := r.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.IsActive = active
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeAssignmentRepo struct {
	assignments map[primitive.ObjectID]*domain.ProgramAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[primitive.ObjectID]*domain.ProgramAssignment{}}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a *domain.ProgramAssignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	a.AssignedAt = time.Now().UTC()
	cp := *a
	r.assignments[a.ID] = &cp
	return a.ID, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	var out []domain.ProgramAssignment
	for _, a := range r.assignments {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.assignments, id)
	return nil
}

type fakeEquipmentRepo struct {
	items map[primitive.ObjectID]*domain.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: map[primitive.ObjectID]*domain.Equipment{}}
}

func (r *fakeEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) (primitive.ObjectID, error) {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	r.items[e.ID] = &cp
	return e.ID, nil
}

func (r *fakeEquipmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Equipment, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEquipmentRepo) List(ctx context.Context, includeInactive bool) ([]domain.Equipment, error) {
	var out []domain.Equipment
	for _, e := range r.items {
		if !includeInactive && !e.IsActive {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	stored, ok := r.items[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = e.Name
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeEquipmentRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	stored, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.IsActive = active
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeEquipmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeActivityRepo struct {
	entries []domain.ActivityEntry
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (r *fakeActivityRepo) Create(ctx context.Context, e *domain.ActivityEntry) (primitive.ObjectID, error) {
	if e.Type == "" || e.ClientName == "" {
		return primitive.NilObjectID, errors.New("activity entry requires type and clientName")
	}
	e.ID = primitive.NewObjectID()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	r.entries = append(r.entries, *e)
	return e.ID, nil
}

func (r *fakeActivityRepo) ListRecent(ctx context.Context, limit int64) ([]domain.ActivityEntry, error) {
	out := make([]domain.ActivityEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeActivityRepo) Watch(ctx context.Context) (<-chan domain.ActivityEntry, error) {
	ch := make(chan domain.ActivityEntry)
	close(ch)
	return ch, nil
}

// fakeFileStorage satisfies storage.FileStorage without touching S3.
type fakeFileStorage struct {
	deletedKeys []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}
