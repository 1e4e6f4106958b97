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
	ErrClientNotFound     = errors.New("client not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// ClientService manages athlete records and their program assignments, and
// feeds the activity log as a side effect of lifecycle events.
type ClientService interface {
	OnboardClient(ctx context.Context, name, email string) (*domain.Client, error)
	GetClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Client, error)
	ListClients(ctx context.Context, includeInactive bool) ([]domain.Client, error)
	UpdateClient(ctx context.Context, clientID primitive.ObjectID, name, email string) (*domain.Client, error)
	SetActive(ctx context.Context, clientID primitive.ObjectID, active bool) error
	AssignProgram(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.ProgramAssignment, error)
	GetAssignments(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error)
	Unassign(ctx context.Context, assignmentID primitive.ObjectID) error
}

type clientService struct {
	clientRepo     repository.ClientRepository
	programRepo    repository.ProgramRepository
	assignmentRepo repository.AssignmentRepository
	activity       ActivityService
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	programRepo repository.ProgramRepository,
	assignmentRepo repository.AssignmentRepository,
	activity ActivityService,
) ClientService {
	return &clientService{
		clientRepo:     clientRepo,
		programRepo:    programRepo,
		assignmentRepo: assignmentRepo,
		activity:       activity,
	}
}

// OnboardClient registers a new active client and records the event.
func (s *clientService) OnboardClient(ctx context.Context, name, email string) (*domain.Client, error) {
	if name == "" || email == "" {
		return nil, errors.New("client name and email are required")
	}

	client := &domain.Client{
		Name:     name,
		Email:    email,
		IsActive: true,
	}
	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = clientID

	s.activity.Record(ctx, domain.ActivityOnboarded, client.Name, "")
	return client, nil
}

// GetClient retrieves a single client.
func (s *clientService) GetClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// ListClients lists clients, optionally including archived (inactive) ones.
func (s *clientService) ListClients(ctx context.Context, includeInactive bool) ([]domain.Client, error) {
	return s.clientRepo.List(ctx, includeInactive)
}

// UpdateClient edits a client's name and email in place.
func (s *clientService) UpdateClient(ctx context.Context, clientID primitive.ObjectID, name, email string) (*domain.Client, error) {
	if name == "" || email == "" {
		return nil, errors.New("client name and email are required")
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	client.Name = name
	client.Email = email
	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// SetActive archives (false) or restores (true) a client. Only the flag is
// flipped; assignments and everything else stay as they are. The event is
// recorded to the activity feed.
func (s *clientService) SetActive(ctx context.Context, clientID primitive.ObjectID, active bool) error {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	if err := s.clientRepo.SetActive(ctx, clientID, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	activityType := domain.ActivityArchive
	if active {
		activityType = domain.ActivityRestore
	}
	s.activity.Record(ctx, activityType, client.Name, "")
	return nil
}

// AssignProgram creates a client<->program join record. The program name is
// denormalized onto the assignment at creation time and records the event.
func (s *clientService) AssignProgram(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.ProgramAssignment, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	assignment := &domain.ProgramAssignment{
		ClientID:    clientID,
		ProgramID:   programID,
		ProgramName: program.Name,
	}
	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = assignmentID

	s.activity.Record(ctx, domain.ActivityAssignment, client.Name, program.Name)
	return assignment, nil
}

// GetAssignments lists a client's assignments, newest first.
func (s *clientService) GetAssignments(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	return s.assignmentRepo.GetByClientID(ctx, clientID)
}

// Unassign deletes an assignment record. The client and program are untouched.
func (s *clientService) Unassign(ctx context.Context, assignmentID primitive.ObjectID) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if err := s.assignmentRepo.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	// Client may be gone or renamed; best effort for the feed entry.
	clientName := ""
	if client, err := s.clientRepo.GetByID(ctx, assignment.ClientID); err == nil {
		clientName = client.Name
	}
	s.activity.Record(ctx, domain.ActivityUnassigned, clientName, assignment.ProgramName)
	return nil
}
