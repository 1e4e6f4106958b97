package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"log"
)

// ActivityService records and reads the activity feed.
//
// Record is fire-and-forget: a failed write must never fail the operation that
// triggered it, so errors are logged and swallowed.
type ActivityService interface {
	Record(ctx context.Context, activityType domain.ActivityType, clientName, programName string)
	ListRecent(ctx context.Context, limit int64) ([]domain.ActivityEntry, error)
	Stream(ctx context.Context) (<-chan domain.ActivityEntry, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new instance of activityService.
func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

// Record appends an entry to the feed. Errors are logged, not returned.
func (s *activityService) Record(ctx context.Context, activityType domain.ActivityType, clientName, programName string) {
	entry := &domain.ActivityEntry{
		Type:        activityType,
		ClientName:  clientName,
		ProgramName: programName,
	}
	if _, err := s.activityRepo.Create(ctx, entry); err != nil {
		log.Printf("WARN: failed to record %s activity for %q: %v", activityType, clientName, err)
	}
}

const defaultActivityLimit = 50

// ListRecent returns the newest feed entries, most recent first.
func (s *activityService) ListRecent(ctx context.Context, limit int64) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.activityRepo.ListRecent(ctx, limit)
}

// Stream tails the feed via the store's change stream.
func (s *activityService) Stream(ctx context.Context) (<-chan domain.ActivityEntry, error) {
	return s.activityRepo.Watch(ctx)
}
