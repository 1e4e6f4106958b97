package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ActivityHandler serves the activity feed endpoints.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// --- DTOs ---

type ActivityResponse struct {
	ID          string              `json:"id"`
	Type        domain.ActivityType `json:"type"`
	ClientName  string              `json:"clientName"`
	ProgramName string              `json:"programName,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// MapActivityToResponse converts a domain.ActivityEntry to its DTO.
func MapActivityToResponse(e *domain.ActivityEntry) ActivityResponse {
	if e == nil {
		return ActivityResponse{}
	}
	return ActivityResponse{
		ID:          e.ID.Hex(),
		Type:        e.Type,
		ClientName:  e.ClientName,
		ProgramName: e.ProgramName,
		Timestamp:   e.Timestamp,
	}
}

// --- Handler Methods ---

// ListRecent returns the newest feed entries, most recent first. A ?limit=
// query parameter caps the result (default 50).
func (h *ActivityHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	entries, err := h.activityService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve activity feed.")
		return
	}

	responses := make([]ActivityResponse, len(entries))
	for i, e := range entries {
		responses[i] = MapActivityToResponse(&e)
	}
	c.JSON(http.StatusOK, responses)
}

// Stream pushes new activity entries to the client as server-sent events,
// backed by the store's change stream. The connection stays open until the
// client disconnects or the stream ends.
func (h *ActivityHandler) Stream(c *gin.Context) {
	entries, err := h.activityService.Stream(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to open activity stream.")
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case entry, open := <-entries:
			if !open {
				return false
			}
			c.SSEvent("activity", MapActivityToResponse(&entry))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
