package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/ordering"
	"coachdesk/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler serves the workout endpoints.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type WorkoutRequest struct {
	Title        string   `json:"title" binding:"required"`
	Instructions string   `json:"instructions"`
	EquipmentIDs []string `json:"equipmentIds"`
}

type MoveWorkoutRequest struct {
	Direction ordering.Direction `json:"direction" binding:"required,oneof=up down"`
}

type VideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type VideoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type WorkoutResponse struct {
	ID           string    `json:"id"`
	DayID        string    `json:"dayId"`
	ProgramID    string    `json:"programId"`
	Title        string    `json:"title"`
	Instructions string    `json:"instructions,omitempty"`
	HasVideo     bool      `json:"hasVideo"`
	OrderIndex   int       `json:"orderIndex"`
	EquipmentIDs []string  `json:"equipmentIds,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MapWorkoutToResponse converts a domain.Workout to its DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	resp := WorkoutResponse{
		ID:           w.ID.Hex(),
		DayID:        w.DayID.Hex(),
		ProgramID:    w.ProgramID.Hex(),
		Title:        w.Title,
		Instructions: w.Instructions,
		HasVideo:     w.VideoObjectKey != "",
		OrderIndex:   w.OrderIndex,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
	if len(w.EquipmentIDs) > 0 {
		resp.EquipmentIDs = make([]string, len(w.EquipmentIDs))
		for i, id := range w.EquipmentIDs {
			resp.EquipmentIDs[i] = id.Hex()
		}
	}
	return resp
}

func parseEquipmentIDs(raw []string) ([]primitive.ObjectID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, len(raw))
	for i, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid equipment id %q", s)
		}
		ids[i] = id
	}
	return ids, nil
}

// --- Handler Methods ---

// CreateWorkout appends a workout to a day (at the end of the order).
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	equipmentIDs, err := parseEquipmentIDs(req.EquipmentIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), dayID, req.Title, req.Instructions, equipmentIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDayNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEquipmentNotFound):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// GetWorkouts lists a day's workouts sorted by order index.
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}

	workouts, err := h.workoutService.GetWorkoutsForDay(c.Request.Context(), dayID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}

	responses := make([]WorkoutResponse, len(workouts))
	for i, w := range workouts {
		responses[i] = MapWorkoutToResponse(&w)
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateWorkout edits a workout's title, instructions and equipment refs.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	equipmentIDs, err := parseEquipmentIDs(req.EquipmentIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), workoutID, req.Title, req.Instructions, equipmentIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEquipmentNotFound):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout.")
		}
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// MoveWorkout godoc
// @Summary Move a workout up or down within its day
// @Description Swaps order indexes with the adjacent sibling. Moving the first
// @Description workout up or the last one down is a no-op and still returns 204.
// @Tags Workouts
// @Accept json
// @Security BearerAuth
// @Param move body MoveWorkoutRequest true "Direction (up or down)"
// @Success 204
// @Router /workouts/{workoutId}/move [post]
func (h *WorkoutHandler) MoveWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req MoveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.workoutService.MoveWorkout(c.Request.Context(), workoutID, req.Direction); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidDirection):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to reorder workout.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteWorkout removes a workout. Sibling order is not renumbered.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), workoutID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUploadURL returns a presigned PUT URL for a demo video upload.
func (h *WorkoutHandler) RequestVideoUploadURL(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	uploadURL, objectKey, err := h.workoutService.RequestVideoUploadURL(c.Request.Context(), workoutID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, VideoUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// GetVideoDownloadURL returns a presigned GET URL for the demo video.
func (h *WorkoutHandler) GetVideoDownloadURL(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}

	downloadURL, err := h.workoutService.GetVideoDownloadURL(c.Request.Context(), workoutID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWorkoutNoVideo):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}
