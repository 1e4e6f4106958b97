package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler serves the program and day endpoints.
type ProgramHandler struct {
	programService service.ProgramService
	dayService     service.DayService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService, dayService service.DayService) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
		dayService:     dayService,
	}
}

// --- DTOs ---

type ProgramRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
}

type ProgramResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DayRequest struct {
	Title string `json:"title" binding:"required"`
}

type DayResponse struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"programId"`
	Title     string    `json:"title"`
	DayNumber int       `json:"dayNumber"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapProgramToResponse converts a domain.Program to its DTO.
func MapProgramToResponse(p *domain.Program) ProgramResponse {
	if p == nil {
		return ProgramResponse{}
	}
	return ProgramResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		IsArchived:  p.IsArchived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// MapProgramsToResponse converts a slice of domain.Program to DTOs.
func MapProgramsToResponse(programs []domain.Program) []ProgramResponse {
	responses := make([]ProgramResponse, len(programs))
	for i, p := range programs {
		responses[i] = MapProgramToResponse(&p)
	}
	return responses
}

// MapDayToResponse converts a domain.Day to its DTO.
func MapDayToResponse(d *domain.Day) DayResponse {
	if d == nil {
		return DayResponse{}
	}
	return DayResponse{
		ID:        d.ID.Hex(),
		ProgramID: d.ProgramID.Hex(),
		Title:     d.Title,
		DayNumber: d.DayNumber,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// --- Program Handlers ---

// CreateProgram godoc
// @Summary Create a new training program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program body ProgramRequest true "Program details"
// @Success 201 {object} ProgramResponse
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), req.Name, req.Description, req.Price)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create program.")
		return
	}
	c.JSON(http.StatusCreated, MapProgramToResponse(program))
}

// ListPrograms godoc
// @Summary List training programs
// @Description Lists programs, excluding archived ones unless ?archived=true.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param archived query bool false "Include archived programs"
// @Success 200 {array} ProgramResponse
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	includeArchived := c.Query("archived") == "true"

	programs, err := h.programService.ListPrograms(c.Request.Context(), includeArchived)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}
	if programs == nil {
		c.JSON(http.StatusOK, []ProgramResponse{})
		return
	}
	c.JSON(http.StatusOK, MapProgramsToResponse(programs))
}

// GetProgram returns a single program by id.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve program.")
		}
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// UpdateProgram edits a program's name, description and price.
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), programID, req.Name, req.Description, req.Price)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update program.")
		}
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// ArchiveProgram flips the archive flag on. Child days/workouts are untouched.
func (h *ProgramHandler) ArchiveProgram(c *gin.Context) {
	h.setArchived(c, true)
}

// RestoreProgram flips the archive flag off.
func (h *ProgramHandler) RestoreProgram(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *ProgramHandler) setArchived(c *gin.Context, archived bool) {
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}

	if err := h.programService.SetArchived(c.Request.Context(), programID, archived); err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update program.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateProgram godoc
// @Summary Deep-copy a program and its day/workout tree
// @Description Creates a full copy with fresh ids, a "(Copy)" name suffix and
// @Description the archived flag reset. Not atomic: a failure partway leaves
// @Description the partially created copy in place.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Success 201 {object} ProgramResponse
// @Router /programs/{programId}/duplicate [post]
func (h *ProgramHandler) DuplicateProgram(c *gin.Context) {
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}

	program, err := h.programService.DuplicateProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to duplicate program.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapProgramToResponse(program))
}

// --- Day Handlers ---

// CreateDay adds a day to a program with the next sequential number.
func (h *ProgramHandler) CreateDay(c *gin.Context) {
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	var req DayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	day, err := h.dayService.CreateDay(c.Request.Context(), programID, req.Title)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create day.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapDayToResponse(day))
}

// GetDays lists a program's days ordered by day number.
func (h *ProgramHandler) GetDays(c *gin.Context) {
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}

	days, err := h.dayService.GetDaysForProgram(c.Request.Context(), programID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve days.")
		return
	}

	responses := make([]DayResponse, len(days))
	for i, d := range days {
		responses[i] = MapDayToResponse(&d)
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateDay renames a day.
func (h *ProgramHandler) UpdateDay(c *gin.Context) {
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}
	var req DayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	day, err := h.dayService.UpdateDay(c.Request.Context(), dayID, req.Title)
	if err != nil {
		if errors.Is(err, service.ErrDayNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update day.")
		}
		return
	}
	c.JSON(http.StatusOK, MapDayToResponse(day))
}

// DeleteDay godoc
// @Summary Delete an empty day
// @Description Deletes a day only if a fresh check against the store finds
// @Description zero workouts in it. A non-empty day yields 409 Conflict.
// @Tags Programs
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} gin.H "Day not found"
// @Failure 409 {object} gin.H "Day still contains workouts"
// @Router /days/{dayId} [delete]
func (h *ProgramHandler) DeleteDay(c *gin.Context) {
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}

	if err := h.dayService.DeleteDay(c.Request.Context(), dayID); err != nil {
		if errors.Is(err, service.ErrDayNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrDayHasWorkouts) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete day.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// parseObjectIDParam reads a hex ObjectID path parameter, aborting with 400 on
// malformed input.
func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseObjectID converts a hex string from a request body to an ObjectID.
func parseObjectID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}
