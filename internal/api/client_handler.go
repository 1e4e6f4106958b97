package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ClientHandler serves the client (athlete) and assignment endpoints.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AssignProgramRequest struct {
	ProgramID string `json:"programId" binding:"required"`
}

type AssignmentResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	ProgramID   string    `json:"programId"`
	ProgramName string    `json:"programName"`
	AssignedAt  time.Time `json:"assignedAt"`
}

// MapClientToResponse converts a domain.Client to its DTO.
func MapClientToResponse(cl *domain.Client) ClientResponse {
	if cl == nil {
		return ClientResponse{}
	}
	return ClientResponse{
		ID:        cl.ID.Hex(),
		Name:      cl.Name,
		Email:     cl.Email,
		IsActive:  cl.IsActive,
		CreatedAt: cl.CreatedAt,
		UpdatedAt: cl.UpdatedAt,
	}
}

// MapAssignmentToResponse converts a domain.ProgramAssignment to its DTO.
func MapAssignmentToResponse(a *domain.ProgramAssignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	return AssignmentResponse{
		ID:          a.ID.Hex(),
		ClientID:    a.ClientID.Hex(),
		ProgramID:   a.ProgramID.Hex(),
		ProgramName: a.ProgramName,
		AssignedAt:  a.AssignedAt,
	}
}

// --- Handler Methods ---

// OnboardClient godoc
// @Summary Onboard a new client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body ClientRequest true "Client details"
// @Success 201 {object} ClientResponse
// @Router /clients [post]
func (h *ClientHandler) OnboardClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.OnboardClient(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to onboard client.")
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

// ListClients lists clients, excluding archived ones unless ?inactive=true.
func (h *ClientHandler) ListClients(c *gin.Context) {
	includeInactive := c.Query("inactive") == "true"

	clients, err := h.clientService.ListClients(c.Request.Context(), includeInactive)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients.")
		return
	}
	if clients == nil {
		c.JSON(http.StatusOK, []ClientResponse{})
		return
	}

	responses := make([]ClientResponse, len(clients))
	for i, cl := range clients {
		responses[i] = MapClientToResponse(&cl)
	}
	c.JSON(http.StatusOK, responses)
}

// GetClient returns a single client by id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, ok := parseObjectIDParam(c, "clientId")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve client.")
		}
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// UpdateClient edits a client's name and email.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := parseObjectIDParam(c, "clientId")
	if !ok {
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update client.")
		}
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// ArchiveClient marks a client inactive. Assignments stay untouched.
func (h *ClientHandler) ArchiveClient(c *gin.Context) {
	h.setActive(c, false)
}

// RestoreClient marks a client active again.
func (h *ClientHandler) RestoreClient(c *gin.Context) {
	h.setActive(c, true)
}

func (h *ClientHandler) setActive(c *gin.Context, active bool) {
	clientID, ok := parseObjectIDParam(c, "clientId")
	if !ok {
		return
	}

	if err := h.clientService.SetActive(c.Request.Context(), clientID, active); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update client.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignProgram creates a client<->program assignment.
func (h *ClientHandler) AssignProgram(c *gin.Context) {
	clientID, ok := parseObjectIDParam(c, "clientId")
	if !ok {
		return
	}
	var req AssignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	programID, err := parseObjectID(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid programId format.")
		return
	}

	assignment, err := h.clientService.AssignProgram(c.Request.Context(), clientID, programID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign program.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapAssignmentToResponse(assignment))
}

// GetAssignments lists a client's assignments, newest first.
func (h *ClientHandler) GetAssignments(c *gin.Context) {
	clientID, ok := parseObjectIDParam(c, "clientId")
	if !ok {
		return
	}

	assignments, err := h.clientService.GetAssignments(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments.")
		return
	}

	responses := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = MapAssignmentToResponse(&a)
	}
	c.JSON(http.StatusOK, responses)
}

// Unassign deletes an assignment record.
func (h *ClientHandler) Unassign(c *gin.Context) {
	assignmentID, ok := parseObjectIDParam(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.clientService.Unassign(c.Request.Context(), assignmentID); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to remove assignment.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
