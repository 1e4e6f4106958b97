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

// EquipmentHandler serves the equipment inventory endpoints.
type EquipmentHandler struct {
	equipmentService service.EquipmentService
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(equipmentService service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

// --- DTOs ---

type EquipmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type EquipmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapEquipmentToResponse converts a domain.Equipment to its DTO.
func MapEquipmentToResponse(e *domain.Equipment) EquipmentResponse {
	if e == nil {
		return EquipmentResponse{}
	}
	return EquipmentResponse{
		ID:        e.ID.Hex(),
		Name:      e.Name,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreateEquipment adds a new inventory item.
func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	equipment, err := h.equipmentService.CreateEquipment(c.Request.Context(), req.Name)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create equipment.")
		return
	}
	c.JSON(http.StatusCreated, MapEquipmentToResponse(equipment))
}

// ListEquipment lists inventory, excluding archived items unless ?inactive=true.
func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
	includeInactive := c.Query("inactive") == "true"

	items, err := h.equipmentService.ListEquipment(c.Request.Context(), includeInactive)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve equipment.")
		return
	}
	if items == nil {
		c.JSON(http.StatusOK, []EquipmentResponse{})
		return
	}

	responses := make([]EquipmentResponse, len(items))
	for i, e := range items {
		responses[i] = MapEquipmentToResponse(&e)
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateEquipment renames an item.
func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	equipmentID, ok := parseObjectIDParam(c, "equipmentId")
	if !ok {
		return
	}
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	equipment, err := h.equipmentService.UpdateEquipment(c.Request.Context(), equipmentID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update equipment.")
		}
		return
	}
	c.JSON(http.StatusOK, MapEquipmentToResponse(equipment))
}

// ArchiveEquipment marks an item inactive.
func (h *EquipmentHandler) ArchiveEquipment(c *gin.Context) {
	h.setActive(c, false)
}

// RestoreEquipment marks an item active again.
func (h *EquipmentHandler) RestoreEquipment(c *gin.Context) {
	h.setActive(c, true)
}

func (h *EquipmentHandler) setActive(c *gin.Context, active bool) {
	equipmentID, ok := parseObjectIDParam(c, "equipmentId")
	if !ok {
		return
	}

	if err := h.equipmentService.SetActive(c.Request.Context(), equipmentID, active); err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update equipment.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteEquipment removes an item. Workouts keep their (now dangling)
// references; the relation is weak by design.
func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	equipmentID, ok := parseObjectIDParam(c, "equipmentId")
	if !ok {
		return
	}

	if err := h.equipmentService.DeleteEquipment(c.Request.Context(), equipmentID); err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete equipment.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
