package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentService manages the equipment inventory. Equipment is referenced
// weakly from workouts, so nothing here ever touches workout documents.
type EquipmentService interface {
	CreateEquipment(ctx context.Context, name string) (*domain.Equipment, error)
	ListEquipment(ctx context.Context, includeInactive bool) ([]domain.Equipment, error)
	UpdateEquipment(ctx context.Context, equipmentID primitive.ObjectID, name string) (*domain.Equipment, error)
	SetActive(ctx context.Context, equipmentID primitive.ObjectID, active bool) error
	DeleteEquipment(ctx context.Context, equipmentID primitive.ObjectID) error
}

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
}

// NewEquipmentService creates a new instance of equipmentService.
func NewEquipmentService(equipmentRepo repository.EquipmentRepository) EquipmentService {
	return &equipmentService{equipmentRepo: equipmentRepo}
}

// CreateEquipment adds a new, active inventory item.
func (s *equipmentService) CreateEquipment(ctx context.Context, name string) (*domain.Equipment, error) {
	if name == "" {
		return nil, errors.New("equipment name is required")
	}

	equipment := &domain.Equipment{
		Name:     name,
		IsActive: true,
	}
	equipmentID, err := s.equipmentRepo.Create(ctx, equipment)
	if err != nil {
		return nil, err
	}
	equipment.ID = equipmentID
	return equipment, nil
}

// ListEquipment lists inventory items, optionally including archived ones.
func (s *equipmentService) ListEquipment(ctx context.Context, includeInactive bool) ([]domain.Equipment, error) {
	return s.equipmentRepo.List(ctx, includeInactive)
}

// UpdateEquipment renames an item.
func (s *equipmentService) UpdateEquipment(ctx context.Context, equipmentID primitive.ObjectID, name string) (*domain.Equipment, error) {
	if name == "" {
		return nil, errors.New("equipment name is required")
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}

	equipment.Name = name
	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return equipment, nil
}

// SetActive archives or restores an item; only the flag is flipped.
func (s *equipmentService) SetActive(ctx context.Context, equipmentID primitive.ObjectID, active bool) error {
	err := s.equipmentRepo.SetActive(ctx, equipmentID, active)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEquipmentNotFound
	}
	return err
}

// DeleteEquipment removes an item. Workouts referencing it keep the dangling
// id; lookups simply miss.
func (s *equipmentService) DeleteEquipment(ctx context.Context, equipmentID primitive.ObjectID) error {
	err := s.equipmentRepo.Delete(ctx, equipmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEquipmentNotFound
	}
	return err
}
