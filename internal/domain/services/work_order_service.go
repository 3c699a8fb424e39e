package services

import (
	"errors"
	"fmt"
	"time"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"
	"fieldops-http-service/utils"

	"gorm.io/gorm"
)

// maxSerialAttempts bounds the serial regeneration loop. The serial space is
// 16^8, so a second collision in a row already means something is wrong.
const maxSerialAttempts = 5

// InterfaceWorkOrderService defines the work order lifecycle interface
type InterfaceWorkOrderService interface {
	CreateWorkOrder(technician string, facility *models.Facility, order *models.WorkOrder) error
	GetWorkOrderByID(id uint) (*models.WorkOrder, error)
	UpdateOwnWorkOrder(id uint, technician string, changes SelfEdit) (*models.WorkOrder, error)
	ListWorkOrders(role, username string) ([]models.WorkOrder, error)
}

// SelfEdit carries the fields a technician may change on their own work
// order while the edit window is open. Nil pointers mean "leave unchanged".
// Everything else (status in particular) must go through edit-request
// arbitration.
type SelfEdit struct {
	MaintenanceType *string
	BeforeImage     []byte
	AfterImage      []byte
}

// WorkOrderService is the lifecycle engine: creation defaults, serial
// generation, the editable window and owner self-edits.
type WorkOrderService struct {
	DB     *gorm.DB
	Config *config.Config

	// serialFn is swapped out by tests to force collisions.
	serialFn func() string
}

// NewWorkOrderService creates a new work order service
func NewWorkOrderService(db *gorm.DB, cfg *config.Config) InterfaceWorkOrderService {
	return &WorkOrderService{
		DB:       db,
		Config:   cfg,
		serialFn: utils.GenerateSerial,
	}
}

// IsEditable reports whether the owning technician may still amend the work
// order directly at the given instant. The deadline is advisory: computed
// once at creation, compared at call time, never enforced by storage.
func IsEditable(order *models.WorkOrder, now time.Time) bool {
	return !now.After(order.EditableUntil)
}

// CreateWorkOrder inserts the facility and the work order in one
// transaction. The work order starts as Draft with a fresh serial and an
// edit window of Config.EditWindow from creation. A duplicate serial rolls
// the whole transaction back and retries with a new serial; the database
// uniqueness constraint is the real guarantee, not the random source.
func (s *WorkOrderService) CreateWorkOrder(technician string, facility *models.Facility, order *models.WorkOrder) error {
	now := time.Now().UTC()

	order.Technician = technician
	order.Status = models.WorkOrderStatusDraft
	order.CreatedAt = now
	order.LastSavedAt = now
	order.EditableUntil = now.Add(s.Config.EditWindow())

	var err error
	for attempt := 0; attempt < maxSerialAttempts; attempt++ {
		order.Serial = s.serialFn()
		err = s.createOnce(facility, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConstraintViolation) {
			return err
		}
		// Rolled back in full; reset generated ids before the retry.
		facility.ID = 0
		order.ID = 0
	}
	return err
}

// createOnce runs a single facility+order insert transaction.
func (s *WorkOrderService) createOnce(facility *models.Facility, order *models.WorkOrder) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(facility).Error; err != nil {
			return fmt.Errorf("create facility: %w", err)
		}
		order.FacilityID = facility.ID
		if err := tx.Create(order).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("serial %s: %w", order.Serial, ErrConstraintViolation)
			}
			return fmt.Errorf("create work order: %w", err)
		}
		return nil
	})
}

// GetWorkOrderByID fetches a work order with its facility
func (s *WorkOrderService) GetWorkOrderByID(id uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	if err := s.DB.Preload("Facility").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("work order %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOwnWorkOrder applies a self-service edit. Only the owning
// technician may call it and only while the edit window is open; past the
// deadline every change goes through edit-request arbitration regardless of
// role.
func (s *WorkOrderService) UpdateOwnWorkOrder(id uint, technician string, changes SelfEdit) (*models.WorkOrder, error) {
	order, err := s.GetWorkOrderByID(id)
	if err != nil {
		return nil, err
	}

	if order.Technician != technician {
		return nil, fmt.Errorf("work order %d owned by %s: %w", id, order.Technician, ErrNotOwner)
	}

	if !IsEditable(order, time.Now().UTC()) {
		return nil, fmt.Errorf("edit window closed at %s: %w", order.EditableUntil.Format(time.RFC3339), ErrInvalidState)
	}

	updates := map[string]interface{}{
		"last_saved_at": time.Now().UTC(),
	}
	if changes.MaintenanceType != nil {
		updates["maintenance_type"] = *changes.MaintenanceType
	}
	if changes.BeforeImage != nil {
		updates["before_image"] = changes.BeforeImage
	}
	if changes.AfterImage != nil {
		updates["after_image"] = changes.AfterImage
	}

	if err := s.DB.Model(order).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetWorkOrderByID(id)
}

// ListWorkOrders returns the work orders visible to the caller, facility
// attached, most recent first. Technicians see only their own rows; admins
// see everything.
func (s *WorkOrderService) ListWorkOrders(role, username string) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder

	query := s.DB.Preload("Facility").Order("created_at DESC")
	if role != models.RoleAdmin {
		query = query.Where("technician = ?", username)
	}

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
