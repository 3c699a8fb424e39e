package services

import (
	"errors"
	"fmt"
	"time"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceEditRequestService defines the edit request arbitration interface
type InterfaceEditRequestService interface {
	Submit(workOrderID uint, fieldName, proposedValue, reason, requester string) (*models.EditRequest, error)
	ListEditRequests(statusFilter string) ([]EditRequestListItem, error)
	Approve(requestID uint, reviewer string) (*models.EditRequest, error)
	Reject(requestID uint, reviewer string) (*models.EditRequest, error)
}

// EditRequestListItem is an edit request joined with its parent work order
// for review screens.
type EditRequestListItem struct {
	models.EditRequest
	Serial          string `json:"serial"`
	Technician      string `json:"technician"`
	WorkOrderStatus string `json:"work_order_status"`
}

// EditRequestService mediates out-of-window or cross-role changes to work
// orders. Requests are created Pending and move exactly once to Approved or
// Rejected; approval applies the proposed value only for allow-listed
// fields.
type EditRequestService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewEditRequestService creates a new edit request service
func NewEditRequestService(db *gorm.DB, cfg *config.Config) InterfaceEditRequestService {
	return &EditRequestService{
		DB:     db,
		Config: cfg,
	}
}

// Submit creates a Pending request against the work order. The field name
// is not validated against the work order schema and the requester is not
// required to own the work order; both are accepted as submitted and
// arbitrated later. Only a nonexistent work order id is rejected.
func (s *EditRequestService) Submit(workOrderID uint, fieldName, proposedValue, reason, requester string) (*models.EditRequest, error) {
	var count int64
	if err := s.DB.Model(&models.WorkOrder{}).Where("id = ?", workOrderID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("work order %d: %w", workOrderID, ErrNotFound)
	}

	request := &models.EditRequest{
		WorkOrderID:   workOrderID,
		FieldName:     fieldName,
		ProposedValue: proposedValue,
		Reason:        reason,
		Status:        models.EditRequestStatusPending,
		RequestedBy:   requester,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("create edit request: %w", err)
	}
	return request, nil
}

// ListEditRequests returns requests joined with their parent work order's
// serial, technician and status, newest first. An empty filter returns all
// requests.
func (s *EditRequestService) ListEditRequests(statusFilter string) ([]EditRequestListItem, error) {
	var items []EditRequestListItem

	query := s.DB.Table("edit_requests").
		Select("edit_requests.*, work_orders.serial AS serial, work_orders.technician AS technician, work_orders.status AS work_order_status").
		Joins("JOIN work_orders ON work_orders.id = edit_requests.work_order_id").
		Order("edit_requests.created_at DESC")

	if statusFilter != "" {
		query = query.Where("edit_requests.status = ?", statusFilter)
	}

	if err := query.Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Approve finalizes the request and applies the proposed value to the work
// order when the field is allow-listed.
func (s *EditRequestService) Approve(requestID uint, reviewer string) (*models.EditRequest, error) {
	return s.review(requestID, models.EditRequestStatusApproved, reviewer)
}

// Reject finalizes the request without touching the work order.
func (s *EditRequestService) Reject(requestID uint, reviewer string) (*models.EditRequest, error) {
	return s.review(requestID, models.EditRequestStatusRejected, reviewer)
}

// review performs the single terminal transition. Everything happens in one
// transaction: claiming the Pending row, applying the value on approval, and
// the reviewer bookkeeping. The conditional UPDATE on status is what makes
// two concurrent reviewers safe: exactly one claims the row, the other sees
// zero rows affected and gets ErrInvalidState without altering anything.
func (s *EditRequestService) review(requestID uint, decision, reviewer string) (*models.EditRequest, error) {
	var request models.EditRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("edit request %d: %w", requestID, ErrNotFound)
			}
			return err
		}

		if request.Status != models.EditRequestStatusPending {
			return fmt.Errorf("edit request %d already %s: %w", requestID, request.Status, ErrInvalidState)
		}

		now := time.Now().UTC()
		claim := tx.Model(&models.EditRequest{}).
			Where("id = ? AND status = ?", requestID, models.EditRequestStatusPending).
			Updates(map[string]interface{}{
				"status":      decision,
				"reviewed_by": reviewer,
				"reviewed_at": now,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return fmt.Errorf("edit request %d claimed by another reviewer: %w", requestID, ErrInvalidState)
		}

		if decision == models.EditRequestStatusApproved {
			if err := applyProposedValue(tx, &request); err != nil {
				return err
			}
		}

		request.Status = decision
		request.ReviewedBy = &reviewer
		request.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// applyProposedValue writes the proposed value to the parent work order.
// Only the two statically-known mutable columns can ever be written; any
// other field name leaves the work order untouched while the request is
// still marked Approved. Field names never reach SQL as text.
func applyProposedValue(tx *gorm.DB, request *models.EditRequest) error {
	var result *gorm.DB
	switch request.FieldName {
	case "maintenance_type":
		result = tx.Model(&models.WorkOrder{}).
			Where("id = ?", request.WorkOrderID).
			Update("maintenance_type", request.ProposedValue)
	case "status":
		result = tx.Model(&models.WorkOrder{}).
			Where("id = ?", request.WorkOrderID).
			Update("status", request.ProposedValue)
	default:
		// Not allow-listed: approval records the decision only.
		return nil
	}

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("work order %d: %w", request.WorkOrderID, ErrNotFound)
	}
	return nil
}
