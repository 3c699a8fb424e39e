package models

import "time"

// Work order statuses. Draft is the only creation-time status; Locked is
// reached through an approved edit request, never automatically.
const (
	WorkOrderStatusDraft  = "Draft"
	WorkOrderStatusLocked = "Locked"
)

// WorkOrder represents a single maintenance task tied to one facility and
// one technician. Work orders are append-only; after the edit window closes
// every change goes through edit-request arbitration.
type WorkOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Serial          string    `gorm:"type:varchar(20);unique;not null" json:"serial"` // WO-XXXXXXXX, unique store-wide
	Technician      string    `gorm:"type:varchar(50);not null;index" json:"technician"`
	FacilityID      uint      `gorm:"not null" json:"facility_id"`
	MaintenanceType string    `gorm:"type:varchar(100);not null" json:"maintenance_type"`
	BeforeImage     []byte    `gorm:"type:longblob" json:"before_image,omitempty"`
	AfterImage      []byte    `gorm:"type:longblob" json:"after_image,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	LastSavedAt     time.Time `json:"last_saved_at"`
	EditableUntil   time.Time `json:"editable_until"` // end of the self-service edit window, advisory

	// Relations
	Facility *Facility `gorm:"foreignKey:FacilityID" json:"facility,omitempty"` // referenced facility (many-to-one)
}
