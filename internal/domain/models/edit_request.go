package models

import "time"

// Edit request statuses. A request moves from Pending to exactly one of the
// terminal states and never changes again.
const (
	EditRequestStatusPending  = "Pending"
	EditRequestStatusApproved = "Approved"
	EditRequestStatusRejected = "Rejected"
)

// MutableWorkOrderFields is the allow-list of work order columns an approved
// edit request may actually change. Requests naming any other field are still
// accepted and reviewed, but approval leaves the work order untouched. This
// narrow blast radius is deliberate.
var MutableWorkOrderFields = map[string]bool{
	"maintenance_type": true,
	"status":           true,
}

// EditRequest represents a proposed change to a single work order field,
// awaiting admin arbitration. ReviewedBy/ReviewedAt are null exactly while
// the request is Pending.
type EditRequest struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	WorkOrderID   uint       `gorm:"not null;index" json:"work_order_id"`
	FieldName     string     `gorm:"type:varchar(50);not null" json:"field_name"`
	ProposedValue string     `gorm:"type:text" json:"proposed_value"`
	Reason        string     `gorm:"type:text" json:"reason"`
	Status        string     `gorm:"type:varchar(20);not null;index" json:"status"`
	RequestedBy   string     `gorm:"type:varchar(50)" json:"requested_by"`
	CreatedAt     time.Time  `json:"created_at"`
	ReviewedBy    *string    `gorm:"type:varchar(50)" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`

	// Relations
	WorkOrder *WorkOrder `gorm:"foreignKey:WorkOrderID" json:"work_order,omitempty"` // parent work order (many-to-one)
}
