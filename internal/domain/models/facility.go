package models

import "time"

// Facility represents a physical site being serviced. Facilities are
// immutable once created: there is no update or delete path.
type Facility struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Type          string    `gorm:"type:varchar(100);not null" json:"type"`
	Description   string    `gorm:"type:varchar(255);not null" json:"description"`
	Governorate   string    `gorm:"type:varchar(100)" json:"governorate"`
	District      string    `gorm:"type:varchar(100)" json:"district"`
	City          string    `gorm:"type:varchar(100);column:city_or_village" json:"city_or_village"` // village/neighborhood
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	ExternalImage []byte    `gorm:"type:longblob" json:"external_image,omitempty"`
	VisionLabels  string    `gorm:"type:text" json:"vision_labels"`
	CreatedAt     time.Time `json:"created_at"`
}
