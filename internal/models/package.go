package models

import (
	"time"
)

const DefaultImageFile = "default.jpg"

type Package struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Duration      string    `gorm:"size:50" json:"duration"`
	Price         float64   `gorm:"not null" json:"price"`
	MaxCapacity   int       `gorm:"not null" json:"max_capacity"`
	ImageFile     string    `gorm:"size:100;not null;default:default.jpg" json:"image_file"`
	DestinationID uint      `gorm:"not null;index" json:"dest_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Destination *Destination `gorm:"foreignKey:DestinationID" json:"destination,omitempty"`
	Bookings    []Booking    `gorm:"foreignKey:PackageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
