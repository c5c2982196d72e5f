package models

import (
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
)

// Booking is a reservation request. TotalPrice is fixed when the booking is
// created and is never recomputed from the package price.
type Booking struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	AccountID  uint          `gorm:"not null;index" json:"user_id"`
	PackageID  uint          `gorm:"not null;index" json:"package_id"`
	Travelers  int           `gorm:"not null" json:"travelers"`
	TotalPrice float64       `gorm:"not null" json:"total_price"`
	Status     BookingStatus `gorm:"size:20;not null;default:Pending;index" json:"status"`
	BookedAt   time.Time     `gorm:"not null;index" json:"date_booked"`

	Account *Account `gorm:"foreignKey:AccountID" json:"customer,omitempty"`
	Package *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}
