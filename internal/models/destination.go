package models

import (
	"time"
)

// Destination is a travel location. IsActive only gates the public package listing.
type Destination struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Location    string    `gorm:"size:100;not null" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	BestSeason  string    `gorm:"size:50" json:"best_season"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Packages []Package `gorm:"foreignKey:DestinationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
