package models

import (
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type Account struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	Role               Role      `gorm:"size:20;not null;default:customer" json:"role"`
	MustChangePassword bool      `gorm:"not null" json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Bookings []Booking `gorm:"foreignKey:AccountID" json:"-"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
