package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/travel-desk/agency-api/internal/models"
	"gorm.io/gorm"
)

type BookingService struct {
	db              *gorm.DB
	enforceCapacity bool
	now             func() time.Time
}

type BookingOption func(*BookingService)

// WithCapacityCheck rejects bookings that would push the travelers booked on
// a package above its MaxCapacity.
func WithCapacityCheck(enabled bool) BookingOption {
	return func(s *BookingService) { s.enforceCapacity = enabled }
}

func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

func NewBookingService(db *gorm.DB, opts ...BookingOption) *BookingService {
	s := &BookingService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking books packageID for accountID. The total price is computed
// from the package price at this moment and stored.
func (s *BookingService) CreateBooking(ctx context.Context, accountID, packageID uint, travelers int) (*models.Booking, error) {
	if travelers < 1 {
		return nil, invalidInput("travelers must be a positive integer")
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pkg models.Package
		if err := tx.First(&pkg, packageID).Error; err != nil {
			return translate(err)
		}

		if s.enforceCapacity {
			var booked int64
			err := tx.Model(&models.Booking{}).
				Where("package_id = ?", pkg.ID).
				Select("COALESCE(SUM(travelers), 0)").
				Row().Scan(&booked)
			if err != nil {
				return fmt.Errorf("sum travelers: %w", err)
			}
			if int(booked)+travelers > pkg.MaxCapacity {
				return fmt.Errorf("%w: %d of %d seats left", ErrCapacityExceeded, max(pkg.MaxCapacity-int(booked), 0), pkg.MaxCapacity)
			}
		}

		total := pkg.Price * float64(travelers)
		if math.IsInf(total, 0) || math.IsNaN(total) {
			return invalidInput("total price for %d travelers is out of range", travelers)
		}

		booking = models.Booking{
			AccountID:  accountID,
			PackageID:  pkg.ID,
			Travelers:  travelers,
			TotalPrice: total,
			Status:     models.StatusPending,
			BookedAt:   s.now().UTC(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return translate(err)
		}
		booking.Package = &pkg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookingsForAccount returns the bookings owned by accountID, oldest first.
func (s *BookingService) ListBookingsForAccount(ctx context.Context, accountID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Preload("Package.Destination").
		Order("id").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ConfirmBooking moves a booking to Confirmed. Confirming an already confirmed
// booking is a no-op; an unknown id yields ErrNotFound.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			return translate(err)
		}
		if booking.Status == models.StatusConfirmed {
			return nil
		}
		booking.Status = models.StatusConfirmed
		return tx.Model(&booking).Update("status", models.StatusConfirmed).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
