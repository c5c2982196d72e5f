package service

import (
	"context"
	"fmt"

	"github.com/travel-desk/agency-api/internal/models"
	"gorm.io/gorm"
)

const NoBookings = "No Bookings"

type ReportingService struct {
	db *gorm.DB
}

func NewReportingService(db *gorm.DB) *ReportingService {
	return &ReportingService{db: db}
}

// Dashboard is the admin overview.
type Dashboard struct {
	Revenue  float64          `json:"revenue"`
	Count    int64            `json:"count"`
	Popular  string           `json:"popular"`
	Bookings []models.Booking `json:"bookings"`
}

// TotalConfirmedRevenue sums total_price over confirmed bookings, 0 when none.
func (s *ReportingService) TotalConfirmedRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ?", models.StatusConfirmed).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return revenue, nil
}

func (s *ReportingService) TotalBookingCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Booking{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

// MostPopularDestination returns the name of the destination with the most
// bookings. Ties go to the lowest destination id.
func (s *ReportingService) MostPopularDestination(ctx context.Context) (string, error) {
	var rows []struct {
		Name         string
		BookingCount int64
	}
	err := s.db.WithContext(ctx).
		Table("destinations").
		Select("destinations.name AS name, COUNT(bookings.id) AS booking_count").
		Joins("JOIN packages ON packages.destination_id = destinations.id").
		Joins("JOIN bookings ON bookings.package_id = packages.id").
		Group("destinations.id, destinations.name").
		Order("booking_count DESC, destinations.id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return "", fmt.Errorf("rank destinations: %w", err)
	}
	if len(rows) == 0 {
		return NoBookings, nil
	}
	return rows[0].Name, nil
}

// ListAllBookings returns every booking, newest first.
func (s *ReportingService) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Account").
		Preload("Package.Destination").
		Order("booked_at DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *ReportingService) Dashboard(ctx context.Context) (*Dashboard, error) {
	revenue, err := s.TotalConfirmedRevenue(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.TotalBookingCount(ctx)
	if err != nil {
		return nil, err
	}
	popular, err := s.MostPopularDestination(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Revenue:  revenue,
		Count:    count,
		Popular:  popular,
		Bookings: bookings,
	}, nil
}
