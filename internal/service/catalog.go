package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/travel-desk/agency-api/internal/models"
	"gorm.io/gorm"
)

type CatalogService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db, validate: validator.New(validator.WithRequiredStructEnabled())}
}

type DestinationInput struct {
	Name        string `validate:"required,max=100"`
	Location    string `validate:"required,max=100"`
	Description string
	BestSeason  string `validate:"max=50"`
}

type PackageInput struct {
	Name          string  `validate:"required,max=100"`
	Duration      string  `validate:"max=50"`
	Price         float64 `validate:"gt=0,lte=1000000000"`
	MaxCapacity   int     `validate:"gt=0"`
	DestinationID uint    `validate:"required"`
	ImageFile     string  `validate:"max=100"`
}

func (s *CatalogService) check(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return invalidInput("%s", strings.Join(fields, ", "))
	}
	return err
}

// ListActivePackages returns packages whose destination is active, in
// primary key order, with the destination preloaded.
func (s *CatalogService) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	err := s.db.WithContext(ctx).
		Joins("JOIN destinations ON destinations.id = packages.destination_id").
		Where("destinations.is_active = ?", true).
		Preload("Destination").
		Order("packages.id").
		Find(&packages).Error
	if err != nil {
		return nil, fmt.Errorf("list active packages: %w", err)
	}
	return packages, nil
}

func (s *CatalogService) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	var destinations []models.Destination
	if err := s.db.WithContext(ctx).Order("id").Find(&destinations).Error; err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return destinations, nil
}

func (s *CatalogService) CreateDestination(ctx context.Context, input DestinationInput) (*models.Destination, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Location = strings.TrimSpace(input.Location)
	if err := s.check(input); err != nil {
		return nil, err
	}

	destination := models.Destination{
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
		BestSeason:  input.BestSeason,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&destination).Error; err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}
	return &destination, nil
}

// SetDestinationActive toggles public visibility of a destination's packages.
func (s *CatalogService) SetDestinationActive(ctx context.Context, id uint, active bool) (*models.Destination, error) {
	var destination models.Destination
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&destination, id).Error; err != nil {
			return translate(err)
		}
		destination.IsActive = active
		return tx.Model(&destination).Update("is_active", active).Error
	})
	if err != nil {
		return nil, err
	}
	return &destination, nil
}

// DeleteDestination removes a destination. Its packages and their bookings are
// removed by the ON DELETE CASCADE foreign keys.
func (s *CatalogService) DeleteDestination(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Destination{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete destination: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) CreatePackage(ctx context.Context, input PackageInput) (*models.Package, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.check(input); err != nil {
		return nil, err
	}
	if input.ImageFile == "" {
		input.ImageFile = models.DefaultImageFile
	}

	pkg := models.Package{
		Name:          input.Name,
		Duration:      input.Duration,
		Price:         input.Price,
		MaxCapacity:   input.MaxCapacity,
		ImageFile:     input.ImageFile,
		DestinationID: input.DestinationID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Destination{}).Where("id = ?", input.DestinationID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: destination %d", ErrForeignKeyViolation, input.DestinationID)
		}
		if err := tx.Create(&pkg).Error; err != nil {
			return translate(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (s *CatalogService) GetPackage(ctx context.Context, id uint) (*models.Package, error) {
	var pkg models.Package
	if err := s.db.WithContext(ctx).Preload("Destination").First(&pkg, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pkg, nil
}
