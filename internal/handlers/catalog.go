package handlers

import (
	"context"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/travel-desk/agency-api/internal/apierr"
	"github.com/travel-desk/agency-api/internal/models"
	"github.com/travel-desk/agency-api/internal/service"
	"github.com/travel-desk/agency-api/internal/storage"
)

type CatalogHandler struct {
	catalog *service.CatalogService
	files   storage.FileStore
}

func NewCatalogHandler(catalog *service.CatalogService, files storage.FileStore) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, files: files}
}

type IndexResponse struct {
	Body struct {
		Packages []models.Package `json:"packages"`
	}
}

func (h *CatalogHandler) HandleIndex(ctx context.Context, _ *struct{}) (*IndexResponse, error) {
	packages, err := h.catalog.ListActivePackages(ctx)
	if err != nil {
		return nil, apierr.From(err)
	}
	res := &IndexResponse{}
	res.Body.Packages = packages
	return res, nil
}

type CreateDestinationRequest struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"100" doc:"Destination name"`
		Location    string `json:"location" minLength:"1" maxLength:"100" doc:"Where it is"`
		Description string `json:"description,omitempty"`
		BestSeason  string `json:"best_season,omitempty" maxLength:"50" doc:"Best season to visit"`
	}
}

type DestinationResponse struct {
	Body *models.Destination
}

func (h *CatalogHandler) HandleCreateDestination(ctx context.Context, input *CreateDestinationRequest) (*DestinationResponse, error) {
	destination, err := h.catalog.CreateDestination(ctx, service.DestinationInput{
		Name:        input.Body.Name,
		Location:    input.Body.Location,
		Description: input.Body.Description,
		BestSeason:  input.Body.BestSeason,
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return &DestinationResponse{Body: destination}, nil
}

type UpdateDestinationRequest struct {
	ID   uint `path:"id"`
	Body struct {
		IsActive bool `json:"is_active" doc:"Whether the destination's packages are publicly listed"`
	}
}

func (h *CatalogHandler) HandleUpdateDestination(ctx context.Context, input *UpdateDestinationRequest) (*DestinationResponse, error) {
	destination, err := h.catalog.SetDestinationActive(ctx, input.ID, input.Body.IsActive)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &DestinationResponse{Body: destination}, nil
}

type DeleteDestinationRequest struct {
	ID uint `path:"id"`
}

func (h *CatalogHandler) HandleDeleteDestination(ctx context.Context, input *DeleteDestinationRequest) (*struct{}, error) {
	if err := h.catalog.DeleteDestination(ctx, input.ID); err != nil {
		return nil, apierr.From(err)
	}
	return nil, nil
}

type DestinationsResponse struct {
	Body struct {
		Destinations []models.Destination `json:"destinations"`
	}
}

// HandleListDestinations backs the add-package form.
func (h *CatalogHandler) HandleListDestinations(ctx context.Context, _ *struct{}) (*DestinationsResponse, error) {
	destinations, err := h.catalog.ListDestinations(ctx)
	if err != nil {
		return nil, apierr.From(err)
	}
	res := &DestinationsResponse{}
	res.Body.Destinations = destinations
	return res, nil
}

type CreatePackageRequest struct {
	RawBody multipart.Form
}

type PackageResponse struct {
	Body *models.Package
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func packageInputFromForm(form *multipart.Form) (service.PackageInput, error) {
	input := service.PackageInput{
		Name:     formValue(form, "name"),
		Duration: formValue(form, "duration"),
	}

	price, err := strconv.ParseFloat(formValue(form, "price"), 64)
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		return input, fmt.Errorf("%w: price must be a finite number", service.ErrInvalidInput)
	}
	capacity, err := strconv.Atoi(formValue(form, "capacity"))
	if err != nil {
		return input, fmt.Errorf("%w: capacity must be an integer", service.ErrInvalidInput)
	}
	destID, err := strconv.ParseUint(formValue(form, "dest_id"), 10, 64)
	if err != nil {
		return input, fmt.Errorf("%w: dest_id must be an integer", service.ErrInvalidInput)
	}

	input.Price = price
	input.MaxCapacity = capacity
	input.DestinationID = uint(destID)
	return input, nil
}

// saveImage stores the uploaded image and returns its filename. Missing files
// and disallowed extensions fall back to the placeholder image.
func (h *CatalogHandler) saveImage(ctx context.Context, form *multipart.Form) (string, error) {
	files := form.File["image"]
	if len(files) == 0 || files[0].Filename == "" {
		return models.DefaultImageFile, nil
	}
	header := files[0]
	if !storage.AllowedImage(header.Filename) {
		log.Printf("Ignoring upload %q: extension not allowed", header.Filename)
		return models.DefaultImageFile, nil
	}

	name := storage.SanitizeFilename(header.Filename)
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := h.files.Save(ctx, name, f, storage.ContentType(name)); err != nil {
		return "", err
	}
	return name, nil
}

func (h *CatalogHandler) HandleCreatePackage(ctx context.Context, input *CreatePackageRequest) (*PackageResponse, error) {
	pkgInput, err := packageInputFromForm(&input.RawBody)
	if err != nil {
		return nil, apierr.From(err)
	}

	image, err := h.saveImage(ctx, &input.RawBody)
	if err != nil {
		log.Printf("Failed to store package image: %v", err)
		return nil, huma.Error500InternalServerError("Failed to store image")
	}
	pkgInput.ImageFile = image

	pkg, err := h.catalog.CreatePackage(ctx, pkgInput)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &PackageResponse{Body: pkg}, nil
}
