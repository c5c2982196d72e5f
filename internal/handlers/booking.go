package handlers

import (
	"context"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/travel-desk/agency-api/internal/apierr"
	"github.com/travel-desk/agency-api/internal/auth"
	"github.com/travel-desk/agency-api/internal/models"
	"github.com/travel-desk/agency-api/internal/notifier"
	"github.com/travel-desk/agency-api/internal/service"
)

const BookingSubmittedMessage = "Booking request submitted!"

type BookingHandler struct {
	bookings *service.BookingService
	notifier notifier.Notifier
}

func NewBookingHandler(bookings *service.BookingService, n notifier.Notifier) *BookingHandler {
	return &BookingHandler{bookings: bookings, notifier: n}
}

type BookRequest struct {
	PackageID uint `path:"package_id"`
	Body      *struct {
		Travelers int `json:"travelers,omitempty" minimum:"1" doc:"Number of travelers, defaults to 1"`
	}
}

type BookResponse struct {
	Body struct {
		Message string          `json:"message"`
		Booking *models.Booking `json:"booking"`
	}
}

// HandleBook creates a Pending booking for the session's account.
func (h *BookingHandler) HandleBook(ctx context.Context, input *BookRequest) (*BookResponse, error) {
	account, ok := auth.AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	travelers := 1
	if input.Body != nil && input.Body.Travelers != 0 {
		travelers = input.Body.Travelers
	}

	booking, err := h.bookings.CreateBooking(ctx, account.ID, input.PackageID, travelers)
	if err != nil {
		return nil, apierr.From(err)
	}

	if h.notifier != nil && booking.Package != nil {
		if err := h.notifier.NotifyBooking(*account, *booking.Package, *booking); err != nil {
			log.Printf("Failed to send booking notification: %v", err)
		}
	}

	res := &BookResponse{}
	res.Body.Message = BookingSubmittedMessage
	res.Body.Booking = booking
	return res, nil
}

type BookingsResponse struct {
	Body struct {
		Bookings []models.Booking `json:"bookings"`
	}
}

// HandleMyBookings lists bookings owned by the session's account only.
func (h *BookingHandler) HandleMyBookings(ctx context.Context, _ *struct{}) (*BookingsResponse, error) {
	account, ok := auth.AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	bookings, err := h.bookings.ListBookingsForAccount(ctx, account.ID)
	if err != nil {
		return nil, apierr.From(err)
	}
	res := &BookingsResponse{}
	res.Body.Bookings = bookings
	return res, nil
}

type ConfirmRequest struct {
	BookingID uint `path:"booking_id"`
}

type BookingResponse struct {
	Body *models.Booking
}

func (h *BookingHandler) HandleConfirm(ctx context.Context, input *ConfirmRequest) (*BookingResponse, error) {
	booking, err := h.bookings.ConfirmBooking(ctx, input.BookingID)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &BookingResponse{Body: booking}, nil
}
