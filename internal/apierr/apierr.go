package apierr

import (
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/travel-desk/agency-api/internal/service"
)

// From converts a service error into the huma error returned to clients.
// Unexpected errors are logged and reported without internals.
func From(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound):
		return huma.Error404NotFound("Not found")
	case errors.Is(err, service.ErrDuplicateUsername):
		return huma.Error409Conflict("Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return huma.Error401Unauthorized("Invalid Credentials")
	case errors.Is(err, service.ErrUnauthorized):
		return huma.Error401Unauthorized("Unauthorized")
	case errors.Is(err, service.ErrCapacityExceeded):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, service.ErrForeignKeyViolation), errors.Is(err, service.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	log.Printf("Internal error: %v", err)
	return huma.Error500InternalServerError("Internal server error")
}
