package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrForeignKeyViolation = errors.New("referenced record does not exist")
	ErrInvalidInput        = errors.New("invalid input")
	ErrCapacityExceeded    = errors.New("package capacity exceeded")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// translate maps gorm errors onto the domain errors above. It relies on the
// database being opened with TranslateError enabled.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKeyViolation
	}
	return err
}
