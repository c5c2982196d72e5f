package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/travel-desk/agency-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost        = 10
	MinPasswordLength = 8
)

// dummyHash is compared against when a username is unknown so that both
// login failure paths pay for one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), bcryptCost)

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a customer account. Username uniqueness is enforced by the
// unique index on accounts.username.
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 50 {
		return nil, invalidInput("username must be between 1 and 50 characters")
	}
	if password == "" {
		return nil, invalidInput("password is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &account, nil
}

// Authenticate returns the account for a username/password pair or
// ErrInvalidCredentials. It never distinguishes an unknown username from a
// wrong password.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}

func (s *AccountService) Get(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// ChangePassword replaces the password after verifying the current one and
// clears the forced-rotation flag.
func (s *AccountService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if len(next) < MinPasswordLength {
		return invalidInput("new password must be at least %d characters", MinPasswordLength)
	}
	if current == next {
		return invalidInput("new password must differ from the current one")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, id).Error; err != nil {
			return translate(err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)); err != nil {
			return ErrInvalidCredentials
		}

		hash, err := HashPassword(next)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return tx.Model(&account).Updates(map[string]any{
			"password_hash":        hash,
			"must_change_password": false,
		}).Error
	})
}
