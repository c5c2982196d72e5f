package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/travel-desk/agency-api/internal/apierr"
	"github.com/travel-desk/agency-api/internal/config"
	"github.com/travel-desk/agency-api/internal/models"
	"github.com/travel-desk/agency-api/internal/service"
)

const (
	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour

	LoginPath          = "/login"
	IndexPath          = "/"
	DashboardPath      = "/admin/dashboard"
	ChangePasswordPath = "/account/password"
)

type Claims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthHandler struct {
	cfg      *config.Config
	accounts *service.AccountService
	revoker  Revoker
	now      func() time.Time
}

func NewAuthHandler(cfg *config.Config, accounts *service.AccountService, revoker Revoker) *AuthHandler {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &AuthHandler{cfg: cfg, accounts: accounts, revoker: revoker, now: time.Now}
}

func (h *AuthHandler) GenerateToken(account *models.Account) (string, error) {
	now := h.now()
	claims := Claims{
		UserID: account.ID,
		Role:   account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.SecretKey))
}

func (h *AuthHandler) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.SecretKey), nil
	}, jwt.WithTimeFunc(h.now))
	if err != nil || !token.Valid {
		return nil, service.ErrUnauthorized
	}
	return claims, nil
}

// Authorize resolves a session token to its account. Expired, revoked or
// forged tokens and deleted accounts all yield service.ErrUnauthorized.
func (h *AuthHandler) Authorize(ctx context.Context, tokenString string) (*models.Account, *Claims, error) {
	if tokenString == "" {
		return nil, nil, service.ErrUnauthorized
	}
	claims, err := h.parseToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := h.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, nil, service.ErrUnauthorized
	}

	account, err := h.accounts.Get(ctx, claims.UserID)
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil, service.ErrUnauthorized
	}
	if err != nil {
		return nil, nil, err
	}
	return account, claims, nil
}

func (h *AuthHandler) sessionCookie(token string, expires time.Time) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
}

func (h *AuthHandler) clearedCookie() http.Cookie {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	return cookie
}

type Credentials struct {
	Username string `json:"username" minLength:"1" maxLength:"50" doc:"Account username"`
	Password string `json:"password" minLength:"1" doc:"Plaintext password"`
}

type LoginRequest struct {
	Body Credentials
}

type LoginResponse struct {
	Status    int
	Location  string      `header:"Location"`
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message            string      `json:"message"`
		Role               models.Role `json:"role"`
		MustChangePassword bool        `json:"must_change_password"`
	}
}

// HandleLogin verifies credentials, sets the session cookie and redirects
// admins to the dashboard and everyone else to the index.
func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	account, err := h.accounts.Authenticate(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, apierr.From(err)
	}

	token, err := h.GenerateToken(account)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginResponse{
		Status:    http.StatusSeeOther,
		Location:  IndexPath,
		SetCookie: h.sessionCookie(token, h.now().Add(TokenDuration)),
	}
	if account.IsAdmin() {
		res.Location = DashboardPath
	}
	if account.MustChangePassword {
		res.Location = ChangePasswordPath
	}
	res.Body.Message = fmt.Sprintf("Welcome %s!", account.Username)
	res.Body.Role = account.Role
	res.Body.MustChangePassword = account.MustChangePassword
	return res, nil
}

type RegisterRequest struct {
	Body Credentials
}

type RegisterResponse struct {
	Status   int
	Location string `header:"Location"`
	Body     *models.Account
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	account, err := h.accounts.Register(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &RegisterResponse{
		Status:   http.StatusCreated,
		Location: LoginPath,
		Body:     account,
	}, nil
}

type LogoutResponse struct {
	Status    int
	Location  string      `header:"Location"`
	SetCookie http.Cookie `header:"Set-Cookie"`
}

// HandleLogout revokes the current session token and clears the cookie.
func (h *AuthHandler) HandleLogout(ctx context.Context, _ *struct{}) (*LogoutResponse, error) {
	if claims, ok := ClaimsFromContext(ctx); ok && claims.ExpiresAt != nil {
		if err := h.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			log.Printf("Failed to revoke session %s: %v", claims.ID, err)
			return nil, huma.Error500InternalServerError("Failed to end session")
		}
	}
	return &LogoutResponse{
		Status:    http.StatusSeeOther,
		Location:  IndexPath,
		SetCookie: h.clearedCookie(),
	}, nil
}

type ChangePasswordRequest struct {
	Body struct {
		CurrentPassword string `json:"current_password" minLength:"1"`
		NewPassword     string `json:"new_password" minLength:"8"`
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleChangePassword(ctx context.Context, input *ChangePasswordRequest) (*MessageResponse, error) {
	account, ok := AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if err := h.accounts.ChangePassword(ctx, account.ID, input.Body.CurrentPassword, input.Body.NewPassword); err != nil {
		return nil, apierr.From(err)
	}
	res := &MessageResponse{}
	res.Body.Message = "Password changed"
	return res, nil
}
