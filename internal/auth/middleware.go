package auth

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/travel-desk/agency-api/internal/models"
	"github.com/travel-desk/agency-api/internal/service"
	"golang.org/x/time/rate"
)

type contextKey string

const (
	AccountKey contextKey = "account"
	ClaimsKey  contextKey = "claims"
)

func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(AccountKey).(*models.Account)
	return account, ok && account != nil
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok && claims != nil
}

// WithAccount is used by tests and internal callers to act as an account.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}

func redirect(ctx huma.Context, location string) {
	ctx.SetHeader("Location", location)
	ctx.SetStatus(http.StatusSeeOther)
}

// session authenticates the request cookie. On failure it has already
// written the response and returns ok=false.
func (h *AuthHandler) session(api huma.API, ctx huma.Context) (huma.Context, *models.Account, bool) {
	var token string
	if cookie, err := huma.ReadCookie(ctx, CookieName); err == nil {
		token = cookie.Value
	}

	account, claims, err := h.Authorize(ctx.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			redirect(ctx, LoginPath)
			return ctx, nil, false
		}
		log.Printf("Session lookup failed: %v", err)
		huma.WriteErr(api, ctx, http.StatusInternalServerError, "Internal server error")
		return ctx, nil, false
	}

	// Sliding session: refresh token if it's more than halfway through its duration
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Sub(h.now()) < TokenDuration/2 {
		if newToken, err := h.GenerateToken(account); err == nil {
			cookie := h.sessionCookie(newToken, h.now().Add(TokenDuration))
			ctx.AppendHeader("Set-Cookie", cookie.String())
		}
	}

	ctx = huma.WithValue(ctx, AccountKey, account)
	ctx = huma.WithValue(ctx, ClaimsKey, claims)
	return ctx, account, true
}

// RequireSession redirects unauthenticated requests to the login page.
func (h *AuthHandler) RequireSession(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		ctx, _, ok := h.session(api, ctx)
		if !ok {
			return
		}
		next(ctx)
	}
}

// RequireAdmin behaves like RequireSession and additionally sends non-admins
// to the index without revealing the route exists. Admins that still carry
// the seeded password are sent to change it first.
func (h *AuthHandler) RequireAdmin(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		ctx, account, ok := h.session(api, ctx)
		if !ok {
			return
		}
		if !account.IsAdmin() {
			redirect(ctx, IndexPath)
			return
		}
		if account.MustChangePassword {
			redirect(ctx, ChangePasswordPath)
			return
		}
		next(ctx)
	}
}

const limiterIdleTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client address. Buckets idle for
// longer than limiterIdleTTL are dropped.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// NewClientLimiter allows perMinute requests per client per minute. A
// non-positive rate disables limiting.
func NewClientLimiter(perMinute int) *ClientLimiter {
	l := &ClientLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Inf,
		now:     time.Now,
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
		l.burst = perMinute
	}
	return l
}

func (l *ClientLimiter) Allow(client string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, bucket := range l.clients {
			if now.Sub(bucket.lastSeen) > limiterIdleTTL {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	bucket, ok := l.clients[client]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

func (l *ClientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// clientKey strips the port so every connection from a host shares a bucket.
func clientKey(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// RateLimit rejects requests once the caller's bucket is exhausted.
func RateLimit(api huma.API, limiter *ClientLimiter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		client := clientKey(ctx.RemoteAddr())
		if !limiter.Allow(client) {
			log.Printf("Rate limit exceeded on %s from %s", ctx.URL().Path, client)
			ctx.SetHeader("Retry-After", "2")
			huma.WriteErr(api, ctx, http.StatusTooManyRequests, "Too many attempts, try again later")
			return
		}
		next(ctx)
	}
}
