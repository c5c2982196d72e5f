package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/travel-desk/agency-api/internal/auth"
)

// Handlers groups everything the route table needs.
type Handlers struct {
	Auth     *auth.AuthHandler
	Catalog  *CatalogHandler
	Bookings *BookingHandler
	Admin    *AdminHandler
	Limiter  *auth.ClientLimiter
}

func RegisterRoutes(r *chi.Mux, h Handlers) huma.API {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	config := huma.DefaultConfig("Travel Agency API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, config)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	Register(api, h)
	return api
}

// Register attaches every operation to api.
func Register(api huma.API, h Handlers) {
	session := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
		o.Middlewares = huma.Middlewares{h.Auth.RequireSession(api)}
	}
	admin := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
		o.Middlewares = huma.Middlewares{h.Auth.RequireAdmin(api)}
	}
	created := func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
	}
	limited := func(o *huma.Operation) {
		if h.Limiter != nil {
			o.Middlewares = append(o.Middlewares, auth.RateLimit(api, h.Limiter))
		}
	}

	// Public routes
	huma.Get(api, "/", h.Catalog.HandleIndex)
	huma.Post(api, "/register", h.Auth.HandleRegister, limited)
	huma.Post(api, "/login", h.Auth.HandleLogin, limited)

	// Session routes
	huma.Get(api, "/logout", h.Auth.HandleLogout, session)
	huma.Post(api, "/logout", h.Auth.HandleLogout, session)
	huma.Post(api, "/account/password", h.Auth.HandleChangePassword, session)
	huma.Post(api, "/book/{package_id}", h.Bookings.HandleBook, session, created)
	huma.Get(api, "/my-bookings", h.Bookings.HandleMyBookings, session)

	// Admin routes
	huma.Get(api, "/admin/dashboard", h.Admin.HandleDashboard, admin)
	huma.Get(api, "/admin/bookings/export", h.Admin.HandleExport, admin)
	huma.Post(api, "/admin/confirm/{booking_id}", h.Bookings.HandleConfirm, admin)
	huma.Post(api, "/admin/add-destination", h.Catalog.HandleCreateDestination, admin, created)
	huma.Patch(api, "/admin/destinations/{id}", h.Catalog.HandleUpdateDestination, admin)
	huma.Delete(api, "/admin/destinations/{id}", h.Catalog.HandleDeleteDestination, admin)
	huma.Get(api, "/admin/add-package", h.Catalog.HandleListDestinations, admin)
	huma.Post(api, "/admin/add-package", h.Catalog.HandleCreatePackage, admin, created)
}
