package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/travel-desk/agency-api/internal/auth"
	"github.com/travel-desk/agency-api/internal/config"
	"github.com/travel-desk/agency-api/internal/database"
	"github.com/travel-desk/agency-api/internal/models"
	"github.com/travel-desk/agency-api/internal/service"
	"github.com/travel-desk/agency-api/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	api       humatest.TestAPI
	db        *gorm.DB
	uploadDir string
}

func newHandlers(t *testing.T) (Handlers, *gorm.DB, string) {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	uploadDir := t.TempDir()
	store, err := storage.NewLocalStore(uploadDir)
	if err != nil {
		t.Fatalf("failed to create upload store: %v", err)
	}

	cfg := &config.Config{SecretKey: "test-secret"}
	h := Handlers{
		Auth:     auth.NewAuthHandler(cfg, service.NewAccountService(db), auth.NewMemoryRevoker()),
		Catalog:  NewCatalogHandler(service.NewCatalogService(db), store),
		Bookings: NewBookingHandler(service.NewBookingService(db), nil),
		Admin:    NewAdminHandler(service.NewReportingService(db)),
	}
	return h, db, uploadDir
}

func setupAPI(t *testing.T) *testEnv {
	t.Helper()
	h, db, uploadDir := newHandlers(t)
	_, api := humatest.New(t)
	Register(api, h)
	return &testEnv{api: api, db: db, uploadDir: uploadDir}
}

// login returns a Cookie header for the session issued to username.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.api.Post("/login", map[string]any{"username": username, "password": password})
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("login as %s: expected 303, got %d: %s", username, resp.Code, resp.Body.String())
	}
	for _, c := range resp.Result().Cookies() {
		if c.Name == auth.CookieName {
			return "Cookie: " + auth.CookieName + "=" + c.Value
		}
	}
	t.Fatalf("login as %s: no session cookie", username)
	return ""
}

func (e *testEnv) registerCustomer(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.api.Post("/register", map[string]any{"username": username, "password": password})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, resp.Code, resp.Body.String())
	}
	return e.login(t, username, password)
}

// createAdmin stores an admin that has already rotated its password.
func (e *testEnv) createAdmin(t *testing.T) string {
	t.Helper()
	hash, err := service.HashPassword("admin-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := models.Account{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin}
	if err := e.db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return e.login(t, "admin", "admin-password")
}

func (e *testEnv) seedPackage(t *testing.T, destName string, price float64) models.Package {
	t.Helper()
	dest := models.Destination{Name: destName, Location: "Somewhere", IsActive: true}
	if err := e.db.Create(&dest).Error; err != nil {
		t.Fatalf("create destination: %v", err)
	}
	pkg := models.Package{Name: destName + " Tour", Duration: "5 days", Price: price, MaxCapacity: 10, ImageFile: models.DefaultImageFile, DestinationID: dest.ID}
	if err := e.db.Create(&pkg).Error; err != nil {
		t.Fatalf("create package: %v", err)
	}
	return pkg
}

func decode(t *testing.T, resp interface{ Bytes() []byte }, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
