package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/travel-desk/agency-api/internal/models"
)

type bookResult struct {
	Message string         `json:"message"`
	Booking models.Booking `json:"booking"`
}

func TestBookingFlow(t *testing.T) {
	env := setupAPI(t)
	pkg := env.seedPackage(t, "Bali", 100)
	alice := env.registerCustomer(t, "alice", "pw1")
	admin := env.createAdmin(t)

	resp := env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), alice, map[string]any{"travelers": 2})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var booked bookResult
	decode(t, resp.Body, &booked)
	if booked.Message != BookingSubmittedMessage {
		t.Errorf("unexpected message %q", booked.Message)
	}
	if booked.Booking.TotalPrice != 200 {
		t.Errorf("expected total 200, got %v", booked.Booking.TotalPrice)
	}
	if booked.Booking.Status != models.StatusPending {
		t.Errorf("expected Pending, got %s", booked.Booking.Status)
	}

	resp = env.api.Post(fmt.Sprintf("/admin/confirm/%d", booked.Booking.ID), admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var confirmed models.Booking
	decode(t, resp.Body, &confirmed)
	if confirmed.Status != models.StatusConfirmed {
		t.Errorf("expected Confirmed, got %s", confirmed.Status)
	}

	resp = env.api.Get("/admin/dashboard", admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", resp.Code)
	}
	var dash struct {
		Revenue float64 `json:"revenue"`
		Count   int64   `json:"count"`
		Popular string  `json:"popular"`
	}
	decode(t, resp.Body, &dash)
	if dash.Revenue != 200 || dash.Count != 1 || dash.Popular != "Bali" {
		t.Errorf("unexpected dashboard %+v", dash)
	}
}

func TestBookDefaultsToOneTraveler(t *testing.T) {
	env := setupAPI(t)
	pkg := env.seedPackage(t, "Oslo", 80)
	cookie := env.registerCustomer(t, "carol", "pw1")

	resp := env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), cookie)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var booked bookResult
	decode(t, resp.Body, &booked)
	if booked.Booking.Travelers != 1 || booked.Booking.TotalPrice != 80 {
		t.Errorf("expected 1 traveler totalling 80, got %d / %v", booked.Booking.Travelers, booked.Booking.TotalPrice)
	}
}

func TestBookValidation(t *testing.T) {
	env := setupAPI(t)
	pkg := env.seedPackage(t, "Rome", 50)
	cookie := env.registerCustomer(t, "dan", "pw1")

	t.Run("ZeroTravelers", func(t *testing.T) {
		resp := env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), cookie, map[string]any{"travelers": 0})
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", resp.Code)
		}
	})

	t.Run("NegativeTravelers", func(t *testing.T) {
		resp := env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), cookie, map[string]any{"travelers": -3})
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", resp.Code)
		}
	})

	t.Run("UnknownPackage", func(t *testing.T) {
		resp := env.api.Post("/book/999", cookie, map[string]any{"travelers": 1})
		if resp.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.Code)
		}
	})

	t.Run("Anonymous", func(t *testing.T) {
		resp := env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), map[string]any{"travelers": 1})
		if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/login" {
			t.Errorf("expected redirect to /login, got %d %s", resp.Code, resp.Header().Get("Location"))
		}
	})
}

func TestMyBookingsOnlyOwn(t *testing.T) {
	env := setupAPI(t)
	pkg := env.seedPackage(t, "Lima", 10)
	alice := env.registerCustomer(t, "alice", "pw1")
	bob := env.registerCustomer(t, "bob", "pw2")

	env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), alice, map[string]any{"travelers": 1})
	env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), bob, map[string]any{"travelers": 3})
	env.api.Post(fmt.Sprintf("/book/%d", pkg.ID), bob, map[string]any{"travelers": 4})

	resp := env.api.Get("/my-bookings", bob)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out struct {
		Bookings []models.Booking `json:"bookings"`
	}
	decode(t, resp.Body, &out)
	if len(out.Bookings) != 2 {
		t.Fatalf("expected 2 bookings for bob, got %d", len(out.Bookings))
	}
	for _, b := range out.Bookings {
		if b.Travelers == 1 {
			t.Errorf("bob sees alice's booking %d", b.ID)
		}
		if b.Package == nil || b.Package.Destination == nil || b.Package.Destination.Name != "Lima" {
			t.Errorf("expected package and destination on booking %d", b.ID)
		}
	}
}

func TestConfirm(t *testing.T) {
	env := setupAPI(t)
	admin := env.createAdmin(t)

	t.Run("Missing", func(t *testing.T) {
		resp := env.api.Post("/admin/confirm/12345", admin)
		if resp.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.Code)
		}
	})

	t.Run("GetNotAllowed", func(t *testing.T) {
		resp := env.api.Get("/admin/confirm/1", admin)
		if resp.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.Code)
		}
	})
}
