package notifier

import (
	"strings"
	"testing"

	"github.com/travel-desk/agency-api/internal/models"
)

func TestBookingMessage(t *testing.T) {
	account := models.Account{Username: "alice"}
	pkg := models.Package{Name: "Goa Beach Escape"}
	booking := models.Booking{ID: 7, Travelers: 2, TotalPrice: 200, Status: models.StatusPending}

	msg := BookingMessage(account, pkg, booking)

	for _, want := range []string{"#7", "alice", "Goa Beach Escape", "**Travelers:** 2", "200.00", "Pending"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got %q", want, msg)
		}
	}
}

func TestFromTokenUnconfigured(t *testing.T) {
	n, err := FromToken("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != nil {
		t.Error("expected nil notifier when not configured")
	}
}

func TestNotifyBookingWithoutSession(t *testing.T) {
	n := NewDiscordNotifier(nil, "123")
	if err := n.NotifyBooking(models.Account{}, models.Package{}, models.Booking{}); err == nil {
		t.Error("expected error without a session")
	}
}
