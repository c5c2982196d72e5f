package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/travel-desk/agency-api/internal/models"
)

type Notifier interface {
	NotifyBooking(account models.Account, pkg models.Package, booking models.Booking) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// FromToken builds a notifier from a bot token. It returns nil when
// notifications are not configured.
func FromToken(token, channelID string) (*DiscordNotifier, error) {
	if token == "" || channelID == "" {
		return nil, nil
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return NewDiscordNotifier(session, channelID), nil
}

func (n *DiscordNotifier) NotifyBooking(account models.Account, pkg models.Package, booking models.Booking) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, BookingMessage(account, pkg, booking))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func BookingMessage(account models.Account, pkg models.Package, booking models.Booking) string {
	return fmt.Sprintf("🧳 **New Booking Request** #%d\n**Customer:** %s\n**Package:** %s\n**Travelers:** %d\n**Total:** %.2f\n**Status:** %s",
		booking.ID,
		account.Username,
		pkg.Name,
		booking.Travelers,
		booking.TotalPrice,
		booking.Status,
	)
}
