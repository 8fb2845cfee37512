package notifier

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/gdg-garage/event-registration-api/internal/models"
)

type Action string

const (
	ActionRegistered Action = "registered"
	ActionCancelled  Action = "cancelled"
)

// Notice describes a committed registration change.
type Notice struct {
	Action Action
	User   models.User
	Event  models.Event
	At     time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Nop discards notices. It is used when no channel is configured.
type Nop struct{}

func (Nop) Notify(context.Context, Notice) error { return nil }

// channelSender is the part of *discordgo.Session the notifier uses.
type channelSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   channelSender
	channelID string
}

// NewDiscordNotifier creates a bot session for posting to channelID. Only the
// REST API is used, so no gateway connection is opened.
func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

func (n *DiscordNotifier) Notify(ctx context.Context, notice Notice) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, FormatNotice(notice), discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}
	return nil
}

// FormatNotice renders a notice as a Discord message.
func FormatNotice(n Notice) string {
	status := "registered 🎉"
	if n.Action == ActionCancelled {
		status = "cancelled registration 😢"
	}
	return fmt.Sprintf("**Registration Update**\n**User:** %s (%s)\n**Status:** %s\n**Event:** %s\n**When:** %s\n**Where:** %s",
		n.User.Name,
		n.User.Email,
		status,
		n.Event.Title,
		n.Event.DateTime.Format("2006-01-02 15:04 MST"),
		n.Event.Location,
	)
}
