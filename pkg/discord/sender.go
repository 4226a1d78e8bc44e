package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/shokoauto/notifybridge/pkg/notification"
)

// RESTClient is the subset of *discordgo.Session used for deliveries.
type RESTClient interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Sender posts records to channels and direct messages.
// Safe for concurrent use.
type Sender struct {
	rest RESTClient

	mu         sync.Mutex
	dmChannels map[string]string
}

// NewSender returns a Sender over rest.
func NewSender(rest RESTClient) *Sender {
	return &Sender{rest: rest, dmChannels: make(map[string]string)}
}

// SendChannel posts rec to channelID.
func (s *Sender) SendChannel(ctx context.Context, channelID string, rec notification.Record) error {
	if _, err := s.rest.ChannelMessageSendEmbed(channelID, Embed(rec), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: channel %s: %w", ErrSend, channelID, err)
	}
	return nil
}

// SendDirect posts rec to the DM channel of userID.
func (s *Sender) SendDirect(ctx context.Context, userID string, rec notification.Record) error {
	channelID, err := s.dmChannel(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.rest.ChannelMessageSendEmbed(channelID, Embed(rec), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: dm %s: %w", ErrSend, userID, err)
	}
	return nil
}

func (s *Sender) dmChannel(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	id, ok := s.dmChannels[userID]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	ch, err := s.rest.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: open dm %s: %w", ErrSend, userID, err)
	}

	s.mu.Lock()
	s.dmChannels[userID] = ch.ID
	s.mu.Unlock()
	return ch.ID, nil
}
