package discord_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shokoauto/notifybridge/pkg/discord"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

type MockREST struct {
	mock.Mock
}

func (m *MockREST) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, embed)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func (m *MockREST) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	args := m.Called(recipientID)
	ch, _ := args.Get(0).(*discordgo.Channel)
	return ch, args.Error(1)
}

func withTitle(title string) any {
	return mock.MatchedBy(func(e *discordgo.MessageEmbed) bool { return e.Title == title })
}

func TestSenderSendChannel(t *testing.T) {
	t.Parallel()
	rest := &MockREST{}
	rest.On("ChannelMessageSendEmbed", "chan-1", withTitle("hello")).Return(&discordgo.Message{ID: "m1"}, nil).Once()

	s := discord.NewSender(rest)
	require.NoError(t, s.SendChannel(context.Background(), "chan-1", notification.New("hello")))
	rest.AssertExpectations(t)
}

func TestSenderSendChannelError(t *testing.T) {
	t.Parallel()
	rest := &MockREST{}
	rest.On("ChannelMessageSendEmbed", "chan-1", mock.Anything).Return(nil, errors.New("403 Forbidden")).Once()

	err := discord.NewSender(rest).SendChannel(context.Background(), "chan-1", notification.New("hello"))
	require.ErrorIs(t, err, discord.ErrSend)
	assert.Contains(t, err.Error(), "403 Forbidden")
}

func TestSenderSendDirectCachesDMChannel(t *testing.T) {
	t.Parallel()
	rest := &MockREST{}
	rest.On("UserChannelCreate", "user-1").Return(&discordgo.Channel{ID: "dm-1"}, nil).Once()
	rest.On("ChannelMessageSendEmbed", "dm-1", mock.Anything).Return(&discordgo.Message{}, nil).Twice()

	s := discord.NewSender(rest)
	require.NoError(t, s.SendDirect(context.Background(), "user-1", notification.New("one")))
	require.NoError(t, s.SendDirect(context.Background(), "user-1", notification.New("two")))

	rest.AssertExpectations(t)
	rest.AssertNumberOfCalls(t, "UserChannelCreate", 1)
}

func TestSenderSendDirectOpenFails(t *testing.T) {
	t.Parallel()
	rest := &MockREST{}
	rest.On("UserChannelCreate", "user-2").Return(nil, errors.New("unknown user")).Once()

	err := discord.NewSender(rest).SendDirect(context.Background(), "user-2", notification.New("x"))
	require.ErrorIs(t, err, discord.ErrSend)
	rest.AssertNotCalled(t, "ChannelMessageSendEmbed", mock.Anything, mock.Anything)
}
