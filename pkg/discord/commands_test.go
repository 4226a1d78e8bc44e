package discord_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shokoauto/notifybridge/pkg/commands"
	"github.com/shokoauto/notifybridge/pkg/discord"
)

func TestApplicationCommands(t *testing.T) {
	t.Parallel()
	cmds := discord.ApplicationCommands([]commands.Command{
		{Name: "status", Description: "Show status"},
		{Name: "missing", Description: "List missing", Limit: &commands.IntOption{
			Name: "limit", Description: "Max", Min: 1, Max: 25, Default: 10,
		}},
	})

	require.Len(t, cmds, 2)
	assert.Equal(t, "status", cmds[0].Name)
	assert.Empty(t, cmds[0].Options)

	require.Len(t, cmds[1].Options, 1)
	opt := cmds[1].Options[0]
	assert.Equal(t, discordgo.ApplicationCommandOptionInteger, opt.Type)
	assert.Equal(t, "limit", opt.Name)
	assert.False(t, opt.Required)
	require.NotNil(t, opt.MinValue)
	assert.InDelta(t, 1.0, *opt.MinValue, 0)
	assert.InDelta(t, 25.0, opt.MaxValue, 0)
}

func commandInteraction(name, userID string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
		},
	}
}

func limitOption(n int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "limit",
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(n),
	}
}

func TestRequestFromInteraction(t *testing.T) {
	t.Parallel()

	req := discord.RequestFromInteraction(commandInteraction("missing", "42", limitOption(5)))
	assert.Equal(t, "missing", req.Command)
	assert.Equal(t, "42", req.Caller)
	require.NotNil(t, req.Args.Limit)
	assert.Equal(t, 5, *req.Args.Limit)

	req = discord.RequestFromInteraction(commandInteraction("status", "42"))
	assert.Nil(t, req.Args.Limit)
}

func TestCallerID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "7", discord.CallerID(&discordgo.Interaction{User: &discordgo.User{ID: "7"}}))
	assert.Equal(t, "8", discord.CallerID(&discordgo.Interaction{Member: &discordgo.Member{User: &discordgo.User{ID: "8"}}}))
	assert.Empty(t, discord.CallerID(&discordgo.Interaction{}))
}
