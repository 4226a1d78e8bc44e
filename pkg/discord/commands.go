package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/shokoauto/notifybridge/pkg/commands"
)

// ApplicationCommands converts the command table into slash command definitions.
func ApplicationCommands(cmds []commands.Command) []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, c := range cmds {
		ac := &discordgo.ApplicationCommand{
			Name:        c.Name,
			Description: c.Description,
			Type:        discordgo.ChatApplicationCommand,
		}
		if c.Limit != nil {
			minValue := float64(c.Limit.Min)
			ac.Options = []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        c.Limit.Name,
				Description: c.Limit.Description,
				MinValue:    &minValue,
				MaxValue:    float64(c.Limit.Max),
			}}
		}
		out = append(out, ac)
	}
	return out
}

// CallerID returns the id of the user who triggered i.
func CallerID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	}
	return ""
}

// RequestFromInteraction builds a command request from a slash-command interaction.
func RequestFromInteraction(i *discordgo.Interaction) commands.Request {
	data := i.ApplicationCommandData()
	req := commands.Request{
		Command: data.Name,
		Caller:  CallerID(i),
	}
	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionInteger && opt.Name == "limit" {
			req.Args = commands.LimitArg(int(opt.IntValue()))
		}
	}
	return req
}
