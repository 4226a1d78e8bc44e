// Package discord connects the bridge to Discord through discordgo.
//
// Sender implements delivery.Sender: channel posts go straight to the channel
// and direct messages go through the recipient's DM channel, which is opened
// once per user and cached. Embed converts a notification.Record into a
// message embed within Discord's size limits.
//
// Bot owns the gateway session. It registers the slash commands from the
// command table when the session becomes ready and turns every slash-command
// interaction into a commands.Request:
//
//	bot, err := discord.NewBot(token, bridge, discord.WithLogger(log))
//	if err := bot.Open(ctx); err != nil { ... }
//	defer bot.Close()
//	fan := delivery.NewFanOut(bot, targets)
package discord
