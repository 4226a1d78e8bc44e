package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/shokoauto/notifybridge/pkg/notification"
)

// Discord embed limits.
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFields      = 25
	maxFieldName   = 256
	maxFieldValue  = 1024
	maxFooter      = 2048
)

// blank stands in for empty field names and values, which Discord rejects.
const blank = "\u200b"

// Embed converts rec into a message embed, truncating text to Discord's limits.
func Embed(rec notification.Record) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       truncate(rec.Title, maxTitle),
		Description: truncate(rec.Description, maxDescription),
		Color:       rec.Color,
	}
	if !rec.Timestamp.IsZero() {
		e.Timestamp = rec.Timestamp.UTC().Format(time.RFC3339)
	}
	if rec.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: truncate(rec.Footer, maxFooter)}
	}

	fields := rec.Fields
	if len(fields) > maxFields {
		fields = fields[:maxFields]
	}
	for _, f := range fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:   orBlank(truncate(f.Name, maxFieldName)),
			Value:  orBlank(truncate(f.Value, maxFieldValue)),
			Inline: f.Inline,
		})
	}
	return e
}

func orBlank(s string) string {
	if s == "" {
		return blank
	}
	return s
}

// truncate cuts s to at most n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
