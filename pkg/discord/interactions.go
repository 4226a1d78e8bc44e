package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/shokoauto/notifybridge/pkg/commands"
	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// InteractionClient is the subset of *discordgo.Session used to answer interactions.
type InteractionClient interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Executor runs commands. *commands.Bridge implements it.
type Executor interface {
	Execute(ctx context.Context, req commands.Request) (commands.Result, error)
	Authorized(caller string) bool
	Commands() []commands.Command
}

// Responder answers slash-command interactions with the records produced by an Executor.
//
// Authorized callers get a deferred reply first. The first record fills that
// reply; later records are sent as follow-ups. Denials are answered at once
// and only the caller sees them.
type Responder struct {
	client InteractionClient
	exec   Executor
	log    *slog.Logger
}

// NewResponder returns a Responder. A nil logger discards logs.
func NewResponder(client InteractionClient, exec Executor, log *slog.Logger) *Responder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Responder{client: client, exec: exec, log: log}
}

// Handle answers one interaction. Non-command interactions are ignored.
func (r *Responder) Handle(ctx context.Context, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	req := RequestFromInteraction(i)

	if !r.exec.Authorized(req.Caller) {
		res, _ := r.exec.Execute(ctx, req)
		err := r.client.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{Embed(res.Record)},
				Flags:  discordgo.MessageFlagsEphemeral,
			},
		}, discordgo.WithContext(ctx))
		r.logFailure(ctx, req, "Failed to send denial", err)
		return
	}

	if err := r.client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx)); err != nil {
		r.logFailure(ctx, req, "Failed to defer reply", err)
		return
	}

	replied := false
	req.OnProgress = func(ctx context.Context, rec notification.Record) {
		r.edit(ctx, i, req, rec)
		replied = true
	}

	res, _ := r.exec.Execute(ctx, req)

	switch {
	case replied:
		r.followup(ctx, i, req, res.Record, res.Private)
	case res.Private:
		// The deferred reply is public; replace it with a caller-only message.
		if err := r.client.InteractionResponseDelete(i, discordgo.WithContext(ctx)); err != nil {
			r.logFailure(ctx, req, "Failed to delete deferred reply", err)
		}
		r.followup(ctx, i, req, res.Record, true)
	default:
		r.edit(ctx, i, req, res.Record)
	}
}

func (r *Responder) edit(ctx context.Context, i *discordgo.Interaction, req commands.Request, rec notification.Record) {
	embeds := []*discordgo.MessageEmbed{Embed(rec)}
	_, err := r.client.InteractionResponseEdit(i, &discordgo.WebhookEdit{Embeds: &embeds}, discordgo.WithContext(ctx))
	r.logFailure(ctx, req, "Failed to edit reply", err)
}

func (r *Responder) followup(ctx context.Context, i *discordgo.Interaction, req commands.Request, rec notification.Record, private bool) {
	params := &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{Embed(rec)}}
	if private {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := r.client.FollowupMessageCreate(i, true, params, discordgo.WithContext(ctx))
	r.logFailure(ctx, req, "Failed to send follow-up", err)
}

func (r *Responder) logFailure(ctx context.Context, req commands.Request, msg string, err error) {
	if err == nil {
		return
	}
	r.log.ErrorContext(ctx, msg,
		logger.Command(req.Command),
		logger.Caller(req.Caller),
		logger.Error(err),
	)
}
