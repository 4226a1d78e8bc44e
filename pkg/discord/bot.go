package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/shokoauto/notifybridge/pkg/logger"
)

// DefaultReadyTimeout bounds the wait for the gateway Ready event.
const DefaultReadyTimeout = 30 * time.Second

// BotOption configures a Bot.
type BotOption func(*Bot)

// WithLogger sets the logger. If nil, logs are discarded.
func WithLogger(l *slog.Logger) BotOption {
	return func(b *Bot) {
		if l != nil {
			b.log = l
		}
	}
}

// WithReadyTimeout overrides DefaultReadyTimeout.
func WithReadyTimeout(d time.Duration) BotOption {
	if d <= 0 {
		panic("WithReadyTimeout: duration must be > 0")
	}
	return func(b *Bot) { b.readyTimeout = d }
}

// Bot owns the Discord gateway session. It delivers records through the
// embedded Sender, so a Bot satisfies delivery.Sender.
type Bot struct {
	*Sender

	session      *discordgo.Session
	exec         Executor
	log          *slog.Logger
	readyTimeout time.Duration

	ready     chan struct{}
	readyOnce sync.Once

	ctx     context.Context
	cancel  context.CancelFunc
	removes []func()
}

// NewBot creates a bot for token that runs slash commands through exec.
func NewBot(token string, exec Executor, opts ...BotOption) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Join(ErrSession, err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	b := &Bot{
		session:      s,
		exec:         exec,
		Sender:       NewSender(s),
		log:          slog.New(slog.DiscardHandler),
		readyTimeout: DefaultReadyTimeout,
		ready:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Open connects to the gateway and blocks until the session is ready and
// the slash commands are registered, ctx is done, or the ready timeout passes.
// Interactions are handled with a context detached from ctx; Close cancels it.
func (b *Bot) Open(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(context.WithoutCancel(ctx))

	responder := NewResponder(b.session, b.exec, b.log)
	b.removes = append(b.removes,
		b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) { b.onReady(s, r) }),
		b.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
			responder.Handle(b.ctx, i.Interaction)
		}),
	)

	if err := b.session.Open(); err != nil {
		return errors.Join(ErrSession, err)
	}

	timer := time.NewTimer(b.readyTimeout)
	defer timer.Stop()
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrNotReady, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("%w: no ready event after %s", ErrNotReady, b.readyTimeout)
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.InfoContext(b.ctx, "Discord session ready",
		slog.String("user", r.User.Username),
		slog.String("user_id", r.User.ID),
	)

	cmds := ApplicationCommands(b.exec.Commands())
	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", cmds, discordgo.WithContext(b.ctx)); err != nil {
		b.log.ErrorContext(b.ctx, "Failed to register slash commands", logger.Error(err))
	} else {
		b.log.InfoContext(b.ctx, "Slash commands registered", slog.Int("count", len(cmds)))
	}

	b.readyOnce.Do(func() { close(b.ready) })
}

// Close cancels in-flight interactions and closes the gateway session.
func (b *Bot) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	for _, remove := range b.removes {
		remove()
	}
	b.removes = nil
	if err := b.session.Close(); err != nil {
		return errors.Join(ErrSession, err)
	}
	return nil
}
