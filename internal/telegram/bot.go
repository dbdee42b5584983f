package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-bot/internal/bot"
	"github.com/robalobadob/wordle-bot/internal/config"
	"github.com/robalobadob/wordle-bot/internal/metrics"
)

const transport = "telegram"

// API is the part of tgbotapi.BotAPI the bot uses
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler processes chat messages
type Handler interface {
	Handle(ctx context.Context, m bot.Message) (string, bool)
}

// Bot relays Telegram chats to the command layer
type Bot struct {
	api          API
	handler      Handler
	owners       map[int64]bool
	allowPrivate bool
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// New authenticates against Telegram and creates a Bot
func New(cfg config.TelegramConfig, handler Handler, m *metrics.Metrics) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	b := NewWithAPI(api, cfg, handler, m)
	b.logger.Info().
		Str("username", api.Self.UserName).
		Int64("id", api.Self.ID).
		Msg("Telegram bot authenticated")
	return b, nil
}

// NewWithAPI creates a Bot on top of an existing API client
func NewWithAPI(api API, cfg config.TelegramConfig, handler Handler, m *metrics.Metrics) *Bot {
	owners := make(map[int64]bool, len(cfg.OwnerIDs))
	for _, id := range cfg.OwnerIDs {
		owners[id] = true
	}
	return &Bot{
		api:          api,
		handler:      handler,
		owners:       owners,
		allowPrivate: cfg.AllowPrivate,
		metrics:      m,
		logger:       log.With().Str("component", "telegram").Logger(),
	}
}

// Run long-polls for updates until ctx is cancelled. Updates are handled one
// at a time, in order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info().Msg("Telegram bot started")
	defer func() {
		b.api.StopReceivingUpdates()
		b.logger.Info().Msg("Telegram bot stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				b.logger.Error().
					Err(err).
					Int("update_id", update.UpdateID).
					Msg("Failed to handle update")
			}
		}
	}
}

// handleUpdate passes a text message to the handler and sends the reply
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.Chat == nil {
		return nil
	}
	if msg.Chat.IsPrivate() && !b.allowPrivate {
		return nil
	}
	b.metrics.Received(transport)

	in := bot.Message{
		Transport: transport,
		Channel:   strconv.FormatInt(msg.Chat.ID, 10),
		Text:      msg.Text,
	}
	if msg.From != nil {
		in.Author = msg.From.UserName
		in.Owner = b.owners[msg.From.ID]
	}

	reply, ok := b.handler.Handle(ctx, in)
	if !ok {
		return nil
	}
	return b.send(msg.Chat.ID, reply)
}

// send sends a text message
func (b *Bot) send(chatID int64, text string) error {
	out := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(out); err != nil {
		b.metrics.SendFailed(transport)
		return fmt.Errorf("failed to send message: %w", err)
	}

	b.logger.Debug().
		Int64("chat_id", chatID).
		Msg("Message sent")
	return nil
}
