package bot

import (
	"context"
	"fmt"

	"ride-marketplace/internal/usecase"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the Telegram front end. It maps chat conversations onto the same
// services the HTTP API uses.
type Bot struct {
	api      *tgbotapi.BotAPI
	service  *usecase.Service
	sessions SessionStore
	log      *zap.Logger
}

func New(token string, service *usecase.Service, sessions SessionStore, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	return &Bot{
		api:      api,
		service:  service,
		sessions: sessions,
		log:      log.With(zap.String("component", "bot")),
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info("Bot started", zap.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("Bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
