// Package telegram_bot pushes new high-severity risk flags to counselors'
// Telegram chats so urgent cases are seen before anyone opens the dashboard.
package telegram_bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"talkitout/internal/config"
	"talkitout/internal/models"
	"talkitout/internal/repository"
)

// Bot notifies counselors about newly created risk flags.
type Bot struct {
	api      *tgbotapi.BotAPI
	logger   *zap.Logger
	flagRepo repository.RiskFlagRepository
	chatIDs  []int64
}

// NewBot creates the notification bot. Returns (nil, nil) when notifications
// are disabled, which every caller treats as "no bot".
func NewBot(cfg *config.Config, flagRepo repository.RiskFlagRepository, logger *zap.Logger) (*Bot, error) {
	if !cfg.Notifications.Enabled || cfg.Notifications.TelegramBotToken == "" {
		logger.Info("Telegram notifications are disabled")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifications.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	return &Bot{
		api:      botAPI,
		logger:   logger,
		flagRepo: flagRepo,
		chatIDs:  cfg.Notifications.CounselorChatIDs,
	}, nil
}

// Start listens for counselor commands until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b == nil {
		return nil
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Telegram bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot shutting down...")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.Message != nil {
				b.handleMessage(update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}
	switch message.Command() {
	case "start":
		b.sendMessage(message.Chat.ID,
			"Hello! I notify counselors about new high-severity risk flags in TalkItOut.\n"+
				"Your chat ID: "+strconv.FormatInt(message.Chat.ID, 10)+"\n"+
				"Ask an administrator to add it to the notification list.")
	case "open":
		b.handleOpenCommand(message)
	case "help":
		b.sendMessage(message.Chat.ID,
			"/start - introduction and your chat ID\n"+
				"/open - count of currently open risk flags\n"+
				"/help - this message")
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help.")
	}
}

func (b *Bot) handleOpenCommand(message *tgbotapi.Message) {
	flags, err := b.flagRepo.GetFlagsByStatus(models.FlagOpen)
	if err != nil {
		b.logger.Error("Failed to count open flags", zap.Error(err))
		b.sendMessage(message.Chat.ID, "Could not read open flags right now.")
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Open risk flags: %d", len(flags)))
}

// NotifyFlagCreated sends a new-flag alert to every configured counselor
// chat. Message text is never included: counselors see it in the dashboard
// only, after authenticating.
func (b *Bot) NotifyFlagCreated(flag *models.RiskFlag) {
	if b == nil {
		return
	}

	text := fmt.Sprintf(
		"New high-severity risk flag\n\nFlag ID: %d\nSeverity: %d\nTags: %s\n\nPlease review it in the counselor dashboard.",
		flag.ID,
		flag.Severity,
		strings.Join(flag.Tags, ", "),
	)

	for _, chatID := range b.chatIDs {
		b.sendMessage(chatID, text)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
