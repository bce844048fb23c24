// Package telegram_bot pushes discrepancy alerts to the school-coordination
// Telegram channel. Only validations flagged with high or critical legal risk
// reach it; everything else stays in the dashboard.
package telegram_bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"validation-service/internal/config"
	"validation-service/internal/models"
	"validation-service/internal/repository"
)

const recentAlertLimit = 5

// Bot wraps the Telegram API for alert delivery and a minimal command set.
type Bot struct {
	api            *tgbotapi.BotAPI
	chatID         int64
	validationRepo repository.ValidationRepository
	logger         *zap.Logger
}

// NewBot creates the alert bot. Returns (nil, nil) when alerting is disabled.
func NewBot(cfg *config.Config, validationRepo repository.ValidationRepository, logger *zap.Logger) (*Bot, error) {
	if !cfg.Alerts.Enabled || cfg.Alerts.TelegramBotToken == "" {
		logger.Info("Telegram alerts are disabled (alerts.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Alerts.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	return &Bot{
		api:            botAPI,
		chatID:         cfg.Alerts.ChatID,
		validationRepo: validationRepo,
		logger:         logger,
	}, nil
}

// Start begins listening for commands from Telegram.
func (b *Bot) Start(ctx context.Context) error {
	if b == nil {
		return nil // Bot is disabled
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
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(update.Message)
		}
	}
}

// SendDiscrepancyAlert formats and delivers a warning for one lesson.
func (b *Bot) SendDiscrepancyAlert(lessonID string, warning *models.DiscrepancyWarning) error {
	if b == nil {
		return nil
	}

	text := fmt.Sprintf(
		"⚠️ Inflated lesson score detected\n\nLesson: %s\nModel score: %.0f\nRigorous score: %d\nGap: %.0f\nLegal risk (Lei 13.185): %s\n\n%s\n\nRecommendation: %s",
		lessonID,
		warning.CurrentScore,
		warning.RigorousScore,
		warning.Delta,
		warning.Lei13185Risk,
		warning.Reason,
		warning.Recommendation,
	)

	msg := tgbotapi.NewMessage(b.chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}

	b.logger.Info("Discrepancy alert sent", zap.String("lesson_id", lessonID))
	return nil
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "recent":
		b.replyRecent(message.Chat.ID)
	default:
		reply := tgbotapi.NewMessage(message.Chat.ID, "Commands: /recent — latest flagged validations")
		if _, err := b.api.Send(reply); err != nil {
			b.logger.Error("Failed to send help reply", zap.Error(err))
		}
	}
}

func (b *Bot) replyRecent(chatID int64) {
	validations, err := b.validationRepo.GetFlaggedValidations(recentAlertLimit)
	if err != nil {
		b.logger.Error("Failed to load flagged validations", zap.Error(err))
		return
	}

	if len(validations) == 0 {
		msg := tgbotapi.NewMessage(chatID, "No flagged validations.")
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("Failed to send reply", zap.Error(err))
		}
		return
	}

	var sb strings.Builder
	sb.WriteString("Latest flagged validations:\n")
	for _, v := range validations {
		sb.WriteString(fmt.Sprintf("\n• lesson %s — model %.0f vs rigorous %d (risk: %s)",
			v.LessonID, v.CurrentScore, v.RigorousScore, v.OverallRisk))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply", zap.Error(err))
	}
}
