package telegram

import (
	"context"
	"fmt"
	"strings"

	"headshotstyler/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier tells the admins about feedback left on a suggestion.
type Notifier interface {
	NotifyFeedback(ctx context.Context, record models.FeedbackRecord, improvedSuggestions string) error
}

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

type BotNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewBotNotifier(token string, chatID int64) (*BotNotifier, error) {
	return NewBotNotifierWithEndpoint(token, tgbotapi.APIEndpoint, chatID)
}

func NewBotNotifierWithEndpoint(token, endpoint string, chatID int64) (*BotNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &BotNotifier{bot: bot, chatID: chatID}, nil
}

func (n *BotNotifier) NotifyFeedback(_ context.Context, record models.FeedbackRecord, improvedSuggestions string) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatFeedbackMessage(record, improvedSuggestions))
	msg.ParseMode = "markdown"
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func FormatFeedbackMessage(record models.FeedbackRecord, improvedSuggestions string) string {
	icon := "👎"
	if record.Rating == models.RatingThumbsUp {
		icon = "👍"
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%s *New style feedback*\n", icon))
	sb.WriteString(fmt.Sprintf("👤 %s\n", EscapeMessage(record.Role)))
	if record.Industry != nil && *record.Industry != "" {
		sb.WriteString(fmt.Sprintf("🏢 %s\n", EscapeMessage(*record.Industry)))
	}
	sb.WriteString(fmt.Sprintf("🎨 %s\n", EscapeMessage(record.StylePreferences)))
	if strings.TrimSpace(record.Feedback) != "" {
		sb.WriteString(fmt.Sprintf("💬 %s\n", EscapeMessage(record.Feedback)))
	}
	sb.WriteString("\n*Suggested:*\n")
	sb.WriteString(EscapeMessage(record.Suggestion))
	if improvedSuggestions != "" {
		sb.WriteString("\n\n*Revised:*\n")
		sb.WriteString(EscapeMessage(improvedSuggestions))
	}
	return sb.String()
}

type NopNotifier struct{}

func (NopNotifier) NotifyFeedback(context.Context, models.FeedbackRecord, string) error {
	return nil
}
