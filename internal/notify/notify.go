// Package notify announces newly logged meals to the dietitian.
package notify

import (
	"fmt"
	"log"

	"diet-photo-diary/internal/diary"
	"diet-photo-diary/internal/timefmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is told about every successful upload. Failures must stay
// internal; the uploader never sees them.
type Notifier interface {
	MealLogged(meal diary.Meal)
}

// Nop is used when no Telegram credentials are configured.
type Nop struct{}

func (Nop) MealLogged(diary.Meal) {}

// Telegram sends a short message per upload to a fixed chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram initializes the Telegram notifier.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Printf("Upload notifications go to chat %d as %s", chatID, bot.Self.UserName)

	return &Telegram{api: bot, chatID: chatID}, nil
}

// MealLogged sends the notification. Errors are logged and swallowed.
func (t *Telegram) MealLogged(meal diary.Meal) {
	when, err := timefmt.FormatTime(meal.TakenAt)
	if err != nil {
		when = meal.TakenAt
	}

	text := fmt.Sprintf("🍽 %s logged %s at %s", meal.User.Name, meal.MealType, when)
	if meal.Note != "" {
		text += "\n" + meal.Note
	}

	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		log.Printf("Failed to send upload notification: %v", err)
	}
}
