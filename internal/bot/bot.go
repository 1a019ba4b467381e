package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/internal/review"
	"github.com/example/lingobot/internal/session"
	"github.com/example/lingobot/internal/sm2"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot is the Telegram front-end driving learning and practice sessions
type Bot struct {
	api        *tgbotapi.BotAPI
	runner     *session.Runner
	selector   *review.Selector
	curriculum *database.CurriculumRepository
	profiles   *database.ProfileRepository
	clock      sm2.Clock
	config     *BotConfig

	// One session per chat; the Telegram update loop serializes access
	sessions map[int64]*session.Session
}

// New creates a new bot instance
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	config := DefaultConfig()
	clock := sm2.LocalClock{}
	reviews := database.NewReviewRepository()
	selector := review.NewSelector(reviews, config.DueLimit)
	runner := session.NewRunner(
		reviews,
		selector,
		database.NewExerciseRepository(),
		database.NewProgressRepository(),
		database.NewProfileRepository(),
		clock,
	)

	return &Bot{
		api:        api,
		runner:     runner,
		selector:   selector,
		curriculum: database.NewCurriculumRepository(),
		profiles:   database.NewProfileRepository(),
		clock:      clock,
		config:     config,
		sessions:   make(map[int64]*session.Session),
	}, nil
}

// Start runs the update loop until the context is canceled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Printf("bot: authorized as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop shuts the update channel down
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// SendReminder implements scheduler.Notifier
func (b *Bot) SendReminder(chatID int64, dueCount int) error {
	text := fmt.Sprintf("⏰ You have %d exercise(s) ready for review. Send /practice to keep your streak going!", dueCount)
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("bot: failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("bot: failed to send message to chat %d: %v", chatID, err)
	}
}
