package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/lingobot/internal/session"
	"github.com/example/lingobot/pkg/models"
)

// handleUpdate routes one Telegram update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if err := b.profiles.SetChatID(ctx, chatID); err != nil {
			log.Printf("bot: failed to remember chat %d: %v", chatID, err)
		}
		b.send(chatID, "👋 Welcome! Use /learn to pick a lesson, /practice to review what's due, /stats for your progress.")

	case "learn":
		b.showUnits(ctx, chatID)

	case "practice":
		b.startSession(ctx, chatID, session.StartRequest{Mode: session.ModePractice})

	case "stats":
		b.showStats(ctx, chatID)

	case "quit":
		if s, ok := b.sessions[chatID]; ok {
			b.runner.Cancel(s)
			delete(b.sessions, chatID)
			b.send(chatID, "Session abandoned. Your answered exercises are already saved.")
		} else {
			b.send(chatID, "No active session.")
		}

	default:
		b.send(chatID, "Commands: /learn, /practice, /stats, /quit")
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Always acknowledge so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("bot: failed to ack callback: %v", err)
	}

	chatID := query.Message.Chat.ID
	data := query.Data

	switch {
	case strings.HasPrefix(data, "unit:"):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, "unit:"), 10, 64); err == nil {
			b.showNodes(ctx, chatID, id)
		}
	case strings.HasPrefix(data, "node:"):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, "node:"), 10, 64); err == nil {
			b.showLevels(ctx, chatID, id)
		}
	case strings.HasPrefix(data, "level:"):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, "level:"), 10, 64); err == nil {
			b.startSession(ctx, chatID, session.StartRequest{Mode: session.ModeLevel, LevelID: id})
		}
	case strings.HasPrefix(data, "ans:"):
		b.handleAnswer(ctx, chatID, strings.TrimPrefix(data, "ans:"))
	}
}

func (b *Bot) showUnits(ctx context.Context, chatID int64) {
	units, err := b.curriculum.GetUnits(ctx)
	if err != nil {
		log.Printf("bot: failed to load units: %v", err)
		b.send(chatID, "Couldn't load the curriculum, please try again.")
		return
	}
	if len(units) == 0 {
		b.send(chatID, "No curriculum imported yet.")
		return
	}

	var buttons [][]MenuButton
	for _, unit := range units {
		buttons = append(buttons, []MenuButton{{
			Text:         unit.Title,
			CallbackData: fmt.Sprintf("unit:%d", unit.ID),
		}})
	}
	b.sendWithKeyboard(chatID, "📚 Pick a unit:", createKeyboard(buttons))
}

func (b *Bot) showNodes(ctx context.Context, chatID int64, unitID int64) {
	nodes, err := b.curriculum.GetNodeSummaries(ctx, unitID)
	if err != nil {
		log.Printf("bot: failed to load nodes: %v", err)
		b.send(chatID, "Couldn't load this unit, please try again.")
		return
	}

	var buttons [][]MenuButton
	for _, node := range nodes {
		buttons = append(buttons, []MenuButton{{
			Text:         fmt.Sprintf("%s (%d/%d)", node.Title, node.CompletedLevels, node.TotalLevels),
			CallbackData: fmt.Sprintf("node:%d", node.ID),
		}})
	}
	b.sendWithKeyboard(chatID, "Pick a topic:", createKeyboard(buttons))
}

func (b *Bot) showLevels(ctx context.Context, chatID int64, nodeID int64) {
	levels, err := b.curriculum.GetRoadmapLevels(ctx, nodeID)
	if err != nil {
		log.Printf("bot: failed to load levels: %v", err)
		b.send(chatID, "Couldn't load the levels, please try again.")
		return
	}

	var buttons [][]MenuButton
	for _, level := range levels {
		title := level.Title
		if level.IsCompleted {
			title = "✅ " + title
		}
		buttons = append(buttons, []MenuButton{{
			Text:         title,
			CallbackData: fmt.Sprintf("level:%d", level.ID),
		}})
	}
	b.sendWithKeyboard(chatID, "Pick a level:", createKeyboard(buttons))
}

func (b *Bot) startSession(ctx context.Context, chatID int64, req session.StartRequest) {
	if old, ok := b.sessions[chatID]; ok {
		b.runner.Cancel(old)
		delete(b.sessions, chatID)
	}

	s, err := b.runner.Start(ctx, req)
	if err != nil {
		log.Printf("bot: failed to start session for chat %d: %v", chatID, err)
		b.send(chatID, "Couldn't start the session, please try again.")
		return
	}

	if s.State() == session.StateNothingDue {
		b.send(chatID, "✅ Nothing due for review. Your brain is fresh — come back tomorrow!")
		return
	}

	b.sessions[chatID] = s
	b.presentExercise(chatID, s)
}

// presentExercise shows the session's current exercise with answer buttons.
// Exercises without options (ordering, matching) are self-graded.
func (b *Bot) presentExercise(chatID int64, s *session.Session) {
	exercise, ok := s.Current()
	if !ok {
		return
	}

	var content models.ExerciseContent
	if err := json.Unmarshal([]byte(exercise.ContentJSON), &content); err != nil {
		log.Printf("bot: malformed content for exercise %d: %v", exercise.ID, err)
		content.Prompt = "(malformed exercise)"
	}

	text := fmt.Sprintf("Question %d/%d\n\n%s", s.AnsweredCount()+1, s.Size(), content.Prompt)

	var buttons [][]MenuButton
	if len(content.Options) > 0 {
		for i, option := range content.Options {
			buttons = append(buttons, []MenuButton{{
				Text:         option,
				CallbackData: fmt.Sprintf("ans:%d", i),
			}})
		}
	} else {
		text += fmt.Sprintf("\n\nAnswer: ||%s||", exercise.CorrectAnswer)
		buttons = append(buttons, []MenuButton{
			{Text: "✅ Got it", CallbackData: "ans:y"},
			{Text: "❌ Missed it", CallbackData: "ans:n"},
		})
	}

	b.sendWithKeyboard(chatID, text, createKeyboard(buttons))
}

func (b *Bot) handleAnswer(ctx context.Context, chatID int64, data string) {
	s, ok := b.sessions[chatID]
	if !ok {
		b.send(chatID, "No active session. Use /learn or /practice to start one.")
		return
	}

	exercise, ok := s.Current()
	if !ok {
		delete(b.sessions, chatID)
		return
	}

	var isCorrect bool
	switch data {
	case "y":
		isCorrect = true
	case "n":
		isCorrect = false
	default:
		idx, err := strconv.Atoi(data)
		if err != nil {
			return
		}
		var content models.ExerciseContent
		if err := json.Unmarshal([]byte(exercise.ContentJSON), &content); err != nil || idx >= len(content.Options) {
			return
		}
		isCorrect = content.Options[idx] == exercise.CorrectAnswer
	}

	progress, err := b.runner.Submit(ctx, s, session.Answer{ExerciseID: exercise.ID, IsCorrect: isCorrect})
	if err == session.ErrSessionClosed {
		delete(b.sessions, chatID)
		b.send(chatID, "That session is over. Use /learn or /practice to start a new one.")
		return
	}
	if err != nil {
		log.Printf("bot: failed to process answer for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong with that answer, please try again.")
		return
	}

	if progress.Revealed {
		reveal := fmt.Sprintf("❌ The correct answer was: %s", exercise.CorrectAnswer)
		if exercise.Explanation != "" {
			reveal += "\n\n💡 " + exercise.Explanation
		}
		b.send(chatID, reveal)
	} else {
		b.send(chatID, "✅ Correct!")
	}

	switch progress.State {
	case session.StateCompleted:
		delete(b.sessions, chatID)
		b.recordActivity(ctx)
		if s.Mode == session.ModePractice {
			b.send(chatID, fmt.Sprintf("🎉 Review complete! %d/%d correct.", progress.Correct, progress.Total))
		} else {
			b.send(chatID, fmt.Sprintf("🎉 Level finished! %d/%d correct. +%d XP", progress.Correct, progress.Total, progress.Correct*session.XPPerCorrect))
		}
	case session.StateGameOver:
		delete(b.sessions, chatID)
		b.send(chatID, "💔 You're out of hearts. Take a break and try again later.")
	default:
		b.presentExercise(chatID, s)
	}
}

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	profile, err := b.profiles.Get(ctx)
	if err != nil {
		log.Printf("bot: failed to load profile: %v", err)
		b.send(chatID, "Couldn't load your stats, please try again.")
		return
	}

	due, err := b.selector.CountDue(ctx, b.clock.Today())
	if err != nil {
		log.Printf("bot: failed to count due reviews: %v", err)
		due = 0
	}

	b.send(chatID, fmt.Sprintf(
		"📊 Your stats\n\nXP: %d\nHearts: %d\nStreak: %d day(s)\nDue for review: %d",
		profile.TotalXP, profile.Hearts, profile.StreakCount, due))
}

// recordActivity extends the daily streak after a finished session
func (b *Bot) recordActivity(ctx context.Context) {
	today := b.clock.Today()
	if err := b.profiles.TouchActivity(ctx, string(today), string(today.AddDays(-1))); err != nil {
		log.Printf("bot: failed to update streak: %v", err)
	}
}
