package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/internal/sm2"
)

// Default notification window (local hours)
const (
	DefaultNotificationStartHour = 9
	DefaultNotificationEndHour   = 21
)

// Notifier delivers a practice reminder to the learner's chat
type Notifier interface {
	SendReminder(chatID int64, dueCount int) error
}

// Scheduler periodically checks how many reviews are due and nudges the
// learner to practice.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	clock     sm2.Clock
}

// New creates a new scheduler instance
func New(notifier Notifier, clock sm2.Clock) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		clock:     clock,
	}
}

// Start begins running all scheduled tasks without blocking
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminder sends a reminder when reviews are due and the current
// hour falls inside the notification window.
func (s *Scheduler) checkAndSendReminder() {
	currentHour := time.Now().Hour()
	startHour := hourFromEnv("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := hourFromEnv("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		return
	}

	if err := s.RunManualCheck(context.Background()); err != nil {
		log.Printf("scheduler: reminder check failed: %v", err)
	}
}

// RunManualCheck counts due reviews and notifies the learner's chat if
// anything is pending.
func (s *Scheduler) RunManualCheck(ctx context.Context) error {
	profileRepo := database.NewProfileRepository()
	reviewRepo := database.NewReviewRepository()

	profile, err := profileRepo.Get(ctx)
	if err != nil {
		return err
	}
	if profile.ChatID == 0 {
		// Learner has never talked to the bot
		return nil
	}

	count, err := reviewRepo.CountDue(ctx, string(s.clock.Today()))
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	return s.notifier.SendReminder(profile.ChatID, count)
}

// hourFromEnv reads an hour override from the environment
func hourFromEnv(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
