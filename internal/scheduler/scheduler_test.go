package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/internal/sm2"
	"github.com/example/lingobot/pkg/models"
)

type fakeNotifier struct {
	chatID int64
	count  int
	calls  int
}

func (f *fakeNotifier) SendReminder(chatID int64, dueCount int) error {
	f.chatID = chatID
	f.count = dueCount
	f.calls++
	return nil
}

func TestRunManualCheckNotifiesWhenDue(t *testing.T) {
	require.NoError(t, database.ConnectForTest())
	t.Cleanup(func() { _ = database.Close() })
	ctx := context.Background()

	profiles := database.NewProfileRepository()
	require.NoError(t, profiles.SetChatID(ctx, 42))

	reviews := database.NewReviewRepository()
	require.NoError(t, reviews.Upsert(ctx, models.ReviewState{ExerciseID: 1, EaseFactor: 2.5, NextReview: "2023-12-30"}))
	require.NoError(t, reviews.Upsert(ctx, models.ReviewState{ExerciseID: 2, EaseFactor: 2.5, NextReview: "2024-01-01"}))
	require.NoError(t, reviews.Upsert(ctx, models.ReviewState{ExerciseID: 3, EaseFactor: 2.5, NextReview: "2024-06-01"}))

	notifier := &fakeNotifier{}
	s := New(notifier, sm2.FixedClock{Day: "2024-01-01"})

	require.NoError(t, s.RunManualCheck(ctx))
	assert.Equal(t, 1, notifier.calls)
	assert.EqualValues(t, 42, notifier.chatID)
	assert.Equal(t, 2, notifier.count)
}

func TestRunManualCheckSkipsWhenNothingDue(t *testing.T) {
	require.NoError(t, database.ConnectForTest())
	t.Cleanup(func() { _ = database.Close() })
	ctx := context.Background()

	require.NoError(t, database.NewProfileRepository().SetChatID(ctx, 42))

	notifier := &fakeNotifier{}
	s := New(notifier, sm2.FixedClock{Day: "2024-01-01"})

	require.NoError(t, s.RunManualCheck(ctx))
	assert.Zero(t, notifier.calls)
}

func TestRunManualCheckSkipsUnknownChat(t *testing.T) {
	require.NoError(t, database.ConnectForTest())
	t.Cleanup(func() { _ = database.Close() })
	ctx := context.Background()

	require.NoError(t, database.NewReviewRepository().Upsert(ctx,
		models.ReviewState{ExerciseID: 1, EaseFactor: 2.5, NextReview: "2023-12-30"}))

	notifier := &fakeNotifier{}
	s := New(notifier, sm2.FixedClock{Day: "2024-01-01"})

	require.NoError(t, s.RunManualCheck(ctx))
	assert.Zero(t, notifier.calls, "no reminder before the learner talks to the bot")
}
