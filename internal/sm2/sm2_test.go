package sm2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingobot/pkg/models"
)

const testToday = DateKey("2024-01-01")

func TestScheduleRejectsOutOfRangeQuality(t *testing.T) {
	prior := NewReviewState(1)

	for _, q := range []Quality{-1, 6, 42} {
		_, err := Schedule(q, prior, testToday)
		assert.ErrorIs(t, err, ErrInvalidQuality, "quality %d", q)
	}
}

func TestScheduleFirstSuccess(t *testing.T) {
	res, err := Schedule(QualityPerfect, NewReviewState(1), testToday)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Next.Repetitions)
	assert.Equal(t, 1, res.Next.Interval)
	assert.Equal(t, "2024-01-02", res.Next.NextReview)
	assert.InDelta(t, 2.6, res.Next.EaseFactor, 1e-9)
	assert.False(t, res.RepeatAgain)
}

func TestScheduleFirstFailure(t *testing.T) {
	res, err := Schedule(QualityIncorrect, NewReviewState(1), testToday)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Next.Repetitions)
	assert.Equal(t, 1, res.Next.Interval)
	assert.Equal(t, "2024-01-02", res.Next.NextReview)
	// 2.5 + (0.1 - 4*(0.08 + 4*0.02)) = 1.96, above the floor
	assert.InDelta(t, 1.96, res.Next.EaseFactor, 1e-9)
	assert.True(t, res.RepeatAgain)
}

func TestScheduleSecondSuccessUsesSixDays(t *testing.T) {
	prior := models.ReviewState{
		ExerciseID:  7,
		EaseFactor:  2.5,
		Interval:    6,
		Repetitions: 1,
	}

	res, err := Schedule(QualityPerfect, prior, testToday)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Next.Repetitions)
	assert.Equal(t, 6, res.Next.Interval)
	assert.Equal(t, string(testToday.AddDays(6)), res.Next.NextReview)
}

func TestScheduleMatureIntervalGrowth(t *testing.T) {
	tests := []struct {
		name         string
		prior        models.ReviewState
		quality      Quality
		wantInterval int
		wantEase     float64
	}{
		{
			name:         "perfect recall grows by ease factor",
			prior:        models.ReviewState{EaseFactor: 2.5, Interval: 6, Repetitions: 2},
			quality:      QualityPerfect,
			wantInterval: 16, // round(6 * 2.6)
			wantEase:     2.6,
		},
		{
			name:         "hesitant recall keeps ease factor",
			prior:        models.ReviewState{EaseFactor: 2.5, Interval: 10, Repetitions: 3},
			quality:      QualityCorrectHesitation,
			wantInterval: 25, // round(10 * 2.5)
			wantEase:     2.5,
		},
		{
			name:         "difficult recall shrinks ease factor",
			prior:        models.ReviewState{EaseFactor: 2.5, Interval: 10, Repetitions: 3},
			quality:      QualityCorrectDifficult,
			wantInterval: 24, // round(10 * 2.36)
			wantEase:     2.36,
		},
		{
			name:         "ease factor never drops below 1.3",
			prior:        models.ReviewState{EaseFactor: 1.3, Interval: 4, Repetitions: 2},
			quality:      QualityCorrectDifficult,
			wantInterval: 5, // round(4 * 1.3)
			wantEase:     1.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Schedule(tt.quality, tt.prior, testToday)
			require.NoError(t, err)

			assert.Equal(t, tt.wantInterval, res.Next.Interval)
			assert.InDelta(t, tt.wantEase, res.Next.EaseFactor, 1e-9)
			assert.Equal(t, tt.prior.Repetitions+1, res.Next.Repetitions)
			assert.False(t, res.RepeatAgain)
			// Growing ease keeps intervals non-decreasing on success
			assert.GreaterOrEqual(t, res.Next.Interval, tt.prior.Interval)
		})
	}
}

func TestScheduleFailureResetsProgress(t *testing.T) {
	prior := models.ReviewState{EaseFactor: 2.8, Interval: 42, Repetitions: 9}

	for _, q := range []Quality{QualityBlackout, QualityIncorrect, QualityIncorrectFamiliar} {
		res, err := Schedule(q, prior, testToday)
		require.NoError(t, err)

		assert.Equal(t, 0, res.Next.Repetitions, "quality %d", q)
		assert.Equal(t, 1, res.Next.Interval, "quality %d", q)
		assert.True(t, res.RepeatAgain, "quality %d", q)
		assert.GreaterOrEqual(t, res.Next.EaseFactor, MinEaseFactor)
	}
}

func TestScheduleEaseFactorFloor(t *testing.T) {
	prior := models.ReviewState{EaseFactor: 1.3, Interval: 1, Repetitions: 0}

	// Repeated blackouts may not push EF below the floor
	for i := 0; i < 5; i++ {
		res, err := Schedule(QualityBlackout, prior, testToday)
		require.NoError(t, err)
		assert.Equal(t, MinEaseFactor, res.Next.EaseFactor)
		prior = res.Next
	}
}

func TestScheduleIsPure(t *testing.T) {
	prior := models.ReviewState{ExerciseID: 3, EaseFactor: 2.2, Interval: 12, Repetitions: 4}

	first, err := Schedule(QualityPerfect, prior, testToday)
	require.NoError(t, err)
	second, err := Schedule(QualityPerfect, prior, testToday)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestQualityForAnswer(t *testing.T) {
	assert.Equal(t, QualityPerfect, QualityForAnswer(true))
	assert.Equal(t, QualityIncorrect, QualityForAnswer(false))
}
