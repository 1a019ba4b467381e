// Package review defines the review-store contract and the due-set
// selection policy that decides which exercises a practice session
// should contain.
package review

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/lingobot/internal/sm2"
	"github.com/example/lingobot/pkg/models"
)

// DefaultDueLimit caps practice batch size so a mobile-style session stays
// short. Items beyond the cap stay due and surface on the next call.
const DefaultDueLimit = 10

// Store persists one review record per exercise id. Implementations must
// make Upsert an atomic insert-or-update keyed by exercise id.
type Store interface {
	Get(ctx context.Context, exerciseID int64) (models.ReviewState, bool, error)
	Upsert(ctx context.Context, state models.ReviewState) error
	DueBefore(ctx context.Context, day string) ([]models.ReviewState, error)
	CountDue(ctx context.Context, day string) (int, error)
}

// Selector answers "what is due for review right now"
type Selector struct {
	store Store
	limit int
}

// NewSelector creates a selector over the given store. A limit of 0 falls
// back to DefaultDueLimit.
func NewSelector(store Store, limit int) *Selector {
	if limit <= 0 {
		limit = DefaultDueLimit
	}
	return &Selector{store: store, limit: limit}
}

// SelectDue returns the exercise ids due on or before today, most overdue
// first (ties broken by exercise id), truncated to the selector's limit.
// An empty result is a normal outcome, not an error.
func (s *Selector) SelectDue(ctx context.Context, today sm2.DateKey) ([]int64, error) {
	states, err := s.store.DueBefore(ctx, string(today))
	if err != nil {
		return nil, fmt.Errorf("failed to select due exercises: %w", err)
	}

	// The store already orders, but re-sorting keeps the policy
	// deterministic regardless of backend collation.
	sort.Slice(states, func(i, j int) bool {
		if states[i].NextReview != states[j].NextReview {
			return states[i].NextReview < states[j].NextReview
		}
		return states[i].ExerciseID < states[j].ExerciseID
	})

	if len(states) > s.limit {
		states = states[:s.limit]
	}

	ids := make([]int64, len(states))
	for i, st := range states {
		ids[i] = st.ExerciseID
	}
	return ids, nil
}

// CountDue returns the number of exercises currently due, without applying
// the batch cap. Drives the pending-review badge and reminders.
func (s *Selector) CountDue(ctx context.Context, today sm2.DateKey) (int, error) {
	count, err := s.store.CountDue(ctx, string(today))
	if err != nil {
		return 0, fmt.Errorf("failed to count due exercises: %w", err)
	}
	return count, nil
}
