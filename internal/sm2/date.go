package sm2

import (
	"fmt"
	"time"
)

// DateKey is a local calendar day in YYYY-MM-DD form. Zero-padded ISO dates
// compare correctly as strings, so DateKey values order with < and <=.
type DateKey string

const dateLayout = "2006-01-02"

// DateKeyOf converts a point in time to the calendar day in its location
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(dateLayout))
}

// ParseDateKey validates a stored YYYY-MM-DD value
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date key %q: %w", s, err)
	}
	return DateKeyOf(t), nil
}

// AddDays returns the date key n days after d
func (d DateKey) AddDays(n int) DateKey {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	return DateKeyOf(t.AddDate(0, 0, n))
}

// After reports whether d falls after other
func (d DateKey) After(other DateKey) bool {
	return string(d) > string(other)
}

func (d DateKey) String() string {
	return string(d)
}

// Clock supplies the current local calendar day. Injected everywhere a
// "today" is needed so scheduling stays deterministic under test.
type Clock interface {
	Today() DateKey
}

// LocalClock reads the system clock in the process local timezone. The local
// day is used instead of UTC so reviews do not shift by a day for learners
// near midnight.
type LocalClock struct{}

// Today returns the current local calendar day
func (LocalClock) Today() DateKey {
	return DateKeyOf(time.Now().Local())
}

// FixedClock always returns the same day. Test helper.
type FixedClock struct {
	Day DateKey
}

// Today returns the configured day
func (c FixedClock) Today() DateKey {
	return c.Day
}
