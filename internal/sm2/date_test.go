package sm2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyOf(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 0:30 local on Jan 2 is still Jan 1 in UTC; the key follows the
	// wall clock, not UTC.
	late := time.Date(2024, 1, 2, 0, 30, 0, 0, loc)
	assert.Equal(t, DateKey("2024-01-02"), DateKeyOf(late))
}

func TestDateKeyAddDays(t *testing.T) {
	assert.Equal(t, DateKey("2024-01-02"), DateKey("2024-01-01").AddDays(1))
	assert.Equal(t, DateKey("2024-03-01"), DateKey("2024-02-29").AddDays(1))
	assert.Equal(t, DateKey("2024-02-05"), DateKey("2024-01-30").AddDays(6))
	assert.Equal(t, DateKey("2023-12-31"), DateKey("2024-01-01").AddDays(-1))
}

func TestDateKeyOrdering(t *testing.T) {
	assert.True(t, DateKey("2024-01-02").After("2024-01-01"))
	assert.False(t, DateKey("2024-01-01").After("2024-01-01"))
	assert.False(t, DateKey("2023-12-31").After("2024-01-01"))
}

func TestParseDateKey(t *testing.T) {
	d, err := ParseDateKey("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, DateKey("2024-06-15"), d)

	_, err = ParseDateKey("15/06/2024")
	assert.Error(t, err)

	_, err = ParseDateKey("")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	c := FixedClock{Day: "2024-01-01"}
	assert.Equal(t, DateKey("2024-01-01"), c.Today())
}
