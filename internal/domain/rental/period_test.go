package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePeriod(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2025-07-01 03:00 in UTC+9 is still June in UTC; the local month wins
	got := NormalizePeriod(time.Date(2025, time.July, 1, 3, 0, 0, 0, loc))
	assert.Equal(t, date(2025, time.July, 1), got)

	assert.Equal(t, date(2025, time.July, 1), NormalizePeriod(time.Date(2025, time.July, 31, 23, 59, 0, 0, time.UTC)))
}

func TestNewPeriod(t *testing.T) {
	p, err := NewPeriod(2025, 7)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.July, 1), p)

	for _, month := range []int{0, 13, -1} {
		_, err := NewPeriod(2025, month)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-07")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.July, 1), p)

	_, err = ParsePeriod("July 2025")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "July 2025", PeriodLabel(date(2025, time.July, 1)))
	assert.Equal(t, "February 2024", PeriodLabel(date(2024, time.February, 1)))
	assert.Equal(t, "2025-07", PeriodKey(date(2025, time.July, 1)))
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, date(2026, time.January, 1), AddMonths(date(2025, time.December, 1), 1))
	assert.Equal(t, date(2024, time.December, 1), AddMonths(date(2025, time.January, 1), -1))
	assert.Equal(t, date(2027, time.March, 1), AddMonths(date(2025, time.March, 15), 24))
}

func TestFirstUnbilledPeriod(t *testing.T) {
	now := time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2026, time.January, 1), FirstUnbilledPeriod(now, time.UTC))

	// already January in Tokyo
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, date(2026, time.February, 1), FirstUnbilledPeriod(now, tokyo))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 28, DaysIn(2025, time.February))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 30, DaysIn(2025, time.April))
	assert.Equal(t, 31, DaysIn(2025, time.December))
}

func TestToday(t *testing.T) {
	now := time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2025, time.June, 30), Today(now, time.UTC))
	assert.Equal(t, date(2025, time.July, 1), Today(now, time.FixedZone("UTC+2", 2*3600)))
}
