package bookingwindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	wd, err := ParseWeekday(" Wednesday ")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, wd)

	_, err = ParseWeekday("quarta")
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("02:59")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour+59*time.Minute, d)

	_, err = ParseClock("25:00")
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestRulesValidate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())

	r := DefaultRules()
	r.CutoffTime = 24 * time.Hour
	assert.ErrorIs(t, r.Validate(), ErrInvalidRules)

	r = DefaultRules()
	r.ReleaseTime = -time.Minute
	assert.ErrorIs(t, r.Validate(), ErrInvalidRules)

	r = DefaultRules()
	r.LocalOffset = 15 * time.Hour
	assert.ErrorIs(t, r.Validate(), ErrInvalidRules)
}
