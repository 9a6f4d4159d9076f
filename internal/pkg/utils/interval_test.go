package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeInterval(t *testing.T) {
	assert.Equal(t, "0:00:00", HumanizeInterval(0))
	assert.Equal(t, "1:05:09", HumanizeInterval(time.Hour+5*time.Minute+9*time.Second))
	assert.Equal(t, "26:00:00", HumanizeInterval(26*time.Hour), "no day rollover")
	assert.Equal(t, "2:30:00", HumanizeInterval(-(2*time.Hour + 30*time.Minute)))
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	d := DateOnly(time.Date(2026, 8, 30, 23, 59, 59, 12345, loc))
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc), d)
	assert.Equal(t, loc, d.Location(), "location is preserved")
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, 8, 30, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(b, c))
}
