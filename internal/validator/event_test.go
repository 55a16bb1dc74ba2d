package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventregistry/internal/model"
)

func TestIsTitleValid(t *testing.T) {
	require.True(t, IsTitleValid("Go Meetup"))
	require.True(t, IsTitleValid(strings.Repeat("a", 100)))
	require.False(t, IsTitleValid(""))
	require.False(t, IsTitleValid(strings.Repeat("a", 101)))
}

func TestIsDescriptionValid(t *testing.T) {
	require.True(t, IsDescriptionValid("An evening of talks."))
	require.True(t, IsDescriptionValid(strings.Repeat("a", 500)))
	require.False(t, IsDescriptionValid(""))
	require.False(t, IsDescriptionValid(strings.Repeat("a", 501)))
}

func TestIsDateValid(t *testing.T) {
	now := time.Now()

	t.Run("zero time is invalid", func(t *testing.T) {
		require.False(t, IsDateValid(time.Time{}))
	})

	t.Run("yesterday is invalid", func(t *testing.T) {
		require.False(t, IsDateValid(now.AddDate(0, 0, -1)))
	})

	t.Run("tomorrow is valid", func(t *testing.T) {
		require.True(t, IsDateValid(now.AddDate(0, 0, 1)))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		// Midnight today is in the past as an instant but valid as a date.
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		require.True(t, IsDateValid(midnight))
	})
}

func TestIsLocationValid(t *testing.T) {
	require.True(t, IsLocationValid("Town Hall"))
	require.True(t, IsLocationValid(strings.Repeat("a", 200)))
	require.False(t, IsLocationValid(""))
	require.False(t, IsLocationValid(strings.Repeat("a", 201)))
}

func TestIsMaxAttendeesValid(t *testing.T) {
	require.True(t, IsMaxAttendeesValid(1))
	require.True(t, IsMaxAttendeesValid(100))
	require.False(t, IsMaxAttendeesValid(0))
	require.False(t, IsMaxAttendeesValid(-1))
	require.False(t, IsMaxAttendeesValid(101))
}

func TestIsEventValid(t *testing.T) {
	valid := model.EventData{
		Title:        "Go Meetup",
		Description:  "An evening of talks.",
		Date:         time.Now().AddDate(0, 0, 7),
		Location:     "Town Hall",
		MaxAttendees: 50,
	}

	require.True(t, IsEventValid(&valid))
	require.False(t, IsEventValid(nil))

	t.Run("each field gates the whole", func(t *testing.T) {
		noTitle := valid
		noTitle.Title = ""
		require.False(t, IsEventValid(&noTitle))

		pastDate := valid
		pastDate.Date = time.Now().AddDate(0, 0, -7)
		require.False(t, IsEventValid(&pastDate))

		overCapacity := valid
		overCapacity.MaxAttendees = 500
		require.False(t, IsEventValid(&overCapacity))
	})
}
