package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"same slot", base, true},
		{"starts inside", base.Add(15 * time.Minute), true},
		{"ends inside", base.Add(-15 * time.Minute), true},
		{"adjacent after", base.Add(30 * time.Minute), false},
		{"adjacent before", base.Add(-30 * time.Minute), false},
		{"far away", base.Add(3 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(base, EndFor(base), tt.start, EndFor(tt.start))
			assert.Equal(t, tt.want, got)
			// symmetric
			assert.Equal(t, tt.want, Overlaps(tt.start, EndFor(tt.start), base, EndFor(base)))
		})
	}
}

func TestTypeFor(t *testing.T) {
	assert.Equal(t, TypeShop, TypeFor(""))
	assert.Equal(t, TypeShop, TypeFor("   "))
	assert.Equal(t, TypeHome, TypeFor("12 Main St"))
}

func TestCancelWindowBoundary(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, WithinCancelWindow(now.Add(24*time.Hour), now))
	assert.False(t, WithinCancelWindow(now.Add(23*time.Hour+59*time.Minute), now))
	assert.True(t, WithinCancelWindow(now.Add(72*time.Hour), now))
}

func TestCancel(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("appends reason and marks canceled", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusBooked), StartTime: now.Add(48 * time.Hour), Notes: "fade"}
		require.NoError(t, Cancel(ap, "sick", now))
		assert.Equal(t, string(StatusCanceled), ap.Status)
		assert.Equal(t, "fade\n\nCancellation reason: sick", ap.Notes)
		require.NotNil(t, ap.CanceledAt)
	})

	t.Run("default reason on empty notes", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusConfirmed), StartTime: now.Add(48 * time.Hour)}
		require.NoError(t, Cancel(ap, "", now))
		assert.Equal(t, "Cancellation reason: No reason provided", ap.Notes)
	})

	t.Run("too late", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusBooked), StartTime: now.Add(23*time.Hour + 59*time.Minute)}
		err := Cancel(ap, "", now)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeTooLateToCancel))
		assert.Equal(t, string(StatusBooked), ap.Status)
	})

	t.Run("already completed", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusCompleted), StartTime: now.Add(48 * time.Hour)}
		assert.True(t, httperr.IsBusiness(Cancel(ap, "", now), httperr.CodeNotFound))
	})
}

func TestCloseTransitions(t *testing.T) {
	now := time.Now().UTC()

	ap := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, Complete(ap, now))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	assert.True(t, httperr.IsBusiness(MarkNoShow(ap, now), httperr.CodeConflict))

	ap = &models.Appointment{Status: string(StatusBooked)}
	require.NoError(t, MarkNoShow(ap, now))
	assert.Equal(t, string(StatusNoShow), ap.Status)
}
