package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

const (
	SlotDuration = 30 * time.Minute
	CancelWindow = 24 * time.Hour

	defaultCancelReason = "No reason provided"
)

// ===============================
// Domain Rules
// ===============================

func EndFor(start time.Time) time.Time {
	return start.Add(SlotDuration)
}

// Overlaps treats both intervals as half-open, so back-to-back slots do not
// collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func TypeFor(address string) Type {
	if strings.TrimSpace(address) != "" {
		return TypeHome
	}
	return TypeShop
}

// WithinCancelWindow is true while at least 24h remain before start.
func WithinCancelWindow(start, now time.Time) bool {
	return start.Sub(now) >= CancelWindow
}

func AppendCancellationReason(notes, reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}
	line := "Cancellation reason: " + reason
	if notes == "" {
		return line
	}
	return notes + "\n\n" + line
}

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}
	if !WithinCancelWindow(ap.StartTime, now) {
		return httperr.ErrBusiness(httperr.CodeTooLateToCancel)
	}

	ap.Status = string(StatusCanceled)
	ap.Notes = AppendCancellationReason(ap.Notes, reason)
	ap.CanceledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanClose(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanClose(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	ap.CompletedAt = &now
	return nil
}
