package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/timezone"
)

type WorkingDay struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
}

// WeeklyHours reads and replaces the weekly schedule availability is
// computed from.
type WeeklyHours struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewWeeklyHours(repo domain.Repository, audit *audit.Dispatcher) *WeeklyHours {
	return &WeeklyHours{repo: repo, audit: audit}
}

func (uc *WeeklyHours) Get(ctx context.Context, barberID uint) ([]models.Availability, error) {
	return uc.repo.ListAvailability(ctx, barberID)
}

func (uc *WeeklyHours) Replace(
	ctx context.Context,
	barberID uint,
	tz string,
	days []WorkingDay,
) ([]models.Availability, error) {

	if tz != "" && !timezone.IsValid(tz) {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", "timezone: unknown timezone")
	}

	seen := map[int]bool{}
	rows := make([]models.Availability, 0, len(days))
	var details []string

	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			details = append(details, fmt.Sprintf("weekday %d: must be between 0 and 6", d.Weekday))
			continue
		}
		if seen[d.Weekday] {
			details = append(details, fmt.Sprintf("weekday %d: listed twice", d.Weekday))
			continue
		}
		seen[d.Weekday] = true

		if msg := validateDay(d); msg != "" {
			details = append(details, fmt.Sprintf("weekday %d: %s", d.Weekday, msg))
			continue
		}

		rows = append(rows, models.Availability{
			BarberID:   barberID,
			Weekday:    d.Weekday,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
			Timezone:   tz,
			Active:     d.Active,
		})
	}
	if len(details) > 0 {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", details...)
	}

	if err := uc.repo.ReplaceAvailability(ctx, barberID, rows); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &barberID,
		Action:   "working_hours_updated",
		Entity:   "availability",
		Metadata: map[string]int{"days": len(rows)},
	})

	return uc.repo.ListAvailability(ctx, barberID)
}

func validateDay(d WorkingDay) string {
	start, err1 := time.Parse("15:04", d.StartTime)
	end, err2 := time.Parse("15:04", d.EndTime)
	if err1 != nil || err2 != nil {
		return "startTime and endTime must be HH:MM"
	}
	if !start.Before(end) {
		return "startTime must be before endTime"
	}

	if d.BreakStart == "" && d.BreakEnd == "" {
		return ""
	}
	bs, err1 := time.Parse("15:04", d.BreakStart)
	be, err2 := time.Parse("15:04", d.BreakEnd)
	if err1 != nil || err2 != nil {
		return "breakStart and breakEnd must both be HH:MM"
	}
	if !bs.Before(be) || bs.Before(start) || be.After(end) {
		return "break must fall inside working hours"
	}
	return ""
}
