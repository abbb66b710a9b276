package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute lists the free 30 minute slots of a barber on a calendar date.
// Working hours come from the barber's weekly availability; slots in the
// break, in the past, or overlapping an active appointment are skipped.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	barber, err := uc.repo.FindBarber(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	if barber == nil {
		return nil, httperr.New(httperr.CodeNotFound, "Barber not found")
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", "date: expected YYYY-MM-DD")
	}

	wh, err := uc.repo.FindAvailability(ctx, in.BarberID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return []domain.TimeSlot{}, nil
	}

	tz := in.Timezone
	if wh.Timezone != "" {
		tz = wh.Timezone
	}
	loc := timezone.Location(tz)

	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	dayStart, ok1 := parseHM(wh.StartTime)
	dayEnd, ok2 := parseHM(wh.EndTime)
	if !ok1 || !ok2 || !dayStart.Before(dayEnd) {
		return []domain.TimeSlot{}, nil
	}

	breakStart, hasBreak := parseHM(wh.BreakStart)
	breakEnd, ok := parseHM(wh.BreakEnd)
	hasBreak = hasBreak && ok && breakStart.Before(breakEnd)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		in.BarberID,
		dayStart,
		dayEnd,
		domain.ActiveStatuses,
	)
	if err != nil {
		return nil, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	slots := []domain.TimeSlot{}
	apIdx := 0

	for cur := dayStart; !cur.Add(domain.SlotDuration).After(dayEnd); cur = cur.Add(domain.SlotDuration) {
		slotStart := cur
		slotEnd := domain.EndFor(cur)

		if !slotStart.After(now) {
			continue
		}

		if hasBreak && domain.Overlaps(slotStart, slotEnd, breakStart, breakEnd) {
			continue
		}

		// appointments are ordered by start; skip the ones already over
		for apIdx < len(appointments) && !appointments[apIdx].EndTime.After(slotStart) {
			apIdx++
		}

		conflict := false
		for i := apIdx; i < len(appointments) && appointments[i].StartTime.Before(slotEnd); i++ {
			if domain.Overlaps(slotStart, slotEnd, appointments[i].StartTime, appointments[i].EndTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, domain.TimeSlot{
				Start: slotStart.UTC(),
				End:   slotEnd.UTC(),
				Label: slotStart.Format("15:04"),
			})
		}
	}

	return slots, nil
}
