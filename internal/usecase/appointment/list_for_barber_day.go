package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/dto"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/timezone"
)

type ListForBarberDay struct {
	repo domain.Repository
}

func NewListForBarberDay(repo domain.Repository) *ListForBarberDay {
	return &ListForBarberDay{repo: repo}
}

// Execute lists every appointment of the barber on date (YYYY-MM-DD in tz),
// whatever its status.
func (uc *ListForBarberDay) Execute(
	ctx context.Context,
	barberID uint,
	date string,
	tz string,
) ([]dto.AppointmentListDTO, error) {

	day, err := timezone.ParseDate(date, tz)
	if err != nil {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", "date: expected YYYY-MM-DD")
	}
	start, end := timezone.DayBounds(day)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, barberID, start, end, nil)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		row := dto.AppointmentListDTO{
			ID:      ap.ID,
			StartAt: ap.StartTime,
			EndAt:   ap.EndTime,
			Status:  ap.Status,
			Type:    ap.Type,
			Address: ap.Address,
			Notes:   ap.Notes,
		}
		if ap.Client != nil {
			row.ClientName = ap.Client.Name
		}
		out = append(out, row)
	}

	return out, nil
}
