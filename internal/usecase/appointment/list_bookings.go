package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/dto"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

type ListBookingsInput struct {
	ClientID uint
	Status   string
	Limit    int
	Offset   int
}

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) (*dto.BookingList, error) {

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != "" && !domain.Status(status).Valid() {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", "status: unknown appointment status")
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := uc.repo.ListForClient(ctx, in.ClientID, status, limit, offset)
	if err != nil {
		return nil, err
	}

	out := &dto.BookingList{
		Appointments: make([]dto.BookingItem, 0, len(rows)),
		Pagination: dto.Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: len(rows) == limit,
		},
	}
	for _, ap := range rows {
		item := dto.BookingItem{
			ID:      ap.ID,
			StartAt: ap.StartTime,
			EndAt:   ap.EndTime,
			Status:  ap.Status,
			Type:    ap.Type,
			Notes:   ap.Notes,
			Address: ap.Address,
		}
		if ap.Barber != nil {
			item.Barber = &dto.BarberSummary{
				ID:    ap.Barber.ID,
				Name:  ap.Barber.Name,
				Email: ap.Barber.Email,
			}
		}
		out.Appointments = append(out.Appointments, item)
	}

	return out, nil
}
