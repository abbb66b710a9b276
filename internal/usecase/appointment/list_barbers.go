package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/dto"
)

type ListBarbers struct {
	repo domain.Repository
}

func NewListBarbers(repo domain.Repository) *ListBarbers {
	return &ListBarbers{repo: repo}
}

func (uc *ListBarbers) Execute(ctx context.Context) ([]dto.BarberSummary, error) {
	users, err := uc.repo.ListBarbers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BarberSummary, 0, len(users))
	for _, u := range users {
		out = append(out, dto.BarberSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}
