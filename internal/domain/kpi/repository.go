package kpi

import (
	"context"
	"time"
)

// PlanMembers is the number of live subscriptions on one plan.
type PlanMembers struct {
	PlanID       string
	Members      int64
	PriceMonthly int64
}

type AppointmentCounts struct {
	Total     int64
	Completed int64
	NoShow    int64
}

type Repository interface {
	LiveMembersByPlan(ctx context.Context) ([]PlanMembers, error)

	AppointmentCounts(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) (AppointmentCounts, error)

	CanceledSince(ctx context.Context, since time.Time) (int64, error)

	LiveStartedBefore(ctx context.Context, before time.Time) (int64, error)

	TrialsStartedSince(ctx context.Context, since time.Time) (int64, error)

	CountBarbers(ctx context.Context) (int64, error)

	FreeCutsSince(ctx context.Context, since time.Time) (int64, error)
}
