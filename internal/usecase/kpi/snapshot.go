package kpi

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/lefade-api/internal/cache"
	domain "github.com/BruksfildServices01/lefade-api/internal/domain/kpi"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/timezone"
)

const (
	CacheKey = "lefade:kpi:snapshot"
	CacheTTL = 60 * time.Second
)

// Cost model, in cents.
const (
	barberWeeklyCost   = 6000
	weeksPerMonth      = 4
	standardMemberCost = 3000
	deluxeMemberCost   = 2250
	freeCutCost        = 1000
	opsMonthlyCost     = 5000
)

type Breakdown struct {
	BaseCost     int64 `json:"baseCost"`
	StandardCost int64 `json:"standardCost"`
	DeluxeCost   int64 `json:"deluxeCost"`
	BonusCost    int64 `json:"bonusCost"`
	OpsCost      int64 `json:"opsCost"`
}

type Snapshot struct {
	ActiveMembers    int64     `json:"activeMembers"`
	MRR              int64     `json:"mrr"`
	BookingsThisWeek int64     `json:"bookingsThisWeek"`
	CompletionRate   float64   `json:"completionRate"`
	Churn30          float64   `json:"churn30"`
	Trials7          int64     `json:"trials7"`
	Revenue30        int64     `json:"revenue30"`
	Costs            int64     `json:"costs"`
	Profit           int64     `json:"profit"`
	Breakdown        Breakdown `json:"breakdown"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

type GetSnapshot struct {
	repo    domain.Repository
	gateway payments.Gateway
	rdb     *redis.Client
	tz      string
	now     func() time.Time
}

// NewGetSnapshot builds the aggregator. rdb may be nil, in which case
// every call recomputes.
func NewGetSnapshot(
	repo domain.Repository,
	gateway payments.Gateway,
	rdb *redis.Client,
	tz string,
) *GetSnapshot {
	return &GetSnapshot{
		repo:    repo,
		gateway: gateway,
		rdb:     rdb,
		tz:      tz,
		now:     time.Now,
	}
}

func (uc *GetSnapshot) Execute(ctx context.Context) (*Snapshot, error) {
	var cached Snapshot
	if cache.GetJSON(ctx, uc.rdb, CacheKey, &cached) {
		return &cached, nil
	}

	snap, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, uc.rdb, CacheKey, snap, CacheTTL)
	return snap, nil
}

func (uc *GetSnapshot) compute(ctx context.Context) (*Snapshot, error) {
	now := uc.now().In(timezone.Location(uc.tz))
	start30 := now.AddDate(0, 0, -30)
	start7 := now.AddDate(0, 0, -7)
	weekStart, weekEnd := weekBounds(now)

	snap := &Snapshot{GeneratedAt: now.UTC()}

	members, err := uc.repo.LiveMembersByPlan(ctx)
	if err != nil {
		return nil, err
	}
	var standardMembers, deluxeMembers int64
	for _, m := range members {
		snap.ActiveMembers += m.Members
		snap.MRR += m.Members * m.PriceMonthly
		switch m.PlanID {
		case "standard":
			standardMembers = m.Members
		case "deluxe":
			deluxeMembers = m.Members
		}
	}

	counts, err := uc.repo.AppointmentCounts(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	snap.BookingsThisWeek = counts.Total
	snap.CompletionRate = 1
	if closed := counts.Completed + counts.NoShow; closed > 0 {
		snap.CompletionRate = float64(counts.Completed) / float64(closed)
	}

	canceled30, err := uc.repo.CanceledSince(ctx, start30)
	if err != nil {
		return nil, err
	}
	members30Ago, err := uc.repo.LiveStartedBefore(ctx, start30)
	if err != nil {
		return nil, err
	}
	if members30Ago > 0 {
		snap.Churn30 = float64(canceled30) / float64(members30Ago)
	}

	if snap.Trials7, err = uc.repo.TrialsStartedSince(ctx, start7); err != nil {
		return nil, err
	}

	snap.Revenue30 = uc.revenueSince(ctx, start30)

	barbers, err := uc.repo.CountBarbers(ctx)
	if err != nil {
		return nil, err
	}
	freeCuts, err := uc.repo.FreeCutsSince(ctx, start30)
	if err != nil {
		return nil, err
	}

	snap.Breakdown = Breakdown{
		BaseCost:     barbers * weeksPerMonth * barberWeeklyCost,
		StandardCost: standardMembers * standardMemberCost,
		DeluxeCost:   deluxeMembers * deluxeMemberCost,
		BonusCost:    freeCuts * freeCutCost,
		OpsCost:      opsMonthlyCost,
	}
	b := snap.Breakdown
	snap.Costs = b.BaseCost + b.StandardCost + b.DeluxeCost + b.BonusCost + b.OpsCost
	snap.Profit = snap.Revenue30 - snap.Costs

	return snap, nil
}

// revenueSince is zero when the payment provider is disabled or fails;
// the rest of the snapshot is still useful.
func (uc *GetSnapshot) revenueSince(ctx context.Context, since time.Time) int64 {
	if uc.gateway == nil || !uc.gateway.Enabled() {
		return 0
	}
	total, err := uc.gateway.PaidInvoiceTotal(ctx, since)
	if err != nil {
		if !errors.Is(err, payments.ErrDisabled) {
			logging.FromContext(ctx).Warn().Err(err).Msg("failed to fetch paid invoices")
		}
		return 0
	}
	return total
}

// weekBounds returns Sunday 00:00 and the last instant of the following
// Saturday, in t's location.
func weekBounds(t time.Time) (time.Time, time.Time) {
	day, _ := timezone.DayBounds(t)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)
}

