package payments

import (
	"context"
	"fmt"
	"time"

	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

const invoicePageLimit = 100

// Stripe implements Gateway with a per-instance API client, so no package
// level key is shared between callers.
type Stripe struct {
	api *client.API
}

var _ Gateway = (*Stripe)(nil)

func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

func (s *Stripe) Enabled() bool { return true }

func (s *Stripe) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripelib.PaymentIntentParams{
		Amount:   stripelib.Int64(req.Amount),
		Currency: stripelib.String(req.Currency),
		AutomaticPaymentMethods: &stripelib.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripelib.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *Stripe) Refund(ctx context.Context, req RefundRequest) (*Refund, error) {
	params := &stripelib.RefundParams{
		PaymentIntent: stripelib.String(req.PaymentRef),
		Reason:        stripelib.String(string(stripelib.RefundReasonRequestedByCustomer)),
	}
	if req.Amount > 0 {
		params.Amount = stripelib.Int64(req.Amount)
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	r, err := s.api.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}
	return &Refund{ID: r.ID, Amount: r.Amount, Status: string(r.Status)}, nil
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripelib.CheckoutSessionParams{
		Mode: stripelib.String(string(stripelib.CheckoutSessionModeSubscription)),
		LineItems: []*stripelib.CheckoutSessionLineItemParams{
			{
				Price:    stripelib.String(req.PriceRef),
				Quantity: stripelib.Int64(1),
			},
		},
		SuccessURL:          stripelib.String(req.SuccessURL),
		CancelURL:           stripelib.String(req.CancelURL),
		AllowPromotionCodes: stripelib.Bool(true),
		SubscriptionData:    &stripelib.CheckoutSessionSubscriptionDataParams{},
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripelib.String(req.CustomerEmail)
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripelib.String(req.ClientReferenceID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
		params.SubscriptionData.AddMetadata(k, v)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *Stripe) PaidInvoiceTotal(ctx context.Context, since time.Time) (int64, error) {
	params := &stripelib.InvoiceListParams{
		Status: stripelib.String(string(stripelib.InvoiceStatusPaid)),
		CreatedRange: &stripelib.RangeQueryParams{
			GreaterThanOrEqual: since.AddDate(0, -1, 0).Unix(),
		},
	}
	params.Context = ctx
	params.Limit = stripelib.Int64(invoicePageLimit)

	var total int64
	it := s.api.Invoices.List(params)
	for it.Next() {
		inv := it.Invoice()
		if inv.StatusTransitions == nil || inv.StatusTransitions.PaidAt < since.Unix() {
			continue
		}
		total += inv.Total
	}
	if err := it.Err(); err != nil {
		return 0, fmt.Errorf("list invoices: %w", err)
	}
	return total, nil
}

func (s *Stripe) ListRecurringPrices(ctx context.Context) ([]Price, error) {
	params := &stripelib.PriceListParams{
		Active: stripelib.Bool(true),
	}
	params.Context = ctx
	params.AddExpand("data.product")

	var out []Price
	it := s.api.Prices.List(params)
	for it.Next() {
		p := it.Price()
		if p.Recurring == nil {
			continue
		}
		name := "Plan"
		if p.Product != nil && p.Product.Name != "" {
			name = p.Product.Name
		}
		interval := string(p.Recurring.Interval)
		if interval == "" {
			interval = "month"
		}
		out = append(out, Price{
			ID:       p.ID,
			Name:     name,
			Amount:   p.UnitAmount,
			Interval: interval,
		})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	return out, nil
}
