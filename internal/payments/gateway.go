// Package payments talks to the external payment processor.
package payments

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned by every call when no processor is configured.
var ErrDisabled = errors.New("payments: processing disabled")

type IntentRequest struct {
	Amount         int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

type RefundRequest struct {
	PaymentRef     string
	Amount         int64
	IdempotencyKey string
	Metadata       map[string]string
}

type Refund struct {
	ID     string
	Amount int64
	Status string
}

type CheckoutRequest struct {
	PriceRef          string
	CustomerEmail     string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type Price struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   int64  `json:"price"`
	Interval string `json:"interval"`
}

// Gateway is the subset of the processor API the service relies on.
type Gateway interface {
	Enabled() bool
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	Refund(ctx context.Context, req RefundRequest) (*Refund, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// PaidInvoiceTotal sums invoices paid at or after since.
	PaidInvoiceTotal(ctx context.Context, since time.Time) (int64, error)
	ListRecurringPrices(ctx context.Context) ([]Price, error)
}

// Disabled is the Gateway used when no processor key is configured.
type Disabled struct{}

var _ Gateway = Disabled{}

func (Disabled) Enabled() bool { return false }

func (Disabled) CreatePaymentIntent(context.Context, IntentRequest) (*Intent, error) {
	return nil, ErrDisabled
}

func (Disabled) Refund(context.Context, RefundRequest) (*Refund, error) {
	return nil, ErrDisabled
}

func (Disabled) CreateCheckoutSession(context.Context, CheckoutRequest) (*CheckoutSession, error) {
	return nil, ErrDisabled
}

func (Disabled) PaidInvoiceTotal(context.Context, time.Time) (int64, error) {
	return 0, ErrDisabled
}

func (Disabled) ListRecurringPrices(context.Context) ([]Price, error) {
	return nil, ErrDisabled
}

// New returns a Stripe gateway when secretKey is set, Disabled otherwise.
func New(secretKey string) Gateway {
	if secretKey == "" {
		return Disabled{}
	}
	return NewStripe(secretKey)
}
