// Package paymentstest provides an in-memory payments.Gateway.
package paymentstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/payments"
)

// Fake records every call. Setting an *Err field makes the matching call
// fail.
type Fake struct {
	mu sync.Mutex

	IntentErr   error
	RefundErr   error
	CheckoutErr error
	InvoiceErr  error

	InvoiceTotal int64
	Prices       []payments.Price

	Intents   []payments.IntentRequest
	Refunds   []payments.RefundRequest
	Checkouts []payments.CheckoutRequest

	seq int
}

var _ payments.Gateway = (*Fake)(nil)

func (f *Fake) Enabled() bool { return true }

func (f *Fake) CreatePaymentIntent(_ context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Intents = append(f.Intents, req)
	if f.IntentErr != nil {
		return nil, f.IntentErr
	}
	f.seq++
	id := fmt.Sprintf("pi_fake_%d", f.seq)
	return &payments.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (f *Fake) Refund(_ context.Context, req payments.RefundRequest) (*payments.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Refunds = append(f.Refunds, req)
	if f.RefundErr != nil {
		return nil, f.RefundErr
	}
	f.seq++
	return &payments.Refund{ID: fmt.Sprintf("re_fake_%d", f.seq), Amount: req.Amount, Status: "succeeded"}, nil
}

func (f *Fake) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Checkouts = append(f.Checkouts, req)
	if f.CheckoutErr != nil {
		return nil, f.CheckoutErr
	}
	f.seq++
	id := fmt.Sprintf("cs_fake_%d", f.seq)
	return &payments.CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (f *Fake) PaidInvoiceTotal(context.Context, time.Time) (int64, error) {
	if f.InvoiceErr != nil {
		return 0, f.InvoiceErr
	}
	return f.InvoiceTotal, nil
}

func (f *Fake) ListRecurringPrices(context.Context) ([]payments.Price, error) {
	return f.Prices, nil
}
