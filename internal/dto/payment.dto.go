package dto

type PaymentSummary struct {
	ID     uint   `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// PaymentIntentResult is returned by intent creation. Status is "created"
// or "existing"; ClientSecret and Payment are only set when created.
type PaymentIntentResult struct {
	PaymentIntentID string          `json:"paymentIntentId"`
	ClientSecret    string          `json:"clientSecret,omitempty"`
	Status          string          `json:"status"`
	Payment         *PaymentSummary `json:"payment,omitempty"`
}
