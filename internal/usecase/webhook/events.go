package webhook

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Event is a verified provider notification.
type Event struct {
	ID   string
	Type string
	// Object is the raw data.object of the envelope.
	Object json.RawMessage
}

// The structs below decode only the fields the reconciler reads, so new
// provider API versions that add fields keep decoding.

type paymentIntentObject struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

type invoiceObject struct {
	ID string `json:"id"`
	// Older API versions put the subscription id at the top level.
	Subscription json.RawMessage `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription json.RawMessage `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

func (o invoiceObject) subscriptionID() string {
	if id := expandableID(o.Subscription); id != "" {
		return id
	}
	if o.Parent != nil && o.Parent.SubscriptionDetails != nil {
		return expandableID(o.Parent.SubscriptionDetails.Subscription)
	}
	return ""
}

type subscriptionObject struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	// Older API versions.
	CurrentPeriodEnd int64 `json:"current_period_end"`
	Items            struct {
		Data []struct {
			CurrentPeriodEnd int64 `json:"current_period_end"`
		} `json:"data"`
	} `json:"items"`
}

func (o subscriptionObject) periodEnd() *time.Time {
	end := o.CurrentPeriodEnd
	if end == 0 && len(o.Items.Data) > 0 {
		end = o.Items.Data[0].CurrentPeriodEnd
	}
	if end == 0 {
		return nil
	}
	t := time.Unix(end, 0).UTC()
	return &t
}

type checkoutSessionObject struct {
	ID                string            `json:"id"`
	Mode              string            `json:"mode"`
	PaymentStatus     string            `json:"payment_status"`
	ClientReferenceID string            `json:"client_reference_id"`
	Subscription      json.RawMessage   `json:"subscription"`
	Metadata          map[string]string `json:"metadata"`
	Created           int64             `json:"created"`
}

// expandableID reads a field that is either an id string or an expanded
// object carrying an id.
func expandableID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
