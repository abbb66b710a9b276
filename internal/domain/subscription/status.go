package subscription

import "strings"

type Status string

const (
	StatusTrial    Status = "TRIAL"
	StatusActive   Status = "ACTIVE"
	StatusPastDue  Status = "PAST_DUE"
	StatusCanceled Status = "CANCELED"
)

// LiveStatuses count as a member for metrics and entitlement.
var LiveStatuses = []string{string(StatusTrial), string(StatusActive)}

// MapExternalStatus converts the payment provider's subscription status.
// Anything unrecognized is treated as a trial.
func MapExternalStatus(status string) Status {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return StatusActive
	case "past_due":
		return StatusPastDue
	case "canceled":
		return StatusCanceled
	default:
		return StatusTrial
	}
}
