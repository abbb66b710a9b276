package payment

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

type Kind string

const (
	KindOneOff Kind = "ONEOFF"
	KindRefund Kind = "REFUND"
)

const (
	// MinAmount is the smallest chargeable amount in minor currency units.
	MinAmount       int64 = 50
	DefaultCurrency       = "usd"
)

// OpenStatuses block a new charge for the same appointment.
var OpenStatuses = []string{string(StatusPending), string(StatusCompleted)}

// RefundAmount is the signed amount recorded for a refund of original.
func RefundAmount(original int64) int64 {
	return -original
}
