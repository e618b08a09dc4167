package models

// PaymentStatus is the service's canonical payment outcome, decoupled from
// the gateway's own status vocabulary.
type PaymentStatus string

const (
	StatusSuccess PaymentStatus = "success"
	StatusFailed  PaymentStatus = "failed"
	StatusPending PaymentStatus = "pending"
)

// IsTerminal reports whether the status is final. Terminal statuses are
// never downgraded by later notifications.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// MapTransactionStatus translates a raw Midtrans transaction_status into
// the canonical outcome. Any status not in the table maps to pending.
func MapTransactionStatus(raw string) PaymentStatus {
	switch raw {
	case "capture", "settlement":
		return StatusSuccess
	case "deny", "cancel", "expire":
		return StatusFailed
	default:
		return StatusPending
	}
}
