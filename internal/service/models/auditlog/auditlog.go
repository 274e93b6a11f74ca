package auditlog

import "time"

// StatusChange is an audit trail entry recorded for every successful
// order status transition.
type StatusChange struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}
