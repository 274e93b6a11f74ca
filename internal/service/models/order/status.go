package order

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPlaced         Status = "Placed"
	StatusInProgress     Status = "In Progress"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
)

var (
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// transitions defines the allowed next status for each status.
// The lifecycle is strictly ordered: Placed -> In Progress -> Out for Delivery -> Delivered.
var transitions = map[Status]Status{
	StatusPlaced:         StatusInProgress,
	StatusInProgress:     StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

func (s Status) String() string {
	return string(s)
}

// Value implements driver.Valuer so a Status can be bound as a query parameter.
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// ParseStatus converts a raw status string into a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPlaced, StatusInProgress, StatusOutForDelivery, StatusDelivered:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// CanTransitionTo reports whether next is the allowed successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	return transitions[s] == next
}

// ValidateTransition returns ErrInvalidTransition when next is not the
// allowed successor of s.
func (s Status) ValidateTransition(next Status) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, s, next)
	}

	return nil
}
