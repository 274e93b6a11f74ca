package outbox

import (
	"time"
)

// Message represents a lifecycle event that failed to be published to RabbitMQ
// and is awaiting a retry.
type Message struct {
	ID           int64
	ExchangeName string
	RoutingKey   string
	EventType    string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
