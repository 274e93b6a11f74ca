package broadcastsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"github.com/foodfeast/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/foodfeast/order/internal/dal/rabbitmq"
	"github.com/foodfeast/order/internal/service/models/outbox"
)

// publisher is the subset of *amqp.Channel the broadcaster needs.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// BroadcastService emits lifecycle events to logical groups. A group is a
// routing key on a direct exchange; clients bind ephemeral queues to the
// groups they belong to, so membership lives and dies with their connection
// and there is no replay for late joiners. The pull-based query endpoints
// remain the source of truth; this channel is a live-notification
// optimization only.
type BroadcastService struct {
	channel    publisher
	outboxRepo ioutboxrepo.IOutboxRepository
	exchange   string
	maxRetries int
}

// option is a function that configures the BroadcastService.
type option func(*BroadcastService)

// MustNewBroadcastService creates a new BroadcastService.
func MustNewBroadcastService(opts ...option) *BroadcastService {
	exchange := viper.GetString("rabbitmq.events.exchange")
	if exchange == "" {
		exchange = "order.events"
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	s := &BroadcastService{
		exchange:   exchange,
		maxRetries: maxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithRabbitClient sets the RabbitMQ client and declares the events exchange.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRabbitClient(client *rabbitmq.Client) option {
	return func(s *BroadcastService) {
		if err := client.DeclareExchange(rabbitmq.DeclareExchangeConfig{
			Name:    s.exchange,
			Kind:    "direct",
			Durable: true,
		}); err != nil {
			panic(fmt.Sprintf("Failed to declare events exchange: %v", err))
		}

		s.channel = client.Channel()
	}
}

// WithPublisher sets the publisher directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPublisher(p publisher) option {
	return func(s *BroadcastService) {
		s.channel = p
	}
}

// WithOutboxRepository sets the outbox repository used for failed emissions.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *BroadcastService) {
		s.outboxRepo = repo
	}
}

// Emit delivers payload to every current member of group. Callers invoke it
// only after the corresponding write is committed. A failed publish is
// queued to the outbox for retry instead of failing the caller: the durable
// write has already happened and must not be rolled back over a notification.
func (s *BroadcastService) Emit(ctx context.Context, group, eventName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	pubErr := s.channel.Publish(
		s.exchange,
		group,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Type:        eventName,
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if pubErr == nil {
		return nil
	}

	slog.Error("Failed to publish event, queueing to outbox",
		"group", group,
		"event", eventName,
		"error", pubErr,
	)

	now := time.Now()
	msg := outbox.Message{
		ExchangeName: s.exchange,
		RoutingKey:   group,
		EventType:    eventName,
		Payload:      body,
		ContentType:  "application/json",
		MaxRetries:   s.maxRetries,
		LastError:    pubErr.Error(),
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}
	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		return fmt.Errorf("failed to queue event to outbox: %w", err)
	}

	return nil
}
