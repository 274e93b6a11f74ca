package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodfeast/order/internal/service/models/outbox"
)

type fakePublisher struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (p *fakePublisher) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	p.keys = append(p.keys, key)

	return nil
}

type fakeOutboxRepo struct {
	pending []outbox.Message
	deleted []int64
	retries []int
}

func (r *fakeOutboxRepo) Insert(context.Context, outbox.Message) error { return nil }

func (r *fakeOutboxRepo) GetPendingMessages(context.Context, int) ([]outbox.Message, error) {
	return r.pending, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)

	return nil
}

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, retryCount int, _ string, _ time.Time) error {
	r.retries = append(r.retries, retryCount)

	return nil
}

func TestProcessMessages_PublishesAndDeletes(t *testing.T) {
	t.Parallel()

	repo := &fakeOutboxRepo{
		pending: []outbox.Message{
			{
				ID:           1,
				ExchangeName: "order.events",
				RoutingKey:   "drivers",
				EventType:    "orderAccepted",
				Payload:      []byte(`{"order_id":5}`),
				ContentType:  "application/json",
			},
		},
	}
	pub := &fakePublisher{}
	w := NewWorker(repo, pub)

	w.processMessages(context.Background())

	require.Len(t, pub.published, 1)
	assert.Equal(t, "drivers", pub.keys[0])
	assert.Equal(t, "orderAccepted", pub.published[0].Type)
	assert.Equal(t, []int64{1}, repo.deleted)
	assert.Empty(t, repo.retries)
}

func TestProcessMessages_FailureSchedulesRetry(t *testing.T) {
	t.Parallel()

	repo := &fakeOutboxRepo{
		pending: []outbox.Message{
			{ID: 1, RetryCount: 2, Payload: []byte(`{}`)},
		},
	}
	pub := &fakePublisher{err: errors.New("still down")}
	w := NewWorker(repo, pub)

	w.processMessages(context.Background())

	assert.Empty(t, repo.deleted)
	require.Len(t, repo.retries, 1)
	assert.Equal(t, 3, repo.retries[0])
}

func TestProcessMessages_NothingPending(t *testing.T) {
	t.Parallel()

	repo := &fakeOutboxRepo{}
	pub := &fakePublisher{}
	w := NewWorker(repo, pub)

	w.processMessages(context.Background())

	assert.Empty(t, pub.published)
	assert.Empty(t, repo.deleted)
}
