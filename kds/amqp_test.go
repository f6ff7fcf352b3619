package kds

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu        sync.Mutex
	release   chan struct{}
	published []amqp.Publishing
	keys      []string
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, msg)
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func TestAMQPPublisher_PublishesJSONInOrder(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(ch, "restaurant_events", quietLogger())

	p.Publish(context.Background(), Message{Event: EventOrderCreated, Data: map[string]int{"id": 1}})
	p.Publish(context.Background(), Message{Event: EventOrderDeleted, Data: map[string]int{"id": 1}})
	require.NoError(t, p.Close())

	require.Equal(t, 2, ch.count())
	assert.Equal(t, []string{EventOrderCreated, EventOrderDeleted}, ch.keys)
	assert.True(t, ch.closed)

	first := ch.published[0]
	assert.Equal(t, "application/json", first.ContentType)
	assert.Equal(t, amqp.Persistent, first.DeliveryMode)
	var body struct {
		Event string         `json:"event"`
		Data  map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(first.Body, &body))
	assert.Equal(t, EventOrderCreated, body.Event)
	assert.Equal(t, 1, body.Data["id"])
}

func TestAMQPPublisher_PublishDoesNotWaitForBroker(t *testing.T) {
	ch := &fakeChannel{release: make(chan struct{})}
	p := newAMQPPublisher(ch, "restaurant_events", quietLogger())

	start := time.Now()
	for i := 0; i < 10; i++ {
		p.Publish(context.Background(), Message{Event: EventTableStatusChanged})
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 0, ch.count())

	close(ch.release)
	require.NoError(t, p.Close())
	assert.Equal(t, 10, ch.count())

	p.Publish(context.Background(), Message{Event: EventDishUpdated})
	assert.Equal(t, 10, ch.count())
}
