package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event CartEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.ProductID != 3 || event.EventType != EventTypeItemAdded {
			return errors.New("unexpected event payload")
		}
		if event.EventID == "" || event.Timestamp.IsZero() {
			return errors.New("event metadata not filled in")
		}
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer)
	err := publisher.Publish(context.Background(), CartEvent{
		EventType: EventTypeItemAdded,
		SessionID: "s-1",
		ProductID: 3,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisherPublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer)
	err := publisher.Publish(context.Background(), CartEvent{EventType: EventTypeItemAdded, ProductID: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func message(t *testing.T, eventType string, event CartEvent) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)

	msg := &sarama.ConsumerMessage{Topic: TopicCartActivity, Value: value}
	if eventType != "" {
		msg.Headers = append(msg.Headers, &sarama.RecordHeader{Key: []byte(headerEventType), Value: []byte(eventType)})
	}
	return msg
}

func TestConsumerDispatchesToPopularity(t *testing.T) {
	consumer := newConsumer("test-group")
	popularity := NewPopularity()
	popularity.Register(consumer)

	ctx := context.Background()
	require.NoError(t, consumer.handleMessage(ctx, message(t, EventTypeItemAdded, CartEvent{EventType: EventTypeItemAdded, ProductID: 2, Quantity: 3})))
	require.NoError(t, consumer.handleMessage(ctx, message(t, EventTypeItemSaved, CartEvent{EventType: EventTypeItemSaved, ProductID: 6})))
	require.NoError(t, consumer.handleMessage(ctx, message(t, EventTypeItemRemoved, CartEvent{EventType: EventTypeItemRemoved, ProductID: 2})))

	top := popularity.Top(10)
	require.Len(t, top, 2)
	assert.Equal(t, ProductCount{ProductID: 2, Added: 3}, top[0])
	assert.Equal(t, ProductCount{ProductID: 6, Saved: 1}, top[1])
}

func TestConsumerRejectsMalformedMessages(t *testing.T) {
	consumer := newConsumer("test-group")
	NewPopularity().Register(consumer)

	err := consumer.handleMessage(context.Background(), message(t, "", CartEvent{}))
	assert.ErrorIs(t, err, ErrMissingEventType)

	bad := &sarama.ConsumerMessage{
		Topic:   TopicCartActivity,
		Value:   []byte("{"),
		Headers: []*sarama.RecordHeader{{Key: []byte(headerEventType), Value: []byte(EventTypeItemAdded)}},
	}
	assert.Error(t, consumer.handleMessage(context.Background(), bad))
}

func TestPopularityTopOrdering(t *testing.T) {
	p := NewPopularity()
	publish := p.Local()
	ctx := context.Background()

	for _, e := range []CartEvent{
		{EventType: EventTypeItemAdded, ProductID: 5, Quantity: 1},
		{EventType: EventTypeItemAdded, ProductID: 1, Quantity: 1},
		{EventType: EventTypeItemSaved, ProductID: 1},
		{EventType: EventTypeItemMovedToCart, ProductID: 8, Quantity: 0},
		{EventType: EventTypeItemAdded, ProductID: 8, Quantity: 4, Timestamp: time.Now()},
	} {
		require.NoError(t, publish.Publish(ctx, e))
	}

	top := p.Top(2)
	require.Len(t, top, 2)
	assert.EqualValues(t, 8, top[0].ProductID)
	assert.Equal(t, 5, top[0].Added)
	assert.EqualValues(t, 1, top[1].ProductID, "saves break the tie with product 5")

	assert.Len(t, p.Top(-1), 3)
}
