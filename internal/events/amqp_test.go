package events

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *ChannelMock) Close() error {
	return m.Called().Error(0)
}

func TestAMQPPublisher_Publish(t *testing.T) {
	sub := &models.Subscription{ID: "sub-1", UserID: "user-1", Name: "Netflix", BillingCycle: models.Monthly, BaseCost: 10}
	e := New(SubscriptionCreated, "user-1", sub)

	t.Run("success", func(t *testing.T) {
		ch := new(ChannelMock)
		var sent amqp.Publishing
		ch.On("Publish", "tracker.events", SubscriptionCreated, false, false, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(4).(amqp.Publishing) }).
			Return(nil).Once()

		p := NewAMQPPublisher(ch, "tracker.events")
		require.NoError(t, p.Publish(context.Background(), e))
		ch.AssertExpectations(t)

		assert.Equal(t, "application/json", sent.ContentType)
		assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
		assert.Equal(t, SubscriptionCreated, sent.Type)
		assert.Equal(t, AppID, sent.AppId)
		assert.Equal(t, e.OccurredAt, sent.Timestamp)
		assert.NotEmpty(t, sent.MessageId)
		assert.Equal(t, "user-1", sent.Headers["user_id"])

		var got Event
		require.NoError(t, json.Unmarshal(sent.Body, &got))
		assert.Equal(t, "sub-1", got.SubscriptionID)
		require.NotNil(t, got.Subscription)
		assert.Equal(t, "Netflix", got.Subscription.Name)
	})

	t.Run("channel error is wrapped", func(t *testing.T) {
		ch := new(ChannelMock)
		ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
			Return(errors.New("channel closed")).Once()

		err := NewAMQPPublisher(ch, "tracker.events").Publish(context.Background(), e)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "events.AMQPPublisher.Publish")
		assert.Contains(t, err.Error(), "channel closed")
	})

	t.Run("cancelled context skips publish", func(t *testing.T) {
		ch := new(ChannelMock)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewAMQPPublisher(ch, "tracker.events").Publish(ctx, e)
		assert.ErrorIs(t, err, context.Canceled)
		ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("close closes channel", func(t *testing.T) {
		ch := new(ChannelMock)
		ch.On("Close").Return(nil).Once()

		require.NoError(t, NewAMQPPublisher(ch, "tracker.events").Close())
		ch.AssertExpectations(t)
	})
}

func amqpURL(ctx context.Context, t *testing.T) string {
	t.Helper()
	if url := os.Getenv("TEST_RABBITMQ_URL"); url != "" {
		return url
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-management",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)
	return "amqp://guest:guest@" + host + ":" + port.Port() + "/"
}

func TestAMQPPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping rabbitmq integration test in short mode")
	}
	ctx := context.Background()

	conn, err := rabbitmq.Connect(ctx, amqpURL(ctx, t), 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	const exchange = "subscription-tracker.events.test"
	ch, err := rabbitmq.SetupExchange(conn, exchange)
	require.NoError(t, err)
	p := NewAMQPPublisher(ch, exchange)
	defer func() { _ = p.Close() }()

	consumer, err := conn.Channel()
	require.NoError(t, err)
	defer func() { _ = consumer.Close() }()
	q, err := consumer.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, consumer.QueueBind(q.Name, SubscriptionDeleted, exchange, false, nil))
	deliveries, err := consumer.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	e := Event{Type: SubscriptionDeleted, UserID: "user-1", SubscriptionID: "sub-1", OccurredAt: time.Now().UTC()}
	require.NoError(t, p.Publish(ctx, e))

	select {
	case d := <-deliveries:
		var got Event
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, SubscriptionDeleted, got.Type)
		assert.Equal(t, "sub-1", got.SubscriptionID)
		assert.Nil(t, got.Subscription)
		assert.Equal(t, SubscriptionDeleted, d.Type)
		assert.Equal(t, "user-1", d.Headers["user_id"])
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}
