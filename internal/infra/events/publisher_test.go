package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	fail   bool
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.fail {
		return errors.New("channel closed")
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error { f.closed = true; return nil }

func newTestPublisher(channels ...*fakeChannel) (*Publisher, *int) {
	dials := 0
	p := &Publisher{exchange: "reservations", logger: logger.NewNop()}
	p.dial = func() (channel, func() error, error) {
		if dials >= len(channels) {
			return nil, nil, errors.New("broker unreachable")
		}
		ch := channels[dials]
		dials++
		return ch, func() error { return nil }, nil
	}
	return p, &dials
}

func sampleEvent() ReservationEvent {
	return NewReservationEvent(TypeReservationCreated, &domain.Reservation{
		ID: 7, Code: "abc", ActivityID: 1, CapacityID: 2,
		Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Time: types.MustTimeString("09:30"),
		Seats: 3, Status: domain.StatusConfirmed, Source: domain.SourceWooCommerce,
		ExternalID: ptr.Ptr("100:1"), CustomerName: "Ann", TotalPrice: 75, Currency: "EUR",
	}, time.Now())
}

func TestPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p, dials := newTestPublisher(ch)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	assert.Equal(t, 1, *dials)
	require.Len(t, ch.sent, 2)
	sent := ch.sent[0]
	assert.Equal(t, "reservations", sent.exchange)
	assert.Equal(t, TypeReservationCreated, sent.key)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)

	var body ReservationEvent
	require.NoError(t, json.Unmarshal(sent.msg.Body, &body))
	assert.Equal(t, "2024-06-01", body.Date)
	assert.Equal(t, "09:30", body.Time)
	assert.Equal(t, "100:1", body.ExternalID)
	assert.NotEmpty(t, body.ID)
}

func TestPublisher_RedialsAfterFailure(t *testing.T) {
	broken := &fakeChannel{fail: true}
	healthy := &fakeChannel{}
	p, dials := newTestPublisher(broken, healthy)

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, ErrPublish)
	assert.True(t, broken.closed)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Equal(t, 2, *dials)
	assert.Len(t, healthy.sent, 1)
}

func TestPublisher_Closed(t *testing.T) {
	p, _ := newTestPublisher(&fakeChannel{})
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), ErrClosed)
}
