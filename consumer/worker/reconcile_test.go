package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-cloudlet-service/infra"
	"github.com/tnqbao/gau-cloudlet-service/infra/produce"
	"github.com/tnqbao/gau-cloudlet-service/service"
)

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

type fakeSweeper struct {
	calls     []uuid.UUID
	failures  int
	deleteErr error
}

func (s *fakeSweeper) Sweep(_ context.Context, ownerID uuid.UUID) (*service.ReconcileReport, error) {
	s.calls = append(s.calls, ownerID)
	if len(s.calls) <= s.failures {
		return nil, errors.New("sweep failed")
	}
	return &service.ReconcileReport{OwnerID: ownerID}, s.deleteErr
}

func newTestConsumer(sweeper *fakeSweeper) *ReconcileConsumer {
	inf := &infra.Infra{Logger: infra.NewLoggerClient(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	c := NewReconcileConsumer(nil, inf, sweeper, 0)
	c.retryBackoff = 0
	return c
}

func delivery(t *testing.T, ack *fakeAcknowledger, payload interface{}) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func TestHandleReconcile_OwnerScoped(t *testing.T) {
	sweeper := &fakeSweeper{}
	c := newTestConsumer(sweeper)
	ack := &fakeAcknowledger{}
	owner := uuid.New()

	c.handleReconcile(context.Background(), delivery(t, ack, produce.ReconcileRequestMessage{OwnerID: owner.String()}))

	assert.Equal(t, []uuid.UUID{owner}, sweeper.calls)
	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
}

func TestHandleReconcile_EmptyOwnerSweepsAll(t *testing.T) {
	sweeper := &fakeSweeper{}
	c := newTestConsumer(sweeper)
	ack := &fakeAcknowledger{}

	c.handleReconcile(context.Background(), delivery(t, ack, produce.ReconcileRequestMessage{}))

	assert.Equal(t, []uuid.UUID{uuid.Nil}, sweeper.calls)
	assert.Equal(t, 1, ack.acked)
}

func TestHandleReconcile_RetriesThenSucceeds(t *testing.T) {
	sweeper := &fakeSweeper{failures: 2}
	c := newTestConsumer(sweeper)
	ack := &fakeAcknowledger{}

	c.handleReconcile(context.Background(), delivery(t, ack, produce.ReconcileRequestMessage{}))

	assert.Len(t, sweeper.calls, 3)
	assert.Equal(t, 1, ack.acked)
}

func TestHandleReconcile_RequeuesAfterMaxAttempts(t *testing.T) {
	sweeper := &fakeSweeper{failures: 10}
	c := newTestConsumer(sweeper)
	ack := &fakeAcknowledger{}

	c.handleReconcile(context.Background(), delivery(t, ack, produce.ReconcileRequestMessage{}))

	assert.Len(t, sweeper.calls, maxReconcileAttempts)
	assert.Zero(t, ack.acked)
	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestHandleReconcile_DropsMalformedMessages(t *testing.T) {
	sweeper := &fakeSweeper{}
	c := newTestConsumer(sweeper)

	ack := &fakeAcknowledger{}
	c.handleReconcile(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)

	ack = &fakeAcknowledger{}
	c.handleReconcile(context.Background(), delivery(t, ack, produce.ReconcileRequestMessage{OwnerID: "nope"}))
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)

	assert.Empty(t, sweeper.calls)
}

func TestHandleReconcile_AcksWhenOnlyDeletesFailed(t *testing.T) {
	sweeper := &fakeSweeper{deleteErr: errors.New("delete locked/key: object is WORM protected")}
	c := newTestConsumer(sweeper)
	ack := &fakeAcknowledger{}

	c.handleReconcile(context.Background(), delivery(t, ack, produce.ReconcileRequestMessage{OwnerID: uuid.NewString()}))

	assert.Len(t, sweeper.calls, 1)
	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
}
