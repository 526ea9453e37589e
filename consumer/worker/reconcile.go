package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-cloudlet-service/infra"
	"github.com/tnqbao/gau-cloudlet-service/infra/produce"
	"github.com/tnqbao/gau-cloudlet-service/service"
)

const maxReconcileAttempts = 3

type Sweeper interface {
	Sweep(ctx context.Context, ownerID uuid.UUID) (*service.ReconcileReport, error)
}

// ReconcileConsumer runs storage reconciliation on a fixed interval for every owner
// and on demand for single owners via the storage.reconcile queue.
type ReconcileConsumer struct {
	channel      *amqp.Channel
	infra        *infra.Infra
	reconciler   Sweeper
	interval     time.Duration
	retryBackoff time.Duration
}

func NewReconcileConsumer(channel *amqp.Channel, infra *infra.Infra, reconciler Sweeper, interval time.Duration) *ReconcileConsumer {
	return &ReconcileConsumer{
		channel:      channel,
		infra:        infra,
		reconciler:   reconciler,
		interval:     interval,
		retryBackoff: 2 * time.Second,
	}
}

func (c *ReconcileConsumer) Start(ctx context.Context) error {
	if err := c.startQueueConsumer(ctx); err != nil {
		return fmt.Errorf("failed to start reconcile consumer: %w", err)
	}

	if c.interval > 0 {
		go c.runScheduled(ctx)
	}

	return nil
}

func (c *ReconcileConsumer) startQueueConsumer(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.ReconcileQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register reconcile consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Consumer] Started listening on queue: %s", produce.ReconcileQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Reconcile Consumer] Channel closed")
					return
				}
				c.handleReconcile(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *ReconcileConsumer) runScheduled(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Scheduler] Sweeping all owners every %s", c.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := c.sweepWithRetry(ctx, uuid.Nil)
			if err == nil {
				continue
			}
			if report != nil {
				c.infra.Logger.WarningWithContextf(ctx, "[Reconcile Scheduler] Sweep deleted %d orphan blobs, others failed: %v", report.OrphanBlobsDeleted, err)
				continue
			}
			c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Scheduler] Scheduled sweep failed")
		}
	}
}

func (c *ReconcileConsumer) handleReconcile(ctx context.Context, msg amqp.Delivery) {
	c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Consumer] Received message: %s", string(msg.Body))

	var payload produce.ReconcileRequestMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	ownerID := uuid.Nil
	if payload.OwnerID != "" {
		parsed, err := uuid.Parse(payload.OwnerID)
		if err != nil {
			c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Consumer] Invalid owner ID: %v", err)
			_ = msg.Nack(false, false)
			return
		}
		ownerID = parsed
	}

	report, err := c.sweepWithRetry(ctx, ownerID)
	if err != nil && report == nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Consumer] Failed after %d attempts, requeueing message", maxReconcileAttempts)
		_ = msg.Nack(false, true)
		return
	}
	if err != nil {
		// the sweep completed; undeletable blobs are picked up again by the next sweep
		c.infra.Logger.WarningWithContextf(ctx, "[Reconcile Consumer] Sweep for owner %s left blobs undeleted: %v", ownerID, err)
	}

	_ = msg.Ack(false)
}

func (c *ReconcileConsumer) sweepWithRetry(ctx context.Context, ownerID uuid.UUID) (*service.ReconcileReport, error) {
	var err error
	for attempt := 1; attempt <= maxReconcileAttempts; attempt++ {
		var report *service.ReconcileReport
		report, err = c.reconciler.Sweep(ctx, ownerID)
		if report != nil {
			return report, err
		}

		c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Consumer] Attempt %d/%d failed for owner %s", attempt, maxReconcileAttempts, ownerID)

		if attempt < maxReconcileAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryBackoff):
			}
		}
	}
	return nil, err
}
