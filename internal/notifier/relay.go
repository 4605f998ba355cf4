// Package notifier delivers booking events recorded by the outbox to
// Kafka. Delivery is at-least-once; consumers dedupe on the job id.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"heavyhub/internal/infra/repository"
	"heavyhub/internal/pkg/clock"
	"heavyhub/internal/pkg/config"
	"heavyhub/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

type Relay struct {
	uow      shared.UnitOfWork
	writer   *kafka.Writer
	clock    clock.Clock
	interval time.Duration
	batch    int32

	stop chan struct{}
	done chan struct{}
}

func NewRelay(uow shared.UnitOfWork, cfg config.KafkaConfig, clk clock.Clock) *Relay {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return &Relay{
		uow:      uow,
		writer:   writer,
		clock:    clk,
		interval: cfg.RelayInterval,
		batch:    int32(cfg.RelayBatch),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Relay) Start() {
	go r.run()
}

func (r *Relay) Stop() error {
	close(r.stop)
	<-r.done
	return r.writer.Close()
}

func (r *Relay) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if err := r.relayOnce(context.Background()); err != nil {
				slog.Error("notification relay pass failed", "error", err)
			}
		}
	}
}

// relayOnce claims a batch under row locks, publishes each job, and
// records the outcome in the same transaction. A crash between publish
// and commit re-delivers the batch, which the at-least-once contract
// allows.
func (r *Relay) relayOnce(ctx context.Context) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := repository.NewNotificationRepository(tx.DB())

		jobs, err := repo.ClaimPending(ctx, r.clock.Now(), r.batch)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			msg := kafka.Message{
				Key:   []byte(job.ID.String()),
				Value: job.Payload,
				Headers: []kafka.Header{
					{Key: "kind", Value: []byte(job.Kind)},
					{Key: "event", Value: []byte(job.Topic)},
				},
			}

			if err := r.writer.WriteMessages(ctx, msg); err != nil {
				slog.Warn("notification publish failed", "job_id", job.ID, "error", err)
				if markErr := repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
					return markErr
				}
				continue
			}

			if err := repo.MarkSent(ctx, job.ID); err != nil {
				return err
			}
		}

		return nil
	})
}
