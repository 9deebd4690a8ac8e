// Package service holds side-channel services used around an ingestion
// run.  Publishing is best-effort: failures are logged and returned so the
// caller can ignore them without changing the run's outcome.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-listings/internal/queue"
)

// EventPublisher sends ingestion events to the broker at url.  A
// connection is opened per publish; runs are infrequent.
type EventPublisher struct {
	url string
	log zerolog.Logger
}

func NewEventPublisher(log zerolog.Logger, url string) *EventPublisher {
	return &EventPublisher{url: url, log: log.With().Str("module", "events").Logger()}
}

// PublishIngestionCompleted publishes ev as a persistent JSON message on
// the ingestion queue.
func (p *EventPublisher) PublishIngestionCompleted(ctx context.Context, ev queue.IngestionCompletedEvent) error {
	if err := p.publish(ctx, ev); err != nil {
		p.log.Warn().Err(err).Str("run_id", ev.RunID).Msg("publish ingestion event failed")
		return err
	}
	return nil
}

func (p *EventPublisher) publish(ctx context.Context, ev queue.IngestionCompletedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errors.Wrap(err, "dial broker")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open channel")
	}
	defer func() { _ = ch.Close() }()

	// durable so events survive broker restarts
	if _, err := ch.QueueDeclare(queue.IngestionQueue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "declare queue")
	}

	return errors.Wrap(ch.PublishWithContext(ctx, "", queue.IngestionQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}), "publish")
}
