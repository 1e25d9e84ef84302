package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

// Consumer drains the survey event channel and logs each envelope. It backs
// the worker command for deployments that have a broker configured but no
// downstream notification service subscribed yet.
type Consumer struct {
	backend Backend
	log     zerolog.Logger
}

// NewConsumer constructs a Consumer over the given backend.
func NewConsumer(backend Backend, log zerolog.Logger) *Consumer {
	return &Consumer{backend: backend, log: log}
}

// Run subscribes to the survey event channel and blocks until ctx is
// canceled or the subscription fails.
func (c *Consumer) Run(ctx context.Context) error {
	if c.backend == nil {
		return errors.New("events backend is not configured")
	}
	return c.backend.Subscribe(ctx, Channel, c.handle)
}

// handle decodes and logs one event. A decode failure is returned so the
// backend nacks the message instead of silently dropping it.
func (c *Consumer) handle(ctx context.Context, msg Message) error {
	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		c.log.Error().Err(err).Str("message_id", msg.ID).Msg("decode survey event")
		return err
	}

	c.log.Info().
		Str("event", env.Event).
		Str("survey_id", env.Survey.ID.Hex()).
		Time("occurred_at", env.OccurredAt).
		Msg("survey event received")
	return nil
}
