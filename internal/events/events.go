// Package events publishes survey lifecycle events to a message broker for
// the downstream notification and analytics consumers. The broker is
// optional: a Publisher without a backend drops events silently so the API
// works standalone.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prachar-hq/apiserver/config"
	"github.com/prachar-hq/apiserver/types"
)

// Channel is the broker channel (queue or topic) survey events go to.
const Channel = "survey-events"

// Event names.
const (
	SurveyCreated = "survey.created"
	SurveyUpdated = "survey.updated"
	SurveyDeleted = "survey.deleted"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// NewBackend constructs the broker backend named by cfg.Backend. "none" or
// empty yields a nil backend, which disables eventing.
func NewBackend(ctx context.Context, cfg config.EventsConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		return NewRabbitMQBackend(cfg.RabbitMQ)
	case "pubsub":
		return NewPubSubBackend(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// Envelope is the JSON body of every survey event.
type Envelope struct {
	Event      string       `json:"event"`
	OccurredAt time.Time    `json:"occurred_at"`
	Survey     types.Survey `json:"survey"`
}

// Publisher emits survey events to the configured backend. Publishing is
// best effort: failures are logged, never surfaced to the request that
// triggered them.
type Publisher struct {
	backend Backend
	log     zerolog.Logger
}

// NewPublisher constructs a Publisher. A nil backend yields a no-op
// publisher.
func NewPublisher(backend Backend, log zerolog.Logger) *Publisher {
	return &Publisher{backend: backend, log: log}
}

// SurveyCreated emits a survey.created event.
func (p *Publisher) SurveyCreated(ctx context.Context, survey types.Survey) {
	p.publish(ctx, SurveyCreated, survey)
}

// SurveyUpdated emits a survey.updated event.
func (p *Publisher) SurveyUpdated(ctx context.Context, survey types.Survey) {
	p.publish(ctx, SurveyUpdated, survey)
}

// SurveyDeleted emits a survey.deleted event carrying the deleted document.
func (p *Publisher) SurveyDeleted(ctx context.Context, survey types.Survey) {
	p.publish(ctx, SurveyDeleted, survey)
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Close()
}

func (p *Publisher) publish(ctx context.Context, event string, survey types.Survey) {
	if p == nil || p.backend == nil {
		return
	}

	data, err := json.Marshal(Envelope{
		Event:      event,
		OccurredAt: time.Now().UTC(),
		Survey:     survey,
	})
	if err != nil {
		p.log.Error().Err(err).Str("event", event).Msg("encode survey event")
		return
	}

	attrs := map[string]string{
		"event":     event,
		"survey_id": survey.ID.Hex(),
	}
	if _, err := p.backend.Publish(ctx, Channel, data, attrs); err != nil {
		p.log.Error().Err(err).Str("event", event).Str("survey_id", survey.ID.Hex()).Msg("publish survey event")
	}
}
