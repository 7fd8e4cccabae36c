package kafka

import (
	"context"

	"github.com/NordCoder/Turnstile/internal/domain/kafka"
)

const EventUserRegistered = "user.registered"

type UserEventsKafka struct {
	p *Producer
}

func NewUserEventsKafka(p *Producer) *UserEventsKafka { return &UserEventsKafka{p: p} }

var _ kafka.UserEvents = (*UserEventsKafka)(nil)

func (e *UserEventsKafka) PublishUserRegistered(ctx context.Context, ev kafka.UserRegistered) error {
	return e.p.PublishJSON(ctx, KeyFromInt64(ev.UserID), EventUserRegistered, ev)
}
