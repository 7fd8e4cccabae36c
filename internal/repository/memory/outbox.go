package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NordCoder/Turnstile/internal/domain/outbox"
)

var _ outbox.Repository = (*OutboxRepo)(nil)

type OutboxRepo struct {
	mu    sync.Mutex
	order []string
	msgs  map[string]*outbox.Message
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{msgs: make(map[string]*outbox.Message)}
}

func (r *OutboxRepo) Enqueue(ctx context.Context, key string, kind outbox.Kind, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.msgs[key]; ok {
		return nil
	}
	now := time.Now().UTC()
	r.msgs[key] = &outbox.Message{
		IdempotencyKey: key,
		Kind:           kind,
		Data:           append([]byte(nil), data...),
		Status:         outbox.StatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.order = append(r.order, key)
	return nil
}

func (r *OutboxRepo) PickBatch(ctx context.Context, batch int, inProgressTTL time.Duration) ([]outbox.Message, error) {
	if batch <= 0 {
		return nil, errors.New("batch must be > 0")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	var out []outbox.Message
	for _, key := range r.order {
		if len(out) == batch {
			break
		}
		m := r.msgs[key]
		stale := m.Status == outbox.StatusInProgress && m.UpdatedAt.Before(now.Add(-inProgressTTL))
		if m.Status != outbox.StatusCreated && !stale {
			continue
		}
		m.Status = outbox.StatusInProgress
		m.UpdatedAt = now
		out = append(out, *m)
	}
	return out, nil
}

func (r *OutboxRepo) MarkSuccess(ctx context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		if m, ok := r.msgs[k]; ok {
			m.Status = outbox.StatusSuccess
			m.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

// Messages returns a snapshot in enqueue order.
func (r *OutboxRepo) Messages() []outbox.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]outbox.Message, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, *r.msgs[k])
	}
	return out
}

// Transactor runs the function directly; the memory stores have no rollback.
type Transactor struct{}

func (Transactor) WithTx(ctx context.Context, function func(ctx context.Context) error) error {
	return function(ctx)
}
