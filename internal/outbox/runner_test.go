package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NordCoder/Turnstile/internal/domain/kafka"
	"github.com/NordCoder/Turnstile/internal/domain/outbox"
	"github.com/NordCoder/Turnstile/internal/obs/retry"
	"github.com/NordCoder/Turnstile/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingEvents struct {
	mu   sync.Mutex
	got  []kafka.UserRegistered
	fail error
}

func (r *recordingEvents) PublishUserRegistered(_ context.Context, ev kafka.UserRegistered) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.got = append(r.got, ev)
	return nil
}

func enqueueRegistered(t *testing.T, repo *memory.OutboxRepo, key string, id int64) {
	t.Helper()
	data, err := json.Marshal(kafka.UserRegistered{UserID: id, Username: key})
	require.NoError(t, err)
	require.NoError(t, repo.Enqueue(context.Background(), key, outbox.KindUserRegistered, data))
}

func onePass() retry.Policy {
	return retry.Policy{Name: "test", Attempts: 1, Backoff: retry.ExpoJitter{Base: time.Millisecond}}
}

func TestRunner_TickPublishesAndMarksSuccess(t *testing.T) {
	repo := memory.NewOutboxRepo()
	enqueueRegistered(t, repo, "bob", 1)
	enqueueRegistered(t, repo, "alice", 2)

	events := &recordingEvents{}
	r := NewOutboxRunner(zap.NewNop(), repo, MakeGlobalOutboxHandler(events, onePass()), RunnerConfig{BatchSize: 10})

	r.tick(context.Background())

	require.Len(t, events.got, 2)
	assert.Equal(t, int64(1), events.got[0].UserID)
	assert.Equal(t, int64(2), events.got[1].UserID)
	for _, m := range repo.Messages() {
		assert.Equal(t, outbox.StatusSuccess, m.Status)
	}
}

func TestRunner_FailedPublishStaysInProgress(t *testing.T) {
	repo := memory.NewOutboxRepo()
	enqueueRegistered(t, repo, "bob", 1)

	events := &recordingEvents{fail: errors.New("broker down")}
	r := NewOutboxRunner(zap.NewNop(), repo, MakeGlobalOutboxHandler(events, onePass()), RunnerConfig{})

	r.tick(context.Background())

	msgs := repo.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, outbox.StatusInProgress, msgs[0].Status)
}

func TestRunner_UnknownKind(t *testing.T) {
	repo := memory.NewOutboxRepo()
	require.NoError(t, repo.Enqueue(context.Background(), "k", outbox.Kind(99), []byte(`{}`)))

	r := NewOutboxRunner(zap.NewNop(), repo, MakeGlobalOutboxHandler(&recordingEvents{}, onePass()), RunnerConfig{})
	r.tick(context.Background())

	assert.Equal(t, outbox.StatusInProgress, repo.Messages()[0].Status)
}

func TestRunner_StartStopsWithContext(t *testing.T) {
	repo := memory.NewOutboxRepo()
	enqueueRegistered(t, repo, "bob", 1)
	events := &recordingEvents{}

	ctx, cancel := context.WithCancel(context.Background())
	r := NewOutboxRunner(zap.NewNop(), repo, MakeGlobalOutboxHandler(events, onePass()),
		RunnerConfig{Workers: 2, WaitTime: 5 * time.Millisecond})
	r.Start(ctx)

	require.Eventually(t, func() bool {
		events.mu.Lock()
		defer events.mu.Unlock()
		return len(events.got) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	r.Wait()
}

func TestMakeGlobalOutboxHandler_BadPayload(t *testing.T) {
	h, err := MakeGlobalOutboxHandler(&recordingEvents{}, onePass())(outbox.KindUserRegistered)
	require.NoError(t, err)

	assert.Error(t, h(context.Background(), []byte("not json")))
}
