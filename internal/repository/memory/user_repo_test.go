package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NordCoder/Turnstile/internal/domain/user"
)

func TestUserRepo_CreateAndFind(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	bob := &user.User{Username: "bob", Email: "bob@x.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, bob))
	assert.Equal(t, int64(1), bob.ID)
	assert.False(t, bob.CreatedAt.IsZero())

	got, err := repo.Find(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, *bob, *got)

	got.Username = "mutated"
	again, _ := repo.Find(ctx, bob.ID)
	assert.Equal(t, "bob", again.Username)

	_, err = repo.Find(ctx, 42)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepo_Uniqueness(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &user.User{Username: "bob", Email: "bob@x.com"}))

	assert.ErrorIs(t, repo.Create(ctx, &user.User{Username: "bob", Email: "new@x.com"}), user.ErrInvalidUserName)
	assert.ErrorIs(t, repo.Create(ctx, &user.User{Username: "rob", Email: "bob@x.com"}), user.ErrInvalidUserName)
	assert.ErrorIs(t, repo.Create(ctx, &user.User{Username: " ", Email: "blank@x.com"}), user.ErrInvalidUserName)
}

func TestUserRepo_FindByUsernameOrEmail(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()
	bob := &user.User{Username: "bob", Email: "bob@x.com"}
	carol := &user.User{Username: "carol", Email: "bob"}
	require.NoError(t, repo.Create(ctx, bob))
	require.NoError(t, repo.Create(ctx, carol))

	got, err := repo.FindByUsernameOrEmail(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	got, err = repo.FindByUsernameOrEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	_, err = repo.FindByUsernameOrEmail(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)

	repo.Delete(bob.ID)
	got, err = repo.FindByUsernameOrEmail(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, carol.ID, got.ID)
}

func TestUserRepo_CancelledContext(t *testing.T) {
	repo := NewUserRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Create(ctx, &user.User{Username: "bob"}), context.Canceled)
	_, err := repo.Find(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserRepo_ConcurrentCreate(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &user.User{Username: "same", Email: "same@x.com"})
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
}

func TestOutboxRepo_PickAndMark(t *testing.T) {
	repo := NewOutboxRepo()
	ctx := context.Background()
	require.NoError(t, repo.Enqueue(ctx, "a", 1, []byte(`{}`)))
	require.NoError(t, repo.Enqueue(ctx, "a", 1, []byte(`{"dup":true}`)))
	require.NoError(t, repo.Enqueue(ctx, "b", 1, []byte(`{}`)))

	batch, err := repo.PickBatch(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "a", batch[0].IdempotencyKey)
	assert.Equal(t, `{}`, string(batch[0].Data))

	require.NoError(t, repo.MarkSuccess(ctx, []string{"a"}))
	msgs := repo.Messages()
	require.Len(t, msgs, 2)
	assert.EqualValues(t, "SUCCESS", msgs[0].Status)

	_, err = repo.PickBatch(ctx, 0, 0)
	assert.Error(t, err)
}
