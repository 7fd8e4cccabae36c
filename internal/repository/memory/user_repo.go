// Package memory holds process-local stores; they back the dev profile and
// the handler tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/NordCoder/Turnstile/internal/domain/user"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]user.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[int64]user.User)}
}

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(u.Username) == "" {
		return user.ErrInvalidUserName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.ErrInvalidUserName
		}
	}

	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepo) Find(ctx context.Context, id int64) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByUsernameOrEmail(ctx context.Context, login string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var byEmail *user.User
	for _, u := range r.byID {
		if u.Username == login {
			return &u, nil
		}
		if u.Email == login && byEmail == nil {
			byEmail = &u
		}
	}
	if byEmail == nil {
		return nil, user.ErrNotFound
	}
	return byEmail, nil
}

// Delete is used by tests to simulate an account removed between issuance and use.
func (r *UserRepo) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}
