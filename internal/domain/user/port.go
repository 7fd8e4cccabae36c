package user

import "context"

// Repo is the user store consumed by the auth core. Find and
// FindByUsernameOrEmail return ErrNotFound for a missing record; Create
// returns ErrInvalidUserName when a uniqueness constraint rejects the row.
type Repo interface {
	Find(ctx context.Context, id int64) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, login string) (*User, error)
	Create(ctx context.Context, u *User) error
}
