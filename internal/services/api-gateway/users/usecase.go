package users

import (
	"context"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/domain/kafka"
	"github.com/NordCoder/Turnstile/internal/domain/outbox"
	"github.com/NordCoder/Turnstile/internal/domain/user"
)

type Transactor interface {
	WithTx(ctx context.Context, function func(ctx context.Context) error) error
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type Usecase struct {
	users  user.Repo
	hasher domainauth.Hasher
	tx     Transactor
	events outbox.Repository
}

// New wires the registration flow. events may be nil, in which case no
// user.registered message is recorded.
func New(users user.Repo, hasher domainauth.Hasher, tx Transactor, events outbox.Repository) *Usecase {
	return &Usecase{users: users, hasher: hasher, tx: tx, events: events}
}

// Register stores a new account and, in the same transaction, the outbox
// message announcing it.
func (u *Usecase) Register(ctx context.Context, in Registration) (*user.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	created := &user.User{Username: in.Username, Email: in.Email, PasswordHash: hash}

	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := u.users.Create(ctx, created); err != nil {
			return err
		}
		if u.events == nil {
			return nil
		}
		data, err := json.Marshal(kafka.UserRegistered{
			UserID:   created.ID,
			Username: created.Username,
			Email:    created.Email,
			At:       created.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("marshal user registered: %w", err)
		}
		return u.events.Enqueue(ctx, uuid.NewString(), outbox.KindUserRegistered, data)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (*user.User, error) {
	return u.users.Find(ctx, id)
}
