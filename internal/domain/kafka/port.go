package kafka

import (
	"context"
	"time"
)

type UserRegistered struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	At       time.Time `json:"at"`
}

type UserEvents interface {
	PublishUserRegistered(ctx context.Context, ev UserRegistered) error
}
