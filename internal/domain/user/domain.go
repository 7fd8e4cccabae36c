package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrInvalidUserName = errors.New("invalid username")
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
