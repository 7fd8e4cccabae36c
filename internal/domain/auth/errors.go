package auth

import "errors"

// credential errors
var (
	ErrHashFailure   = errors.New("hash failure")
	ErrVerifyFailure = errors.New("verify failure")
)

// token errors
var (
	ErrTokenCreation = errors.New("token creation failed")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenMissing  = errors.New("missing token")
	ErrMissingCookie = errors.New("missing cookie")
	ErrInvalidCookie = errors.New("invalid cookie")
)

// flow errors
var (
	ErrMissingUserName   = errors.New("username is missing")
	ErrMissingPassword   = errors.New("password is missing")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("invalid password")
)
