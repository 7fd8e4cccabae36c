// Package auth holds the credential primitives of the gateway: Argon2id
// password hashing and the HS256 codec for access and refresh tokens.
package auth
