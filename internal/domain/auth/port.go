package auth

// Hasher turns passwords into self-describing salted hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns ErrVerifyFailure both for a wrong password and for a
	// malformed stored hash.
	Verify(plaintext, encoded string) error
}

// Codec signs and verifies claim sets. Every decode failure is ErrInvalidToken.
type Codec interface {
	Encode(c Claims) (string, error)
	DecodeAccess(token string) (AccessClaims, error)
	DecodeRefresh(token string) (RefreshClaims, error)
}
