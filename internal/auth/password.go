package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"golang.org/x/crypto/argon2"
)

const argon2Version = argon2.Version

// Argon2idParams controls hashing cost. MemoryKiB is in KiB as argon2.IDKey expects.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams returns m=19456 KiB, t=2, p=1.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:   19 * 1024,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

var _ domainauth.Hasher = (*Argon2idHasher)(nil)

type Argon2idHasher struct {
	params Argon2idParams
	rand   func([]byte) (int, error)
}

var ErrArgon2idParams = errors.New("argon2id parameters out of range")

const (
	minSaltLength = 8
	maxSaltLength = 64
	minKeyLength  = 16
	maxKeyLength  = 128

	// Stored hashes up to these costs always verify, whatever the current
	// configuration.
	ceilMemoryKiB   = 256 * 1024
	ceilIterations  = 16
	ceilParallelism = 16
)

// Validate reports whether hashes made with p pass Verify.
func (p Argon2idParams) Validate() error {
	switch {
	case p.MemoryKiB == 0 || p.Iterations == 0 || p.Parallelism == 0:
		return fmt.Errorf("%w: memory, iterations and parallelism must be positive", ErrArgon2idParams)
	case p.SaltLength < minSaltLength || p.SaltLength > maxSaltLength:
		return fmt.Errorf("%w: salt length %d not in [%d, %d]", ErrArgon2idParams, p.SaltLength, minSaltLength, maxSaltLength)
	case p.KeyLength < minKeyLength || p.KeyLength > maxKeyLength:
		return fmt.Errorf("%w: key length %d not in [%d, %d]", ErrArgon2idParams, p.KeyLength, minKeyLength, maxKeyLength)
	}
	return nil
}

// NewArgon2idHasher fills zero fields from DefaultArgon2idParams and rejects
// parameters whose hashes Verify would refuse.
func NewArgon2idHasher(p Argon2idParams) (*Argon2idHasher, error) {
	def := DefaultArgon2idParams()
	if p.MemoryKiB == 0 {
		p.MemoryKiB = def.MemoryKiB
	}
	if p.Iterations == 0 {
		p.Iterations = def.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = def.Parallelism
	}
	if p.SaltLength == 0 {
		p.SaltLength = def.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = def.KeyLength
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Argon2idHasher{params: p, rand: rand.Read}, nil
}

// Hash returns a PHC string:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := h.rand(salt); err != nil {
		return "", fmt.Errorf("%w: salt: %v", domainauth.ErrHashFailure, err)
	}

	key := argon2.IDKey([]byte(plaintext), salt,
		h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)

	return encode(h.params, salt, key), nil
}

func (h *Argon2idHasher) Verify(plaintext, encoded string) error {
	params, salt, expected, ok := decode(encoded)
	if !ok || !withinBounds(params, h.params) {
		return domainauth.ErrVerifyFailure
	}

	key := argon2.IDKey([]byte(plaintext), salt,
		params.Iterations, params.MemoryKiB, params.Parallelism, uint32(len(expected)))

	if subtle.ConstantTimeCompare(key, expected) != 1 {
		return domainauth.ErrVerifyFailure
	}
	return nil
}

// Hashes produced with older or cheaper settings still verify; stored
// strings asking for more work than both the fixed ceiling and twice the
// configured cost do not.
func withinBounds(got, limits Argon2idParams) bool {
	switch {
	case got.MemoryKiB > max(limits.MemoryKiB*2, ceilMemoryKiB):
		return false
	case got.Iterations > max(limits.Iterations*2, ceilIterations):
		return false
	case uint32(got.Parallelism) > max(uint32(limits.Parallelism)*2, ceilParallelism):
		return false
	case got.SaltLength < minSaltLength || got.SaltLength > maxSaltLength:
		return false
	case got.KeyLength < minKeyLength || got.KeyLength > maxKeyLength:
		return false
	}
	return true
}

func encode(p Argon2idParams, salt, key []byte) string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version, p.MemoryKiB, p.Iterations, p.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

// decode accepts only strings that encode() reproduces byte for byte.
func decode(s string) (Argon2idParams, []byte, []byte, bool) {
	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, false
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return Argon2idParams{}, nil, nil, false
	}

	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Argon2idParams{}, nil, nil, false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}

	p := Argon2idParams{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par),
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}
	if encode(p, salt, key) != s {
		return Argon2idParams{}, nil, nil, false
	}
	return p, salt, key, true
}
