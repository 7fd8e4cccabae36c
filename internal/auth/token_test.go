package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T, secret string) *JWTCodec {
	t.Helper()
	c, err := NewJWTCodec([]byte(secret), WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return c
}

func TestNewJWTCodec_EmptySecret(t *testing.T) {
	_, err := NewJWTCodec(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestJWTCodec_AccessRoundTrip(t *testing.T) {
	c := newTestCodec(t, "super-secret")
	in := domainauth.AccessClaims{Subject: 42, ExpiresAt: testNow.Add(time.Minute).Unix(), Roles: []domainauth.Role{}}

	tok, err := c.Encode(in)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	out, err := c.DecodeAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJWTCodec_RefreshRoundTrip(t *testing.T) {
	c := newTestCodec(t, "super-secret")
	in := domainauth.RefreshClaims{Subject: 7, ExpiresAt: testNow.Add(time.Hour).Unix()}

	tok, err := c.Encode(in)
	require.NoError(t, err)

	out, err := c.DecodeRefresh(tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJWTCodec_Deterministic(t *testing.T) {
	c := newTestCodec(t, "k")
	in := domainauth.RefreshClaims{Subject: 1, ExpiresAt: testNow.Add(time.Hour).Unix()}

	a, err := c.Encode(in)
	require.NoError(t, err)
	b, err := c.Encode(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestJWTCodec_WireFormat(t *testing.T) {
	c := newTestCodec(t, "k")
	exp := testNow.Add(time.Minute).Unix()

	tok, err := c.Encode(domainauth.AccessClaims{Subject: 3, ExpiresAt: exp})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(header))

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, map[string]any{
		"uid":   float64(3),
		"exp":   float64(exp),
		"roles": []any{},
		"typ":   "access",
	}, got)
}

func TestJWTCodec_WrongKey(t *testing.T) {
	tok, err := newTestCodec(t, "right-secret").Encode(domainauth.AccessClaims{Subject: 1, ExpiresAt: testNow.Add(time.Minute).Unix()})
	require.NoError(t, err)

	_, err = newTestCodec(t, "wrong-secret").DecodeAccess(tok)
	assert.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestJWTCodec_Expired(t *testing.T) {
	c := newTestCodec(t, "k")

	for name, exp := range map[string]time.Time{
		"past":     testNow.Add(-time.Second),
		"exactly":  testNow,
		"long ago": testNow.Add(-30 * 24 * time.Hour),
	} {
		t.Run(name, func(t *testing.T) {
			tok, err := c.Encode(domainauth.RefreshClaims{Subject: 1, ExpiresAt: exp.Unix()})
			require.NoError(t, err)

			_, err = c.DecodeRefresh(tok)
			assert.ErrorIs(t, err, domainauth.ErrInvalidToken)
		})
	}
}

func TestJWTCodec_Malformed(t *testing.T) {
	c := newTestCodec(t, "k")

	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := c.DecodeAccess(tok)
		assert.ErrorIs(t, err, domainauth.ErrInvalidToken, "token %q", tok)
	}
}

func TestJWTCodec_KindMismatch(t *testing.T) {
	c := newTestCodec(t, "k")
	exp := testNow.Add(time.Minute).Unix()

	access, err := c.Encode(domainauth.AccessClaims{Subject: 1, ExpiresAt: exp})
	require.NoError(t, err)
	refresh, err := c.Encode(domainauth.RefreshClaims{Subject: 1, ExpiresAt: exp})
	require.NoError(t, err)

	_, err = c.DecodeRefresh(access)
	assert.ErrorIs(t, err, domainauth.ErrInvalidToken)
	_, err = c.DecodeAccess(refresh)
	assert.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestJWTCodec_RejectsUntypedLegacyToken(t *testing.T) {
	c := newTestCodec(t, "k")
	legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": 1,
		"exp": testNow.Add(time.Minute).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = c.DecodeAccess(legacy)
	assert.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	c := newTestCodec(t, "k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, accessWire{
		baseWire: baseWire{UID: 1, Exp: testNow.Add(time.Minute).Unix(), Typ: domainauth.KindAccess},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = c.DecodeAccess(tok)
	assert.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestJWTCodec_MissingExpiry(t *testing.T) {
	c := newTestCodec(t, "k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": 1,
		"typ": "access",
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = c.DecodeAccess(tok)
	assert.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestJWTCodec_ConcurrentUse(t *testing.T) {
	c := newTestCodec(t, "shared")

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := int64(i + 1)
			exp := testNow.Add(time.Minute).Unix()

			tok, err := c.Encode(domainauth.AccessClaims{Subject: sub, ExpiresAt: exp, Roles: []domainauth.Role{}})
			if err != nil {
				errs <- err
				return
			}
			access, err := c.DecodeAccess(tok)
			if err != nil || access.Subject != sub {
				errs <- fmt.Errorf("access %d: subject %d, err %v", sub, access.Subject, err)
				return
			}

			tok, err = c.Encode(domainauth.RefreshClaims{Subject: sub, ExpiresAt: exp})
			if err != nil {
				errs <- err
				return
			}
			refresh, err := c.DecodeRefresh(tok)
			if err != nil || refresh.Subject != sub {
				errs <- fmt.Errorf("refresh %d: subject %d, err %v", sub, refresh.Subject, err)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
