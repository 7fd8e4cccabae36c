package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/domain/user"
)

type failingCodec struct {
	domainauth.Codec
	failOn domainauth.Kind
}

func (f failingCodec) Encode(c domainauth.Claims) (string, error) {
	if c.TokenKind() == f.failOn {
		return "", domainauth.ErrTokenCreation
	}
	return f.Codec.Encode(c)
}

func TestIssuer_Expiry(t *testing.T) {
	s := newStack(t)
	now := s.clock.Now()

	iss, err := s.issuer.Issue(&user.User{ID: 7}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(7), iss.UserID)
	assert.Equal(t, now.Unix()+300, iss.Access.ExpiresAt)
	assert.Equal(t, now.Unix()+604600, iss.Refresh.ExpiresAt)
	assert.Less(t, iss.Access.ExpiresAt, iss.Refresh.ExpiresAt)
	assert.NotNil(t, iss.Access.Roles)

	access, err := s.codec.DecodeAccess(iss.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, iss.Access, access)
	refresh, err := s.codec.DecodeRefresh(iss.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, iss.Refresh, refresh)
}

func TestIssuer_Cookie(t *testing.T) {
	s := newStack(t)
	iss, err := s.issuer.Issue(&user.User{ID: 1}, s.clock.Now())
	require.NoError(t, err)

	c := s.issuer.Cookie(iss)
	assert.Equal(t, "refresh_token", c.Name)
	assert.Equal(t, iss.RefreshToken, c.Value)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604600, c.MaxAge)
	assert.Equal(t, time.Unix(iss.Refresh.ExpiresAt, 0).UTC(), c.Expires)
}

func TestIssuer_EncodeFailure(t *testing.T) {
	s := newStack(t)
	for _, kind := range []domainauth.Kind{domainauth.KindAccess, domainauth.KindRefresh} {
		issuer, err := NewIssuer(failingCodec{Codec: s.codec, failOn: kind}, IssuerConfig{})
		require.NoError(t, err)

		_, err = issuer.Issue(&user.User{ID: 1}, s.clock.Now())
		assert.True(t, errors.Is(err, domainauth.ErrTokenCreation), string(kind))
	}
}

func TestNewIssuer_RejectsBadTTLs(t *testing.T) {
	s := newStack(t)
	_, err := NewIssuer(s.codec, IssuerConfig{AccessTTL: time.Hour, RefreshTTL: time.Hour})
	assert.ErrorIs(t, err, ErrBadTTL)
	_, err = NewIssuer(s.codec, IssuerConfig{AccessTTL: -time.Second})
	assert.ErrorIs(t, err, ErrBadTTL)
}
