package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/domain/user"
)

var ErrBadTTL = errors.New("access ttl must be positive and shorter than refresh ttl")

type IssuerConfig struct {
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	CookiePath   string
	CookieDomain string
}

// Issuer mints access/refresh pairs. It holds no mutable state.
type Issuer struct {
	codec domainauth.Codec
	cfg   IssuerConfig
}

func NewIssuer(codec domainauth.Codec, cfg IssuerConfig) (*Issuer, error) {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = domainauth.DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = domainauth.DefaultRefreshTTL
	}
	if cfg.AccessTTL < 0 || cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, ErrBadTTL
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	return &Issuer{codec: codec, cfg: cfg}, nil
}

type Issued struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
	Access       domainauth.AccessClaims
	Refresh      domainauth.RefreshClaims
}

func (i *Issuer) Issue(u *user.User, now time.Time) (Issued, error) {
	access := domainauth.AccessClaims{
		Subject:   u.ID,
		ExpiresAt: now.Add(i.cfg.AccessTTL).Unix(),
		Roles:     []domainauth.Role{},
	}
	refresh := domainauth.RefreshClaims{
		Subject:   u.ID,
		ExpiresAt: now.Add(i.cfg.RefreshTTL).Unix(),
	}

	accessToken, err := i.codec.Encode(access)
	if err != nil {
		return Issued{}, fmt.Errorf("access token: %w", err)
	}
	refreshToken, err := i.codec.Encode(refresh)
	if err != nil {
		return Issued{}, fmt.Errorf("refresh token: %w", err)
	}
	return Issued{
		UserID:       u.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Access:       access,
		Refresh:      refresh,
	}, nil
}

// Cookie carries the refresh token only. Secure is not configurable.
func (i *Issuer) Cookie(iss Issued) *http.Cookie {
	return &http.Cookie{
		Name:     domainauth.RefreshCookieName,
		Value:    iss.RefreshToken,
		Path:     i.cfg.CookiePath,
		Domain:   i.cfg.CookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(i.cfg.RefreshTTL.Seconds()),
		Expires:  time.Unix(iss.Refresh.ExpiresAt, 0).UTC(),
	}
}
