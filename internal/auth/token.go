package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

var _ domainauth.Codec = (*JWTCodec)(nil)

// JWTCodec signs both claim shapes with one HS256 key. It holds no mutable
// state and is safe for concurrent use.
type JWTCodec struct {
	secret []byte
	now    func() time.Time
}

type CodecOption func(*JWTCodec)

// WithClock overrides the time used for expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

func NewJWTCodec(secret []byte, opts ...CodecOption) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	c := &JWTCodec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *JWTCodec) Encode(claims domainauth.Claims) (string, error) {
	var wire jwt.Claims
	switch v := claims.(type) {
	case domainauth.AccessClaims:
		roles := make([]string, 0, len(v.Roles))
		for _, r := range v.Roles {
			roles = append(roles, string(r))
		}
		wire = accessWire{
			baseWire: baseWire{UID: v.Subject, Exp: v.ExpiresAt, Typ: domainauth.KindAccess},
			Roles:    roles,
		}
	case domainauth.RefreshClaims:
		wire = refreshWire{
			baseWire: baseWire{UID: v.Subject, Exp: v.ExpiresAt, Typ: domainauth.KindRefresh},
		}
	default:
		return "", fmt.Errorf("%w: unsupported claims %T", domainauth.ErrTokenCreation, claims)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainauth.ErrTokenCreation, err)
	}
	return signed, nil
}

func (c *JWTCodec) DecodeAccess(token string) (domainauth.AccessClaims, error) {
	var w accessWire
	if err := c.parse(token, &w, domainauth.KindAccess); err != nil {
		return domainauth.AccessClaims{}, err
	}
	roles := make([]domainauth.Role, 0, len(w.Roles))
	for _, r := range w.Roles {
		roles = append(roles, domainauth.Role(r))
	}
	return domainauth.AccessClaims{Subject: w.UID, ExpiresAt: w.Exp, Roles: roles}, nil
}

func (c *JWTCodec) DecodeRefresh(token string) (domainauth.RefreshClaims, error) {
	var w refreshWire
	if err := c.parse(token, &w, domainauth.KindRefresh); err != nil {
		return domainauth.RefreshClaims{}, err
	}
	return domainauth.RefreshClaims{Subject: w.UID, ExpiresAt: w.Exp}, nil
}

// parse is shared by both shapes: signature, structure, expiry and kind
// failures all come back as ErrInvalidToken.
func (c *JWTCodec) parse(token string, dst kindedClaims, want domainauth.Kind) error {
	_, err := jwt.ParseWithClaims(token, dst, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || dst.kind() != want {
		return domainauth.ErrInvalidToken
	}
	return nil
}

type kindedClaims interface {
	jwt.Claims
	kind() domainauth.Kind
}

// baseWire is {uid, exp, typ}; access tokens add roles.
type baseWire struct {
	UID int64           `json:"uid"`
	Exp int64           `json:"exp"`
	Typ domainauth.Kind `json:"typ"`
}

func (b baseWire) kind() domainauth.Kind { return b.Typ }

func (b baseWire) GetExpirationTime() (*jwt.NumericDate, error) {
	if b.Exp == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(b.Exp, 0)), nil
}
func (b baseWire) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (b baseWire) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (b baseWire) GetIssuer() (string, error)              { return "", nil }
func (b baseWire) GetSubject() (string, error)             { return strconv.FormatInt(b.UID, 10), nil }
func (b baseWire) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

type accessWire struct {
	baseWire
	Roles []string `json:"roles"`
}

type refreshWire struct {
	baseWire
}
