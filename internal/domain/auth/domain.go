package auth

import "time"

const (
	// DefaultAccessTTL is the access token window.
	DefaultAccessTTL = 300 * time.Second
	// DefaultRefreshTTL is 604600s, one week minus 200 seconds. Clients depend
	// on this exact number; descriptions of it as "one week plus 600 seconds"
	// get the arithmetic wrong, and it is not meant to be 604800s either.
	DefaultRefreshTTL = 604600 * time.Second

	RefreshCookieName = "refresh_token"
)

// Kind discriminates the two token classes signed with the same key.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Role is reserved for permission checks; issued tokens carry none yet.
type Role string

// Claims is implemented by the two claim shapes only.
type Claims interface {
	TokenKind() Kind
}

type AccessClaims struct {
	Subject   int64
	ExpiresAt int64 // unix seconds
	Roles     []Role
}

func (AccessClaims) TokenKind() Kind { return KindAccess }

type RefreshClaims struct {
	Subject   int64
	ExpiresAt int64 // unix seconds
}

func (RefreshClaims) TokenKind() Kind { return KindRefresh }

// State is the client session state as seen by the gate.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticated  State = "authenticated"
	StateAccessExpired  State = "access_expired"
	StateRefreshExpired State = "refresh_expired"
)
