package auth

import (
	"net/http"
	"strings"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
)

// Extractor pulls token claims out of request metadata. It does no I/O.
type Extractor struct {
	codec domainauth.Codec
}

func NewExtractor(codec domainauth.Codec) *Extractor {
	return &Extractor{codec: codec}
}

// Access reads "Authorization: Bearer <token>".
func (e *Extractor) Access(r *http.Request) (domainauth.AccessClaims, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return domainauth.AccessClaims{}, domainauth.ErrTokenMissing
	}
	return e.codec.DecodeAccess(token)
}

// Refresh reads the refresh_token cookie.
func (e *Extractor) Refresh(r *http.Request) (domainauth.RefreshClaims, error) {
	lines := r.Header.Values("Cookie")
	if len(lines) == 0 {
		return domainauth.RefreshClaims{}, domainauth.ErrMissingCookie
	}
	pairs := cookiePairs(lines)
	if len(pairs) == 0 {
		return domainauth.RefreshClaims{}, domainauth.ErrMissingCookie
	}
	cookies, err := http.ParseCookie(strings.Join(pairs, "; "))
	if err != nil {
		return domainauth.RefreshClaims{}, domainauth.ErrInvalidCookie
	}
	for _, c := range cookies {
		if c.Name == domainauth.RefreshCookieName {
			return e.codec.DecodeRefresh(c.Value)
		}
	}
	return domainauth.RefreshClaims{}, domainauth.ErrMissingCookie
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// cookiePairs splits Cookie header lines into trimmed name=value pairs,
// dropping the empty segments left by stray or trailing separators.
func cookiePairs(lines []string) []string {
	var pairs []string
	for _, line := range lines {
		for _, part := range strings.Split(line, ";") {
			if part = strings.TrimSpace(part); part != "" {
				pairs = append(pairs, part)
			}
		}
	}
	return pairs
}
