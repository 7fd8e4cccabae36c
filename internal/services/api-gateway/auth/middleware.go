package auth

import (
	"context"
	"errors"
	"net/http"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/domain/user"
	"github.com/NordCoder/Turnstile/internal/services/api-gateway/httpx"
)

type ctxKey int

const userKey ctxKey = 1

func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok
}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// RequireAccess rejects requests without a valid access token and puts the
// resolved user into the request context.
func (c *Controller) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := c.ext.Access(r)
		if err != nil {
			if errors.Is(err, domainauth.ErrInvalidToken) {
				observe(transitionAccess, domainauth.StateAccessExpired)
			} else {
				observe(transitionAccess, domainauth.StateAnonymous)
			}
			httpx.WriteError(w, r, c.log, err)
			return
		}
		u, err := c.uc.Authenticate(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, r, c.log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}
