package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/NordCoder/Turnstile/internal/domain"
	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/domain/user"
	"github.com/NordCoder/Turnstile/internal/obs"
)

// Usecase drives the authentication gate transitions. Each call does at
// most one store read and one token issuance.
type Usecase struct {
	log    *zap.Logger
	users  user.Repo
	hasher domainauth.Hasher
	issuer *Issuer
	clock  domain.Clock
}

func NewUsecase(log *zap.Logger, users user.Repo, hasher domainauth.Hasher, issuer *Issuer, clock domain.Clock) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Usecase{log: log, users: users, hasher: hasher, issuer: issuer, clock: clock}
}

// Login checks credentials and issues a fresh pair.
func (uc *Usecase) Login(ctx context.Context, userOrEmail, password string) (Issued, error) {
	log := obs.WithTrace(ctx, uc.log)
	if userOrEmail == "" {
		observe(transitionLogin, domainauth.StateAnonymous)
		return Issued{}, domainauth.ErrMissingUserName
	}
	if password == "" {
		observe(transitionLogin, domainauth.StateAnonymous)
		return Issued{}, domainauth.ErrMissingPassword
	}

	u, err := uc.users.FindByUsernameOrEmail(ctx, userOrEmail)
	if err != nil {
		observe(transitionLogin, domainauth.StateAnonymous)
		if errors.Is(err, user.ErrNotFound) {
			return Issued{}, domainauth.ErrUserNotFound
		}
		return Issued{}, fmt.Errorf("find user: %w", err)
	}
	if err := uc.hasher.Verify(password, u.PasswordHash); err != nil {
		observe(transitionLogin, domainauth.StateAnonymous)
		log.Info("login rejected", zap.Int64("user_id", u.ID))
		return Issued{}, domainauth.ErrIncorrectPassword
	}

	iss, err := uc.issuer.Issue(u, uc.clock.Now())
	if err != nil {
		observe(transitionLogin, domainauth.StateAnonymous)
		return Issued{}, err
	}
	observe(transitionLogin, domainauth.StateAuthenticated)
	log.Info("login", zap.Int64("user_id", u.ID))
	return iss, nil
}

// Refresh reissues a pair for the subject of an already verified refresh token.
func (uc *Usecase) Refresh(ctx context.Context, claims domainauth.RefreshClaims) (Issued, error) {
	u, err := uc.users.Find(ctx, claims.Subject)
	if err != nil {
		observe(transitionRefresh, domainauth.StateRefreshExpired)
		if errors.Is(err, user.ErrNotFound) {
			return Issued{}, domainauth.ErrUserNotFound
		}
		return Issued{}, fmt.Errorf("find user %d: %w", claims.Subject, err)
	}

	iss, err := uc.issuer.Issue(u, uc.clock.Now())
	if err != nil {
		observe(transitionRefresh, domainauth.StateAccessExpired)
		return Issued{}, err
	}
	observe(transitionRefresh, domainauth.StateAuthenticated)
	obs.WithTrace(ctx, uc.log).Info("refresh", zap.Int64("user_id", u.ID))
	return iss, nil
}

// Authenticate resolves the subject of a verified access token. A subject
// that no longer exists is reported as ErrInvalidToken.
func (uc *Usecase) Authenticate(ctx context.Context, claims domainauth.AccessClaims) (*user.User, error) {
	u, err := uc.users.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			observe(transitionAccess, domainauth.StateAnonymous)
			return nil, domainauth.ErrInvalidToken
		}
		return nil, fmt.Errorf("find user %d: %w", claims.Subject, err)
	}
	observe(transitionAccess, domainauth.StateAuthenticated)
	return u, nil
}
