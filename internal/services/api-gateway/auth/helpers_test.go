package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	authcore "github.com/NordCoder/Turnstile/internal/auth"
	"github.com/NordCoder/Turnstile/internal/domain"
	"github.com/NordCoder/Turnstile/internal/domain/user"
	"github.com/NordCoder/Turnstile/internal/repository/memory"
)

const testSecret = "test-signing-secret"

var cheapParams = authcore.Argon2idParams{MemoryKiB: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stack struct {
	clock  *fakeClock
	users  *memory.UserRepo
	hasher *authcore.Argon2idHasher
	codec  *authcore.JWTCodec
	issuer *Issuer
	uc     *Usecase
	ctrl   *Controller
	router http.Handler
}

func newStack(t *testing.T) *stack {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec, err := authcore.NewJWTCodec([]byte(testSecret), authcore.WithClock(clock.Now))
	require.NoError(t, err)
	issuer, err := NewIssuer(codec, IssuerConfig{})
	require.NoError(t, err)
	hasher, err := authcore.NewArgon2idHasher(cheapParams)
	require.NoError(t, err)

	s := &stack{
		clock:  clock,
		users:  memory.NewUserRepo(),
		hasher: hasher,
		codec:  codec,
		issuer: issuer,
	}
	s.uc = NewUsecase(nil, s.users, s.hasher, issuer, domain.Clock(clock))
	s.ctrl = NewController(nil, s.uc, NewExtractor(codec), issuer, 0)

	r := chi.NewRouter()
	s.ctrl.Routes(r)
	r.With(s.ctrl.RequireAccess).Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		u, _ := UserFromContext(r.Context())
		_, _ = w.Write([]byte(u.Username))
	})
	s.router = r
	return s
}

func (s *stack) addUser(t *testing.T, username, email, password string) *user.User {
	t.Helper()
	hash, err := s.hasher.Hash(password)
	require.NoError(t, err)
	u := &user.User{Username: username, Email: email, PasswordHash: hash}
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func (s *stack) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
