package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/domain/user"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{user.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("create: %w", user.ErrInvalidUserName), http.StatusUnprocessableEntity},
		{validation.Errors{"email": errors.New("must be a valid email address")}, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: eof", ErrBadBody), http.StatusBadRequest},
		{auth.ErrMissingUserName, http.StatusUnauthorized},
		{auth.ErrMissingPassword, http.StatusUnauthorized},
		{auth.ErrUserNotFound, http.StatusUnauthorized},
		{auth.ErrIncorrectPassword, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrTokenMissing, http.StatusUnauthorized},
		{auth.ErrMissingCookie, http.StatusUnauthorized},
		{auth.ErrInvalidCookie, http.StatusUnauthorized},
		{auth.ErrHashFailure, http.StatusInternalServerError},
		{auth.ErrTokenCreation, http.StatusInternalServerError},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			got, _ := Status(tc.err)
			assert.Equal(t, tc.status, got)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, zap.NewNop(), fmt.Errorf("%w: hmac key rejected", auth.ErrTokenCreation))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, map[string]string{"error": "Unknown server error"}, body)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"name":"bob"}`, true},
		{"unknown field", `{"name":"bob","admin":true}`, false},
		{"trailing data", `{"name":"bob"}{}`, false},
		{"malformed", `{"name":`, false},
		{"empty", ``, false},
		{"too large", `{"name":"` + strings.Repeat("a", 64) + `"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst payload
			err := DecodeJSON(httptest.NewRecorder(), req, 32, &dst)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, "bob", dst.Name)
				return
			}
			assert.ErrorIs(t, err, ErrBadBody)
		})
	}
}
