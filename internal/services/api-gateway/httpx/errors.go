package httpx

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/domain/user"
	"github.com/NordCoder/Turnstile/internal/obs"
)

const unknownServerError = "Unknown server error"

type statusRule struct {
	err    error
	status int
	msg    string
}

var rules = []statusRule{
	{user.ErrNotFound, http.StatusNotFound, "User not found"},
	{user.ErrInvalidUserName, http.StatusUnprocessableEntity, "Invalid username"},
	{ErrBadBody, http.StatusBadRequest, "Invalid request body"},

	{auth.ErrMissingUserName, http.StatusUnauthorized, "Missing username"},
	{auth.ErrMissingPassword, http.StatusUnauthorized, "Missing password"},
	{auth.ErrUserNotFound, http.StatusUnauthorized, "User not found"},
	{auth.ErrIncorrectPassword, http.StatusUnauthorized, "Invalid password"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{auth.ErrTokenMissing, http.StatusUnauthorized, "Missing token"},
	{auth.ErrMissingCookie, http.StatusUnauthorized, "Missing cookie"},
	{auth.ErrInvalidCookie, http.StatusUnauthorized, "Invalid cookie"},
}

// Status classifies err into an HTTP status and the message sent to the
// client. Unclassified errors never leak their text.
func Status(err error) (int, string) {
	for _, r := range rules {
		if errors.Is(err, r.err) {
			return r.status, r.msg
		}
	}
	var verr validation.Errors
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, verr.Error()
	}
	return http.StatusInternalServerError, unknownServerError
}

// WriteError writes the {"error": msg} body. Server errors are logged with
// their full cause.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError && log != nil {
		obs.WithTrace(r.Context(), log).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	WriteJSON(w, status, errorBody{Error: msg})
}
