package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
	"github.com/NordCoder/Turnstile/internal/services/api-gateway/httpx"
)

type loginRequest struct {
	UserOrEmail string `json:"userOrEmail"`
	Password    string `json:"password"`
}

type tokenResponse struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
}

type Controller struct {
	log     *zap.Logger
	uc      *Usecase
	ext     *Extractor
	issuer  *Issuer
	maxBody int64
}

func NewController(log *zap.Logger, uc *Usecase, ext *Extractor, issuer *Issuer, maxBody int64) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Controller{log: log, uc: uc, ext: ext, issuer: issuer, maxBody: maxBody}
}

func (c *Controller) Routes(r chi.Router) {
	r.Post("/users/authorize", c.Login)
	r.Post("/login", c.Login)
	r.Post("/refresh", c.Refresh)
}

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, c.maxBody, &req); err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	iss, err := c.uc.Login(r.Context(), req.UserOrEmail, req.Password)
	if err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	c.respond(w, iss)
}

func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, err := c.ext.Refresh(r)
	if err != nil {
		if errors.Is(err, domainauth.ErrInvalidToken) {
			observe(transitionRefresh, domainauth.StateRefreshExpired)
		} else {
			observe(transitionRefresh, domainauth.StateAnonymous)
		}
		httpx.WriteError(w, r, c.log, err)
		return
	}
	iss, err := c.uc.Refresh(r.Context(), claims)
	if err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	c.respond(w, iss)
}

func (c *Controller) respond(w http.ResponseWriter, iss Issued) {
	http.SetCookie(w, c.issuer.Cookie(iss))
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{UserID: iss.UserID, Token: iss.AccessToken})
}
