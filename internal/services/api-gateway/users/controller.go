package users

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/NordCoder/Turnstile/internal/domain/user"
	"github.com/NordCoder/Turnstile/internal/obs"
	"github.com/NordCoder/Turnstile/internal/services/api-gateway/auth"
	"github.com/NordCoder/Turnstile/internal/services/api-gateway/httpx"
)

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

type Server struct {
	log     *zap.Logger
	uc      *Usecase
	maxBody int64
}

func NewServer(log *zap.Logger, uc *Usecase, maxBody int64) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Server{log: log, uc: uc, maxBody: maxBody}
}

// Routes mounts the user endpoints; protect guards the read routes.
func (s *Server) Routes(r chi.Router, protect func(http.Handler) http.Handler) {
	r.Post("/users", s.Create)
	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Get("/users/me", s.Me)
		r.Get("/users/{id:[0-9]+}", s.Get)
	})
}

func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	var in Registration
	if err := httpx.DecodeJSON(w, r, s.maxBody, &in); err != nil {
		httpx.WriteError(w, r, s.log, err)
		return
	}
	u, err := s.uc.Register(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, s.log, err)
		return
	}
	obs.WithTrace(r.Context(), s.log).Info("user registered", zap.Int64("user_id", u.ID))
	httpx.WriteJSON(w, http.StatusCreated, toResponse(u))
}

func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, r, s.log, user.ErrNotFound)
		return
	}
	u, err := s.uc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, s.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(u))
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, s.log, user.ErrNotFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(u))
}
