package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domainauth "github.com/NordCoder/Turnstile/internal/domain/auth"
)

const (
	transitionLogin   = "login"
	transitionRefresh = "refresh"
	transitionAccess  = "access"
)

var authTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auth_transitions_total",
	Help: "Authentication gate outcomes by transition and resulting state.",
}, []string{"transition", "state"})

func observe(transition string, state domainauth.State) {
	authTransitions.WithLabelValues(transition, string(state)).Inc()
}
