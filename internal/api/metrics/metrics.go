// Package metrics defines and registers the custom Prometheus metrics of the
// user service. HTTP request metrics come from echoprometheus; the counters
// here track account and identity outcomes.
//
// All metrics register with the default registry through promauto at package
// initialisation.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medisched/user-service/internal/core/domain"
)

const namespace = "user_service"

// Outcome labels.
const (
	ResultSuccess        = "success"
	ResultEmailTaken     = "email_taken"
	ResultBadCredentials = "bad_credentials"
	ResultTokenInvalid   = "token_invalid"
	ResultNotFound       = "not_found"
	ResultNoProviders    = "no_providers"
	ResultError          = "error"
)

// RegistrationsTotal counts registration attempts.
// Labels:
//   - role: requested role (e.g. "DOCTOR")
//   - result: outcome label, see Outcome
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// AuthenticationsTotal counts login attempts.
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)

// LookupsTotal counts identity lookups.
// Labels:
//   - operation: "info", "role", "user_id", "validate", "info_by_id", "providers"
//   - result: outcome label, see Outcome
var LookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of user lookups, by operation and result.",
	},
	[]string{"operation", "result"},
)

// Outcome maps a service error to its result label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, domain.ErrEmailAlreadyInUse):
		return ResultEmailTaken
	case errors.Is(err, domain.ErrBadCredentials):
		return ResultBadCredentials
	case errors.Is(err, domain.ErrTokenInvalid):
		return ResultTokenInvalid
	case errors.Is(err, domain.ErrUserNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrNoProvidersForService):
		return ResultNoProviders
	default:
		return ResultError
	}
}
