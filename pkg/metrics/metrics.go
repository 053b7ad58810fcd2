package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "authentication", Name: "logins_started_total", Help: "Number of login redirects issued."},
	)
	CallbacksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authentication", Name: "callbacks_completed_total", Help: "Number of completed OAuth callbacks by outcome."},
		[]string{"outcome"},
	)
	TokensIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authentication", Name: "tokens_issued_total", Help: "Number of tokens issued by type."},
		[]string{"type"},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authentication", Name: "auth_failures_total", Help: "Number of rejected bearer credentials by reason."},
		[]string{"reason"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginsStarted)
	reg.MustRegister(CallbacksCompleted)
	reg.MustRegister(TokensIssued)
	reg.MustRegister(AuthFailures)
}
