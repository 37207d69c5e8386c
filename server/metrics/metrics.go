// Package metrics exposes Prometheus counters over the outcomes a
// server.Server produces, so an operator can see discard/ok/response
// rates and the error codes a deployment is actually returning.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	stun "github.com/ztun/ztun"
	"github.com/ztun/ztun/server"
)

// Metrics is a small set of counters registered against a
// prometheus.Registerer. The zero value is not usable; construct with
// New.
type Metrics struct {
	results    *prometheus.CounterVec
	errorCodes *prometheus.CounterVec
}

// New creates a Metrics and registers its collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ztun",
			Subsystem: "server",
			Name:      "messages_total",
			Help:      "Total messages handled, labeled by outcome kind.",
		}, []string{"kind"}),
		errorCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ztun",
			Subsystem: "server",
			Name:      "error_responses_total",
			Help:      "Total error_response messages built, labeled by STUN error code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.results, m.errorCodes)

	return m
}

// Observe records the outcome of a single HandleMessage call.
func (m *Metrics) Observe(result server.MessageResult) {
	m.results.WithLabelValues(result.Kind.String()).Inc()

	if result.Kind != server.ResultResponse || result.Message == nil {
		return
	}
	if result.Message.Type.Class != stun.ClassErrorResponse {
		return
	}

	var ec stun.ErrorCodeAttribute
	if err := ec.GetFrom(result.Message); err == nil {
		m.errorCodes.WithLabelValues(strconv.Itoa(int(ec.Code))).Inc()
	}
}
