package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

var _ ports.Metrics = (*Metrics)(nil)

const namespace = "combustible_bff"

// Metrics contadores Prometheus del BFF.
type Metrics struct {
	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
	UpstreamCalls *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer en producción,
// un registry propio en tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Listados servidos desde el cache, por clase de entidad.",
		}, []string{"kind"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Listados que requirieron ir a la API, por clase de entidad.",
		}, []string{"kind"}),
		UpstreamCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Llamadas a la API de combustible por clase, operación y resultado.",
		}, []string{"kind", "op", "outcome"}), // outcome: ok, not_found, forbidden, error
		Invalidations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidated_keys_total",
			Help:      "Claves de cache invalidadas tras una mutación.",
		}, []string{"kind"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Intentos de login por resultado.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) CacheHit(kind entity.Kind)  { m.CacheHits.WithLabelValues(string(kind)).Inc() }
func (m *Metrics) CacheMiss(kind entity.Kind) { m.CacheMisses.WithLabelValues(string(kind)).Inc() }

func (m *Metrics) Upstream(kind entity.Kind, op string, err error) {
	m.UpstreamCalls.WithLabelValues(string(kind), op, outcome(err)).Inc()
}

func (m *Metrics) Invalidated(kind entity.Kind, keys int) {
	m.Invalidations.WithLabelValues(string(kind)).Add(float64(keys))
}

func (m *Metrics) Login(outcome string) { m.Logins.WithLabelValues(outcome).Inc() }

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return "forbidden"
	default:
		return "error"
	}
}
