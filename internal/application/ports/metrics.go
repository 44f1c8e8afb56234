package ports

import "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"

// Metrics contadores operativos. Implementado con Prometheus en infrastructure/metrics.
type Metrics interface {
	CacheHit(kind entity.Kind)
	CacheMiss(kind entity.Kind)
	Upstream(kind entity.Kind, op string, err error)
	Invalidated(kind entity.Kind, keys int)
	Login(outcome string)
}

// NopMetrics descarta todo.
type NopMetrics struct{}

func (NopMetrics) CacheHit(entity.Kind)                {}
func (NopMetrics) CacheMiss(entity.Kind)               {}
func (NopMetrics) Upstream(entity.Kind, string, error) {}
func (NopMetrics) Invalidated(entity.Kind, int)        {}
func (NopMetrics) Login(string)                        {}
