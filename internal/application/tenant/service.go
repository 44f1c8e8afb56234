// Package tenant sirve la configuración visual de cada tenant con una ventana de
// vigencia larga (cambia muy poco).
package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/normalize"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

const keyPrefix = "tenant-config|"

// Service configuración de tenant cacheada.
type Service struct {
	api   ports.FuelAPI
	store ports.CacheStore
	ttl   time.Duration
	log   *logger.Logger
	sf    singleflight.Group
}

// NewService ttl es la ventana de vigencia (TENANT_CONFIG_TTL, 1h por defecto).
func NewService(api ports.FuelAPI, store ports.CacheStore, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{api: api, store: store, ttl: ttl, log: log.Component("tenant")}
}

// Config devuelve la configuración del tenant. Si la API falla se devuelve una
// configuración mínima (sin cachear) junto con el error.
func (s *Service) Config(ctx context.Context, tenant string) (entity.TenantConfig, error) {
	key := keyPrefix + tenant
	if raw, ok, err := s.store.Get(ctx, key); err == nil && ok {
		var cfg entity.TenantConfig
		if json.Unmarshal(raw, &cfg) == nil {
			return cfg, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		raw, err := s.api.TenantConfig(ctx, tenant)
		if err != nil {
			return nil, err
		}
		cfg := fallback(tenant)
		if obj := normalize.NormalizeObjectResponse(raw); obj != nil {
			if err := normalize.Decode(obj, &cfg); err != nil {
				return nil, fmt.Errorf("config de tenant %s: %w", tenant, err)
			}
		}
		cfg.Tenant = tenant
		if b, err := json.Marshal(cfg); err == nil {
			if err := s.store.Set(ctx, key, b, s.ttl); err != nil {
				s.log.Tenant(tenant).Warn().Err(err).Msg("cachear configuración de tenant")
			}
		}
		return cfg, nil
	})
	if err != nil {
		s.log.Tenant(tenant).Warn().Err(err).Msg("configuración de tenant no disponible")
		return fallback(tenant), err
	}
	return v.(entity.TenantConfig), nil
}

func fallback(tenant string) entity.TenantConfig {
	name := tenant
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return entity.TenantConfig{Tenant: tenant, DisplayName: name}
}
