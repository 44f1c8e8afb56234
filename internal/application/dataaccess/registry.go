package dataaccess

import (
	"context"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// Services agrupa un servicio por clase de entidad sobre un mismo cache.
type Services struct {
	Cache         *Cache
	Companies     *Service[entity.Company]
	BusinessUnits *Service[entity.BusinessUnit]
	Users         *Service[entity.User]
	Drivers       *Service[entity.Driver]
	Resources     *Service[entity.Resource]
	FuelEvents    *Service[entity.FuelEvent]
	Trips         *Service[entity.Trip]
	FuelTypes     *Service[entity.FuelType]
	MovementTypes *Service[entity.MovementType]
}

// NewServices construye todos los servicios.
func NewServices(api ports.FuelAPI, cache *Cache, log *logger.Logger) *Services {
	return &Services{
		Cache:         cache,
		Companies:     NewService[entity.Company](entity.KindCompany, api, cache, log),
		BusinessUnits: NewService[entity.BusinessUnit](entity.KindBusinessUnit, api, cache, log),
		Users:         NewService[entity.User](entity.KindUser, api, cache, log),
		Drivers:       NewService[entity.Driver](entity.KindDriver, api, cache, log),
		Resources:     NewService[entity.Resource](entity.KindResource, api, cache, log),
		FuelEvents:    NewService[entity.FuelEvent](entity.KindFuelEvent, api, cache, log),
		Trips:         NewService[entity.Trip](entity.KindTrip, api, cache, log),
		FuelTypes:     NewService[entity.FuelType](entity.KindFuelType, api, cache, log),
		MovementTypes: NewService[entity.MovementType](entity.KindMovementType, api, cache, log),
	}
}

// Abandon descarta las cargas en vuelo de todos los listados del alcance anterior.
func (s *Services) Abandon(sc scope.EffectiveScope) {
	keys := make([]string, 0, len(Descriptors))
	for _, d := range Descriptors {
		keys = append(keys, d.key(sc))
	}
	s.Cache.Abandon(keys...)
}

// Purge borra los listados cacheados de la empresa (0 = listados sin restricción).
func (s *Services) Purge(ctx context.Context, companyID int64) {
	s.Cache.Purge(ctx, companyID)
}

// UnitName busca el nombre de una unidad en los listados de unidades ya cacheados de la
// empresa. No llama a la API.
func (s *Services) UnitName(ctx context.Context, companyID, unitID int64) (string, bool) {
	keys := s.Cache.matching(ctx, []entity.Kind{entity.KindBusinessUnit}, func(pk parsedKey) bool {
		return pk.itemID == 0 && (pk.all || pk.companyID == companyID)
	})
	for _, key := range keys {
		var units []entity.BusinessUnit
		if !s.Cache.get(ctx, key, &units) {
			continue
		}
		for _, u := range units {
			if u.ID == unitID && u.CompanyID == companyID {
				return u.Name, true
			}
		}
	}
	return "", false
}
