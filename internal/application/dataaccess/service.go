// Package dataaccess implementa las operaciones de lectura y escritura por clase de
// entidad contra la API de combustible, siempre dentro de un alcance ya resuelto
// por el paquete scope. Las respuestas pasan por normalize antes de tiparse.
package dataaccess

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/normalize"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// Service operaciones de una clase de entidad.
type Service[T entity.Scoped] struct {
	desc  Descriptor
	api   ports.FuelAPI
	cache *Cache
	log   *logger.Logger
}

// NewService construye el servicio para kind. Panics si kind no figura en Descriptors.
func NewService[T entity.Scoped](kind entity.Kind, api ports.FuelAPI, cache *Cache, log *logger.Logger) *Service[T] {
	desc, ok := Descriptors[kind]
	if !ok {
		panic(fmt.Sprintf("dataaccess: clase de entidad desconocida %q", kind))
	}
	return &Service[T]{desc: desc, api: api, cache: cache, log: log.Component(string(kind))}
}

// Kind clase de entidad del servicio.
func (s *Service[T]) Kind() entity.Kind { return s.desc.Kind }

// Descriptor descriptor de la clase.
func (s *Service[T]) Descriptor() Descriptor { return s.desc }

// List devuelve las entidades visibles en el alcance. Con alcance incompleto devuelve
// domain.ErrScopeDisabled sin llamar a la API.
func (s *Service[T]) List(ctx context.Context, sc scope.EffectiveScope) ([]T, error) {
	if !sc.Can(s.desc.Kind, scope.ActionRead) {
		return nil, domain.ErrForbidden
	}
	if !sc.Enabled(s.desc.Requirement) {
		return nil, domain.ErrScopeDisabled
	}

	key := s.desc.key(sc)
	var cached []T
	if s.cache.get(ctx, key, &cached) {
		s.cache.metrics.CacheHit(s.desc.Kind)
		return cached, nil
	}
	s.cache.metrics.CacheMiss(s.desc.Kind)

	v, err := s.shared(ctx, key, func(fctx context.Context) (any, error) {
		return s.fetch(fctx, sc)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]T)), nil
}

// shared colapsa las cargas concurrentes de key en una sola. La carga corre con un
// contexto sin cancelación: cada llamador deja de esperar cuando vence el suyo, sin
// cortar la carga de los demás.
func (s *Service[T]) shared(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	gen := s.cache.generation(key)
	ch := s.cache.sf.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		v, err := load(fctx)
		if err != nil {
			return nil, err
		}
		s.cache.setIfCurrent(fctx, key, gen, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}

// fetch consulta la API una vez por unidad (o una sola vez a nivel empresa) y combina.
func (s *Service[T]) fetch(ctx context.Context, sc scope.EffectiveScope) ([]T, error) {
	var filters []ports.ListFilter
	switch {
	case sc.AllCompanies:
		filters = []ports.ListFilter{{}}
	case s.desc.Requirement == scope.RequireCompany || sc.IsCompanyWide:
		filters = []ports.ListFilter{{CompanyID: sc.CompanyID}}
	default:
		for _, u := range sc.BusinessUnitIDs {
			u := u
			filters = append(filters, ports.ListFilter{CompanyID: sc.CompanyID, BusinessUnitID: &u})
		}
	}

	seen := make(map[int64]bool)
	out := make([]T, 0)
	for _, f := range filters {
		raw, err := s.api.List(ctx, s.desc.Kind, f)
		s.cache.metrics.Upstream(s.desc.Kind, "list", err)
		if err != nil {
			return nil, fmt.Errorf("listar %s: %w", s.desc.Kind, err)
		}
		items, skipped := normalize.DecodeList[T](normalize.NormalizeArrayResponse(raw))
		if skipped > 0 {
			s.log.Warn().Int("skipped", skipped).Msg("filas que no se pudieron decodificar")
		}
		dropped := 0
		for _, it := range items {
			if !s.desc.Contains(sc, it) {
				dropped++
				continue
			}
			if seen[it.EntityID()] {
				continue
			}
			seen[it.EntityID()] = true
			out = append(out, it)
		}
		if dropped > 0 {
			s.log.Warn().Int("dropped", dropped).Str("scope", sc.Key()).Msg("la API devolvió filas fuera del alcance")
		}
	}
	return out, nil
}

// GetByID detalle con clave propia por id. No filtra por alcance: la API responde
// 403/404 y la capa HTTP oculta lo que quede fuera del alcance.
func (s *Service[T]) GetByID(ctx context.Context, id int64) (T, error) {
	key := itemKey(s.desc.Kind, id)
	var cached T
	if s.cache.get(ctx, key, &cached) {
		s.cache.metrics.CacheHit(s.desc.Kind)
		return cached, nil
	}
	s.cache.metrics.CacheMiss(s.desc.Kind)

	v, err := s.shared(ctx, key, func(fctx context.Context) (any, error) {
		return s.fetchOne(fctx, id)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (s *Service[T]) fetchOne(ctx context.Context, id int64) (T, error) {
	var item T
	raw, err := s.api.Get(ctx, s.desc.Kind, id)
	s.cache.metrics.Upstream(s.desc.Kind, "get", err)
	if err != nil {
		return item, fmt.Errorf("obtener %s %d: %w", s.desc.Kind, id, err)
	}
	obj := normalize.NormalizeObjectResponse(raw)
	if obj == nil {
		return item, fmt.Errorf("obtener %s %d: %w", s.desc.Kind, id, domain.ErrNotFound)
	}
	if err := normalize.Decode(obj, &item); err != nil {
		return item, fmt.Errorf("obtener %s %d: %w", s.desc.Kind, id, domain.ErrUpstream)
	}
	return item, nil
}

// Create valida permiso y pertenencia del payload, crea en la API e invalida.
// Si el payload no trae empresa o unidad y el alcance las determina, se completan.
func (s *Service[T]) Create(ctx context.Context, sc scope.EffectiveScope, payload map[string]any) (T, error) {
	var zero T
	if !sc.Can(s.desc.Kind, scope.ActionCreate) {
		return zero, domain.ErrForbidden
	}
	body := s.withScopeDefaults(sc, payload)
	delete(body, "id")

	var candidate T
	if err := normalize.Decode(body, &candidate); err != nil {
		return zero, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !s.owns(sc, candidate) {
		return zero, domain.ErrOutOfScope
	}

	raw, err := s.api.Create(ctx, s.desc.Kind, body)
	s.cache.metrics.Upstream(s.desc.Kind, "create", err)
	if err != nil {
		return zero, fmt.Errorf("crear %s: %w", s.desc.Kind, err)
	}
	created := s.decodeOr(raw, candidate)
	s.cache.Invalidate(ctx, s.desc.Kind, targetOf(created), targetOf(candidate))
	return created, nil
}

// Update verifica que la entidad actual y la resultante estén en el alcance, actualiza
// e invalida tanto la ubicación vieja como la nueva.
func (s *Service[T]) Update(ctx context.Context, sc scope.EffectiveScope, id int64, payload map[string]any) (T, error) {
	var zero T
	if !sc.Can(s.desc.Kind, scope.ActionUpdate) {
		return zero, domain.ErrForbidden
	}
	current, err := s.fetchOne(ctx, id)
	if err != nil {
		return zero, err
	}
	if !s.owns(sc, current) {
		return zero, domain.ErrOutOfScope
	}

	body := normalize.NormalizeKeys(payload).(map[string]any)
	if body == nil {
		body = map[string]any{}
	}
	body["id"] = id
	merged, err := asMap(current)
	if err != nil {
		return zero, err
	}
	for k, v := range body {
		merged[k] = v
	}
	var next T
	if err := normalize.Decode(merged, &next); err != nil {
		return zero, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !s.owns(sc, next) {
		return zero, domain.ErrOutOfScope
	}

	raw, err := s.api.Update(ctx, s.desc.Kind, id, body)
	s.cache.metrics.Upstream(s.desc.Kind, "update", err)
	if err != nil {
		return zero, fmt.Errorf("actualizar %s %d: %w", s.desc.Kind, id, err)
	}
	updated := s.decodeOr(raw, next)
	s.cache.Invalidate(ctx, s.desc.Kind, targetOf(current), targetOf(updated))
	return updated, nil
}

// Deactivate baja lógica. Marca isActive=false en los listados cacheados antes de
// llamar a la API y restaura el estado previo si la llamada falla.
func (s *Service[T]) Deactivate(ctx context.Context, sc scope.EffectiveScope, id int64) error {
	if !sc.Can(s.desc.Kind, scope.ActionDeactivate) {
		return domain.ErrForbidden
	}
	current, err := s.fetchOne(ctx, id)
	if err != nil {
		return err
	}
	if !s.owns(sc, current) {
		return domain.ErrOutOfScope
	}

	target := targetOf(current)
	snaps := s.cache.markInactive(ctx, s.desc.Kind, target)

	err = s.api.Deactivate(ctx, s.desc.Kind, id)
	s.cache.metrics.Upstream(s.desc.Kind, "deactivate", err)
	if err != nil {
		s.cache.restore(ctx, snaps)
		return fmt.Errorf("desactivar %s %d: %w", s.desc.Kind, id, err)
	}
	s.cache.Invalidate(ctx, s.desc.Kind, target)
	return nil
}

// Abandon descarta cargas en vuelo del listado de ese alcance.
func (s *Service[T]) Abandon(sc scope.EffectiveScope) {
	s.cache.Abandon(s.desc.key(sc))
}

func (s *Service[T]) owns(sc scope.EffectiveScope, e T) bool {
	return s.desc.Contains(sc, e)
}

// withScopeDefaults normaliza el payload y completa companyId y, con una sola unidad
// en el alcance, businessUnitId (businessUnitIds para usuarios).
func (s *Service[T]) withScopeDefaults(sc scope.EffectiveScope, payload map[string]any) map[string]any {
	body, _ := normalize.NormalizeKeys(payload).(map[string]any)
	if body == nil {
		body = map[string]any{}
	}
	if s.desc.Kind == entity.KindCompany {
		return body
	}
	if isEmpty(body["companyId"]) && !sc.AllCompanies {
		body["companyId"] = sc.CompanyID
	}
	if !s.desc.UnitFiltered || s.desc.Kind == entity.KindBusinessUnit || len(sc.BusinessUnitIDs) != 1 {
		return body
	}
	if s.desc.Kind == entity.KindUser {
		if isEmpty(body["businessUnitIds"]) {
			body["businessUnitIds"] = []int64{sc.BusinessUnitIDs[0]}
		}
		return body
	}
	if isEmpty(body["businessUnitId"]) {
		body["businessUnitId"] = sc.BusinessUnitIDs[0]
	}
	return body
}

// decodeOr tipa la respuesta de una mutación; si la API no devuelve cuerpo usa fallback.
func (s *Service[T]) decodeOr(raw any, fallback T) T {
	obj := normalize.NormalizeObjectResponse(raw)
	if obj == nil {
		return fallback
	}
	out := fallback
	if err := normalize.Decode(obj, &out); err != nil {
		s.log.Warn().Err(err).Msg("respuesta de mutación no decodificable")
		return fallback
	}
	return out
}

// asMap copia una entidad a su forma de mapa canónico.
func asMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	out := map[string]any{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// targetOf ubicación de una entidad para invalidar. Con varias unidades la invalidación
// alcanza a toda la empresa.
func targetOf(e entity.Scoped) Target {
	if _, ok := e.(entity.MultiUnit); ok {
		return Target{ID: e.EntityID(), CompanyID: e.OwnerCompanyID()}
	}
	return Target{ID: e.EntityID(), CompanyID: e.OwnerCompanyID(), UnitID: e.OwnerBusinessUnitID()}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}

// IsDisabled informa si el error corresponde a una consulta deshabilitada por alcance.
func IsDisabled(err error) bool {
	return errors.Is(err, domain.ErrScopeDisabled)
}
