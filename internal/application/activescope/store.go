// Package activescope guarda la unidad de negocio elegida por el usuario dentro del
// tenant. Tiene prioridad sobre la unidad asignada por defecto y se borra al cerrar sesión.
// El store no valida pertenencia: quien escribe debe validar antes con scope.ValidateActiveUnit.
package activescope

import (
	"context"
	"fmt"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// Repository persistencia de la unidad activa por clave de sesión.
type Repository interface {
	Get(ctx context.Context, sessionKey string) (*int64, error)
	Set(ctx context.Context, sessionKey string, unitID int64) error
	Delete(ctx context.Context, sessionKey string) error
}

// UnitNamer resuelve nombres contra el listado de unidades ya cacheado.
type UnitNamer interface {
	UnitName(ctx context.Context, companyID, unitID int64) (string, bool)
}

// Store unidad activa por sesión.
type Store struct {
	repo  Repository
	names UnitNamer
	log   *logger.Logger
}

// NewStore construye el store.
func NewStore(repo Repository, names UnitNamer, log *logger.Logger) *Store {
	return &Store{repo: repo, names: names, log: log.Component("activescope")}
}

// SessionKey clave de sesión: tenant y usuario.
func SessionKey(tenant string, userID int64) string {
	return fmt.Sprintf("%s:%d", tenant, userID)
}

// SetActiveUnit fija la unidad activa; nil la limpia.
func (s *Store) SetActiveUnit(ctx context.Context, sessionKey string, unitID *int64) error {
	if unitID == nil {
		return s.repo.Delete(ctx, sessionKey)
	}
	return s.repo.Set(ctx, sessionKey, *unitID)
}

// GetActiveUnit devuelve la unidad activa o nil. Un error del repositorio se registra
// y se trata como "sin unidad activa".
func (s *Store) GetActiveUnit(ctx context.Context, sessionKey string) *int64 {
	id, err := s.repo.Get(ctx, sessionKey)
	if err != nil {
		s.log.Warn().Err(err).Str("session", sessionKey).Msg("leer unidad activa")
		return nil
	}
	return id
}

// GetActiveUnitName nombre de la unidad activa según el listado cacheado de la empresa.
// false si no hay unidad activa o no figura en el listado.
func (s *Store) GetActiveUnitName(ctx context.Context, sessionKey string, companyID int64) (string, bool) {
	id := s.GetActiveUnit(ctx, sessionKey)
	if id == nil || s.names == nil {
		return "", false
	}
	return s.names.UnitName(ctx, companyID, *id)
}

// Reset borra la unidad activa (cierre de sesión).
func (s *Store) Reset(ctx context.Context, sessionKey string) error {
	return s.repo.Delete(ctx, sessionKey)
}
