package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/activescope"
)

var _ activescope.Repository = (*ActiveScopeRepo)(nil)

const activeScopesDDL = `
	CREATE TABLE IF NOT EXISTS active_scopes (
		session_key      TEXT PRIMARY KEY,
		business_unit_id BIGINT NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// ActiveScopeRepo unidad activa por sesión sobre PostgreSQL; sobrevive reinicios del BFF.
type ActiveScopeRepo struct {
	pool *pgxpool.Pool
}

// NewActiveScopeRepository construye el adaptador.
func NewActiveScopeRepository(pool *pgxpool.Pool) *ActiveScopeRepo {
	return &ActiveScopeRepo{pool: pool}
}

// EnsureSchema crea la tabla si no existe.
func (r *ActiveScopeRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, activeScopesDDL); err != nil {
		return fmt.Errorf("crear tabla active_scopes: %w", err)
	}
	return nil
}

// Get devuelve la unidad activa o nil si la sesión no eligió ninguna.
func (r *ActiveScopeRepo) Get(ctx context.Context, sessionKey string) (*int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT business_unit_id FROM active_scopes WHERE session_key = $1`, sessionKey,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active scope: %w", err)
	}
	return &id, nil
}

// Set inserta o reemplaza la unidad activa.
func (r *ActiveScopeRepo) Set(ctx context.Context, sessionKey string, unitID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO active_scopes (session_key, business_unit_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_key) DO UPDATE
		SET business_unit_id = EXCLUDED.business_unit_id, updated_at = now()`,
		sessionKey, unitID,
	)
	if err != nil {
		return fmt.Errorf("set active scope: %w", err)
	}
	return nil
}

// Delete borra la unidad activa de la sesión.
func (r *ActiveScopeRepo) Delete(ctx context.Context, sessionKey string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM active_scopes WHERE session_key = $1`, sessionKey); err != nil {
		return fmt.Errorf("delete active scope: %w", err)
	}
	return nil
}
