package ports

import (
	"context"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// ListFilter filtro de alcance que se envía a la API en los listados.
// CompanyID 0 = sin filtro de empresa (solo SuperAdmin).
type ListFilter struct {
	CompanyID      int64
	BusinessUnitID *int64
}

// LoginRequest credenciales que se envían a la API.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FuelAPI puerto de salida hacia la API REST de combustible.
// Las respuestas se devuelven crudas (JSON decodificado con UseNumber); el casing
// de las claves no está garantizado y lo resuelve el paquete normalize.
type FuelAPI interface {
	Login(ctx context.Context, req LoginRequest) (any, error)
	TenantConfig(ctx context.Context, tenant string) (any, error)
	List(ctx context.Context, kind entity.Kind, f ListFilter) (any, error)
	Get(ctx context.Context, kind entity.Kind, id int64) (any, error)
	Create(ctx context.Context, kind entity.Kind, payload any) (any, error)
	Update(ctx context.Context, kind entity.Kind, id int64, payload any) (any, error)
	Deactivate(ctx context.Context, kind entity.Kind, id int64) error
}
