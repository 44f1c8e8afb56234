package dto

import "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"

// TenantResponse tenant resuelto desde el host y su configuración visual.
type TenantResponse struct {
	Tenant string              `json:"tenant"`
	Config entity.TenantConfig `json:"config"`
}
