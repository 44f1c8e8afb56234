package dto

import (
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
)

// ScopeResponse alcance efectivo de la sesión.
type ScopeResponse struct {
	Enabled         bool                           `json:"enabled"`
	Reason          string                         `json:"reason,omitempty"`
	Role            string                         `json:"role"`
	CompanyID       int64                          `json:"companyId"`
	BusinessUnitIDs []int64                        `json:"businessUnitIds"`
	IsCompanyWide   bool                           `json:"isCompanyWide"`
	AllCompanies    bool                           `json:"allCompanies"`
	ActiveUnitID    *int64                         `json:"activeUnitId"`
	ActiveUnitName  string                         `json:"activeUnitName,omitempty"`
	Permissions     map[entity.Kind][]scope.Action `json:"permissions"`
}

// SetActiveUnitRequest nueva unidad activa (null la limpia).
type SetActiveUnitRequest struct {
	BusinessUnitID *int64 `json:"businessUnitId"`
}

// NewScopeResponse arma la salida a partir del alcance resuelto.
func NewScopeResponse(sc scope.EffectiveScope, active *int64, activeName string) ScopeResponse {
	ids := sc.BusinessUnitIDs
	if ids == nil {
		ids = []int64{}
	}
	return ScopeResponse{
		Enabled:         true,
		Role:            string(sc.Role),
		CompanyID:       sc.CompanyID,
		BusinessUnitIDs: ids,
		IsCompanyWide:   sc.IsCompanyWide,
		AllCompanies:    sc.AllCompanies,
		ActiveUnitID:    active,
		ActiveUnitName:  activeName,
		Permissions:     sc.Permissions(),
	}
}
