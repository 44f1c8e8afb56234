// Package scope calcula el alcance efectivo de datos de un usuario: qué empresa y qué
// unidades de negocio puede ver y modificar. Toda la lógica condicionada por rol vive acá;
// los servicios de datos y los handlers solo consumen el EffectiveScope resultante.
package scope

import (
	"slices"
	"strconv"
	"strings"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// Input es el estado explícito del que depende el alcance. Se recalcula en cada acceso.
type Input struct {
	Role                entity.Role
	Portal              entity.Portal
	UserCompanyID       int64 // 0 = desconocido
	UserBusinessUnitIDs []int64
	ActiveUnitID        *int64
	// CompanyFilter empresa elegida por un SuperAdmin en el panel (nil = todas).
	CompanyFilter *int64
}

// EffectiveScope es el filtro derivado que se aplica a cada consulta o mutación.
// BusinessUnitIDs nil significa "sin restricción de unidad"; nunca es un slice vacío.
type EffectiveScope struct {
	Role            entity.Role
	CompanyID       int64
	BusinessUnitIDs []int64
	IsCompanyWide   bool
	AllCompanies    bool
}

// Resolve aplica las reglas por rol, en orden de prioridad:
//  1. SuperAdmin: sin restricción (o una empresa si CompanyFilter), inválido en el portal de tenant.
//  2. Admin: unidad activa, si no la primera asignada, si no toda la empresa.
//  3. Supervisor/Operador/Auditor: unidad activa si está entre las asignadas, si no las asignadas.
//     Nunca escalan a toda la empresa.
func Resolve(in Input) (EffectiveScope, error) {
	if !in.Role.Valid() {
		return EffectiveScope{}, domain.ErrScopeUnresolvable
	}
	if in.Role == entity.RoleSuperAdmin {
		if in.Portal == entity.PortalTenant {
			return EffectiveScope{}, domain.ErrUseAdminPanel
		}
		if in.CompanyFilter != nil && *in.CompanyFilter > 0 {
			return EffectiveScope{Role: in.Role, CompanyID: *in.CompanyFilter, IsCompanyWide: true}, nil
		}
		return EffectiveScope{Role: in.Role, IsCompanyWide: true, AllCompanies: true}, nil
	}
	if in.Portal == entity.PortalAdmin {
		return EffectiveScope{}, domain.ErrUseTenantPortal
	}
	if in.UserCompanyID <= 0 {
		return EffectiveScope{}, domain.ErrScopeUnresolvable
	}

	out := EffectiveScope{Role: in.Role, CompanyID: in.UserCompanyID}
	active := activeID(in.ActiveUnitID)
	assigned := cleanIDs(in.UserBusinessUnitIDs)

	if in.Role == entity.RoleAdmin {
		switch {
		case active > 0:
			out.BusinessUnitIDs = []int64{active}
		case len(assigned) > 0:
			out.BusinessUnitIDs = []int64{assigned[0]}
		default:
			out.IsCompanyWide = true
		}
		return out, nil
	}

	if len(assigned) == 0 {
		return EffectiveScope{}, domain.ErrScopeUnresolvable
	}
	if active > 0 && slices.Contains(assigned, active) {
		out.BusinessUnitIDs = []int64{active}
	} else {
		out.BusinessUnitIDs = assigned
	}
	return out, nil
}

// CatalogScope alcance del catálogo de unidades de negocio, es decir lo que el usuario
// puede elegir como unidad activa: ignora la unidad activa y el Admin ve toda la empresa.
func CatalogScope(in Input) (EffectiveScope, error) {
	in.ActiveUnitID = nil
	if in.Role == entity.RoleAdmin {
		in.UserBusinessUnitIDs = nil
	}
	return Resolve(in)
}

// Requirement indica qué dato del alcance necesita una consulta para poder dispararse.
type Requirement int

const (
	// RequireCompany consultas a nivel empresa (catálogos, usuarios, empresas).
	RequireCompany Requirement = iota
	// RequireBusinessUnit consultas particionadas por unidad de negocio.
	RequireBusinessUnit
)

// Enabled informa si una consulta con el requisito dado puede ejecutarse sin ambigüedad.
func (s EffectiveScope) Enabled(req Requirement) bool {
	if s.AllCompanies {
		return true
	}
	if s.CompanyID <= 0 {
		return false
	}
	if req == RequireCompany || s.IsCompanyWide {
		return true
	}
	return len(s.BusinessUnitIDs) > 0
}

// ContainsCompany informa si la empresa está dentro del alcance.
func (s EffectiveScope) ContainsCompany(companyID int64) bool {
	return s.AllCompanies || (s.CompanyID > 0 && s.CompanyID == companyID)
}

// Contains informa si una entidad con esa empresa y unidad está dentro del alcance.
// Con alcance por unidad, una entidad sin unidad queda fuera.
func (s EffectiveScope) Contains(companyID int64, unitID *int64) bool {
	if !s.ContainsCompany(companyID) {
		return false
	}
	if s.AllCompanies || s.IsCompanyWide {
		return true
	}
	return unitID != nil && slices.Contains(s.BusinessUnitIDs, *unitID)
}

// ContainsAny es Contains para una entidad asignada a varias unidades: alcanza con
// que una de ellas esté en el alcance.
func (s EffectiveScope) ContainsAny(companyID int64, unitIDs []int64) bool {
	if !s.ContainsCompany(companyID) {
		return false
	}
	if s.AllCompanies || s.IsCompanyWide {
		return true
	}
	for _, u := range unitIDs {
		if slices.Contains(s.BusinessUnitIDs, u) {
			return true
		}
	}
	return false
}

// Key serializa la tupla de alcance para usarla como parte de una clave de cache:
// "all", "c3:*" (empresa completa) o "c3:u5,7".
func (s EffectiveScope) Key() string {
	if s.AllCompanies {
		return "all"
	}
	var b strings.Builder
	b.WriteString("c")
	b.WriteString(strconv.FormatInt(s.CompanyID, 10))
	if s.IsCompanyWide || len(s.BusinessUnitIDs) == 0 {
		b.WriteString(":*")
		return b.String()
	}
	ids := slices.Clone(s.BusinessUnitIDs)
	slices.Sort(ids)
	b.WriteString(":u")
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// CompanyKey es la clave de la tupla a nivel empresa, usada por consultas RequireCompany.
func (s EffectiveScope) CompanyKey() string {
	if s.AllCompanies {
		return "all"
	}
	return "c" + strconv.FormatInt(s.CompanyID, 10) + ":*"
}

// ValidateActiveUnit verifica que el usuario pueda elegir esa unidad como activa.
// Es el único camino autorizado antes de escribir en el store de unidad activa.
func ValidateActiveUnit(in Input, unit entity.BusinessUnit) error {
	if in.Role == entity.RoleSuperAdmin || in.Portal == entity.PortalAdmin {
		return domain.ErrForbidden
	}
	if !in.Role.Valid() || in.UserCompanyID <= 0 {
		return domain.ErrScopeUnresolvable
	}
	if unit.CompanyID != in.UserCompanyID {
		return domain.ErrOutOfScope
	}
	if in.Role.UnitBound() && !slices.Contains(cleanIDs(in.UserBusinessUnitIDs), unit.ID) {
		return domain.ErrOutOfScope
	}
	if !unit.IsActive {
		return domain.ErrInvalidInput
	}
	return nil
}

func activeID(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// cleanIDs descarta ids no positivos y duplicados conservando el orden de asignación.
func cleanIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
