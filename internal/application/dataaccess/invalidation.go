package dataaccess

import (
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
)

// Descriptor describe cómo se consulta y filtra una clase de entidad.
type Descriptor struct {
	Kind        entity.Kind
	Requirement scope.Requirement
	// UnitFiltered descarta filas cuya unidad no está en el alcance. Con
	// RequireCompany la consulta sigue siendo una sola por empresa.
	UnitFiltered bool
}

// Descriptors tabla de clases de entidad.
var Descriptors = map[entity.Kind]Descriptor{
	entity.KindCompany:      {Kind: entity.KindCompany, Requirement: scope.RequireCompany},
	entity.KindBusinessUnit: {Kind: entity.KindBusinessUnit, Requirement: scope.RequireCompany, UnitFiltered: true},
	entity.KindUser:         {Kind: entity.KindUser, Requirement: scope.RequireCompany, UnitFiltered: true},
	entity.KindDriver:       {Kind: entity.KindDriver, Requirement: scope.RequireBusinessUnit, UnitFiltered: true},
	entity.KindResource:     {Kind: entity.KindResource, Requirement: scope.RequireBusinessUnit, UnitFiltered: true},
	entity.KindFuelEvent:    {Kind: entity.KindFuelEvent, Requirement: scope.RequireBusinessUnit, UnitFiltered: true},
	entity.KindTrip:         {Kind: entity.KindTrip, Requirement: scope.RequireBusinessUnit, UnitFiltered: true},
	entity.KindFuelType:     {Kind: entity.KindFuelType, Requirement: scope.RequireCompany},
	entity.KindMovementType: {Kind: entity.KindMovementType, Requirement: scope.RequireCompany},
}

// InvalidationTable clase mutada → clases cuyos listados se invalidan.
// La propia clase siempre va primera.
var InvalidationTable = map[entity.Kind][]entity.Kind{
	entity.KindCompany:      {entity.KindCompany, entity.KindBusinessUnit},
	entity.KindBusinessUnit: {entity.KindBusinessUnit},
	entity.KindUser:         {entity.KindUser},
	entity.KindDriver:       {entity.KindDriver},
	entity.KindResource:     {entity.KindResource},
	entity.KindFuelEvent:    {entity.KindFuelEvent, entity.KindResource}, // la carga mueve el stock del tanque
	entity.KindTrip:         {entity.KindTrip},
	entity.KindFuelType:     {entity.KindFuelType, entity.KindResource},
	entity.KindMovementType: {entity.KindMovementType},
}

// key clave del listado para el alcance dado.
func (d Descriptor) key(s scope.EffectiveScope) string {
	if d.UnitFiltered {
		return listKey(d.Kind, s.Key())
	}
	return listKey(d.Kind, s.CompanyKey())
}

// Contains filtro de filas según el descriptor. Una entidad con varias unidades
// queda dentro si alguna está en el alcance.
func (d Descriptor) Contains(s scope.EffectiveScope, e entity.Scoped) bool {
	if d.UnitFiltered {
		if m, ok := e.(entity.MultiUnit); ok {
			return s.ContainsAny(e.OwnerCompanyID(), m.OwnerBusinessUnitIDs())
		}
		return s.Contains(e.OwnerCompanyID(), e.OwnerBusinessUnitID())
	}
	return s.ContainsCompany(e.OwnerCompanyID())
}
