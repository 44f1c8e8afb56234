package entity

// Scoped lo implementa toda entidad que pertenece a una empresa y, opcionalmente, a una unidad.
type Scoped interface {
	EntityID() int64
	OwnerCompanyID() int64
	OwnerBusinessUnitID() *int64
}

// MultiUnit lo implementan las entidades asignadas a varias unidades a la vez.
type MultiUnit interface {
	OwnerBusinessUnitIDs() []int64
}

// Kind identifica un tipo de entidad para cache, permisos e invalidación.
type Kind string

const (
	KindCompany      Kind = "companies"
	KindBusinessUnit Kind = "business-units"
	KindUser         Kind = "users"
	KindDriver       Kind = "drivers"
	KindResource     Kind = "resources"
	KindFuelEvent    Kind = "fuel-events"
	KindTrip         Kind = "trips"
	KindFuelType     Kind = "fuel-types"
	KindMovementType Kind = "movement-types"
)

// Kinds devuelve todas las clases de entidad en orden estable.
func Kinds() []Kind {
	return []Kind{
		KindCompany, KindBusinessUnit, KindUser, KindDriver, KindResource,
		KindFuelEvent, KindTrip, KindFuelType, KindMovementType,
	}
}
