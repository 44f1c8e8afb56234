package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de recurso físico de la flota.
const (
	ResourceVehicle   = "vehicle"
	ResourceTank      = "tank"
	ResourceDispenser = "dispenser"
)

// Driver es un chofer habilitado para cargar combustible.
type Driver struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"companyId"`
	BusinessUnitID *int64    `json:"businessUnitId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DNI            string    `json:"dni"`
	Phone          string    `json:"phone"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (d Driver) EntityID() int64             { return d.ID }
func (d Driver) OwnerCompanyID() int64       { return d.CompanyID }
func (d Driver) OwnerBusinessUnitID() *int64 { return d.BusinessUnitID }

// Resource es un vehículo, tanque o surtidor.
type Resource struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"companyId"`
	BusinessUnitID *int64          `json:"businessUnitId"`
	Type           string          `json:"type"`
	Name           string          `json:"name"`
	Identifier     string          `json:"identifier"` // patente, código de tanque o de surtidor
	FuelTypeID     *int64          `json:"fuelTypeId"`
	Capacity       decimal.Decimal `json:"capacity"`
	CurrentStock   decimal.Decimal `json:"currentStock"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (r Resource) EntityID() int64             { return r.ID }
func (r Resource) OwnerCompanyID() int64       { return r.CompanyID }
func (r Resource) OwnerBusinessUnitID() *int64 { return r.BusinessUnitID }

// FuelEvent es una carga (o descarga) de combustible.
type FuelEvent struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"companyId"`
	BusinessUnitID *int64          `json:"businessUnitId"`
	ResourceID     int64           `json:"resourceId"`
	DriverID       *int64          `json:"driverId"`
	FuelTypeID     *int64          `json:"fuelTypeId"`
	MovementTypeID *int64          `json:"movementTypeId"`
	Liters         decimal.Decimal `json:"liters"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	Odometer       *int64          `json:"odometer"`
	Notes          string          `json:"notes"`
	OccurredAt     time.Time       `json:"occurredAt"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (f FuelEvent) EntityID() int64             { return f.ID }
func (f FuelEvent) OwnerCompanyID() int64       { return f.CompanyID }
func (f FuelEvent) OwnerBusinessUnitID() *int64 { return f.BusinessUnitID }

// Trip es un viaje de un vehículo con su chofer.
type Trip struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"companyId"`
	BusinessUnitID *int64          `json:"businessUnitId"`
	DriverID       *int64          `json:"driverId"`
	ResourceID     int64           `json:"resourceId"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	Kilometers     decimal.Decimal `json:"kilometers"`
	StartedAt      time.Time       `json:"startedAt"`
	FinishedAt     *time.Time      `json:"finishedAt"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (t Trip) EntityID() int64             { return t.ID }
func (t Trip) OwnerCompanyID() int64       { return t.CompanyID }
func (t Trip) OwnerBusinessUnitID() *int64 { return t.BusinessUnitID }

// FuelType tipo de combustible (gasoil, nafta, GNC...).
type FuelType struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
}

func (f FuelType) EntityID() int64             { return f.ID }
func (f FuelType) OwnerCompanyID() int64       { return f.CompanyID }
func (f FuelType) OwnerBusinessUnitID() *int64 { return nil }

// MovementType clasifica los movimientos de combustible (carga, descarga, ajuste).
type MovementType struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
}

func (m MovementType) EntityID() int64             { return m.ID }
func (m MovementType) OwnerCompanyID() int64       { return m.CompanyID }
func (m MovementType) OwnerBusinessUnitID() *int64 { return nil }
