package entity

import "time"

// Company representa una empresa (tenant) que opera una flota.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId"`
	Subdomain string    `json:"subdomain"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Company) EntityID() int64             { return c.ID }
func (c Company) OwnerCompanyID() int64       { return c.ID }
func (c Company) OwnerBusinessUnitID() *int64 { return nil }

// BusinessUnit es una subdivisión de la empresa (sede, base operativa, segmento de flota).
type BusinessUnit struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyId"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b BusinessUnit) EntityID() int64       { return b.ID }
func (b BusinessUnit) OwnerCompanyID() int64 { return b.CompanyID }

// OwnerBusinessUnitID de una unidad es la propia unidad.
func (b BusinessUnit) OwnerBusinessUnitID() *int64 {
	id := b.ID
	return &id
}
