package entity

import "time"

// User representa un usuario autenticado o listado dentro de una empresa.
type User struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	CompanyID       int64     `json:"companyId"`
	BusinessUnitIDs []int64   `json:"businessUnitIds"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u User) EntityID() int64       { return u.ID }
func (u User) OwnerCompanyID() int64 { return u.CompanyID }

// OwnerBusinessUnitID devuelve la unidad por defecto del usuario (la primera asignada).
func (u User) OwnerBusinessUnitID() *int64 {
	if len(u.BusinessUnitIDs) == 0 {
		return nil
	}
	id := u.BusinessUnitIDs[0]
	return &id
}

func (u User) OwnerBusinessUnitIDs() []int64 { return u.BusinessUnitIDs }
