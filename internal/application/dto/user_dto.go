package dto

import "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario de la sesión.
type UserResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	CompanyID       int64   `json:"companyId"`
	BusinessUnitIDs []int64 `json:"businessUnitIds"`
}

// LoginResponse salida de login.
type LoginResponse struct {
	User     UserResponse `json:"user"`
	Portal   string       `json:"portal"`
	Redirect string       `json:"redirect"`
}

// NewUserResponse arma la salida a partir de la entidad.
func NewUserResponse(u entity.User) UserResponse {
	ids := u.BusinessUnitIDs
	if ids == nil {
		ids = []int64{}
	}
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		CompanyID:       u.CompanyID,
		BusinessUnitIDs: ids,
	}
}
