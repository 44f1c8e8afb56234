package session

import (
	"fmt"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/normalize"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	pkgjwt "github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/jwt"
)

// tokenClaims forma canónica de los claims que interesan al BFF.
type tokenClaims struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Role            entity.Role `json:"role"`
	CompanyID       int64       `json:"companyId"`
	BusinessUnitID  *int64      `json:"businessUnitId"`
	BusinessUnitIDs []int64     `json:"businessUnitIds"`
}

// TokenDecoder reconstruye el usuario desde el bearer token.
type TokenDecoder struct {
	secret string
}

// NewTokenDecoder verifica la firma con secret; sin secret rechaza todo token.
func NewTokenDecoder(secret string) *TokenDecoder {
	return &TokenDecoder{secret: secret}
}

// Decode valida vencimiento (y firma si hay secret) y tipa los claims.
func (d *TokenDecoder) Decode(token string) (*entity.User, error) {
	claims, err := pkgjwt.ParseMap(d.secret, token)
	if err != nil {
		return nil, err
	}
	var c tokenClaims
	if err := normalize.Decode(claims, &c); err != nil {
		return nil, fmt.Errorf("claims ilegibles: %w", err)
	}
	if !c.Role.Valid() {
		return nil, fmt.Errorf("rol desconocido %q", c.Role)
	}
	units := c.BusinessUnitIDs
	if len(units) == 0 && c.BusinessUnitID != nil {
		units = []int64{*c.BusinessUnitID}
	}
	return &entity.User{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Role:            c.Role,
		CompanyID:       c.CompanyID,
		BusinessUnitIDs: units,
		IsActive:        true,
	}, nil
}
