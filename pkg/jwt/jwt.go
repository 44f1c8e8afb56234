package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired token vencido.
var ErrExpired = errors.New("jwt: token expirado")

// Claims son los claims que emite el entorno de desarrollo y los tests. La API real puede
// usar otros nombres (PascalCase, URIs de ASP.NET); por eso el BFF lee tokens con ParseMap.
type Claims struct {
	jwt.RegisteredClaims
	Name            string  `json:"name,omitempty"`
	Email           string  `json:"email,omitempty"`
	Role            string  `json:"role"`
	CompanyID       int64   `json:"companyId,omitempty"`
	BusinessUnitIDs []int64 `json:"businessUnitIds,omitempty"`
}

// Subject identidad que se firma en el token.
type Subject struct {
	UserID          int64
	Name            string
	Email           string
	Role            string
	CompanyID       int64
	BusinessUnitIDs []int64
}

// Generate genera un token HS256 para el sujeto indicado.
func Generate(secret string, s Subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", s.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Name:            s.Name,
		Email:           s.Email,
		Role:            s.Role,
		CompanyID:       s.CompanyID,
		BusinessUnitIDs: s.BusinessUnitIDs,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ErrNoSecret se devuelve cuando no hay clave para verificar la firma.
var ErrNoSecret = errors.New("jwt: secret requerido")

// ParseMap verifica la firma HMAC y devuelve los claims crudos del token.
// Los números llegan como json.Number.
func ParseMap(secret, tokenString string) (map[string]any, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if tokenString == "" {
		return nil, fmt.Errorf("jwt: token vacío")
	}
	parser := jwt.NewParser(jwt.WithJSONNumber())
	claims := jwt.MapClaims{}

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
