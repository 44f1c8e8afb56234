package normalize

import (
	"strings"
	"unicode"
)

// canonical son los nombres internos de campo. Cada uno acepta su variante PascalCase
// y su variante en minúsculas como origen.
var canonical = []string{
	"id", "name", "email", "role", "isActive", "createdAt", "updatedAt",
	"companyId", "companyName", "businessUnitId", "businessUnitIds", "businessUnitName", "userId",
	"firstName", "lastName", "dni", "phone", "address", "taxId", "subdomain",
	"type", "identifier", "fuelTypeId", "capacity", "currentStock",
	"resourceId", "driverId", "movementTypeId", "liters", "unitPrice", "totalCost",
	"odometer", "notes", "occurredAt",
	"origin", "destination", "kilometers", "startedAt", "finishedAt",
	"tenant", "displayName", "primaryColor", "secondaryColor", "logoUrl",
	"token", "accessToken", "expiresIn", "user", "message", "code", "title", "detail",
}

// aliases variantes heredadas que no se derivan del nombre canónico.
var aliases = map[string]string{
	"ID":               "id",
	"IdCompany":        "companyId",
	"idCompany":        "companyId",
	"CompanyID":        "companyId",
	"IdBusinessUnit":   "businessUnitId",
	"idBusinessUnit":   "businessUnitId",
	"BusinessUnitID":   "businessUnitId",
	"BusinessUnitIDs":  "businessUnitIds",
	"businessUnits":    "businessUnitIds",
	"BusinessUnits":    "businessUnitIds",
	"IdFuelType":       "fuelTypeId",
	"idFuelType":       "fuelTypeId",
	"IdResource":       "resourceId",
	"idResource":       "resourceId",
	"IdDriver":         "driverId",
	"idDriver":         "driverId",
	"IdMovementType":   "movementTypeId",
	"idMovementType":   "movementTypeId",
	"TaxID":            "taxId",
	"Cuit":             "taxId",
	"cuit":             "taxId",
	"DNI":              "dni",
	"LogoURL":          "logoUrl",
	"logoURL":          "logoUrl",
	"Active":           "isActive",
	"active":           "isActive",
	"FullName":         "name",
	"fullName":         "name",
	"access_token":     "accessToken",
	"jwtToken":         "token",
	"JwtToken":         "token",
	"sub":              "id",
	"unique_name":      "name",
	"company_id":       "companyId",
	"business_unit_id": "businessUnitId",
	"expires_in":       "expiresIn",

	// Claims con URI de ASP.NET Identity.
	"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier": "id",
	"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name":           "name",
	"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress":   "email",
	"http://schemas.microsoft.com/ws/2008/06/identity/claims/role":         "role",
}

// keyMap tabla estática origen → canónico. Ningún nombre canónico figura como origen,
// así la normalización es idempotente.
var keyMap = buildKeyMap()

func buildKeyMap() map[string]string {
	m := make(map[string]string, len(canonical)*2+len(aliases))
	for _, c := range canonical {
		for _, v := range []string{pascal(c), strings.ToLower(c)} {
			if v != c {
				m[v] = c
			}
		}
	}
	for k, v := range aliases {
		m[k] = v
	}
	return m
}

func pascal(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Canonical devuelve el nombre canónico de una clave y si la tabla la conocía.
func Canonical(key string) (string, bool) {
	c, ok := keyMap[key]
	return c, ok
}

// Sources expone una copia de la tabla (para tests y documentación).
func Sources() map[string]string {
	out := make(map[string]string, len(keyMap))
	for k, v := range keyMap {
		out[k] = v
	}
	return out
}
