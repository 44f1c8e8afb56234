package dataaccess

import (
	"slices"
	"strconv"
	"strings"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// Formato de claves de cache:
//
//	<kind>|all          listado sin restricción (SuperAdmin)
//	<kind>|c3:*         listado de toda la empresa 3
//	<kind>|c3:u5,7      listado de las unidades 5 y 7 de la empresa 3
//	<kind>|id=42        detalle de una entidad
const keySep = "|"

func listKey(kind entity.Kind, tuple string) string {
	return string(kind) + keySep + tuple
}

func itemKey(kind entity.Kind, id int64) string {
	return string(kind) + keySep + "id=" + strconv.FormatInt(id, 10)
}

func kindPrefix(kind entity.Kind) string {
	return string(kind) + keySep
}

// parsedKey clave descompuesta para decidir invalidaciones.
type parsedKey struct {
	kind      entity.Kind
	all       bool
	companyID int64
	wide      bool    // c<id>:*
	units     []int64 // c<id>:u...
	itemID    int64   // id=<n>
}

func parseKey(key string) (parsedKey, bool) {
	kind, tuple, ok := strings.Cut(key, keySep)
	if !ok || kind == "" {
		return parsedKey{}, false
	}
	pk := parsedKey{kind: entity.Kind(kind)}
	switch {
	case tuple == "all":
		pk.all = true
		return pk, true
	case strings.HasPrefix(tuple, "id="):
		id, err := strconv.ParseInt(strings.TrimPrefix(tuple, "id="), 10, 64)
		if err != nil {
			return parsedKey{}, false
		}
		pk.itemID = id
		return pk, true
	case strings.HasPrefix(tuple, "c"):
		company, rest, ok := strings.Cut(strings.TrimPrefix(tuple, "c"), ":")
		if !ok {
			return parsedKey{}, false
		}
		id, err := strconv.ParseInt(company, 10, 64)
		if err != nil {
			return parsedKey{}, false
		}
		pk.companyID = id
		if rest == "*" {
			pk.wide = true
			return pk, true
		}
		if !strings.HasPrefix(rest, "u") {
			return parsedKey{}, false
		}
		for _, s := range strings.Split(strings.TrimPrefix(rest, "u"), ",") {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return parsedKey{}, false
			}
			pk.units = append(pk.units, u)
		}
		return pk, true
	}
	return parsedKey{}, false
}

// Target entidad afectada por una mutación. UnitID nil = unidad desconocida, lo que
// invalida todos los listados de la empresa.
type Target struct {
	ID        int64
	CompanyID int64
	UnitID    *int64
}

// affects informa si el listado o detalle de la clave podría contener la entidad.
// Ante la duda invalida: refetch de más es aceptable, cache viejo no.
func (pk parsedKey) affects(t Target) bool {
	switch {
	case pk.itemID != 0:
		return t.ID != 0 && pk.itemID == t.ID
	case pk.all:
		return true
	case pk.companyID != t.CompanyID:
		return false
	case pk.wide, t.UnitID == nil:
		return true
	default:
		return slices.Contains(pk.units, *t.UnitID)
	}
}

// inCompany informa si la clave pertenece a un listado de esa empresa (0 = "all").
func (pk parsedKey) inCompany(companyID int64) bool {
	if companyID == 0 {
		return pk.all
	}
	return pk.itemID == 0 && !pk.all && pk.companyID == companyID
}
