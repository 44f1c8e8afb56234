package scope

import "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"

// Action operación sobre una clase de entidad.
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDeactivate Action = "deactivate"
)

var (
	operational = []entity.Kind{entity.KindDriver, entity.KindResource, entity.KindFuelEvent, entity.KindTrip}
	catalogs    = []entity.Kind{entity.KindBusinessUnit, entity.KindFuelType, entity.KindMovementType}
	allActions  = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDeactivate}
)

// permissions tabla de permisos por rol. SuperAdmin no figura: puede todo.
var permissions = buildPermissions()

func buildPermissions() map[entity.Role]map[entity.Kind][]Action {
	p := map[entity.Role]map[entity.Kind][]Action{
		entity.RoleAdmin:      {},
		entity.RoleSupervisor: {},
		entity.RoleOperator:   {},
		entity.RoleAuditor:    {},
	}
	for _, k := range append(append([]entity.Kind{entity.KindUser}, operational...), catalogs...) {
		p[entity.RoleAdmin][k] = allActions
		p[entity.RoleAuditor][k] = []Action{ActionRead}
	}
	p[entity.RoleAdmin][entity.KindCompany] = []Action{ActionRead, ActionUpdate}
	p[entity.RoleAuditor][entity.KindCompany] = []Action{ActionRead}

	for _, k := range operational {
		p[entity.RoleSupervisor][k] = []Action{ActionRead, ActionCreate, ActionUpdate}
		p[entity.RoleOperator][k] = []Action{ActionRead}
	}
	for _, k := range catalogs {
		p[entity.RoleSupervisor][k] = []Action{ActionRead}
		p[entity.RoleOperator][k] = []Action{ActionRead}
	}
	p[entity.RoleSupervisor][entity.KindUser] = []Action{ActionRead}
	p[entity.RoleOperator][entity.KindFuelEvent] = []Action{ActionRead, ActionCreate}
	p[entity.RoleOperator][entity.KindTrip] = []Action{ActionRead, ActionCreate}
	return p
}

// Can informa si el rol del alcance permite la acción sobre esa clase de entidad.
func Can(role entity.Role, kind entity.Kind, action Action) bool {
	if role == entity.RoleSuperAdmin {
		return true
	}
	for _, a := range permissions[role][kind] {
		if a == action {
			return true
		}
	}
	return false
}

// Can aplica la tabla de permisos al rol del alcance.
func (s EffectiveScope) Can(kind entity.Kind, action Action) bool {
	return Can(s.Role, kind, action)
}

// Permissions lista las acciones permitidas por clase de entidad, para exponer al cliente.
func (s EffectiveScope) Permissions() map[entity.Kind][]Action {
	out := make(map[entity.Kind][]Action)
	for _, k := range entity.Kinds() {
		for _, a := range allActions {
			if s.Can(k, a) {
				out[k] = append(out[k], a)
			}
		}
	}
	return out
}
