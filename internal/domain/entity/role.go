package entity

import "strings"

// Role es el conjunto cerrado de roles del sistema.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleOperator   Role = "operator"
	RoleAuditor    Role = "auditor"
)

// Roles devuelve todos los roles válidos, del más al menos privilegiado.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleOperator, RoleAuditor}
}

// ParseRole interpreta el rol tal como lo envía la API (sin distinguir mayúsculas,
// acepta la variante en español "operador"). Devuelve false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "superadmin", "super_admin", "super-admin":
		return RoleSuperAdmin, true
	case "admin", "administrador":
		return RoleAdmin, true
	case "supervisor":
		return RoleSupervisor, true
	case "operator", "operador":
		return RoleOperator, true
	case "auditor":
		return RoleAuditor, true
	}
	return "", false
}

// Valid informa si r pertenece al conjunto de roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleOperator, RoleAuditor:
		return true
	}
	return false
}

// UnitBound informa si el rol queda siempre limitado a sus unidades asignadas.
func (r Role) UnitBound() bool {
	return r == RoleSupervisor || r == RoleOperator || r == RoleAuditor
}

// UnmarshalText acepta cualquier variante conocida del rol. Un rol desconocido se
// conserva en minúsculas y queda inválido para Valid.
func (r *Role) UnmarshalText(b []byte) error {
	if parsed, ok := ParseRole(string(b)); ok {
		*r = parsed
		return nil
	}
	*r = Role(strings.ToLower(strings.TrimSpace(string(b))))
	return nil
}
