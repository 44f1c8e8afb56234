package entity

// Portal distingue el panel de administración (solo SuperAdmin) del portal de cada tenant.
type Portal string

const (
	PortalTenant Portal = "tenant"
	PortalAdmin  Portal = "admin"
)

// Allows informa si un rol puede tener sesión en este portal.
func (p Portal) Allows(r Role) bool {
	if !r.Valid() {
		return false
	}
	if p == PortalAdmin {
		return r == RoleSuperAdmin
	}
	return r != RoleSuperAdmin
}

// LoginPath pantalla de login del portal.
func (p Portal) LoginPath() string {
	if p == PortalAdmin {
		return "/admin/login"
	}
	return "/login"
}

// UnauthorizedPath pantalla de acceso denegado del portal.
func (p Portal) UnauthorizedPath() string {
	if p == PortalAdmin {
		return "/admin/unauthorized"
	}
	return "/unauthorized"
}
