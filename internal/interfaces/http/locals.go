package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// Locals keys de Fiber.
const (
	LocalRequestID = "request_id"
	LocalTenant    = "tenant"
	LocalSession   = "session"
)

// GetRequestID id de la petición.
func GetRequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}

// GetTenant tenant resuelto desde el host (después de TenantMiddleware).
func GetTenant(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTenant).(string)
	return s
}

// GetSession sesión de la petición (después de AuthMiddleware) o nil.
func GetSession(c *fiber.Ctx) *session.Store {
	s, _ := c.Locals(LocalSession).(*session.Store)
	return s
}

// GetUser usuario autenticado o nil.
func GetUser(c *fiber.Ctx) *entity.User {
	if s := GetSession(c); s != nil {
		return s.User()
	}
	return nil
}

// GetUserID devuelve el id del usuario autenticado (0 sin sesión).
func GetUserID(c *fiber.Ctx) int64 {
	if u := GetUser(c); u != nil {
		return u.ID
	}
	return 0
}

// GetCompanyID devuelve la empresa del usuario autenticado (0 sin sesión o SuperAdmin).
func GetCompanyID(c *fiber.Ctx) int64 {
	if u := GetUser(c); u != nil {
		return u.CompanyID
	}
	return 0
}

// GetRole devuelve el rol del usuario autenticado ("" sin sesión).
func GetRole(c *fiber.Ctx) entity.Role {
	if u := GetUser(c); u != nil {
		return u.Role
	}
	return ""
}
