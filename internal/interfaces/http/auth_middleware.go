package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/guard"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// PortalFromPath el panel de administración vive bajo /admin y /api/admin; el resto
// es el portal del tenant.
func PortalFromPath(path string) entity.Portal {
	if hasSegmentPrefix(path, "/admin") || hasSegmentPrefix(path, "/api/admin") {
		return entity.PortalAdmin
	}
	return entity.PortalTenant
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// AuthMiddleware crea la sesión de la petición y la reconstruye desde la credencial
// persistida (cookie access_token o Bearer). Nunca corta la cadena: decidir qué hacer
// con una sesión ausente es trabajo de RequireRole / RequirePage.
func AuthMiddleware(sessions *session.Manager, cookieSecure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := sessions.New(PortalFromPath(c.Path()), GetTenant(c), &cookieCredentials{c: c, secure: cookieSecure})
		store.CheckAuth(c.UserContext())
		c.Locals(LocalSession, store)
		if tok := store.Token(); tok != "" {
			c.SetUserContext(ports.WithAccessToken(c.UserContext(), tok))
		}
		return c.Next()
	}
}

// decide aplica guard.Decide a la sesión de la petición. Sin AuthMiddleware la sesión
// nunca se verificó y la decisión queda en Loading.
func decide(c *fiber.Ctx, required []entity.Role) guard.Decision {
	store := GetSession(c)
	if store == nil {
		return guard.Decide(guard.StateLoading, "", PortalFromPath(c.Path()), required...)
	}
	var role entity.Role
	if u := store.User(); u != nil {
		role = u.Role
	}
	return guard.Decide(guard.FromStatus(true, store.Status()), role, store.Portal(), required...)
}

// RequireRole guard de API: 401 sin sesión, 403 con un rol que no corresponde.
// Sin roles alcanza con que el portal admita el rol de la sesión.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch decide(c, roles).Outcome {
		case guard.Render:
			return c.Next()
		case guard.RedirectUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no tiene acceso a este recurso"})
		}
		if _, ok := (&cookieCredentials{c: c}).Load(); ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
	}
}

// RequirePage guard de páginas: redirige (302) al login o a "no autorizado" del portal.
func RequirePage(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := decide(c, roles)
		switch d.Outcome {
		case guard.Render:
			return c.Next()
		case guard.RedirectLogin, guard.RedirectUnauthorized:
			return c.Redirect(d.Redirect, fiber.StatusFound)
		}
		return c.Status(fiber.StatusAccepted).JSON(dto.PageResponse{Portal: string(PortalFromPath(c.Path())), Page: "loading"})
	}
}
