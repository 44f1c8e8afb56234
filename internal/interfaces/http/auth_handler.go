package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// AuthHandler maneja login, logout y la sesión actual. El portal sale de la ruta
// (/api/auth o /api/admin/auth).
type AuthHandler struct{}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Un SuperAdmin en el portal del tenant recibe USE_ADMIN_PANEL; cualquier otro rol en el panel recibe USE_TENANT_PORTAL.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Email == "" || in.Password == "" {
		return badRequest(c, "VALIDATION", "email y password son requeridos")
	}
	store := GetSession(c)
	if store == nil {
		return writeError(c, domain.ErrNoSession)
	}
	user, err := store.Login(c.UserContext(), session.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LoginResponse{
		User:     dto.NewUserResponse(*user),
		Portal:   string(store.Portal()),
		Redirect: homePath(store),
	})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Borra la cookie, la unidad activa y los listados cacheados de la empresa.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.RedirectResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	store := GetSession(c)
	if store == nil {
		return writeError(c, domain.ErrNoSession)
	}
	return c.JSON(dto.RedirectResponse{Redirect: store.Logout(c.UserContext())})
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := GetUser(c)
	if u == nil {
		return writeError(c, domain.ErrNoSession)
	}
	return c.JSON(dto.NewUserResponse(*u))
}

func homePath(s *session.Store) string {
	if s.Portal() == entity.PortalAdmin {
		return "/admin"
	}
	return "/app"
}
