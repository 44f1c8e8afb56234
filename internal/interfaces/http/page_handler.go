package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
)

// page responde la página pedida del portal con el usuario de la sesión, si hay. El
// render lo hace el frontend; acá solo se resuelve si la página se puede mostrar.
func page(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := dto.PageResponse{Portal: string(PortalFromPath(c.Path())), Page: name}
		if name == "" {
			out.Page = strings.TrimPrefix(c.Path(), "/")
		}
		if u := GetUser(c); u != nil {
			ur := dto.NewUserResponse(*u)
			out.User = &ur
		}
		return c.JSON(out)
	}
}
