package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
	apptenant "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/tenant"
)

// TenantHandler expone el tenant resuelto y su configuración visual.
type TenantHandler struct {
	svc *apptenant.Service
}

// NewTenantHandler construye el handler.
func NewTenantHandler(svc *apptenant.Service) *TenantHandler {
	return &TenantHandler{svc: svc}
}

// Get godoc
// @Summary      Tenant actual
// @Description  Si la API no responde se devuelve una configuración mínima.
// @Tags         tenant
// @Produce      json
// @Success      200  {object}  dto.TenantResponse
// @Router       /api/tenant [get]
func (h *TenantHandler) Get(c *fiber.Ctx) error {
	t := GetTenant(c)
	cfg, _ := h.svc.Config(c.UserContext(), t)
	return c.JSON(dto.TenantResponse{Tenant: t, Config: cfg})
}
