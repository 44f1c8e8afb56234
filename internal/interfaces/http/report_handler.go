package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/report"
)

// ReportHandler reportes descargables.
type ReportHandler struct {
	svc    *report.Service
	scopes *scopeResolver
}

// FuelEvents godoc
// @Summary      Reporte de cargas en PDF
// @Description  Cargas activas del alcance actual, opcionalmente filtradas por fecha (YYYY-MM-DD, inclusive).
// @Tags         reports
// @Produce      application/pdf
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reports/fuel-events.pdf [get]
func (h *ReportHandler) FuelEvents(c *fiber.Ctx) error {
	var p report.Period
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return badRequest(c, "VALIDATION", "from debe tener formato YYYY-MM-DD")
		}
		p.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return badRequest(c, "VALIDATION", "to debe tener formato YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		p.To = &end
	}

	sc, err := h.scopes.resolve(c, false)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.svc.FuelEventsPDF(c.UserContext(), sc, GetTenant(c), p)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="cargas-%s.pdf"`, GetTenant(c)))
	return c.Send(doc)
}
