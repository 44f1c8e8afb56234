package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dataaccess"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
)

// entityHandler CRUD de una clase de entidad dentro del alcance de la sesión.
type entityHandler[T entity.Scoped] struct {
	svc    *dataaccess.Service[T]
	scopes *scopeResolver
	// catalog: las unidades de negocio usan el alcance del catálogo.
	catalog bool
}

// newEntityHandler construye el handler para el servicio dado.
func newEntityHandler[T entity.Scoped](svc *dataaccess.Service[T], scopes *scopeResolver) *entityHandler[T] {
	return &entityHandler[T]{svc: svc, scopes: scopes, catalog: svc.Kind() == entity.KindBusinessUnit}
}

// Register monta las rutas del recurso en r.
func (h *entityHandler[T]) Register(r fiber.Router) {
	g := r.Group("/" + string(h.svc.Kind()))
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Patch("/:id/deactivate", h.Deactivate)
}

// List godoc
// @Summary      Listar entidades del alcance
// @Description  kind: companies, business-units, users, drivers, resources, fuel-events, trips, fuel-types, movement-types.
// @Description  Con alcance incompleto responde enabled=false y una lista vacía.
// @Tags         entities
// @Produce      json
// @Param        kind  path  string  true  "Clase de entidad"
// @Success      200   {object}  dto.ListResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/{kind} [get]
func (h *entityHandler[T]) List(c *fiber.Ctx) error {
	sc, err := h.scopes.resolve(c, h.catalog)
	if err != nil {
		if errors.Is(err, domain.ErrScopeUnresolvable) {
			return c.JSON(dto.ListResponse{Items: []T{}, Enabled: false})
		}
		return writeError(c, err)
	}
	items, err := h.svc.List(c.UserContext(), sc)
	if err != nil {
		if dataaccess.IsDisabled(err) {
			return c.JSON(dto.ListResponse{Items: []T{}, Enabled: false})
		}
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse{Items: items, Enabled: true, Count: len(items)})
}

// GetByID godoc
// @Summary      Obtener entidad por ID
// @Description  Lo que está fuera del alcance responde 404.
// @Tags         entities
// @Produce      json
// @Param        kind  path  string  true  "Clase de entidad"
// @Param        id    path  int     true  "ID"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [get]
func (h *entityHandler[T]) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	sc, err := h.scopes.resolve(c, h.catalog)
	if err != nil {
		return writeError(c, err)
	}
	if !sc.Can(h.svc.Kind(), scope.ActionRead) {
		return writeError(c, domain.ErrForbidden)
	}
	item, err := h.svc.GetByID(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	if !h.visible(sc, item) {
		return writeError(c, domain.ErrOutOfScope)
	}
	return c.JSON(item)
}

// Create godoc
// @Summary      Crear entidad
// @Description  companyId y, con una sola unidad en el alcance, businessUnitId se completan solos.
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        kind  path  string                  true  "Clase de entidad"
// @Param        body  body  map[string]interface{}  true  "Campos de la entidad"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/{kind} [post]
func (h *entityHandler[T]) Create(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	sc, err := h.scopes.resolve(c, h.catalog)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Create(c.UserContext(), sc, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar entidad
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        kind  path  string                  true  "Clase de entidad"
// @Param        id    path  int                     true  "ID"
// @Param        body  body  map[string]interface{}  true  "Campos a modificar"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [put]
func (h *entityHandler[T]) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	sc, err := h.scopes.resolve(c, h.catalog)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Update(c.UserContext(), sc, int64(id), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar entidad (baja lógica)
// @Tags         entities
// @Param        kind  path  string  true  "Clase de entidad"
// @Param        id    path  int     true  "ID"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id}/deactivate [patch]
func (h *entityHandler[T]) Deactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	sc, err := h.scopes.resolve(c, h.catalog)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.svc.Deactivate(c.UserContext(), sc, int64(id)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *entityHandler[T]) visible(sc scope.EffectiveScope, item T) bool {
	return h.svc.Descriptor().Contains(sc, item)
}
