package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/activescope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dataaccess"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// scopeResolver arma el scope.Input de la petición: usuario de la sesión, unidad activa
// del tenant y, en el panel, el filtro de empresa ?companyId=.
type scopeResolver struct {
	active *activescope.Store
}

func (r *scopeResolver) input(c *fiber.Ctx) (scope.Input, *entity.User, error) {
	store := GetSession(c)
	if store == nil {
		return scope.Input{}, nil, domain.ErrNoSession
	}
	user := store.User()
	if user == nil {
		return scope.Input{}, nil, domain.ErrNoSession
	}
	in := scope.Input{
		Role:                user.Role,
		Portal:              store.Portal(),
		UserCompanyID:       user.CompanyID,
		UserBusinessUnitIDs: user.BusinessUnitIDs,
	}
	switch store.Portal() {
	case entity.PortalTenant:
		in.ActiveUnitID = r.active.GetActiveUnit(c.UserContext(), activescope.SessionKey(store.Tenant(), user.ID))
	case entity.PortalAdmin:
		if id := int64(c.QueryInt("companyId")); id > 0 {
			in.CompanyFilter = &id
		}
	}
	return in, user, nil
}

// resolve alcance efectivo; catalog usa el alcance del catálogo de unidades.
func (r *scopeResolver) resolve(c *fiber.Ctx, catalog bool) (scope.EffectiveScope, error) {
	in, _, err := r.input(c)
	if err != nil {
		return scope.EffectiveScope{}, err
	}
	if catalog {
		return scope.CatalogScope(in)
	}
	return scope.Resolve(in)
}

// ScopeHandler alcance efectivo y unidad activa.
type ScopeHandler struct {
	scopes *scopeResolver
	active *activescope.Store
	data   *dataaccess.Services
	log    *logger.Logger
}

// NewScopeHandler construye el handler.
func NewScopeHandler(active *activescope.Store, data *dataaccess.Services, log *logger.Logger) *ScopeHandler {
	return &ScopeHandler{scopes: &scopeResolver{active: active}, active: active, data: data, log: log.Component("scope")}
}

// Get godoc
// @Summary      Alcance efectivo de la sesión
// @Description  Un alcance que no se puede resolver responde enabled=false, no es un error.
// @Tags         scope
// @Produce      json
// @Param        companyId  query  int  false  "Empresa (solo panel de administración)"
// @Success      200  {object}  dto.ScopeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/scope [get]
func (h *ScopeHandler) Get(c *fiber.Ctx) error {
	in, user, err := h.scopes.input(c)
	if err != nil {
		return writeError(c, err)
	}
	sc, err := scope.Resolve(in)
	if err != nil {
		if errors.Is(err, domain.ErrScopeUnresolvable) {
			return c.JSON(dto.ScopeResponse{
				Enabled: false, Reason: err.Error(), Role: string(in.Role), CompanyID: in.UserCompanyID,
				BusinessUnitIDs: []int64{}, Permissions: map[entity.Kind][]scope.Action{},
			})
		}
		return writeError(c, err)
	}
	var name string
	if in.ActiveUnitID != nil {
		name, _ = h.active.GetActiveUnitName(c.UserContext(), activescope.SessionKey(GetTenant(c), user.ID), user.CompanyID)
	}
	return c.JSON(dto.NewScopeResponse(sc, in.ActiveUnitID, name))
}

// SetActiveUnit godoc
// @Summary      Cambiar la unidad activa
// @Description  Valida que la unidad pertenezca a la empresa y, salvo Admin, esté asignada al usuario. null la limpia.
// @Tags         scope
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetActiveUnitRequest  true  "businessUnitId"
// @Success      200   {object}  dto.ScopeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/scope/active-unit [put]
func (h *ScopeHandler) SetActiveUnit(c *fiber.Ctx) error {
	var in dto.SetActiveUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	input, user, err := h.scopes.input(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.UserContext()
	key := activescope.SessionKey(GetTenant(c), user.ID)

	if in.BusinessUnitID != nil {
		if *in.BusinessUnitID <= 0 {
			return badRequest(c, "VALIDATION", "businessUnitId inválido")
		}
		unit, err := h.data.BusinessUnits.GetByID(ctx, *in.BusinessUnitID)
		if err != nil {
			return writeError(c, err)
		}
		if err := scope.ValidateActiveUnit(input, unit); err != nil {
			return writeError(c, err)
		}
	} else if input.Role == entity.RoleSuperAdmin || input.Portal == entity.PortalAdmin {
		return writeError(c, domain.ErrForbidden)
	}

	if old, err := scope.Resolve(input); err == nil {
		h.data.Abandon(old)
	}
	if err := h.active.SetActiveUnit(ctx, key, in.BusinessUnitID); err != nil {
		h.log.Error().Err(err).Str("session", key).Msg("guardar unidad activa")
		return writeError(c, err)
	}
	h.log.Info().Int64("user_id", user.ID).Interface("business_unit_id", in.BusinessUnitID).Msg("unidad activa cambiada")
	return h.Get(c)
}
