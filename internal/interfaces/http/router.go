package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/activescope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dataaccess"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/report"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
	apptenant "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/tenant"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppDomain       string
	DefaultTenant   string
	CookieSecure    bool
	LoginRatePerMin int

	Sessions    *session.Manager
	Tenants     *apptenant.Service
	ActiveScope *activescope.Store
	Data        *dataaccess.Services
	Reports     *report.Service
	Log         *logger.Logger
}

// Router registra middlewares, páginas y rutas de la API. Las rutas públicas van
// antes de los guards: en Fiber el primer handler que responde corta la cadena.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID())
	app.Use(RequestLogger(deps.Log))
	app.Use(TenantMiddleware(deps.AppDomain, deps.DefaultTenant))
	app.Use(AuthMiddleware(deps.Sessions, deps.CookieSecure))

	// Páginas públicas de cada portal
	app.Get(entity.PortalTenant.LoginPath(), page("login"))
	app.Get(entity.PortalTenant.UnauthorizedPath(), page("unauthorized"))
	app.Get(entity.PortalAdmin.LoginPath(), page("login"))
	app.Get(entity.PortalAdmin.UnauthorizedPath(), page("unauthorized"))

	// Páginas protegidas: redirección al login o a "no autorizado"
	app.Get("/app", RequirePage(), page(""))
	app.Get("/app/*", RequirePage(), page(""))
	app.Get("/admin", RequirePage(entity.RoleSuperAdmin), page(""))
	app.Get("/admin/*", RequirePage(entity.RoleSuperAdmin), page(""))

	api := app.Group("/api")

	// Público
	tenantHandler := NewTenantHandler(deps.Tenants)
	api.Get("/tenant", tenantHandler.Get)

	authHandler := NewAuthHandler()
	loginLimit := LoginRateLimit(deps.LoginRatePerMin)
	api.Post("/auth/login", loginLimit, authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Post("/admin/auth/login", loginLimit, authHandler.Login)
	api.Post("/admin/auth/logout", authHandler.Logout)

	// Rutas protegidas (sesión válida para el portal de la ruta)
	protected := api.Group("", RequireRole())
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/admin/auth/me", authHandler.Me)

	scopes := &scopeResolver{active: deps.ActiveScope}
	scopeHandler := NewScopeHandler(deps.ActiveScope, deps.Data, deps.Log)
	reportHandler := &ReportHandler{svc: deps.Reports, scopes: scopes}

	// Portal del tenant
	protected.Get("/scope", scopeHandler.Get)
	protected.Put("/scope/active-unit", scopeHandler.SetActiveUnit)
	protected.Get("/reports/fuel-events.pdf", reportHandler.FuelEvents)
	registerEntities(protected, deps.Data, scopes)

	// Panel de administración (SuperAdmin)
	admin := protected.Group("/admin", RequireRole(entity.RoleSuperAdmin))
	admin.Get("/scope", scopeHandler.Get)
	admin.Get("/reports/fuel-events.pdf", reportHandler.FuelEvents)
	registerEntities(admin, deps.Data, scopes)
}

func registerEntities(r fiber.Router, data *dataaccess.Services, scopes *scopeResolver) {
	newEntityHandler(data.Companies, scopes).Register(r)
	newEntityHandler(data.BusinessUnits, scopes).Register(r)
	newEntityHandler(data.Users, scopes).Register(r)
	newEntityHandler(data.Drivers, scopes).Register(r)
	newEntityHandler(data.Resources, scopes).Register(r)
	newEntityHandler(data.FuelEvents, scopes).Register(r)
	newEntityHandler(data.Trips, scopes).Register(r)
	newEntityHandler(data.FuelTypes, scopes).Register(r)
	newEntityHandler(data.MovementTypes, scopes).Register(r)
}
