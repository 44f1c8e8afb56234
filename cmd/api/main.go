package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/zvMateo/Combustible-MultiTentant-sub002/docs"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/activescope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dataaccess"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/report"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
	apptenant "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/tenant"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/cache"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/fuelapi"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/metrics"
	infrapdf "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/pdf"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/postgres"
	httpRouter "github.com/zvMateo/Combustible-MultiTentant-sub002/internal/interfaces/http"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/config"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// @title        Combustible BFF
// @version      1.0
// @description  Backend del panel multi-tenant de gestión de combustible.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando aplicación")

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Cache de listados: Redis si está configurado, memoria local si no.
	var store ports.CacheStore
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb, "combustible:")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cache en Redis")
	} else {
		store = cache.NewMemoryStore()
		log.Info().Msg("cache en memoria")
	}

	api := fuelapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	data := dataaccess.NewServices(api, dataaccess.NewCache(store, cfg.Cache.TTL, m, log), log)

	// Unidad activa: PostgreSQL si hay base configurada (sobrevive reinicios), memoria si no.
	var activeRepo activescope.Repository = activescope.NewMemoryRepository()
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repo := postgres.NewActiveScopeRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("crear tabla de unidad activa")
		}
		activeRepo = repo
	}
	active := activescope.NewStore(activeRepo, data, log)

	sessions := session.NewManager(api, session.NewTokenDecoder(cfg.JWT.Secret), m, log,
		func(ctx context.Context, tenant string, u entity.User) {
			if err := active.Reset(ctx, activescope.SessionKey(tenant, u.ID)); err != nil {
				log.Warn().Err(err).Int64("user_id", u.ID).Msg("limpiar unidad activa al cerrar sesión")
			}
		},
		func(ctx context.Context, _ string, u entity.User) {
			data.Purge(ctx, u.CompanyID)
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Combustible BFF",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppDomain:       cfg.App.Domain,
		DefaultTenant:   cfg.App.DefaultTenant,
		CookieSecure:    cfg.JWT.CookieSecure,
		LoginRatePerMin: cfg.HTTP.LoginRatePerMin,
		Sessions:        sessions,
		Tenants:         apptenant.NewService(api, store, cfg.Cache.TenantTTL, log),
		ActiveScope:     active,
		Data:            data,
		Reports:         report.NewService(data, infrapdf.NewMarotoPDFGenerator(), log),
		Log:             log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
