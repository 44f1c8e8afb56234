package http

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/tenant"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// HeaderRequestID cabecera del id de petición.
const HeaderRequestID = "X-Request-ID"

// RequestID reutiliza el X-Request-ID entrante o genera uno nuevo.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestLogger registra método, ruta, estado, tenant, request id y duración.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Str("tenant", GetTenant(c)).
			Str("request_id", GetRequestID(c)).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

// TenantMiddleware resuelve el tenant desde el Host y lo propaga en el contexto que
// usan las llamadas a la API.
func TenantMiddleware(appDomain, defaultTenant string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := tenant.FromHost(c.Hostname(), appDomain, defaultTenant)
		c.Locals(LocalTenant, t)
		c.SetUserContext(ports.WithTenant(c.UserContext(), t))
		return c.Next()
	}
}

// ── Rate limit de login ───────────────────────────────────────────────────────

// pruneEvery cantidad de llamadas a Allow entre limpiezas de buckets llenos.
const pruneEvery = 256

// KeyedRateLimiter un token bucket por clave. Los buckets que vuelven a estar llenos
// equivalen a uno nuevo y se descartan periódicamente.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
	calls    int
}

// NewKeyedRateLimiter r eventos por segundo con ráfaga b.
func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{limiters: make(map[string]*rate.Limiter), r: r, b: b}
}

// Allow consume un evento de la clave.
func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	k.calls++
	if k.calls%pruneEvery == 0 {
		k.pruneLocked(time.Now())
	}
	l, ok := k.limiters[key]
	if !ok {
		l = rate.NewLimiter(k.r, k.b)
		k.limiters[key] = l
	}
	k.mu.Unlock()
	return l.Allow()
}

// Prune descarta los buckets llenos.
func (k *KeyedRateLimiter) Prune() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pruneLocked(time.Now())
}

func (k *KeyedRateLimiter) pruneLocked(now time.Time) {
	for key, l := range k.limiters {
		if l.TokensAt(now) >= float64(k.b) {
			delete(k.limiters, key)
		}
	}
}

// Len cantidad de claves con bucket.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// LoginRateLimit limita los intentos de login por tenant e IP. perMinute <= 0 lo desactiva.
func LoginRateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := NewKeyedRateLimiter(rate.Limit(float64(perMinute)/60), perMinute)
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(GetTenant(c) + "|" + c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "TOO_MANY_REQUESTS", Message: "demasiados intentos de inicio de sesión, probá en un minuto",
			})
		}
		return c.Next()
	}
}
