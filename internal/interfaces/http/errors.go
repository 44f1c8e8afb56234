package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dto"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable orden de evaluación: los más específicos primero.
var errorTable = []errorMapping{
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrNoSession, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUseAdminPanel, fiber.StatusForbidden, "USE_ADMIN_PANEL"},
	{domain.ErrUseTenantPortal, fiber.StatusForbidden, "USE_TENANT_PORTAL"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrOutOfScope, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrLoginInProgress, fiber.StatusConflict, "LOGIN_IN_PROGRESS"},
	{domain.ErrScopeUnresolvable, fiber.StatusConflict, "SCOPE_UNRESOLVABLE"},
	{domain.ErrScopeDisabled, fiber.StatusConflict, "SCOPE_DISABLED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUpstream, fiber.StatusBadGateway, "UPSTREAM"},
}

// writeError traduce un error de aplicación a dto.ErrorResponse. Lo que está fuera del
// alcance responde 404 igual que lo inexistente.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.err.Error()})
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la API de combustible no respondió a tiempo"})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// ErrorHandler manejador de errores de Fiber para lo que escape de los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
