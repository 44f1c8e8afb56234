package fuelapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/normalize"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
)

// APIError respuesta no 2xx de la API. Se desenvuelve al error de dominio equivalente.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fuelapi: HTTP %d", e.Status)
	}
	return fmt.Sprintf("fuelapi: HTTP %d: %s", e.Status, e.Message)
}

// Unwrap permite errors.Is(err, domain.ErrNotFound) y similares.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	default:
		return domain.ErrUpstream
	}
}

// parseError lee el sobre de error de la API ({message, code} en cualquier casing,
// o ProblemDetails de ASP.NET con title/detail).
func parseError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if len(apiErr.Message) > 200 {
			apiErr.Message = apiErr.Message[:200]
		}
		return apiErr
	}
	obj := normalize.NormalizeObjectResponse(raw)
	apiErr.Code = stringField(obj, "code")
	apiErr.Message = stringField(obj, "message")
	if apiErr.Message == "" {
		apiErr.Message = stringField(obj, "detail")
	}
	if apiErr.Message == "" {
		apiErr.Message = stringField(obj, "title")
	}
	return apiErr
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
