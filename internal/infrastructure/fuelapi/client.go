package fuelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa FuelAPI.
var _ ports.FuelAPI = (*Client)(nil)

// maxBody límite de lectura de respuestas (los listados pueden ser grandes).
const maxBody = 8 << 20

// Client adaptador REST de la API de combustible sobre net/http.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el adaptador. baseURL sin barra final (ej. https://api.combustible.app/api).
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("fuelapi"),
	}
}

// Login POST /auth/login. La respuesta trae el token y, según versión de la API, el usuario.
func (c *Client) Login(ctx context.Context, req ports.LoginRequest) (any, error) {
	return c.do(ctx, http.MethodPost, "/auth/login", nil, req)
}

// TenantConfig GET /tenants/{tenant}/config.
func (c *Client) TenantConfig(ctx context.Context, tenant string) (any, error) {
	return c.do(ctx, http.MethodGet, "/tenants/"+url.PathEscape(tenant)+"/config", nil, nil)
}

// List GET /{kind}?companyId=&businessUnitId=.
func (c *Client) List(ctx context.Context, kind entity.Kind, f ports.ListFilter) (any, error) {
	q := url.Values{}
	if f.CompanyID > 0 {
		q.Set("companyId", strconv.FormatInt(f.CompanyID, 10))
	}
	if f.BusinessUnitID != nil {
		q.Set("businessUnitId", strconv.FormatInt(*f.BusinessUnitID, 10))
	}
	return c.do(ctx, http.MethodGet, "/"+string(kind), q, nil)
}

// Get GET /{kind}/{id}.
func (c *Client) Get(ctx context.Context, kind entity.Kind, id int64) (any, error) {
	return c.do(ctx, http.MethodGet, itemPath(kind, id), nil, nil)
}

// Create POST /{kind}.
func (c *Client) Create(ctx context.Context, kind entity.Kind, payload any) (any, error) {
	return c.do(ctx, http.MethodPost, "/"+string(kind), nil, payload)
}

// Update PUT /{kind}/{id}.
func (c *Client) Update(ctx context.Context, kind entity.Kind, id int64, payload any) (any, error) {
	return c.do(ctx, http.MethodPut, itemPath(kind, id), nil, payload)
}

// Deactivate PATCH /{kind}/{id}/deactivate.
func (c *Client) Deactivate(ctx context.Context, kind entity.Kind, id int64) error {
	_, err := c.do(ctx, http.MethodPatch, itemPath(kind, id)+"/deactivate", nil, nil)
	return err
}

func itemPath(kind entity.Kind, id int64) string {
	return "/" + string(kind) + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (any, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("fuelapi: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("fuelapi: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := ports.AccessToken(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if tenant := ports.Tenant(ctx); tenant != "" {
		req.Header.Set("X-Tenant", tenant)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fuelapi: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("fuelapi: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("fuelapi: leer respuesta: %w", err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("llamada a la API")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseError(resp.StatusCode, rawBody)
	}
	if len(bytes.TrimSpace(rawBody)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(rawBody))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("fuelapi: deserializar respuesta: %w", err)
	}
	return out, nil
}
