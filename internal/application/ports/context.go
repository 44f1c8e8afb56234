package ports

import "context"

type ctxKey int

const (
	accessTokenKey ctxKey = iota
	tenantKey
)

// WithAccessToken adjunta el bearer token del usuario para las llamadas a la API.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessToken devuelve el token adjunto o "".
func AccessToken(ctx context.Context) string {
	s, _ := ctx.Value(accessTokenKey).(string)
	return s
}

// WithTenant adjunta el tenant resuelto del host.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// Tenant devuelve el tenant adjunto o "".
func Tenant(ctx context.Context) string {
	s, _ := ctx.Value(tenantKey).(string)
	return s
}
