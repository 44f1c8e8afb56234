package ports

import (
	"context"
	"time"
)

// CacheStore almacenamiento clave/valor del cache de listas (memoria o Redis).
// No conoce la semántica de las claves: el matching de invalidación lo hace dataaccess.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
