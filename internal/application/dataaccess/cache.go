package dataaccess

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// sweepEvery cantidad de claves registradas entre barridos de generaciones viejas.
const sweepEvery = 256

// Cache es el único dueño de las claves de listados. Además del store lleva un número
// de generación por clave: una carga que arrancó antes de una invalidación (o de un
// Abandon) no escribe su resultado. Las generaciones salen de un contador global, así
// una clave barrida y vuelta a registrar nunca repite un valor ya entregado.
type Cache struct {
	store   ports.CacheStore
	ttl     time.Duration
	metrics ports.Metrics
	log     *logger.Logger
	sf      singleflight.Group
	now     func() time.Time

	mu         sync.Mutex
	seq        uint64
	gens       map[string]genEntry
	registered int
}

type genEntry struct {
	gen     uint64
	touched time.Time
}

// NewCache construye el cache sobre un store (memoria o Redis).
func NewCache(store ports.CacheStore, ttl time.Duration, metrics ports.Metrics, log *logger.Logger) *Cache {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Cache{
		store:   store,
		ttl:     ttl,
		metrics: metrics,
		log:     log.Component("dataaccess"),
		now:     time.Now,
		gens:    make(map[string]genEntry),
	}
}

// retention tiempo que se conserva la generación de una clave sin uso. Una carga que
// tarde más que esto pierde su escritura, nunca escribe un valor obsoleto.
func (c *Cache) retention() time.Duration {
	return max(2*c.ttl, time.Minute)
}

// generation devuelve la generación actual de la clave, registrándola si es nueva.
func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e, ok := c.gens[key]
	if !ok {
		c.registered++
		if c.registered%sweepEvery == 0 {
			c.sweepLocked(now)
		}
		c.seq++
		e.gen = c.seq
	}
	e.touched = now
	c.gens[key] = e
	return e.gen
}

// advanceLocked asigna una generación nueva a key. Requiere c.mu.
func (c *Cache) advanceLocked(key string) uint64 {
	c.seq++
	c.gens[key] = genEntry{gen: c.seq, touched: c.now()}
	return c.seq
}

// sweepLocked olvida las generaciones que nadie tocó durante retention. Requiere c.mu.
func (c *Cache) sweepLocked(now time.Time) {
	cutoff := now.Add(-c.retention())
	for k, e := range c.gens {
		if e.touched.Before(cutoff) {
			delete(c.gens, k)
		}
	}
}

func (c *Cache) get(ctx context.Context, key string, out any) bool {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("lectura de cache fallida")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("valor de cache corrupto, se descarta")
		_ = c.store.Delete(ctx, key)
		return false
	}
	return true
}

// setIfCurrent escribe solo si nadie invalidó la clave desde que se leyó gen.
func (c *Cache) setIfCurrent(ctx context.Context, key string, gen uint64, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("serializar valor de cache")
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.gens[key]; !ok || e.gen != gen {
		c.log.Debug().Str("key", key).Msg("resultado obsoleto descartado")
		return false
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de cache fallida")
		return false
	}
	return true
}

// bump invalida las cargas en vuelo de las claves que cumplen match.
func (c *Cache) bump(match func(parsedKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.gens {
		if pk, ok := parseKey(k); ok && match(pk) {
			c.advanceLocked(k)
		}
	}
}

// bumpKeys invalida cargas en vuelo de claves concretas.
func (c *Cache) bumpKeys(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if _, ok := c.gens[k]; ok {
			c.advanceLocked(k)
		}
	}
}

// matching devuelve las claves almacenadas de esas clases que cumplen match.
func (c *Cache) matching(ctx context.Context, kinds []entity.Kind, match func(parsedKey) bool) []string {
	var out []string
	for _, kind := range kinds {
		keys, err := c.store.Keys(ctx, kindPrefix(kind))
		if err != nil {
			c.log.Warn().Err(err).Str("kind", string(kind)).Msg("listar claves de cache")
			continue
		}
		for _, k := range keys {
			if pk, ok := parseKey(k); ok && match(pk) {
				out = append(out, k)
			}
		}
	}
	return out
}

// Invalidate borra todo listado o detalle de las clases relacionadas con kind (según
// InvalidationTable) que podría contener alguno de los targets.
func (c *Cache) Invalidate(ctx context.Context, kind entity.Kind, targets ...Target) int {
	related := InvalidationTable[kind]
	if len(related) == 0 {
		related = []entity.Kind{kind}
	}
	match := func(pk parsedKey) bool {
		for _, t := range targets {
			if pk.kind != kind {
				// Relacionadas: toda la empresa, la unidad no se comparte entre clases.
				t = Target{CompanyID: t.CompanyID}
			}
			if pk.affects(t) {
				return true
			}
		}
		return false
	}
	relatedSet := make(map[entity.Kind]bool, len(related))
	for _, k := range related {
		relatedSet[k] = true
	}
	c.bump(func(pk parsedKey) bool { return relatedSet[pk.kind] && match(pk) })

	keys := c.matching(ctx, related, match)
	if len(keys) > 0 {
		if err := c.store.Delete(ctx, keys...); err != nil {
			c.log.Warn().Err(err).Strs("keys", keys).Msg("invalidación de cache fallida")
		}
	}
	c.metrics.Invalidated(kind, len(keys))
	return len(keys)
}

// Purge borra todos los listados de una empresa (0 = listados "all"). Se usa al cerrar sesión.
func (c *Cache) Purge(ctx context.Context, companyID int64) {
	match := func(pk parsedKey) bool { return pk.inCompany(companyID) }
	c.bump(match)
	keys := c.matching(ctx, entity.Kinds(), match)
	if len(keys) > 0 {
		if err := c.store.Delete(ctx, keys...); err != nil {
			c.log.Warn().Err(err).Int64("company_id", companyID).Msg("purga de cache fallida")
		}
	}
}

// snapshot valor crudo de una clave antes de un cambio optimista, con la generación
// que dejó el parche.
type snapshot struct {
	key string
	raw []byte
	gen uint64
}

// markInactive aplica isActive=false a la fila id en los listados cacheados que la
// contienen y devuelve los valores previos para poder restaurarlos.
func (c *Cache) markInactive(ctx context.Context, kind entity.Kind, t Target) []snapshot {
	keys := c.matching(ctx, []entity.Kind{kind}, func(pk parsedKey) bool {
		return pk.itemID == 0 && pk.affects(t)
	})
	want := strconv.FormatInt(t.ID, 10)
	var snaps []snapshot
	for _, key := range keys {
		raw, ok, err := c.store.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var rows []map[string]any
		if err := dec.Decode(&rows); err != nil {
			continue
		}
		changed := false
		for _, row := range rows {
			if n, ok := row["id"].(json.Number); ok && n.String() == want {
				row["isActive"] = false
				changed = true
			}
		}
		if !changed {
			continue
		}
		patched, err := json.Marshal(rows)
		if err != nil {
			continue
		}
		c.mu.Lock()
		gen := c.advanceLocked(key)
		err = c.store.Set(ctx, key, patched, c.ttl)
		c.mu.Unlock()
		if err != nil {
			continue
		}
		snaps = append(snaps, snapshot{key: key, raw: raw, gen: gen})
	}
	return snaps
}

// restore vuelve a escribir los valores previos a un cambio optimista fallido. Una
// clave invalidada o recargada después del parche no se pisa.
func (c *Cache) restore(ctx context.Context, snaps []snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range snaps {
		if e, ok := c.gens[s.key]; !ok || e.gen != s.gen {
			c.log.Debug().Str("key", s.key).Msg("la clave cambió desde el parche, no se restaura")
			continue
		}
		if err := c.store.Set(ctx, s.key, s.raw, c.ttl); err != nil {
			c.log.Warn().Err(err).Str("key", s.key).Msg("restaurar cache tras error")
		}
	}
}

// trackedKeys cantidad de claves con generación registrada.
func (c *Cache) trackedKeys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.gens)
}

// Abandon descarta las cargas en vuelo de esas claves (el alcance cambió).
func (c *Cache) Abandon(keys ...string) {
	c.bumpKeys(keys...)
}
