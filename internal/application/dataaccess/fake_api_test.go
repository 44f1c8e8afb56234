package dataaccess_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// fakeAPI API en memoria que registra las llamadas.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	// lists respuesta cruda por clase (JSON).
	lists map[entity.Kind]string
	// items respuesta cruda por "kind/id".
	items map[string]string

	gate          chan struct{} // si no es nil, List espera a que se cierre
	started       chan struct{} // se cierra cuando List empieza a esperar
	deactivateErr error
	onDeactivate  func()
	created       []map[string]any
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{lists: map[entity.Kind]string{}, items: map[string]string{}}
}

func raw(s string) any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		panic(err)
	}
	return v
}

func (f *fakeAPI) record(format string, args ...any) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(ctx context.Context, req ports.LoginRequest) (any, error) {
	return nil, nil
}

func (f *fakeAPI) TenantConfig(ctx context.Context, tenant string) (any, error) {
	return nil, nil
}

func (f *fakeAPI) List(ctx context.Context, kind entity.Kind, flt ports.ListFilter) (any, error) {
	unit := "-"
	if flt.BusinessUnitID != nil {
		unit = fmt.Sprint(*flt.BusinessUnitID)
	}
	f.record("list %s c=%d u=%s", kind, flt.CompanyID, unit)
	if f.gate != nil {
		if f.started != nil {
			close(f.started)
			f.started = nil
		}
		<-f.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	body, ok := f.lists[kind]
	f.mu.Unlock()
	if !ok {
		return []any{}, nil
	}
	return raw(body), nil
}

func (f *fakeAPI) Get(ctx context.Context, kind entity.Kind, id int64) (any, error) {
	f.record("get %s %d", kind, id)
	body, ok := f.items[fmt.Sprintf("%s/%d", kind, id)]
	if !ok {
		return nil, fmt.Errorf("no existe")
	}
	return raw(body), nil
}

func (f *fakeAPI) Create(ctx context.Context, kind entity.Kind, payload any) (any, error) {
	f.record("create %s", kind)
	f.mu.Lock()
	f.created = append(f.created, payload.(map[string]any))
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeAPI) Update(ctx context.Context, kind entity.Kind, id int64, payload any) (any, error) {
	f.record("update %s %d", kind, id)
	return nil, nil
}

func (f *fakeAPI) Deactivate(ctx context.Context, kind entity.Kind, id int64) error {
	f.record("deactivate %s %d", kind, id)
	if f.onDeactivate != nil {
		f.onDeactivate()
	}
	return f.deactivateErr
}
