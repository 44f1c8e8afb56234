package dataaccess_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dataaccess"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/cache"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func setup(t *testing.T) (*fakeAPI, *dataaccess.Services) {
	t.Helper()
	api := newFakeAPI()
	c := dataaccess.NewCache(cache.NewMemoryStore(), time.Minute, nil, logger.Nop())
	return api, dataaccess.NewServices(api, c, logger.Nop())
}

func adminScope(company int64) scope.EffectiveScope {
	return scope.EffectiveScope{Role: entity.RoleAdmin, CompanyID: company, IsCompanyWide: true}
}

func superScope() scope.EffectiveScope {
	return scope.EffectiveScope{Role: entity.RoleSuperAdmin, IsCompanyWide: true, AllCompanies: true}
}

func unitScope(role entity.Role, company int64, units ...int64) scope.EffectiveScope {
	return scope.EffectiveScope{Role: role, CompanyID: company, BusinessUnitIDs: units}
}

func ptr[T any](v T) *T { return &v }

const driversJSON = `{"result":[
	{"Id":42,"IdCompany":3,"BusinessUnitId":5,"FirstName":"Ana","IsActive":true},
	{"Id":43,"IdCompany":3,"BusinessUnitId":9,"FirstName":"Luis","IsActive":true},
	{"Id":44,"IdCompany":4,"BusinessUnitId":9,"FirstName":"Otro","IsActive":true}
]}`

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_AlcanceIncompletoNoLlamaALaAPI(t *testing.T) {
	api, svc := setup(t)
	_, err := svc.Drivers.List(context.Background(), unitScope(entity.RoleOperator, 3))
	assert.ErrorIs(t, err, domain.ErrScopeDisabled)
	assert.True(t, dataaccess.IsDisabled(err))

	_, err = svc.FuelTypes.List(context.Background(), scope.EffectiveScope{Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrScopeDisabled)
	assert.Empty(t, api.Calls())
}

func TestList_OperadorVeSoloSuUnidad(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindFuelEvent] = `[
		{"Id":1,"IdCompany":3,"BusinessUnitId":9,"ResourceId":1,"Liters":"10"},
		{"Id":2,"IdCompany":3,"BusinessUnitId":10,"ResourceId":1,"Liters":"20"},
		{"Id":3,"IdCompany":4,"BusinessUnitId":9,"ResourceId":1,"Liters":"30"}
	]`

	events, err := svc.FuelEvents.List(context.Background(), unitScope(entity.RoleOperator, 3, 9))
	require.NoError(t, err)
	require.Len(t, events, 1, "las filas fuera del alcance se descartan")
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, []string{"list fuel-events c=3 u=9"}, api.Calls())
}

func TestList_SupervisorCombinaSusUnidades(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = `[
		{"Id":1,"IdCompany":3,"BusinessUnitId":5},
		{"Id":2,"IdCompany":3,"BusinessUnitId":7}
	]`

	drivers, err := svc.Drivers.List(context.Background(), unitScope(entity.RoleSupervisor, 3, 5, 7))
	require.NoError(t, err)
	assert.Len(t, drivers, 2, "sin duplicados aunque ambas llamadas devuelvan todo")
	assert.Equal(t, []string{"list drivers c=3 u=5", "list drivers c=3 u=7"}, api.Calls())
}

func TestList_SegundaLecturaDesdeCache(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	ctx := context.Background()

	first, err := svc.Drivers.List(ctx, adminScope(3))
	require.NoError(t, err)
	second, err := svc.Drivers.List(ctx, adminScope(3))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, api.count("list drivers"))
}

func TestList_PermisoDeLectura(t *testing.T) {
	api, svc := setup(t)
	_, err := svc.Users.List(context.Background(), unitScope(entity.RoleOperator, 3, 9))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, api.Calls())
}

func TestList_UsuariosFiltradosPorUnidadesDelAlcance(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindUser] = `{"result":[
		{"Id":1,"IdCompany":3,"Name":"Ana","BusinessUnitIds":[5]},
		{"Id":2,"IdCompany":3,"Name":"Beto","BusinessUnitIds":[9]},
		{"Id":3,"IdCompany":3,"Name":"Carla","BusinessUnitIds":[5,9]},
		{"Id":4,"IdCompany":3,"Name":"Dardo"}
	]}`
	ctx := context.Background()

	users, err := svc.Users.List(ctx, unitScope(entity.RoleSupervisor, 3, 5))
	require.NoError(t, err)
	var names []string
	for _, u := range users {
		names = append(names, u.Name)
	}
	assert.ElementsMatch(t, []string{"Ana", "Carla"}, names, "un usuario de otra unidad queda fuera")
	assert.Equal(t, []string{"list users c=3 u=-"}, api.Calls(), "la consulta sigue siendo por empresa")

	all, err := svc.Users.List(ctx, adminScope(3))
	require.NoError(t, err)
	assert.Len(t, all, 4, "el alcance de empresa completa no reutiliza el listado filtrado")
	assert.Equal(t, 2, api.count("list users"))
}

func TestList_CargasConcurrentesSeColapsan(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	api.gate = make(chan struct{})
	api.started = make(chan struct{})
	started := api.started

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Drivers.List(context.Background(), adminScope(3))
			assert.NoError(t, err)
		}()
	}
	<-started
	time.Sleep(50 * time.Millisecond)
	close(api.gate)
	wg.Wait()

	assert.Equal(t, 1, api.count("list drivers"))
}

func TestList_CancelarElPrimerLlamadorNoCortaALosDemas(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	api.gate = make(chan struct{})
	api.started = make(chan struct{})
	started := api.started

	primero, cancel := context.WithCancel(context.Background())
	errPrimero := make(chan error, 1)
	go func() {
		_, err := svc.Drivers.List(primero, adminScope(3))
		errPrimero <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-errPrimero, context.Canceled)

	var (
		got    []entity.Driver
		errSeg error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		got, errSeg = svc.Drivers.List(context.Background(), adminScope(3))
	}()
	time.Sleep(50 * time.Millisecond)
	close(api.gate)
	<-done

	require.NoError(t, errSeg)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, api.count("list drivers"), "el segundo llamador se sumó a la carga en vuelo")
}

func TestList_ResultadoObsoletoNoSeCachea(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	api.items["drivers/42"] = `{"Id":42,"IdCompany":3,"BusinessUnitId":5,"IsActive":true}`
	api.gate = make(chan struct{})
	api.started = make(chan struct{})
	started := api.started
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Drivers.List(ctx, adminScope(3))
	}()
	<-started
	// Mutación mientras la carga está en vuelo.
	require.NoError(t, svc.Drivers.Deactivate(ctx, adminScope(3), 42))
	close(api.gate)
	<-done

	api.gate = nil
	_, err := svc.Drivers.List(ctx, adminScope(3))
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("list drivers"), "la carga previa a la mutación no debe quedar en cache")
}

func TestAbandon_DescartaCargaEnVuelo(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	api.gate = make(chan struct{})
	api.started = make(chan struct{})
	started := api.started
	ctx := context.Background()
	old := unitScope(entity.RoleAdmin, 3, 5)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Drivers.List(ctx, old)
	}()
	<-started
	svc.Abandon(old)
	close(api.gate)
	<-done

	api.gate = nil
	_, err := svc.Drivers.List(ctx, old)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("list drivers"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones e invalidación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate_InvalidaEmpresaYAllPeroNoOtraEmpresa(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	api.items["drivers/42"] = `{"Id":42,"IdCompany":3,"BusinessUnitId":5,"IsActive":true}`
	ctx := context.Background()

	for _, sc := range []scope.EffectiveScope{adminScope(3), superScope(), adminScope(4)} {
		_, err := svc.Drivers.List(ctx, sc)
		require.NoError(t, err)
	}
	require.Equal(t, 3, api.count("list drivers"))

	require.NoError(t, svc.Drivers.Deactivate(ctx, adminScope(3), 42))

	for _, sc := range []scope.EffectiveScope{adminScope(3), superScope(), adminScope(4)} {
		_, err := svc.Drivers.List(ctx, sc)
		require.NoError(t, err)
	}
	calls := api.Calls()
	assert.Equal(t, 5, api.count("list drivers"), "c3 y all se recargan, c4 no: %v", calls)
	assert.Contains(t, calls[len(calls)-2:], "list drivers c=3 u=-")
	assert.Contains(t, calls[len(calls)-2:], "list drivers c=0 u=-")
}

func TestDeactivate_OptimistaYRestauraSiFalla(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	api.items["drivers/42"] = `{"Id":42,"IdCompany":3,"BusinessUnitId":5,"IsActive":true}`
	api.deactivateErr = errors.New("timeout")
	ctx := context.Background()

	_, err := svc.Drivers.List(ctx, adminScope(3))
	require.NoError(t, err)

	var during []entity.Driver
	api.onDeactivate = func() {
		during, _ = svc.Drivers.List(ctx, adminScope(3))
	}
	err = svc.Drivers.Deactivate(ctx, adminScope(3), 42)
	require.Error(t, err)

	require.Len(t, during, 2)
	assert.False(t, during[0].IsActive, "durante la llamada el cache muestra la baja")

	after, err := svc.Drivers.List(ctx, adminScope(3))
	require.NoError(t, err)
	assert.True(t, after[0].IsActive, "tras el error se restaura el estado previo")
	assert.Equal(t, 1, api.count("list drivers"))
}

func TestDeactivate_RestauracionNoPisaUnaInvalidacionPosterior(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	api.items["drivers/42"] = `{"Id":42,"IdCompany":3,"BusinessUnitId":5,"IsActive":true}`
	api.deactivateErr = errors.New("timeout")
	ctx := context.Background()

	_, err := svc.Drivers.List(ctx, adminScope(3))
	require.NoError(t, err)

	api.onDeactivate = func() {
		// Otro usuario renombra al chofer 43 mientras la baja está en vuelo.
		api.mu.Lock()
		api.lists[entity.KindDriver] = `{"result":[
			{"Id":42,"IdCompany":3,"BusinessUnitId":5,"FirstName":"Ana","IsActive":true},
			{"Id":43,"IdCompany":3,"BusinessUnitId":9,"FirstName":"Luciano","IsActive":true}
		]}`
		api.mu.Unlock()
		svc.Cache.Invalidate(ctx, entity.KindDriver, dataaccess.Target{ID: 43, CompanyID: 3, UnitID: ptr(int64(9))})
	}
	require.Error(t, svc.Drivers.Deactivate(ctx, adminScope(3), 42))

	after, err := svc.Drivers.List(ctx, adminScope(3))
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("list drivers"), "la clave invalidada se vuelve a cargar")
	for _, d := range after {
		assert.NotEqual(t, "Luis", d.FirstName, "no se sirve el listado previo a la invalidación")
	}
}

func TestDeactivate_FueraDeAlcance(t *testing.T) {
	api, svc := setup(t)
	api.items["drivers/44"] = `{"Id":44,"IdCompany":4,"BusinessUnitId":9}`
	err := svc.Drivers.Deactivate(context.Background(), adminScope(3), 44)
	assert.ErrorIs(t, err, domain.ErrOutOfScope)
	assert.Zero(t, api.count("deactivate"))
}

func TestCreate_CompletaEmpresaYUnidadDelAlcance(t *testing.T) {
	api, svc := setup(t)
	ev, err := svc.FuelEvents.Create(context.Background(), unitScope(entity.RoleOperator, 3, 9),
		map[string]any{"ResourceId": 1, "Liters": "50"})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, int64(3), api.created[0]["companyId"])
	assert.Equal(t, int64(9), api.created[0]["businessUnitId"])
	assert.Equal(t, int64(3), ev.CompanyID)
}

func TestCreate_PermisosYPertenencia(t *testing.T) {
	api, svc := setup(t)
	ctx := context.Background()

	_, err := svc.Drivers.Create(ctx, unitScope(entity.RoleOperator, 3, 9), map[string]any{"firstName": "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Resources.Create(ctx, unitScope(entity.RoleSupervisor, 3, 5), map[string]any{"businessUnitId": 9, "name": "Tanque"})
	assert.ErrorIs(t, err, domain.ErrOutOfScope)

	_, err = svc.Resources.Create(ctx, unitScope(entity.RoleSupervisor, 3, 5), map[string]any{"companyId": 4, "businessUnitId": 5})
	assert.ErrorIs(t, err, domain.ErrOutOfScope)

	assert.Zero(t, api.count("create"))
}

func TestCreate_InvalidaRelacionadas(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindResource] = `[{"Id":1,"IdCompany":3,"BusinessUnitId":9}]`
	ctx := context.Background()
	sc := unitScope(entity.RoleOperator, 3, 9)

	_, err := svc.Resources.List(ctx, sc)
	require.NoError(t, err)
	_, err = svc.FuelEvents.Create(ctx, sc, map[string]any{"resourceId": 1, "liters": 5})
	require.NoError(t, err)
	_, err = svc.Resources.List(ctx, sc)
	require.NoError(t, err)

	assert.Equal(t, 2, api.count("list resources"), "una carga cambia el stock de los recursos")
}

func TestUpdate_NoPuedeMoverFueraDelAlcance(t *testing.T) {
	api, svc := setup(t)
	api.items["trips/7"] = `{"Id":7,"IdCompany":3,"BusinessUnitId":5,"ResourceId":1}`
	ctx := context.Background()
	sc := unitScope(entity.RoleSupervisor, 3, 5)

	_, err := svc.Trips.Update(ctx, sc, 7, map[string]any{"BusinessUnitId": 9})
	assert.ErrorIs(t, err, domain.ErrOutOfScope)

	trip, err := svc.Trips.Update(ctx, sc, 7, map[string]any{"Destination": "Rosario"})
	require.NoError(t, err)
	assert.Equal(t, "Rosario", trip.Destination)
	assert.Equal(t, 1, api.count("update trips 7"))
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID, UnitName, Purge
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_ClavePropiaPorID(t *testing.T) {
	api, svc := setup(t)
	api.items["drivers/42"] = `{"data":{"Id":42,"IdCompany":3,"FirstName":"Ana"}}`
	ctx := context.Background()

	d, err := svc.Drivers.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ana", d.FirstName)
	_, err = svc.Drivers.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("get drivers 42"))

	_, err = svc.Drivers.GetByID(ctx, 99)
	assert.Error(t, err)
}

func TestUnitName_BuscaEnListadoCacheado(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindBusinessUnit] = `[{"Id":5,"IdCompany":3,"Name":"Planta Norte","IsActive":true}]`
	ctx := context.Background()

	_, ok := svc.UnitName(ctx, 3, 5)
	assert.False(t, ok, "sin listado cacheado no hay nombre")

	_, err := svc.BusinessUnits.List(ctx, adminScope(3))
	require.NoError(t, err)
	name, ok := svc.UnitName(ctx, 3, 5)
	assert.True(t, ok)
	assert.Equal(t, "Planta Norte", name)

	_, ok = svc.UnitName(ctx, 3, 6)
	assert.False(t, ok)
}

func TestPurge_BorraListadosDeLaEmpresa(t *testing.T) {
	api, svc := setup(t)
	api.lists[entity.KindDriver] = driversJSON
	ctx := context.Background()

	_, _ = svc.Drivers.List(ctx, adminScope(3))
	_, _ = svc.Drivers.List(ctx, adminScope(4))
	svc.Purge(ctx, 3)
	_, _ = svc.Drivers.List(ctx, adminScope(3))
	_, _ = svc.Drivers.List(ctx, adminScope(4))

	assert.Equal(t, 3, api.count("list drivers"))
}

func TestInvalidationTable_CubreTodasLasClases(t *testing.T) {
	for _, k := range entity.Kinds() {
		related, ok := dataaccess.InvalidationTable[k]
		require.True(t, ok, "falta %s", k)
		assert.Equal(t, k, related[0], "la propia clase va primera")
		_, ok = dataaccess.Descriptors[k]
		assert.True(t, ok, "falta descriptor de %s", k)
	}
}
