package report_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dataaccess"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/report"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/cache"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// listAPI responde listados fijos por clase.
type listAPI struct {
	ports.FuelAPI
	lists map[entity.Kind]string
}

func (a *listAPI) List(ctx context.Context, kind entity.Kind, f ports.ListFilter) (any, error) {
	s, ok := a.lists[kind]
	if !ok {
		s = `[]`
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

type capturePDF struct{ got report.FuelEventsReport }

func (c *capturePDF) FuelEventsPDF(ctx context.Context, r report.FuelEventsReport) ([]byte, error) {
	c.got = r
	return []byte("%PDF-fake"), nil
}

func setup(t *testing.T) (*report.Service, *capturePDF) {
	t.Helper()
	api := &listAPI{lists: map[entity.Kind]string{
		entity.KindFuelEvent: `{"data":[
			{"Id":1,"IdCompany":3,"BusinessUnitId":5,"ResourceId":10,"DriverId":20,"Liters":"40.5","UnitPrice":"1000","OccurredAt":"2026-03-02T10:00:00Z","IsActive":true},
			{"Id":2,"IdCompany":3,"BusinessUnitId":5,"ResourceId":10,"Liters":"10","UnitPrice":"1000","TotalCost":"9500","OccurredAt":"2026-03-01T08:00:00Z","IsActive":true},
			{"Id":3,"IdCompany":3,"BusinessUnitId":5,"ResourceId":11,"Liters":"99","UnitPrice":"1","OccurredAt":"2026-02-01T08:00:00Z","IsActive":true},
			{"Id":4,"IdCompany":3,"BusinessUnitId":5,"ResourceId":10,"Liters":"7","UnitPrice":"1","OccurredAt":"2026-03-03T08:00:00Z","IsActive":false}
		]}`,
		entity.KindResource:     `[{"Id":10,"IdCompany":3,"BusinessUnitId":5,"Name":"Camión 12","IsActive":true}]`,
		entity.KindDriver:       `[{"Id":20,"IdCompany":3,"BusinessUnitId":5,"FirstName":"Ana","LastName":"Pérez","IsActive":true}]`,
		entity.KindBusinessUnit: `[{"Id":5,"IdCompany":3,"Name":"Base Norte","IsActive":true}]`,
	}}
	c := dataaccess.NewCache(cache.NewMemoryStore(), time.Minute, nil, logger.Nop())
	pdf := &capturePDF{}
	clock := func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	svc := report.NewService(dataaccess.NewServices(api, c, logger.Nop()), pdf, logger.Nop()).WithClock(clock)
	return svc, pdf
}

func TestBuildFuelEvents_FiltraOrdenaYTotaliza(t *testing.T) {
	svc, _ := setup(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sc := scope.EffectiveScope{Role: entity.RoleSupervisor, CompanyID: 3, BusinessUnitIDs: []int64{5}}

	r, err := svc.BuildFuelEvents(context.Background(), sc, "acme", report.Period{From: &from})
	require.NoError(t, err)

	require.Len(t, r.Rows, 2, "fuera del período e inactivas no cuentan")
	assert.True(t, r.Rows[0].OccurredAt.Before(r.Rows[1].OccurredAt))
	assert.Equal(t, "Camión 12", r.Rows[0].Resource)
	assert.Equal(t, "-", r.Rows[0].Driver)
	assert.Equal(t, "Ana Pérez", r.Rows[1].Driver)
	assert.Equal(t, "Base Norte", r.Rows[1].BusinessUnit)

	assert.True(t, decimal.RequireFromString("50.5").Equal(r.TotalLiters))
	assert.True(t, decimal.RequireFromString("9500").Equal(r.Rows[0].TotalCost), "se respeta el total informado")
	assert.True(t, decimal.RequireFromString("40500").Equal(r.Rows[1].TotalCost), "sin total se calcula")
	assert.True(t, decimal.RequireFromString("50000").Equal(r.TotalCost))
	assert.Equal(t, "Base Norte", r.ScopeLabel)
	assert.Equal(t, "acme", r.Tenant)
}

func TestFuelEventsPDF_EntregaElReporteAlGenerador(t *testing.T) {
	svc, pdf := setup(t)
	sc := scope.EffectiveScope{Role: entity.RoleAdmin, CompanyID: 3, IsCompanyWide: true}

	doc, err := svc.FuelEventsPDF(context.Background(), sc, "acme", report.Period{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(doc))
	assert.Len(t, pdf.got.Rows, 3)
	assert.Equal(t, "Toda la empresa", pdf.got.ScopeLabel)
	assert.Equal(t, "#11", pdf.got.Rows[0].Resource, "recurso sin nombre conocido muestra el id")
}

func TestFuelEventsPDF_AlcanceIncompleto(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.FuelEventsPDF(context.Background(),
		scope.EffectiveScope{Role: entity.RoleOperator, CompanyID: 3}, "acme", report.Period{})
	assert.ErrorIs(t, err, domain.ErrScopeDisabled)
}
