// Package report arma los reportes descargables a partir de los listados del alcance
// vigente. El armado del documento lo hace un PDFGenerator de infraestructura.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/dataaccess"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// FuelEventRow una carga ya resuelta a nombres legibles.
type FuelEventRow struct {
	OccurredAt   time.Time
	BusinessUnit string
	Resource     string
	Driver       string
	Liters       decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalCost    decimal.Decimal
	Notes        string
}

// FuelEventsReport datos del reporte de cargas de combustible.
type FuelEventsReport struct {
	Tenant      string
	ScopeLabel  string
	From, To    *time.Time
	GeneratedAt time.Time
	Rows        []FuelEventRow
	TotalLiters decimal.Decimal
	TotalCost   decimal.Decimal
}

// PDFGenerator genera el documento del reporte.
type PDFGenerator interface {
	FuelEventsPDF(ctx context.Context, r FuelEventsReport) ([]byte, error)
}

// Period rango opcional de fechas (inclusive en ambos extremos).
type Period struct {
	From *time.Time
	To   *time.Time
}

// Service reportes sobre los servicios de datos.
type Service struct {
	data *dataaccess.Services
	pdf  PDFGenerator
	log  *logger.Logger
	now  func() time.Time
}

// NewService construye el servicio de reportes.
func NewService(data *dataaccess.Services, pdf PDFGenerator, log *logger.Logger) *Service {
	return &Service{data: data, pdf: pdf, log: log.Component("report"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// BuildFuelEvents arma el reporte de cargas visibles en el alcance. Los catálogos
// auxiliares (recursos, choferes, unidades) son opcionales: si no se pueden leer se
// muestra el id.
func (s *Service) BuildFuelEvents(ctx context.Context, sc scope.EffectiveScope, tenant string, p Period) (FuelEventsReport, error) {
	events, err := s.data.FuelEvents.List(ctx, sc)
	if err != nil {
		return FuelEventsReport{}, err
	}

	resources := names(ctx, s, s.data.Resources, sc, func(r entity.Resource) string { return r.Name })
	drivers := names(ctx, s, s.data.Drivers, sc, func(d entity.Driver) string {
		return strings.TrimSpace(d.FirstName + " " + d.LastName)
	})
	units := names(ctx, s, s.data.BusinessUnits, sc, func(u entity.BusinessUnit) string { return u.Name })

	out := FuelEventsReport{
		Tenant:      tenant,
		ScopeLabel:  scopeLabel(sc, units),
		From:        p.From,
		To:          p.To,
		GeneratedAt: s.now(),
		TotalLiters: decimal.Zero,
		TotalCost:   decimal.Zero,
	}
	for _, ev := range events {
		ev := ev
		if !ev.IsActive || !p.contains(ev.OccurredAt) {
			continue
		}
		out.Rows = append(out.Rows, FuelEventRow{
			OccurredAt:   ev.OccurredAt,
			BusinessUnit: label(units, ev.BusinessUnitID),
			Resource:     label(resources, &ev.ResourceID),
			Driver:       label(drivers, ev.DriverID),
			Liters:       ev.Liters,
			UnitPrice:    ev.UnitPrice,
			TotalCost:    cost(ev),
			Notes:        ev.Notes,
		})
		out.TotalLiters = out.TotalLiters.Add(ev.Liters)
		out.TotalCost = out.TotalCost.Add(cost(ev))
	}
	sort.SliceStable(out.Rows, func(i, j int) bool { return out.Rows[i].OccurredAt.Before(out.Rows[j].OccurredAt) })
	return out, nil
}

// FuelEventsPDF arma el reporte y lo renderiza.
func (s *Service) FuelEventsPDF(ctx context.Context, sc scope.EffectiveScope, tenant string, p Period) ([]byte, error) {
	r, err := s.BuildFuelEvents(ctx, sc, tenant, p)
	if err != nil {
		return nil, err
	}
	doc, err := s.pdf.FuelEventsPDF(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("reporte de cargas: %w", err)
	}
	s.log.Info().Str("tenant", tenant).Int("rows", len(r.Rows)).Msg("reporte de cargas generado")
	return doc, nil
}

func (p Period) contains(t time.Time) bool {
	if p.From != nil && t.Before(*p.From) {
		return false
	}
	if p.To != nil && t.After(*p.To) {
		return false
	}
	return true
}

// cost usa el total informado por la API y, si no vino, litros por precio.
func cost(ev entity.FuelEvent) decimal.Decimal {
	if !ev.TotalCost.IsZero() {
		return ev.TotalCost
	}
	return ev.Liters.Mul(ev.UnitPrice)
}

func names[T entity.Scoped](ctx context.Context, s *Service, svc *dataaccess.Service[T], sc scope.EffectiveScope, name func(T) string) map[int64]string {
	out := make(map[int64]string)
	items, err := svc.List(ctx, sc)
	if err != nil {
		if !errors.Is(err, domain.ErrForbidden) && !errors.Is(err, domain.ErrScopeDisabled) {
			s.log.Warn().Err(err).Str("kind", string(svc.Kind())).Msg("catálogo auxiliar del reporte no disponible")
		}
		return out
	}
	for _, it := range items {
		out[it.EntityID()] = name(it)
	}
	return out
}

func label(m map[int64]string, id *int64) string {
	if id == nil || *id == 0 {
		return "-"
	}
	if n, ok := m[*id]; ok && n != "" {
		return n
	}
	return "#" + strconv.FormatInt(*id, 10)
}

func scopeLabel(sc scope.EffectiveScope, units map[int64]string) string {
	switch {
	case sc.AllCompanies:
		return "Todas las empresas"
	case sc.IsCompanyWide:
		return "Toda la empresa"
	}
	parts := make([]string, 0, len(sc.BusinessUnitIDs))
	for _, id := range sc.BusinessUnitIDs {
		id := id
		parts = append(parts, label(units, &id))
	}
	return strings.Join(parts, ", ")
}
