// Package pdf genera el reporte de cargas de combustible en PDF.
//
// Layout de la página A4:
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│  HEADER: Tenant + alcance   │  Título + período + fecha de emisión   │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Unidad | Recurso | Chofer | Litros | $/L | Total     │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  TOTALES: litros / costo                                             │
//	└──────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorZebra   = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador; los números salen con formato es-AR.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.MustParse("es-AR"))}
}

// FuelEventsPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) FuelEventsPDF(_ context.Context, r report.FuelEventsReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de cargas de combustible", true).
		WithAuthor(r.Tenant, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for i, fr := range r.Rows {
		m.AddRows(g.tableRow(fr, i%2 == 1))
	}
	if len(r.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin cargas en el período", props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 3}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(r report.FuelEventsReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.Tenant, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Alcance: "+nonEmpty(r.ScopeLabel, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE CARGAS DE COMBUSTIBLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(period(r), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Unidad", 2, align.Left),
		h("Recurso", 2, align.Left),
		h("Chofer", 2, align.Left),
		h("Litros", 1, align.Right),
		h("$/L", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) tableRow(fr report.FuelEventRow, zebra bool) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	r := row.New(6).Add(
		cell(fr.OccurredAt.Format("02/01/2006 15:04"), 2, align.Left),
		cell(fr.BusinessUnit, 2, align.Left),
		cell(fr.Resource, 2, align.Left),
		cell(fr.Driver, 2, align.Left),
		cell(g.Number(fr.Liters), 1, align.Right),
		cell(g.Money(fr.UnitPrice), 1, align.Right),
		cell(g.Money(fr.TotalCost), 2, align.Right),
	)
	if zebra {
		r.WithStyle(&props.Cell{BackgroundColor: colorZebra})
	}
	return r
}

func (g *MarotoPDFGenerator) totalsRow(r report.FuelEventsReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2})
	}
	return row.New(10).Add(
		col.New(6),
		col.New(2).Add(label("Litros:")),
		col.New(1).Add(value(g.Number(r.TotalLiters))),
		col.New(1).Add(label("Total:")),
		col.New(2).Add(value(g.Money(r.TotalCost))),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// Number formatea con dos decimales y separadores locales. Ej: 1234.5 → "1.234,50".
func (g *MarotoPDFGenerator) Number(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Money es Number con signo pesos.
func (g *MarotoPDFGenerator) Money(d decimal.Decimal) string {
	return "$" + g.Number(d)
}

func period(r report.FuelEventsReport) string {
	switch {
	case r.From != nil && r.To != nil:
		return "Del " + r.From.Format("02/01/2006") + " al " + r.To.Format("02/01/2006")
	case r.From != nil:
		return "Desde " + r.From.Format("02/01/2006")
	case r.To != nil:
		return "Hasta " + r.To.Format("02/01/2006")
	}
	return "Todo el historial"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
