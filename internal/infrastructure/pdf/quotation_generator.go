// Package pdf genera la cotización de anticipación del carrito en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + CNPJ      │  COTIZACIÓN + Fecha          │
//	│  LÍMITE DE CRÉDITO                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Nota | Valor bruto | Valor neto                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Bruto / Descuento / Neto a recibir                │
//	│  LEYENDA                                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

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

	"github.com/jhoicas/receivables-api/internal/application/checkout"
	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/pkg/money"
)

var _ checkout.QuotationPDFGenerator = (*QuotationGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// QuotationGenerator implementa checkout.QuotationPDFGenerator usando Maroto v2.
type QuotationGenerator struct{}

// NewQuotationGenerator construye el generador.
func NewQuotationGenerator() *QuotationGenerator { return &QuotationGenerator{} }

// GenerateQuotation genera el PDF y devuelve sus bytes.
func (g *QuotationGenerator) GenerateQuotation(q *dto.CheckoutResponse, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización de anticipación", true).
		WithAuthor(q.Company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(q, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(q.Invoices)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(q))
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Valores netos calculados con descuento compuesto mensual sobre los días hasta el vencimiento. "+
			"Cotización válida solo para la fecha de emisión.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(q *dto.CheckoutResponse, generatedAt time.Time) core.Row {
	return row.New(24).Add(
		col.New(7).Add(
			text.New(q.Company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("CNPJ: "+formatCNPJ(q.CNPJ), props.Text{Size: 9, Top: 9, Color: colorGray}),
			text.New("Límite de crédito: "+money.FormatBRL(q.CreditLimit), props.Text{Size: 9, Top: 15, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("COTIZACIÓN DE ANTICIPACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
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
		h("Nota fiscal", 6, align.Left),
		h("Valor bruto", 3, align.Right),
		h("Valor neto", 3, align.Right),
	)
}

func itemRows(items []dto.CheckoutItemResponse) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(it.Number, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(money.FormatBRL(it.GrossValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money.FormatBRL(it.NetValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(q *dto.CheckoutResponse) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Total bruto:", 1),
			label("Descuento:", 7),
			label("NETO A RECIBIR:", 13),
		),
		col.New(3).Add(
			value(money.FormatBRL(q.TotalGross), 1),
			value(money.FormatBRL(q.TotalGross.Sub(q.TotalNet)), 7),
			text.New(money.FormatBRL(q.TotalNet), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatCNPJ aplica la máscara 00.000.000/0000-00; otros largos se devuelven tal cual.
func formatCNPJ(s string) string {
	if len(s) != 14 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", s[0:2], s[2:5], s[5:8], s[8:12], s[12:14])
}
