// Package pdf genera el kardex físico-valorado de un insumo en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: KARDEX FÍSICO-VALORADO   │  N° Kardex + Gestión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INSUMO: Código + Nombre + Presentación + Ubicación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Doc | Recibido de | E | S | A | Saldo | ...  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Ajustes / Saldo valorado      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"

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

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexPDFGenerator implementa kardex.PDFGenerator usando Maroto v2.
type KardexPDFGenerator struct {
	institution string
}

// NewKardexPDFGenerator construye el generador. institution encabeza el documento.
func NewKardexPDFGenerator(institution string) *KardexPDFGenerator {
	return &KardexPDFGenerator{institution: institution}
}

// GenerateKardexPDF genera el PDF del kardex con sus movimientos y devuelve sus bytes.
func (g *KardexPDFGenerator) GenerateKardexPDF(
	supply *entity.Supply,
	k *entity.Kardex,
	movements []*entity.Movement,
) ([]byte, error) {
	if supply == nil || k == nil {
		return nil, fmt.Errorf("pdf: insumo y kardex son requeridos")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex "+k.Number, true).
		WithAuthor(g.institution, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.institution, k))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplyRow(supply, k))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(movementRows(movements)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(movements))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: institución y título (izq), número de kardex y estado (der).
func headerRow(institution string, k *entity.Kardex) core.Row {
	state := "ABIERTO"
	if !k.Open {
		state = "CERRADO"
		if k.ClosedAt != nil {
			state += " " + k.ClosedAt.Format("02/01/2006")
		}
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(institution, "Almacén"), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("KARDEX FÍSICO-VALORADO", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(k.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Gestión "+strconv.Itoa(k.Gestion), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(state, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// supplyRow: datos del insumo y ubicación.
func supplyRow(s *entity.Supply, k *entity.Kardex) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(s.Code+" — "+s.GenericName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 1,
			}),
			text.New(fmt.Sprintf("Presentación: %s   |   Unidad: %s   |   Stock mínimo: %d apl.   |   Ubicación: %s",
				nonEmpty(s.Presentation, "-"),
				nonEmpty(s.UnitMeasure, "-"),
				s.MinimumApplications,
				nonEmpty(k.Location, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

type column struct {
	label string
	size  int
	align align.Type
}

var columns = []column{
	{"Fecha", 1, align.Left},
	{"Clave doc.", 2, align.Left},
	{"Recibido de", 2, align.Left},
	{"Ent.", 1, align.Right},
	{"Sal.", 1, align.Right},
	{"Aj.", 1, align.Right},
	{"Saldo", 1, align.Right},
	{"C. Unit.", 1, align.Right},
	{"Valorado", 2, align.Right},
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

// movementRows: una fila por movimiento; el ajuste se muestra con signo.
func movementRows(movements []*entity.Movement) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		values := []string{
			mv.Date.Format("02/01/06"),
			mv.DocumentKey,
			mv.ReceivedFrom,
			qty(mv.Entradas()),
			qty(mv.Salidas()),
			signedAdjustment(mv),
			strconv.FormatInt(mv.Balance, 10),
			formatAmount(mv.UnitCost, 4),
			formatAmount(mv.BalanceValue, 2),
		}
		cols := make([]core.Col, 0, len(columns))
		for i, c := range columns {
			cols = append(cols, col.New(c.size).Add(text.New(values[i], props.Text{
				Size: 7, Align: c.align, Top: 1, Left: 1, Right: 1,
			})))
		}
		result = append(result, row.New(6).Add(cols...))
	}
	return result
}

// totalsRow: sumas de columnas y último saldo valorado.
func totalsRow(movements []*entity.Movement) core.Row {
	var in, out, adj int64
	for _, mv := range movements {
		in += mv.Entradas()
		out += mv.Salidas()
		if mv.Kind == entity.MovementAjuste {
			adj += mv.Quantity
		}
	}
	balance, value := int64(0), decimal.Zero
	if n := len(movements); n > 0 {
		balance, value = movements[n-1].Balance, movements[n-1].BalanceValue
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})
	}
	val := func(s string) core.Component {
		return text.New(s, props.Text{Size: 8, Align: align.Right, Right: 1})
	}
	return row.New(24).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:"),
			label("Salidas:"),
			label("Ajustes:"),
			label("Saldo valorado:"),
		),
		col.New(3).Add(
			val(strconv.FormatInt(in, 10)),
			val(strconv.FormatInt(out, 10)),
			val(strconv.FormatInt(adj, 10)),
			text.New(fmt.Sprintf("%d apl. / %s", balance, formatAmount(value, 2)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func qty(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func signedAdjustment(mv *entity.Movement) string {
	if mv.Kind != entity.MovementAjuste {
		return ""
	}
	if mv.Quantity > 0 {
		return "+" + strconv.FormatInt(mv.Quantity, 10)
	}
	return strconv.FormatInt(mv.Quantity, 10)
}

// formatAmount formatea con puntos de miles y coma decimal.
// Ej: 1234567.5 con 2 decimales → "1.234.567,50"
func formatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	out := sign + formatThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
