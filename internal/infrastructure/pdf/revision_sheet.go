// Package pdf genera la hoja de conteo (inventario físico) de una revisión.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén + motivo     │  N° revisión + fecha + estado│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Artículo | Unidad | Sistema | Contado | Dif.   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Sistema / Contado / Diferencia                    │
//	│  FIRMAS: responsable de almacén / comisión                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

var _ inventory.RevisionSheetRenderer = (*RevisionSheetGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// fontFamily fuente UTF-8 embebida; helvetica solo cubre cp1252.
const fontFamily = "gofont"

// RevisionSheetGenerator implementa inventory.RevisionSheetRenderer usando Maroto v2.
type RevisionSheetGenerator struct {
	fonts   []*entity.CustomFont
	fontErr error
}

// NewRevisionSheetGenerator construye el generador con las fuentes Go embebidas.
func NewRevisionSheetGenerator() *RevisionSheetGenerator {
	fonts, err := repository.New().
		AddUTF8FontFromBytes(fontFamily, fontstyle.Normal, goregular.TTF).
		AddUTF8FontFromBytes(fontFamily, fontstyle.Bold, gobold.TTF).
		Load()
	return &RevisionSheetGenerator{fonts: fonts, fontErr: err}
}

// RenderRevisionSheet genera el PDF y devuelve sus bytes.
func (g *RevisionSheetGenerator) RenderRevisionSheet(sheet dto.RevisionSheet) ([]byte, error) {
	if g.fontErr != nil {
		return nil, fmt.Errorf("pdf: cargar fuentes: %w", g.fontErr)
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithCustomFonts(g.fonts).
		WithDefaultFont(&props.Font{Family: fontFamily, Size: 9}).
		WithTitle("Revision "+sheet.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(sheet.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sheet))
	m.AddRows(row.New(12))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(s dto.RevisionSheet) core.Row {
	status := "BORRADOR"
	if s.Status == "posted" {
		status = "CONTABILIZADA"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(s.WarehouseName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(s.Reason, "Inventario físico"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE CONTEO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(s.Date.Format("02/01/2006")+"  ·  "+status, props.Text{
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
		h("SKU", 2, align.Left),
		h("Artículo", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Sistema", 2, align.Right),
		h("Contado", 2, align.Right),
		h("Dif.", 1, align.Right),
	)
}

func tableRows(lines []dto.RevisionSheetLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		diffProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if !l.Diff.IsZero() {
			diffProps.Style = fontstyle.Bold
			diffProps.Color = colorRed
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(l.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatQty(l.System), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatQty(l.Fact), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatSigned(l.Diff), diffProps)),
		))
	}
	return rows
}

func totalsRow(s dto.RevisionSheet) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(8).Add(
		col.New(7).Add(label("Totales:")),
		col.New(2).Add(value(formatQty(s.TotalSystem))),
		col.New(2).Add(value(formatQty(s.TotalFact))),
		col.New(1).Add(value(formatSigned(s.TotalDiff))),
	)
}

func signatureRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(6).Add(text.New("_____________________________\n"+label, props.Text{
			Size: 8, Align: align.Center, Color: colorGray,
		}))
	}
	return row.New(14).Add(sig("Responsable de almacén"), sig("Comisión de inventario"))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty muestra decimales solo cuando los hay: "12", "2.5".
func formatQty(d decimal.Decimal) string {
	return d.String()
}

func formatSigned(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}
