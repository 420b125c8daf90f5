// Package export writes the ledger of a work order (consumption, external
// costs, time entries and checklist) to an .xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/plantops/ot/internal/ledger"
	"github.com/plantops/ot/internal/types"
)

// Sheet names.
const (
	SheetSummary     = "Resumen"
	SheetConsumption = "Consumos"
	SheetCosts       = "Costes externos"
	SheetTime        = "Tiempos"
	SheetChecklist   = "Checklist"
)

const dateFmt = "02/01/2006 15:04"

var (
	consumptionHeaders = []interface{}{"ID", "Recambio", "Cantidad", "Precio unitario", "Total"}
	costHeaders        = []interface{}{"#", "Proveedor", "Descripción", "Coste"}
	timeHeaders        = []interface{}{"Técnico", "Inicio", "Fin", "Horas", "En curso"}
	checklistHeaders   = []interface{}{"#", "Verificación", "Respuesta", "Observaciones", "Genera correctivo"}
)

// Workbook builds the spreadsheet of an order. The checklist sheet is only
// added for orders that carry one.
func Workbook(o *types.WorkOrder) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	w := &sheetWriter{f: f, bold: bold}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	w.summary(o)
	w.consumption(o)
	w.costs(o)
	w.timeEntries(o)
	if o.HasChecklist() {
		w.checklist(o)
	}
	if w.err != nil {
		return nil, w.err
	}
	return f, nil
}

// Write streams the workbook of o to out.
func Write(out io.Writer, o *types.WorkOrder) error {
	f, err := Workbook(o)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(out)
}

// sheetWriter keeps the first error so the sheet builders stay linear.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) sheet(name string, headers []interface{}) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = err
		return
	}
	w.row(name, 1, headers)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := w.f.SetCellStyle(name, "A1", last, w.bold); err != nil {
		w.err = err
	}
}

func (w *sheetWriter) row(sheet string, n int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err == nil {
		err = w.f.SetSheetRow(sheet, cell, &values)
	}
	if err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, n, err)
	}
}

func (w *sheetWriter) widths(sheet string, widths ...float64) {
	for i, width := range widths {
		if w.err != nil {
			return
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		w.err = w.f.SetColWidth(sheet, col, col, width)
	}
}

func date(t *types.Timestamp) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateFmt)
}

func (w *sheetWriter) summary(o *types.WorkOrder) {
	rows := [][]interface{}{
		{"Número", o.Number},
		{"Tipo", o.Type},
		{"Prioridad", o.Priority.Label()},
		{"Estado", o.Status.Label()},
		{"Título", o.Title},
		{"Equipo", o.EquipmentLabel()},
		{"Ubicación", o.EquipmentPath},
		{"Técnico", o.AssignedTechnician},
		{"Creación", date(o.CreatedAt)},
		{"Inicio", date(o.StartedAt)},
		{"Fin", date(o.EndedAt)},
		{"Horas registradas", o.TotalHours()},
		{"Total consumos", ledger.Consumption(o.Consumption).Total.InexactFloat64()},
		{"Total costes externos", ledger.Costs(o).Total.InexactFloat64()},
	}
	for i, r := range rows {
		w.row(SheetSummary, i+1, r)
	}
	if w.err == nil {
		last, _ := excelize.CoordinatesToCellName(1, len(rows))
		w.err = w.f.SetCellStyle(SheetSummary, "A1", last, w.bold)
	}
	w.widths(SheetSummary, 24, 48)
}

func (w *sheetWriter) consumption(o *types.WorkOrder) {
	w.sheet(SheetConsumption, consumptionHeaders)
	v := ledger.Consumption(o.Consumption)
	n := 2
	for _, r := range v.Rows {
		var price interface{}
		if r.HasPrice {
			price = r.UnitPrice.InexactFloat64()
		}
		w.row(SheetConsumption, n, []interface{}{
			r.Line.ID, r.Line.SparePartName, r.Line.Quantity, price, r.Total.InexactFloat64(),
		})
		n++
	}
	w.row(SheetConsumption, n, []interface{}{nil, "Total", nil, nil, v.Total.InexactFloat64()})
	w.widths(SheetConsumption, 8, 40, 12, 16, 16)
}

func (w *sheetWriter) costs(o *types.WorkOrder) {
	w.sheet(SheetCosts, costHeaders)
	v := ledger.Costs(o)
	n := 2
	for _, r := range v.Rows {
		w.row(SheetCosts, n, []interface{}{r.Index, r.Cost.Provider, r.Cost.Description, r.Amount.InexactFloat64()})
		n++
	}
	w.row(SheetCosts, n, []interface{}{nil, "Total", nil, v.Total.InexactFloat64()})
	w.widths(SheetCosts, 6, 30, 50, 16)
}

func (w *sheetWriter) timeEntries(o *types.WorkOrder) {
	w.sheet(SheetTime, timeHeaders)
	n := 2
	for _, e := range o.TimeEntries {
		w.row(SheetTime, n, []interface{}{e.Technician, date(e.Start), date(e.End), e.DurationHours, e.InProgress})
		n++
	}
	w.row(SheetTime, n, []interface{}{"Total", nil, nil, o.TotalHours()})
	w.widths(SheetTime, 30, 18, 18, 10, 10)
}

func (w *sheetWriter) checklist(o *types.WorkOrder) {
	w.sheet(SheetChecklist, checklistHeaders)
	for i, item := range o.ChecklistItems {
		answer, obs := "", ""
		if r, ok := o.ResponseFor(item.ID); ok {
			answer, obs = r.Answer, r.Observations
		}
		w.row(SheetChecklist, i+2, []interface{}{item.Order, item.Description, answer, obs, item.GeneratesCorrective})
	}
	w.widths(SheetChecklist, 6, 50, 14, 40, 18)
}
