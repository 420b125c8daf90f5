package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/plantops/ot/internal/types"
)

func price(v float64) *float64 { return &v }

func sampleOrder() *types.WorkOrder {
	return &types.WorkOrder{
		ID:       42,
		Number:   "OT-0042",
		Type:     types.TypePreventive,
		Priority: types.PriorityMedium,
		Status:   types.StatusInProgress,
		Title:    "Revisión mensual",
		Consumption: []types.ConsumptionLine{
			{ID: 1, SparePartName: "Bearing", Quantity: 2, UnitPrice: price(10)},
			{ID: 2, SparePartName: "Seal", Quantity: 1, UnitPrice: price(5)},
			{ID: 3, SparePartName: "Grasa", Quantity: 1},
		},
		ExternalCostsJSON: `[{"proveedor":"Taller Sur","descripcion":"Rebobinado","coste":100},{"proveedor":"Grúas","descripcion":"","coste":50.25}]`,
		TimeEntries: []types.TimeEntry{
			{Technician: "Ana Ruiz", DurationHours: 1.5},
			{Technician: "Marta", DurationHours: 0.5, InProgress: true},
		},
		ChecklistItems: []types.ChecklistItem{
			{ID: 9, Order: 1, Description: "Nivel de aceite", Kind: types.AnswerOkNok, GeneratesCorrective: true},
		},
		ChecklistResponses: []types.ChecklistResponse{{ItemID: 9, Answer: types.AnswerNOK, Observations: "bajo"}},
	}
}

func open(t *testing.T, o *types.WorkOrder) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, o))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestWorkbookSheets(t *testing.T) {
	f := open(t, sampleOrder())
	assert.Equal(t, []string{SheetSummary, SheetConsumption, SheetCosts, SheetTime, SheetChecklist}, f.GetSheetList())

	o := sampleOrder()
	o.Type = types.TypeCorrective
	f = open(t, o)
	assert.NotContains(t, f.GetSheetList(), SheetChecklist)
}

func TestWorkbookConsumptionTotals(t *testing.T) {
	f := open(t, sampleOrder())

	assert.Equal(t, "Recambio", cell(t, f, SheetConsumption, "B1"))
	assert.Equal(t, "Bearing", cell(t, f, SheetConsumption, "B2"))
	assert.Equal(t, "20", cell(t, f, SheetConsumption, "E2"))
	assert.Empty(t, cell(t, f, SheetConsumption, "D4"), "missing price stays blank")
	assert.Equal(t, "0", cell(t, f, SheetConsumption, "E4"))
	assert.Equal(t, "Total", cell(t, f, SheetConsumption, "B5"))
	assert.Equal(t, "25", cell(t, f, SheetConsumption, "E5"))
}

func TestWorkbookCostsAndSummary(t *testing.T) {
	f := open(t, sampleOrder())

	assert.Equal(t, "Taller Sur", cell(t, f, SheetCosts, "B2"))
	assert.Equal(t, "150.25", cell(t, f, SheetCosts, "D4"))

	assert.Equal(t, "OT-0042", cell(t, f, SheetSummary, "B1"))
	assert.Equal(t, "En Curso", cell(t, f, SheetSummary, "B4"))
	assert.Equal(t, "2", cell(t, f, SheetSummary, "B12"))
	assert.Equal(t, "25", cell(t, f, SheetSummary, "B13"))
	assert.Equal(t, "150.25", cell(t, f, SheetSummary, "B14"))

	assert.Equal(t, "nok", cell(t, f, SheetChecklist, "C2"))
	assert.Equal(t, "TRUE", cell(t, f, SheetChecklist, "E2"))
}

func TestWorkbookEmptyLedger(t *testing.T) {
	f := open(t, &types.WorkOrder{ID: 1, Number: "OT-0001", Status: types.StatusPending})
	assert.Equal(t, "Total", cell(t, f, SheetConsumption, "B2"))
	assert.Equal(t, "0", cell(t, f, SheetConsumption, "E2"))
	assert.Equal(t, "Total", cell(t, f, SheetCosts, "B2"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName(sampleOrder()))
	require.NoError(t, WriteFile(path, sampleOrder()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
	assert.Equal(t, "OT-0042.xlsx", entries[0].Name())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "OT-0042", v)
}

func TestWriteFileRejectsExtension(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "ot.csv"), sampleOrder())
	assert.Error(t, err)
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "OT_2024_7.xlsx", DefaultFileName(&types.WorkOrder{Number: "OT 2024/7"}))
	assert.Equal(t, "orden-5.xlsx", DefaultFileName(&types.WorkOrder{ID: 5}))
}
