// Package ledger builds the consumption and external-cost views of a work
// order and runs the add/remove operations on both lists.
package ledger

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/plantops/ot/internal/types"
)

// MoneyScale is the number of decimals amounts are rounded to for display.
const MoneyScale = 2

// ConsumptionRow is one displayed consumption line.
type ConsumptionRow struct {
	Line      types.ConsumptionLine
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	HasPrice  bool
}

// ConsumptionView is the consumption table of an order.
type ConsumptionView struct {
	Rows  []ConsumptionRow
	Total decimal.Decimal
}

// Empty reports whether the order has no consumption; the view then shows
// the empty state instead of the table.
func (v ConsumptionView) Empty() bool {
	return len(v.Rows) == 0
}

// LineTotal is quantity × unit price. A missing price counts as zero.
func LineTotal(l types.ConsumptionLine) decimal.Decimal {
	if l.UnitPrice == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(l.Quantity).Mul(decimal.NewFromFloat(*l.UnitPrice))
}

// Consumption builds the consumption view.
func Consumption(lines []types.ConsumptionLine) ConsumptionView {
	v := ConsumptionView{Total: decimal.Zero}
	for _, l := range lines {
		row := ConsumptionRow{Line: l, Total: LineTotal(l)}
		if l.UnitPrice != nil {
			row.HasPrice = true
			row.UnitPrice = decimal.NewFromFloat(*l.UnitPrice)
		}
		v.Rows = append(v.Rows, row)
		v.Total = v.Total.Add(row.Total)
	}
	return v
}

// CostRow is one displayed external cost. Index is its position in the
// structured list, used to delete it.
type CostRow struct {
	Index  int
	Cost   types.ExternalCost
	Amount decimal.Decimal
}

// CostView is the external-cost table of an order.
type CostView struct {
	Rows      []CostRow
	Total     decimal.Decimal
	CanDelete bool
}

// Empty reports whether the order has no external cost.
func (v CostView) Empty() bool {
	return len(v.Rows) == 0
}

// ExternalCosts returns the external cost lines of an order. The structured
// list wins when present (an unparseable list yields no lines); otherwise a
// single line is synthesized from the legacy flat fields.
func ExternalCosts(o *types.WorkOrder) []types.ExternalCost {
	if strings.TrimSpace(o.ExternalCostsJSON) != "" {
		var costs []types.ExternalCost
		if err := json.Unmarshal([]byte(o.ExternalCostsJSON), &costs); err != nil {
			return nil
		}
		return costs
	}
	if o.LegacyExternalCost != nil && *o.LegacyExternalCost != 0 {
		return []types.ExternalCost{{
			Provider:    o.LegacyExternalProvider,
			Description: o.LegacyExternalDescription,
			Amount:      *o.LegacyExternalCost,
		}}
	}
	return nil
}

// Costs builds the external-cost view.
func Costs(o *types.WorkOrder) CostView {
	v := CostView{Total: decimal.Zero, CanDelete: o.IsOpen()}
	for i, c := range ExternalCosts(o) {
		amount := decimal.NewFromFloat(c.Amount)
		v.Rows = append(v.Rows, CostRow{Index: i, Cost: c, Amount: amount})
		v.Total = v.Total.Add(amount)
	}
	return v
}

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
