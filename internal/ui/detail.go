package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/plantops/ot/internal/ledger"
	"github.com/plantops/ot/internal/lifecycle"
	"github.com/plantops/ot/internal/types"
)

// DateLayout is how timestamps appear in the detail view.
const DateLayout = "02/01/2006 15:04"

// Empty-state texts
const (
	NoTimeEntries   = "Sin tiempos registrados"
	NoConsumption   = "Sin consumos registrados"
	NoExternalCosts = "Sin costes externos registrados"
	NoSolution      = "No especificada"
	Unassigned      = "Sin asignar"
)

// ChecklistWarning is shown above the checklist of an open order.
const ChecklistWarning = "Los items marcados NOK con ⚡ generarán automáticamente una OT correctiva al cerrar esta OT."

// DetailOptions carries what the detail view needs besides the order.
type DetailOptions struct {
	// TypeInfo is the catalog entry of the order type; a zero value shows
	// the raw code.
	TypeInfo types.InterventionType
	// Actions are the lifecycle actions offered for the order, primary first.
	Actions   []lifecycle.Transition
	CanDelete bool
	// Recent marks an order created a moment ago.
	Recent bool
	// Full disables cutting long descriptions.
	Full bool
}

// Detail renders the read view of an order.
func Detail(o *types.WorkOrder, opts DetailOptions) string {
	var b strings.Builder
	sections := []string{
		header(o, opts),
		progress(o.Status),
		info(o, opts.Full),
		dates(o),
		routine(o),
		checklistSection(o),
		timeEntries(o),
		solution(o, opts.Full),
		externalCosts(o),
		consumption(o),
		actions(o, opts),
	}
	for _, s := range sections {
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func header(o *types.WorkOrder, opts DetailOptions) string {
	typeLabel := o.Type
	if opts.TypeInfo.Name != "" {
		typeLabel = opts.TypeInfo.Name
	}
	parts := []string{
		NumberStyle.Render(o.Number),
		AccentStyle.Render(typeLabel),
		RenderPriority(o.Priority),
		RenderStatus(o.Status),
	}
	if opts.Recent {
		parts = append(parts, PassStyle.Render("nueva"))
	}
	return strings.Join(parts, "  ")
}

// progress draws the status flow. Steps before the current one are checked;
// a status outside the flow highlights nothing.
func progress(s types.Status) string {
	current := s.FlowIndex()
	steps := make([]string, len(types.StatusFlow))
	for i, step := range types.StatusFlow {
		switch {
		case current >= 0 && i < current:
			steps[i] = PassStyle.Render(IconPass + " " + step.Label())
		case i == current:
			steps[i] = StatusStyle(step).Render("● " + step.Label())
		default:
			steps[i] = MutedStyle.Render(strconv.Itoa(i+1) + " " + step.Label())
		}
	}
	return strings.Join(steps, MutedStyle.Render(" ── "))
}

func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return MutedStyle.Render(label+": ") + value
}

func info(o *types.WorkOrder, full bool) string {
	tech := o.AssignedTechnician
	if tech == "" {
		tech = Unassigned
	}
	lines := []string{
		field("Título", o.Title),
		field("Ubicación del Equipo", o.EquipmentPath),
		field("Equipo", o.EquipmentLabel()),
		field("Técnico", tech),
		field("Descripción del Problema", ""),
	}
	if o.ProblemDescription != "" {
		lines[len(lines)-1] = MutedStyle.Render("Descripción del Problema:")
		lines = append(lines, longText(o.ProblemDescription, full))
	}
	return strings.Join(lines, "\n")
}

func formatDate(t *types.Timestamp) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}

func dates(o *types.WorkOrder) string {
	return strings.Join([]string{
		field("Creación", formatDate(o.CreatedAt)),
		field("Programada", formatDate(o.ScheduledAt)),
		field("Inicio", formatDate(o.StartedAt)),
		field("Fin", formatDate(o.EndedAt)),
	}, "   ")
}

func routine(o *types.WorkOrder) string {
	if !o.IsPreventive() || len(o.RoutineTasks) == 0 {
		return ""
	}
	title := RenderCategory("Operaciones a realizar")
	if o.RoutineName != "" {
		title += MutedStyle.Render(" (" + o.RoutineName + ")")
	}
	lines := []string{title}
	for i, t := range o.RoutineTasks {
		line := fmt.Sprintf("%d. %s", i+1, t.Description)
		if t.EstimatedMinutes != nil && *t.EstimatedMinutes > 0 {
			line += MutedStyle.Render(fmt.Sprintf(" [%d min]", *t.EstimatedMinutes))
		}
		lines = append(lines, line)
		if t.Tools != "" {
			lines = append(lines, TreeIndent+MutedStyle.Render(TreeLast+"Herramientas: "+t.Tools))
		}
	}
	return strings.Join(lines, "\n")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...)
}

func checklistSection(o *types.WorkOrder) string {
	if !o.HasChecklist() {
		return ""
	}
	lines := []string{RenderCategory("Checklist de verificación")}
	if o.IsOpen() {
		lines = append(lines, WarnStyle.Render(IconWarn+" "+ChecklistWarning))
	}
	t := newTable("#", "Verificación", "Respuesta", "Observaciones")
	for _, item := range o.ChecklistItems {
		desc := item.Description
		if item.GeneratesCorrective {
			desc += " ⚡"
		}
		answer, obs := "", ""
		if r, ok := o.ResponseFor(item.ID); ok {
			answer, obs = r.Answer, r.Observations
		}
		if obs == "" {
			obs = "-"
		}
		t.Row(strconv.Itoa(item.Order), desc, RenderTag(types.TagForAnswer(answer)), obs)
	}
	lines = append(lines, t.String())
	return strings.Join(lines, "\n")
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64) + "h"
}

func timeEntries(o *types.WorkOrder) string {
	title := RenderCategory("Tiempos registrados")
	if len(o.TimeEntries) == 0 {
		return title + "\n" + MutedStyle.Render(NoTimeEntries)
	}
	t := newTable("Técnico", "Inicio", "Fin", "Duración")
	for _, e := range o.TimeEntries {
		tech := e.Technician
		if e.InProgress {
			tech += " " + AccentStyle.Render("En curso")
		}
		t.Row(tech, formatDate(e.Start), formatDate(e.End), hours(e.DurationHours))
	}
	t.Row("Total", "", "", hours(o.TotalHours()))
	return title + "\n" + t.String()
}

func solution(o *types.WorkOrder, full bool) string {
	if o.Status != types.StatusClosed && o.Status != types.StatusPartiallyClosed {
		return ""
	}
	text := o.SolutionDescription
	if text == "" {
		text = NoSolution
	} else {
		text = longText(text, full)
	}
	lines := []string{RenderCategory("Solución"), text}
	if o.RepairHours != nil && *o.RepairHours > 0 {
		lines = append(lines, field("Tiempo de intervención", hours(*o.RepairHours)))
	}
	if o.DowntimeHours != nil && *o.DowntimeHours > 0 {
		lines = append(lines, field("Tiempo de parada", hours(*o.DowntimeHours)))
	}
	if h, ok := types.HoursBetween(o.CreatedAt, o.StartedAt); ok {
		lines = append(lines, field("Tiempo de reacción", hours(h)))
	}
	if h, ok := types.HoursBetween(o.StartedAt, o.EndedAt); ok {
		lines = append(lines, field("Tiempo de reparación", hours(h)))
	}
	return strings.Join(lines, "\n")
}

func euros(s string) string {
	return s + " €"
}

func externalCosts(o *types.WorkOrder) string {
	title := RenderCategory("Costes externos")
	v := ledger.Costs(o)
	if v.Empty() {
		return title + "\n" + MutedStyle.Render(NoExternalCosts)
	}
	headers := []string{"Proveedor", "Descripción", "Coste"}
	if v.CanDelete {
		headers = append([]string{"#"}, headers...)
	}
	t := newTable(headers...)
	for _, r := range v.Rows {
		row := []string{dash(r.Cost.Provider), dash(r.Cost.Description), euros(ledger.Money(r.Amount))}
		if v.CanDelete {
			row = append([]string{strconv.Itoa(r.Index)}, row...)
		}
		t.Row(row...)
	}
	total := []string{"Total", "", euros(ledger.Money(v.Total))}
	if v.CanDelete {
		total = append([]string{""}, total...)
	}
	t.Row(total...)
	return title + "\n" + t.String()
}

func consumption(o *types.WorkOrder) string {
	title := RenderCategory("Recambios consumidos")
	v := ledger.Consumption(o.Consumption)
	if v.Empty() {
		return title + "\n" + MutedStyle.Render(NoConsumption)
	}
	t := newTable("ID", "Recambio", "Cantidad", "Precio unit.", "Total")
	for _, r := range v.Rows {
		price := "-"
		if r.HasPrice {
			price = ledger.Money(r.UnitPrice)
		}
		t.Row(
			strconv.FormatInt(r.Line.ID, 10),
			r.Line.SparePartName,
			strconv.FormatFloat(r.Line.Quantity, 'f', -1, 64),
			euros(price),
			euros(ledger.Money(r.Total)),
		)
	}
	t.Row("", "Total", "", "", euros(ledger.Money(v.Total)))
	return title + "\n" + t.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// actions lists what the user can do next, with the command that does it.
func actions(o *types.WorkOrder, opts DetailOptions) string {
	id := strconv.FormatInt(o.ID, 10)
	var lines []string
	if o.IsOpen() {
		for _, t := range opts.Actions {
			label := t.Action.Label()
			if t.Primary {
				label = AccentStyle.Bold(true).Render("▶ " + label)
			} else {
				label = "  " + label
			}
			lines = append(lines, label+MutedStyle.Render("  ot "+string(t.Action)+" "+id))
		}
		lines = append(lines, "  Editar"+MutedStyle.Render("  ot edit "+id))
	}
	if opts.CanDelete {
		lines = append(lines, "  "+FailStyle.Render("Eliminar")+MutedStyle.Render("  ot delete "+id))
	}
	if len(lines) == 0 {
		return ""
	}
	return RenderCategory("Acciones") + "\n" + strings.Join(lines, "\n")
}
