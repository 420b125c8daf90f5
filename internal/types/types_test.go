package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStatusFlowIndex(t *testing.T) {
	tests := []struct {
		status Status
		want   int
	}{
		{StatusPending, 0},
		{StatusInProgress, 1},
		{StatusPartiallyClosed, 2},
		{StatusClosed, 3},
		{StatusCancelled, -1},
		{Status("asignada"), -1},
		{Status(""), -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.FlowIndex(); got != tt.want {
				t.Errorf("FlowIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	tests := map[Status]string{
		StatusPending:         "Pendiente",
		StatusInProgress:      "En Curso",
		StatusPartiallyClosed: "Cerrado Parcial",
		StatusClosed:          "Cerrada",
		StatusCancelled:       "Cancelada",
		Status("asignada"):    "asignada",
	}
	for status, want := range tests {
		if got := status.Label(); got != want {
			t.Errorf("%q.Label() = %q, want %q", status, got, want)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusClosed, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusInProgress, StatusPartiallyClosed} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestPriorityIsValid(t *testing.T) {
	for _, p := range Priorities {
		if !p.IsValid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Priority("critica").IsValid() {
		t.Error("unknown priority reported valid")
	}
}

func TestTechnicianFullName(t *testing.T) {
	active := false
	tests := []struct {
		name   string
		tech   Technician
		want   string
		active bool
	}{
		{"with surname", Technician{FirstName: "Ana", Surname: "Ruiz"}, "Ana Ruiz", true},
		{"no surname", Technician{FirstName: "Luis"}, "Luis", true},
		{"inactive", Technician{FirstName: "Eva", Active: &active}, "Eva", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tech.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
			if got := tt.tech.IsActive(); got != tt.active {
				t.Errorf("IsActive() = %v, want %v", got, tt.active)
			}
		})
	}

	tech := Technician{FirstName: "Ana", Surname: "Ruiz"}
	if !tech.Matches("Ana") || !tech.Matches("Ana Ruiz") {
		t.Error("Matches should accept first name and full name")
	}
	if tech.Matches("") || tech.Matches("Ruiz") {
		t.Error("Matches accepted an unrelated name")
	}
}

func TestTagForAnswer(t *testing.T) {
	tests := []struct {
		answer string
		text   string
		tone   Tone
	}{
		{"", "-", ToneMuted},
		{"ok", "✅ OK", ToneSuccess},
		{"nok", "❌ NOK", ToneDanger},
		{"na", "N/A", ToneMuted},
		{"12.5", "12.5", ToneInfo},
	}
	for _, tt := range tests {
		got := TagForAnswer(tt.answer)
		if got.Text != tt.text || got.Tone != tt.tone {
			t.Errorf("TagForAnswer(%q) = %+v, want {%s %s}", tt.answer, got, tt.text, tt.tone)
		}
	}
}

func TestWorkOrderDecode(t *testing.T) {
	payload := `{
		"id": 7,
		"numero": "OT-2024-0007",
		"tipo": "preventivo",
		"prioridad": "alta",
		"estado": "en_curso",
		"titulo": "Revisión bomba",
		"descripcionProblema": null,
		"fechaCreacion": "2024-03-01T08:00:00",
		"fechaInicio": "2024-03-01T10:30:00.123456",
		"fechaFin": null,
		"equipoId": 3,
		"checklistItems": [{"id": 1, "descripcion": "Fugas", "orden": 1, "tipoRespuesta": "ok_nok", "generaCorrectivo": true}],
		"respuestasChecklist": [{"checklistItemId": 1, "respuesta": "nok", "observaciones": "gotea"}],
		"consumos": [{"id": 1, "recambioId": 4, "recambioNombre": "Junta", "cantidad": 2, "precioUnitario": null}]
	}`

	var o WorkOrder
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if o.Status != StatusInProgress || o.Priority != PriorityHigh {
		t.Errorf("status/priority = %s/%s", o.Status, o.Priority)
	}
	if o.ProblemDescription != "" {
		t.Errorf("null description decoded as %q", o.ProblemDescription)
	}
	if o.EndedAt != nil {
		t.Errorf("null end timestamp decoded as %v", o.EndedAt)
	}
	if o.StartedAt == nil || o.StartedAt.Hour() != 10 || o.StartedAt.Minute() != 30 {
		t.Errorf("StartedAt = %v", o.StartedAt)
	}
	if !o.HasChecklist() {
		t.Error("preventive order with items should have a checklist")
	}
	resp, ok := o.ResponseFor(1)
	if !ok || !resp.IsFault() {
		t.Errorf("ResponseFor(1) = %+v, %v", resp, ok)
	}
	if o.Consumption[0].UnitPrice != nil {
		t.Error("null price should decode as nil")
	}
}

func TestHoursBetween(t *testing.T) {
	start, _ := ParseTimestamp("2024-03-01T08:00:00")
	end, _ := ParseTimestamp("2024-03-01T10:30:00")

	h, ok := HoursBetween(&start, &end)
	if !ok || h != 2.5 {
		t.Errorf("HoursBetween = %v, %v; want 2.5, true", h, ok)
	}
	if _, ok := HoursBetween(&end, &start); ok {
		t.Error("negative interval should not be reported")
	}
	if _, ok := HoursBetween(nil, &end); ok {
		t.Error("missing start should not be reported")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2024-05-06T07:08:09"` {
		t.Errorf("Marshal = %s", data)
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for invalid timestamp")
	}
}
