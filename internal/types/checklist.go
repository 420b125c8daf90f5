package types

// AnswerKind is the declared response kind of a checklist item.
type AnswerKind string

// AnswerKind constants
const (
	AnswerOkNok AnswerKind = "ok_nok" // ok / nok / not applicable
	AnswerValue AnswerKind = "valor"  // numeric with unit
	AnswerText  AnswerKind = "texto"  // free text
)

// Answers for AnswerOkNok items.
const (
	AnswerOK            = "ok"
	AnswerNOK           = "nok"
	AnswerNotApplicable = "na"
)

// ChecklistItem is a verification step of a preventive routine.
type ChecklistItem struct {
	ID                  int64      `json:"id"`
	Description         string     `json:"descripcion"`
	Order               int        `json:"orden"`
	Kind                AnswerKind `json:"tipoRespuesta"`
	Unit                string     `json:"unidad,omitempty"`
	GeneratesCorrective bool       `json:"generaCorrectivo"`
}

// HasObservation reports whether the item collects observations alongside
// the answer. Free-text items use a single field.
func (c ChecklistItem) HasObservation() bool {
	return c.Kind == AnswerOkNok || c.Kind == AnswerValue
}

// ChecklistResponse is the answer recorded for one checklist item.
type ChecklistResponse struct {
	ItemID       int64  `json:"checklistItemId"`
	Answer       string `json:"respuesta"`
	Observations string `json:"observaciones"`
}

// IsFault reports whether the response marks a failed verification.
func (r ChecklistResponse) IsFault() bool {
	return r.Answer == AnswerNOK
}

// ChecklistEntry is an item merged with its saved response, as returned by
// GET /api/orden/{id}/checklist.
type ChecklistEntry struct {
	ChecklistItem
	Answer       *string `json:"respuesta"`
	Observations *string `json:"observaciones"`
}

// Tone classifies how a response tag should be highlighted.
type Tone string

// Tone constants
const (
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
	ToneMuted   Tone = "muted"
	ToneInfo    Tone = "info"
)

// ResponseTag is the display form of a checklist answer.
type ResponseTag struct {
	Text string
	Tone Tone
}

// TagForAnswer maps an answer to its display tag. An empty answer yields
// a muted "-".
func TagForAnswer(answer string) ResponseTag {
	switch answer {
	case "":
		return ResponseTag{Text: "-", Tone: ToneMuted}
	case AnswerOK:
		return ResponseTag{Text: "✅ OK", Tone: ToneSuccess}
	case AnswerNOK:
		return ResponseTag{Text: "❌ NOK", Tone: ToneDanger}
	case AnswerNotApplicable:
		return ResponseTag{Text: "N/A", Tone: ToneMuted}
	}
	return ResponseTag{Text: answer, Tone: ToneInfo}
}
