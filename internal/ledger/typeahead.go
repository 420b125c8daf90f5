package ledger

import (
	"strings"

	"github.com/plantops/ot/internal/types"
)

// MaxSuggestions caps the typeahead list.
const MaxSuggestions = 20

// Suggest filters parts whose name or code contains query, ignoring case
// and surrounding blanks. An empty query suggests nothing.
func Suggest(parts []types.SparePart, query string) []types.SparePart {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []types.SparePart
	for _, p := range parts {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			(p.Code != "" && strings.Contains(strings.ToLower(p.Code), q)) {
			out = append(out, p)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// Typeahead keeps the pre-fetched catalog and the current selection of the
// add-consumption form. Changing the query clears the selection.
type Typeahead struct {
	parts    []types.SparePart
	query    string
	results  []types.SparePart
	selected *types.SparePart
}

// NewTypeahead returns a typeahead over parts.
func NewTypeahead(parts []types.SparePart) *Typeahead {
	return &Typeahead{parts: parts}
}

// SetQuery recomputes the suggestions and drops the selection.
func (t *Typeahead) SetQuery(q string) []types.SparePart {
	t.query = q
	t.selected = nil
	t.results = Suggest(t.parts, q)
	return t.results
}

// Results returns the current suggestions.
func (t *Typeahead) Results() []types.SparePart {
	return t.results
}

// Select picks a part by id among the current suggestions.
func (t *Typeahead) Select(id int64) (types.SparePart, bool) {
	for _, p := range t.results {
		if p.ID == id {
			sel := p
			t.selected = &sel
			t.query = p.Label()
			return p, true
		}
	}
	return types.SparePart{}, false
}

// Selected returns the chosen part, if any.
func (t *Typeahead) Selected() (types.SparePart, bool) {
	if t.selected == nil {
		return types.SparePart{}, false
	}
	return *t.selected, true
}
