// Package viewstate holds the client-side state shared by the views: the
// intervention-type cache, the recently-created set and the asset-picker
// snapshot of the order form.
package viewstate

import (
	"sync"
	"time"

	"github.com/plantops/ot/internal/types"
)

// DefaultRecentTTL is how long a newly created order stays highlighted.
const DefaultRecentTTL = 30 * time.Second

// State is the view state of one session. The zero value is not usable;
// call New.
type State struct {
	mu       sync.RWMutex
	types    []types.InterventionType
	snapshot *FormValues

	Recent *RecentSet
}

// New returns an empty State whose recently-created entries expire after ttl.
func New(ttl time.Duration) *State {
	return &State{Recent: NewRecentSet(ttl)}
}

// Init loads the intervention-type catalog.
func (s *State) Init(catalog []types.InterventionType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append([]types.InterventionType(nil), catalog...)
}

// Reset drops every cached value, including any pending asset pick and the
// recently-created set.
func (s *State) Reset() {
	s.mu.Lock()
	s.types = nil
	s.snapshot = nil
	s.mu.Unlock()
	s.Recent.Clear()
}

// Types returns the cached catalog in server order.
func (s *State) Types() []types.InterventionType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.InterventionType(nil), s.types...)
}

// TypeInfo returns the catalog entry for code. Unknown codes get a
// placeholder named after the code with the default icon and color.
func (s *State) TypeInfo(code string) types.InterventionType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.types {
		if t.Code == code {
			return t
		}
	}
	return types.InterventionType{
		Code:  code,
		Name:  code,
		Icon:  types.DefaultTypeIcon,
		Color: types.DefaultTypeColor,
	}
}
