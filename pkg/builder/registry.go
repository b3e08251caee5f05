package builder

import (
	"context"
	"sort"
	"sync"

	"github.com/shashiranjanraj/formbus/pkg/form"
)

// BuildFunc populates the base structure of a form. args are the values
// passed to Build by the caller (entity ids and the like).
type BuildFunc func(f *form.Form, state *form.State, args ...any)

// SubmitFunc handles a validated submission.
type SubmitFunc func(ctx context.Context, f *form.Form, state *form.State) error

// Definition describes one form: its identifier, an optional base form id
// shared by structurally related variants, and its build/submit callbacks.
type Definition struct {
	FormID     string
	BaseFormID string
	Build      BuildFunc
	Submit     SubmitFunc
}

// Process-wide definition registry, populated at startup from init()
// functions or the application bootstrap.
var (
	regMu       sync.RWMutex
	definitions = map[string]Definition{}
)

// Register adds def to the registry. Registering the same form id twice
// replaces the earlier definition.
func Register(def Definition) {
	regMu.Lock()
	defer regMu.Unlock()
	definitions[def.FormID] = def
}

// Lookup returns the definition registered under formID.
func Lookup(formID string) (Definition, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	def, ok := definitions[formID]
	return def, ok
}

// FormIDs returns every registered form id, sorted.
func FormIDs() []string {
	regMu.RLock()
	defer regMu.RUnlock()

	ids := make([]string, 0, len(definitions))
	for id := range definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResetRegistry removes every definition (useful in tests).
func ResetRegistry() {
	regMu.Lock()
	defer regMu.Unlock()
	definitions = map[string]Definition{}
}
