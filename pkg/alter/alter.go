// Package alter exposes the form build pipeline's alter step as an event.
//
// Instead of one monolithic alter hook, form mutations live in named,
// prioritized listeners on the event bus. The builder calls
// Dispatcher.Dispatch once per build cycle; every listener registered on
// the Channel receives the same Event instance and mutates the form in
// place through Event.Form().
package alter

import (
	"github.com/shashiranjanraj/formbus/pkg/event"
	"github.com/shashiranjanraj/formbus/pkg/form"
)

// Channel is the event name every form-alter listener subscribes to.
const Channel = "form_alter_events.form_alter"

// Event is the payload published for each form build. The form is shared
// by reference: whatever a listener writes through Form() is seen by every
// later listener and by the host that owns the form. The identifiers are
// set at construction and never change.
type Event struct {
	form       *form.Form
	formState  *form.State
	formID     string
	baseFormID string
	hasBaseID  bool
}

// NewEvent constructs an alter event without a base form id. formID must
// be non-empty. Use NewEventWithBase when the form belongs to a family.
func NewEvent(f *form.Form, state *form.State, formID string) *Event {
	return &Event{form: f, formState: state, formID: formID}
}

// NewEventWithBase constructs an alter event carrying a base form id.
func NewEventWithBase(f *form.Form, state *form.State, formID, baseFormID string) *Event {
	return &Event{
		form:       f,
		formState:  state,
		formID:     formID,
		baseFormID: baseFormID,
		hasBaseID:  true,
	}
}

// Form returns the live form reference — never a copy. Mutating the result
// is the mechanism by which listeners communicate changes back to the host.
func (e *Event) Form() *form.Form { return e.form }

// FormState returns the opaque processing-state handle, unchanged.
func (e *Event) FormState() *form.State { return e.formState }

// FormID returns the form identifier.
func (e *Event) FormID() string { return e.formID }

// BaseFormID returns the shared base identifier. ok is false when the form
// has no base id.
func (e *Event) BaseFormID() (string, bool) { return e.baseFormID, e.hasBaseID }

// Dispatcher publishes one alter event per form build on an injected bus.
// Stateless apart from the bus reference.
type Dispatcher struct {
	bus *event.Bus
}

// NewDispatcher creates a Dispatcher publishing on bus.
func NewDispatcher(bus *event.Bus) *Dispatcher {
	return &Dispatcher{bus: bus}
}

// Dispatch derives the base form id from state's build info, constructs
// exactly one Event, and fires it synchronously on the Channel. It returns
// after every registered listener has run; by then f may have been mutated
// in place. A missing or non-string base_form_id is treated as absent,
// never as an error. A listener error is returned unchanged — no retry,
// no masking.
func (d *Dispatcher) Dispatch(f *form.Form, state *form.State, formID string) error {
	var evt *Event
	if baseID, ok := state.BaseFormID(); ok {
		evt = NewEventWithBase(f, state, formID, baseID)
	} else {
		evt = NewEvent(f, state, formID)
	}
	return d.bus.Fire(Channel, evt)
}
