// Package builder runs the two halves of a form cycle. Build constructs a
// form from its registered definition, dispatches the alter event so
// listeners can mutate it, and caches the result under a build id. Submit
// restores the cached form, validates the submitted values against it, and
// hands off to the definition's submit callback.
package builder

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/formbus/config"
	"github.com/shashiranjanraj/formbus/pkg/alter"
	"github.com/shashiranjanraj/formbus/pkg/form"
	"github.com/shashiranjanraj/formbus/pkg/formcache"
	"github.com/shashiranjanraj/formbus/pkg/logger"
	"github.com/shashiranjanraj/formbus/pkg/metrics"
	"github.com/shashiranjanraj/formbus/pkg/reqid"
)

var (
	// ErrUnknownForm means no definition is registered under the form id.
	ErrUnknownForm = errors.New("builder: unknown form id")
	// ErrNoBuild means the build id has no cached form (expired or bogus).
	ErrNoBuild = errors.New("builder: no cached build for id")
	// ErrFormMismatch means the build id belongs to a different form.
	ErrFormMismatch = errors.New("builder: build id belongs to another form")
)

// Builder drives form builds and submissions through an injected alter
// dispatcher. Stateless apart from the dispatcher reference.
type Builder struct {
	dispatcher *alter.Dispatcher
}

// New creates a Builder dispatching alter events through d.
func New(d *alter.Dispatcher) *Builder {
	return &Builder{dispatcher: d}
}

// Build constructs the form registered under formID: runs its build
// callback, stamps build info, dispatches the alter event exactly once,
// orders elements by weight, and caches the result. The returned form has
// already been altered.
func (b *Builder) Build(ctx context.Context, formID string, args ...any) (*form.Form, *form.State, error) {
	def, ok := Lookup(formID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}

	f := form.New()
	state := form.NewState()
	buildID := newBuildID()

	state.SetBuildInfo("form_id", formID)
	state.SetBuildInfo("form_build_id", buildID)
	if def.BaseFormID != "" {
		state.SetBuildInfo("base_form_id", def.BaseFormID)
	}
	if len(args) > 0 {
		state.SetBuildInfo("args", args)
	}
	// Carry the request id so the audit trail can tie a dispatch back to
	// the request that triggered it.
	if rid := reqid.FromCtx(ctx); rid != "" {
		state.SetBuildInfo("request_id", rid)
	}

	if def.Build != nil {
		def.Build(f, state, args...)
	}

	start := time.Now()
	err := b.dispatcher.Dispatch(f, state, formID)
	metrics.ObserveDispatch(formID, start, err)
	if err != nil {
		return nil, nil, fmt.Errorf("builder: alter dispatch for %q: %w", formID, err)
	}

	// Listeners may have assigned weights.
	f.SortByWeight()

	baseID, _ := state.BaseFormID()
	if err := formcache.Put(ctx, buildID, &formcache.Snapshot{
		FormID:     formID,
		BaseFormID: baseID,
		Form:       f,
		BuiltAt:    time.Now(),
	}); err != nil {
		// The form is still usable this request; only resubmission suffers.
		logger.WithCtx(ctx).Warn("builder: cache built form", "form_id", formID, "error", err)
	}

	metrics.FormsBuilt.WithLabelValues(formID).Inc()
	return f, state, nil
}

// Submit restores the form cached under buildID, validates values against
// its elements, and runs the definition's submit callback. A state with
// recorded errors (and a nil error) means validation failed; the caller
// renders state.Errors() back to the user.
func (b *Builder) Submit(ctx context.Context, formID, buildID string, values map[string]any) (*form.State, error) {
	driver := config.FormCacheDriver()

	snap, ok := formcache.Get(ctx, buildID)
	if !ok {
		metrics.CacheMisses.WithLabelValues(driver).Inc()
		return nil, fmt.Errorf("%w: %q", ErrNoBuild, buildID)
	}
	metrics.CacheHits.WithLabelValues(driver).Inc()

	if snap.FormID != formID {
		return nil, fmt.Errorf("%w: build %q is for %q", ErrFormMismatch, buildID, snap.FormID)
	}

	def, ok := Lookup(formID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}

	state := form.NewState()
	state.SetBuildInfo("form_id", formID)
	state.SetBuildInfo("form_build_id", buildID)
	if snap.BaseFormID != "" {
		state.SetBuildInfo("base_form_id", snap.BaseFormID)
	}
	for key, value := range values {
		state.SetValue(key, value)
	}
	state.MarkSubmitted()

	ValidateForm(snap.Form, state)
	if state.HasErrors() {
		metrics.SubmissionsProcessed.WithLabelValues(formID, "invalid").Inc()
		return state, nil
	}

	if def.Submit != nil {
		if err := def.Submit(ctx, snap.Form, state); err != nil {
			metrics.SubmissionsProcessed.WithLabelValues(formID, "error").Inc()
			return state, fmt.Errorf("builder: submit %q: %w", formID, err)
		}
	}

	// One-shot builds: a consumed build id cannot be replayed.
	if !state.Rebuild() {
		_ = formcache.Delete(ctx, buildID)
	}

	metrics.SubmissionsProcessed.WithLabelValues(formID, "ok").Inc()
	return state, nil
}

// newBuildID generates an unguessable build id for one form render.
func newBuildID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "form-" + hex.EncodeToString(b)
}
