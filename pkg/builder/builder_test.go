package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/formbus/pkg/alter"
	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/event"
	"github.com/shashiranjanraj/formbus/pkg/form"
	"github.com/shashiranjanraj/formbus/pkg/formcache"
	"github.com/shashiranjanraj/formbus/pkg/reqid"
)

// newBuilder wires a fresh bus, dispatcher, registry, and cache per test.
func newBuilder(t *testing.T) (*builder.Builder, *event.Bus) {
	t.Helper()

	builder.ResetRegistry()
	formcache.SetStore(formcache.NewMemoryStore())
	t.Cleanup(func() {
		builder.ResetRegistry()
		formcache.SetStore(formcache.NewMemoryStore())
	})

	bus := event.NewBus()
	return builder.New(alter.NewDispatcher(bus)), bus
}

func registerUserForm(submitted *map[string]any) {
	builder.Register(builder.Definition{
		FormID: "user_form",
		Build: func(f *form.Form, _ *form.State, _ ...any) {
			f.Child("name").SetType("textfield").SetTitle("Name").SetRequired(true)
			f.Child("mail").SetType("email").SetTitle("Email address").SetRequired(true)
		},
		Submit: func(_ context.Context, _ *form.Form, state *form.State) error {
			if submitted != nil {
				*submitted = state.Values()
			}
			return nil
		},
	})
}

func TestBuildUnknownForm(t *testing.T) {
	b, _ := newBuilder(t)
	_, _, err := b.Build(context.Background(), "missing_form")
	assert.ErrorIs(t, err, builder.ErrUnknownForm)
}

func TestBuildCarriesRequestID(t *testing.T) {
	b, _ := newBuilder(t)
	registerUserForm(nil)

	ctx := reqid.WithValue(context.Background(), "req-42")
	_, state, err := b.Build(ctx, "user_form")
	require.NoError(t, err)
	assert.Equal(t, "req-42", state.BuildInfo()["request_id"])

	// No request id in context, no build info entry.
	_, state, err = b.Build(context.Background(), "user_form")
	require.NoError(t, err)
	_, present := state.BuildInfo()["request_id"]
	assert.False(t, present)
}

func TestBuildStampsBuildInfoAndDispatchesOnce(t *testing.T) {
	b, bus := newBuilder(t)

	builder.Register(builder.Definition{
		FormID:     "article_node_form",
		BaseFormID: "node_form",
		Build: func(f *form.Form, _ *form.State, _ ...any) {
			f.Child("title").SetType("textfield").SetRequired(true)
		},
	})

	dispatches := 0
	bus.Listen(alter.Channel, 0, func(payload any) error {
		dispatches++
		e := payload.(*alter.Event)
		assert.Equal(t, "article_node_form", e.FormID())
		base, ok := e.BaseFormID()
		assert.True(t, ok)
		assert.Equal(t, "node_form", base)
		return nil
	})

	f, state, err := b.Build(context.Background(), "article_node_form", 42)
	require.NoError(t, err)
	assert.Equal(t, 1, dispatches, "exactly one alter event per build")
	assert.True(t, f.Has("title"))
	assert.Equal(t, "article_node_form", state.BuildInfo()["form_id"])
	assert.NotEmpty(t, state.BuildID())
	assert.Equal(t, []any{42}, state.BuildInfo()["args"])
}

func TestBuildListenerMutationReachesCaller(t *testing.T) {
	b, bus := newBuilder(t)
	registerUserForm(nil)

	bus.Listen(alter.Channel, 100, func(payload any) error {
		e := payload.(*alter.Event)
		if e.FormID() != "user_form" {
			return nil
		}
		e.Form().Child("mi_campo_custom").SetType("textfield").SetTitle("Campo custom")
		return nil
	})

	f, _, err := b.Build(context.Background(), "user_form")
	require.NoError(t, err)
	assert.True(t, f.Has("mi_campo_custom"))
}

func TestBuildListenerErrorFailsBuild(t *testing.T) {
	b, bus := newBuilder(t)
	registerUserForm(nil)

	boom := errors.New("listener blew up")
	bus.Listen(alter.Channel, 0, func(any) error { return boom })

	_, _, err := b.Build(context.Background(), "user_form")
	assert.ErrorIs(t, err, boom)
}

func TestBuildSortsByWeight(t *testing.T) {
	b, bus := newBuilder(t)

	builder.Register(builder.Definition{
		FormID: "weighted_form",
		Build: func(f *form.Form, _ *form.State, _ ...any) {
			f.Child("last").SetWeight(0)
			f.Child("first").SetWeight(0)
		},
	})

	// A listener pushes "last" to the bottom explicitly.
	bus.Listen(alter.Channel, 0, func(payload any) error {
		e := payload.(*alter.Event)
		e.Form().Child("last").SetWeight(10)
		e.Form().Child("first").SetWeight(-10)
		return nil
	})

	f, _, err := b.Build(context.Background(), "weighted_form")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last"}, f.Keys())
}

func TestSubmitRoundTrip(t *testing.T) {
	b, _ := newBuilder(t)

	var got map[string]any
	registerUserForm(&got)

	_, state, err := b.Build(context.Background(), "user_form")
	require.NoError(t, err)

	result, err := b.Submit(context.Background(), "user_form", state.BuildID(), map[string]any{
		"name": "Shashi",
		"mail": "shashi@example.com",
	})
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
	assert.Equal(t, "Shashi", got["name"])

	// The consumed build id cannot be replayed.
	_, err = b.Submit(context.Background(), "user_form", state.BuildID(), map[string]any{
		"name": "Again", "mail": "again@example.com",
	})
	assert.ErrorIs(t, err, builder.ErrNoBuild)
}

func TestSubmitValidationErrors(t *testing.T) {
	b, _ := newBuilder(t)
	registerUserForm(nil)

	_, state, err := b.Build(context.Background(), "user_form")
	require.NoError(t, err)

	result, err := b.Submit(context.Background(), "user_form", state.BuildID(), map[string]any{
		"mail": "not-an-email",
	})
	require.NoError(t, err, "validation failure is not a pipeline error")
	assert.Equal(t, "The Name field is required.", result.Errors()["name"])
	assert.Equal(t, "The Email address must be a valid email address.", result.Errors()["mail"])
}

func TestSubmitUnknownBuildID(t *testing.T) {
	b, _ := newBuilder(t)
	registerUserForm(nil)

	_, err := b.Submit(context.Background(), "user_form", "form-bogus", nil)
	assert.ErrorIs(t, err, builder.ErrNoBuild)
}

func TestSubmitFormMismatch(t *testing.T) {
	b, _ := newBuilder(t)
	registerUserForm(nil)
	builder.Register(builder.Definition{FormID: "other_form"})

	_, state, err := b.Build(context.Background(), "user_form")
	require.NoError(t, err)

	_, err = b.Submit(context.Background(), "other_form", state.BuildID(), nil)
	assert.ErrorIs(t, err, builder.ErrFormMismatch)
}

func TestSubmitCallbackError(t *testing.T) {
	b, _ := newBuilder(t)

	dbDown := errors.New("db down")
	builder.Register(builder.Definition{
		FormID: "fragile_form",
		Build: func(f *form.Form, _ *form.State, _ ...any) {
			f.Child("x").SetType("textfield")
		},
		Submit: func(context.Context, *form.Form, *form.State) error { return dbDown },
	})

	_, state, err := b.Build(context.Background(), "fragile_form")
	require.NoError(t, err)

	_, err = b.Submit(context.Background(), "fragile_form", state.BuildID(), map[string]any{"x": "v"})
	assert.ErrorIs(t, err, dbDown)
}
