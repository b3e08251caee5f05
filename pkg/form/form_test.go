package form_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/formbus/pkg/form"
)

func TestSetPreservesInsertionOrder(t *testing.T) {
	f := form.New()
	f.Set("title", "x")
	f.Set("body", "y")
	f.Set("tags", []any{"a", "b"})

	assert.Equal(t, []string{"title", "body", "tags"}, f.Keys())

	// Overwriting keeps the original position.
	f.Set("title", "z")
	assert.Equal(t, []string{"title", "body", "tags"}, f.Keys())
	assert.Equal(t, "z", f.GetString("title"))
}

func TestSharedReference(t *testing.T) {
	f := form.New()
	g := f // second handle to the same form

	g.Set("x", "y")
	assert.Equal(t, "y", f.GetString("x"), "mutation through one handle visible through the other")
}

func TestChildCreatesNestedForm(t *testing.T) {
	f := form.New()
	custom := f.Child("custom_fields")
	require.NotNil(t, custom)
	custom.Set("prioridad", "media")

	// The child stored on the parent is the same instance.
	again := f.Child("custom_fields")
	assert.Equal(t, "media", again.GetString("prioridad"))

	// Child on a scalar key returns nil and leaves the value alone.
	f.Set("plain", "value")
	assert.Nil(t, f.Child("plain"))
	assert.Equal(t, "value", f.GetString("plain"))
}

func TestDelete(t *testing.T) {
	f := form.New()
	f.Set("a", 1)
	f.Set("b", 2)
	f.Set("c", 3)

	f.Delete("b")
	assert.Equal(t, []string{"a", "c"}, f.Keys())
	assert.False(t, f.Has("b"))

	f.Delete("missing") // no-op
	assert.Equal(t, 2, f.Len())
}

func TestElementsSkipProperties(t *testing.T) {
	f := form.New()
	f.SetType("textfield")
	f.SetTitle("Name")
	f.Set("suffix", form.New())

	assert.Equal(t, []string{"suffix"}, f.Elements())
}

func TestWalkDepthFirst(t *testing.T) {
	f := form.New()
	account := f.Child("account")
	account.Child("mail").SetType("email")
	f.Child("actions").Child("submit").SetType("submit")

	var visited []string
	f.Walk(func(key string, _ *form.Form) bool {
		visited = append(visited, key)
		return true
	})

	assert.Equal(t, []string{"account", "mail", "actions", "submit"}, visited)
}

func TestSortByWeight(t *testing.T) {
	f := form.New()
	f.Child("z").SetWeight(10)
	f.Child("a").SetWeight(-5)
	f.Child("m") // no weight: 0

	f.SortByWeight()
	assert.Equal(t, []string{"a", "m", "z"}, f.Keys())
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	f := form.New()
	f.Set("first", "1")
	f.Set("second", "2")
	f.Child("nested").Set("inner", true)
	f.Set("validator", func() {}) // not serialisable, must be skipped

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"first":"1","second":"2","nested":{"inner":true}}`, string(data))

	// Order check: raw bytes, not just JSON equality.
	assert.Equal(t, `{"first":"1","second":"2","nested":{"inner":true}}`, string(data))
}

func TestUnmarshalJSONRoundTrip(t *testing.T) {
	raw := `{"title":{"#type":"textfield","#required":true},"count":3,"tags":["a","b"]}`

	f := form.New()
	require.NoError(t, json.Unmarshal([]byte(raw), f))

	assert.Equal(t, []string{"title", "count", "tags"}, f.Keys())

	title := f.Child("title")
	require.NotNil(t, title)
	assert.Equal(t, "textfield", title.Type())
	assert.True(t, title.Required())
	assert.Equal(t, 3, f.Get("count"))
	assert.Equal(t, []any{"a", "b"}, f.Get("tags"))
}

func TestStateBaseFormID(t *testing.T) {
	s := form.NewState()
	_, ok := s.BaseFormID()
	assert.False(t, ok, "absent key reads as absent")

	s.SetBuildInfo("base_form_id", 42) // wrong type
	_, ok = s.BaseFormID()
	assert.False(t, ok, "non-string value reads as absent")

	s.SetBuildInfo("base_form_id", "node_form")
	id, ok := s.BaseFormID()
	assert.True(t, ok)
	assert.Equal(t, "node_form", id)
}

func TestStateValuesAndErrors(t *testing.T) {
	s := form.NewState()
	s.SetValue("mail", "a@b.co")
	assert.Equal(t, "a@b.co", s.Value("mail"))

	s.SetError("mail", "first")
	s.SetError("mail", "second") // first error per key wins
	assert.Equal(t, "first", s.Errors()["mail"])
	assert.True(t, s.HasErrors())

	assert.False(t, s.Submitted())
	s.MarkSubmitted()
	assert.True(t, s.Submitted())

	s.SetRebuild(true)
	assert.True(t, s.Rebuild())
}
