package forms

import (
	"context"

	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/form"
)

// article_node_form and page_node_form are two variants of the same content
// form; both declare base_form_id "node_form" so listeners can target the
// whole family at once.

func init() {
	builder.Register(builder.Definition{
		FormID:     "article_node_form",
		BaseFormID: "node_form",
		Build: func(f *form.Form, state *form.State, args ...any) {
			buildNodeForm(f, state, args...)
			f.Child("tags").
				SetType("textfield").
				SetTitle("Tags").
				SetWeight(10)
		},
		Submit: func(ctx context.Context, _ *form.Form, state *form.State) error {
			return persistSubmission(ctx, state)
		},
	})

	builder.Register(builder.Definition{
		FormID:     "page_node_form",
		BaseFormID: "node_form",
		Build:      buildNodeForm,
		Submit: func(ctx context.Context, _ *form.Form, state *form.State) error {
			return persistSubmission(ctx, state)
		},
	})
}

func buildNodeForm(f *form.Form, _ *form.State, _ ...any) {
	f.Child("title").
		SetType("textfield").
		SetTitle("Title").
		SetRequired(true).
		Set("#maxlength", 255)

	f.Child("body").
		SetType("textarea").
		SetTitle("Body")

	f.Child("status").
		SetType("select").
		SetTitle("Status").
		SetDefault("draft").
		Set("#options", []any{"draft", "published"})

	f.Child("actions").Child("submit").
		SetType("submit").
		SetTitle("Save").
		SetWeight(100)
}
