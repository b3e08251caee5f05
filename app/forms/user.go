package forms

import (
	"context"

	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/form"
)

func init() {
	builder.Register(builder.Definition{
		FormID: "user_form",
		Build:  buildUserForm,
		Submit: func(ctx context.Context, _ *form.Form, state *form.State) error {
			return persistSubmission(ctx, state)
		},
	})
}

func buildUserForm(f *form.Form, _ *form.State, _ ...any) {
	account := f.Child("account")
	account.Child("name").
		SetType("textfield").
		SetTitle("Username").
		SetRequired(true).
		Set("#maxlength", 60)
	account.Child("mail").
		SetType("email").
		SetTitle("Email address").
		SetRequired(true)

	f.Child("picture").
		SetType("file").
		SetTitle("Picture")

	f.Child("actions").Child("submit").
		SetType("submit").
		SetTitle("Save").
		SetWeight(100)
}
