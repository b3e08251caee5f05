// Package forms registers this application's form definitions. Importing
// the package (blank import from main) is what populates the builder's
// registry, mirroring how listeners self-register at startup.
package forms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/formbus/app/models"
	"github.com/shashiranjanraj/formbus/pkg/database"
	"github.com/shashiranjanraj/formbus/pkg/form"
	"github.com/shashiranjanraj/formbus/pkg/logger"
)

// persistSubmission writes the submitted values to the submissions table.
// Without a database connection (tests, cache-only deployments) it only
// logs, so form processing still completes.
func persistSubmission(ctx context.Context, state *form.State) error {
	formID, _ := state.BuildInfo()["form_id"].(string)
	baseID, _ := state.BaseFormID()

	values, err := json.Marshal(state.Values())
	if err != nil {
		return fmt.Errorf("forms: encode values for %s: %w", formID, err)
	}

	if database.DB == nil {
		logger.WithCtx(ctx).Info("submission received (db disabled)", "form_id", formID)
		return nil
	}

	sub := models.Submission{
		FormID:     formID,
		BaseFormID: baseID,
		BuildID:    state.BuildID(),
		Values:     string(values),
	}
	if err := database.DB.WithContext(ctx).Create(&sub).Error; err != nil {
		return fmt.Errorf("forms: persist submission for %s: %w", formID, err)
	}

	logger.WithCtx(ctx).Info("submission stored", "form_id", formID, "submission_id", sub.ID)
	return nil
}
