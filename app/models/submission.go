package models

import "gorm.io/gorm"

// Submission is one processed form submission.
type Submission struct {
	gorm.Model
	FormID     string `gorm:"size:128;not null;index" json:"form_id"`
	BaseFormID string `gorm:"size:128;index"          json:"base_form_id,omitempty"`
	BuildID    string `gorm:"size:64;uniqueIndex"     json:"build_id"`
	Values     string `gorm:"type:text"               json:"values"` // JSON-encoded submitted values
}
