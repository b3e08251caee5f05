package models

import "gorm.io/gorm"

// AlterAudit records one form-alter dispatch: which form was altered and
// how many elements it carried after all listeners ran.
type AlterAudit struct {
	gorm.Model
	FormID     string `gorm:"size:128;not null;index" json:"form_id"`
	BaseFormID string `gorm:"size:128"                json:"base_form_id,omitempty"`
	BuildID    string `gorm:"size:64;index"           json:"build_id"`
	Elements   int    `gorm:"not null;default:0"      json:"elements"`
	RequestID  string `gorm:"size:64"                 json:"request_id,omitempty"`
}
