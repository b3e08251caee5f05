// Package migrations contains the schema migration files. Each file
// registers itself from init(); cmd/formbus blank-imports this package so
// the registry is populated before any db: command runs.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/formbus/app/models"
	"github.com/shashiranjanraj/formbus/pkg/migration"
)

func init() {
	migration.Register("20260815000000_create_submissions_table", &CreateSubmissionsTable{})
	migration.Register("20260815000001_create_alter_audits_table", &CreateAlterAuditsTable{})
}

type CreateSubmissionsTable struct{}

func (m *CreateSubmissionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Submission{})
}

func (m *CreateSubmissionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("submissions")
}

type CreateAlterAuditsTable struct{}

func (m *CreateAlterAuditsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.AlterAudit{})
}

func (m *CreateAlterAuditsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("alter_audits")
}
