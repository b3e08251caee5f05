package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import form definitions and migrations so their init() funcs run.
	_ "github.com/shashiranjanraj/formbus/app/forms"
	_ "github.com/shashiranjanraj/formbus/database/migrations"

	"github.com/shashiranjanraj/formbus/app/listeners"
	"github.com/shashiranjanraj/formbus/app/models"
	"github.com/shashiranjanraj/formbus/app/routes"
	"github.com/shashiranjanraj/formbus/pkg/app"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "formbus",
	Short: "formbus — alterable form server",
	Long:  "formbus builds forms, publishes a form_alter event per build, and serves the altered result over HTTP.",
}

// newApp assembles the application every command boots from.
func newApp() *app.Application {
	return app.New().
		Routes(routes.RegisterAPI).
		Listeners(listeners.Register).
		AutoMigrate(&models.Submission{}, &models.AlterAudit{})
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(formsListCmd)
	rootCmd.AddCommand(listenersListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
}
