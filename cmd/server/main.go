// cmd/server is the plain server binary: it boots the application and
// serves HTTP, with no CLI surface. Use cmd/formbus for the full CLI.
package main

import (
	"log"

	_ "github.com/shashiranjanraj/formbus/app/forms"

	"github.com/shashiranjanraj/formbus/app/listeners"
	"github.com/shashiranjanraj/formbus/app/models"
	"github.com/shashiranjanraj/formbus/app/routes"
	"github.com/shashiranjanraj/formbus/pkg/app"
)

func main() {
	err := app.New().
		Routes(routes.RegisterAPI).
		Listeners(listeners.Register).
		AutoMigrate(&models.Submission{}, &models.AlterAudit{}).
		Serve()
	if err != nil {
		log.Fatal(err)
	}
}
