package routes

import (
	"net/http"

	"github.com/shashiranjanraj/formbus/app/controllers"
	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/container"
	"github.com/shashiranjanraj/formbus/pkg/metrics"
	"github.com/shashiranjanraj/formbus/pkg/router"
	"github.com/shashiranjanraj/formbus/pkg/ws"
)

// RegisterAPI mounts the form endpoints, the listener listing, the alter
// event feed and the metrics endpoint.
func RegisterAPI(r *router.Router) {
	formController := controllers.NewFormController(container.Make(container.KeyBuilder).(*builder.Builder))
	feed := container.Make(container.KeyFeed).(*ws.Feed)

	api := r.Group("/api")
	api.Get("/forms", "forms.index", formController.Index)
	api.Get("/forms/{formID}", "forms.show", formController.Show)
	api.Post("/forms/{formID}", "forms.submit", formController.Submit)
	api.Get("/listeners", "listeners.index", formController.Listeners)

	r.Get("/ws/form-events", "ws.form_events", func(w http.ResponseWriter, req *http.Request) {
		feed.Upgrade(w, req)
	})
	r.Get("/metrics", "metrics", metrics.Handler())
}
