// Package app provides the formbus application runner.
//
// A binary describes its application with the builder and then serves it:
//
//	app.New().
//	    Routes(routes.RegisterAPI).
//	    Listeners(listeners.Register).
//	    AutoMigrate(&models.Submission{}).
//	    Serve()
//
// Boot order is fixed: config, database, form cache, storage, container
// bindings, listener registration, auto-migration, routes.
package app

import (
	"net/http"

	"github.com/shashiranjanraj/formbus/internal/server"
	"github.com/shashiranjanraj/formbus/pkg/event"
	"github.com/shashiranjanraj/formbus/pkg/router"
	"github.com/shashiranjanraj/formbus/pkg/ws"
)

// ListenerFunc registers alter listeners against the bus. The feed may be
// used to publish alter activity to WebSocket subscribers.
type ListenerFunc func(bus *event.Bus, feed *ws.Feed)

// Application collects everything a formbus binary contributes: routes,
// listeners and models. Build one with New, then call Serve (or Boot +
// Handler for finer control).
type Application struct {
	routesFns   []func(*router.Router)
	listenerFns []ListenerFunc
	models      []interface{}

	booted bool
}

func New() *Application {
	return &Application{}
}

// Routes registers a route-registration callback, run when the HTTP
// handler is built. Multiple callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Listeners registers alter-listener callbacks, run once during Boot with
// the container's bus and feed.
func (a *Application) Listeners(fns ...ListenerFunc) *Application {
	a.listenerFns = append(a.listenerFns, fns...)
	return a
}

// AutoMigrate adds GORM models migrated on boot when a database is
// configured. Pass model pointers.
func (a *Application) AutoMigrate(models ...interface{}) *Application {
	a.models = append(a.models, models...)
	return a
}

// Handler builds the HTTP handler. Boot must have run first so route
// callbacks can resolve container bindings.
func (a *Application) Handler() http.Handler {
	return buildHandler(a)
}

// Serve boots the application and blocks serving HTTP until shutdown.
func (a *Application) Serve() error {
	if err := a.Boot(); err != nil {
		return err
	}
	return server.Start(a.Handler())
}
