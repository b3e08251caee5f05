package app

import (
	"net/http"

	"github.com/shashiranjanraj/formbus/pkg/metrics"
	"github.com/shashiranjanraj/formbus/pkg/middleware"
	"github.com/shashiranjanraj/formbus/pkg/reqid"
	"github.com/shashiranjanraj/formbus/pkg/router"
)

// buildHandler assembles the global middleware stack and runs the
// application's route callbacks.
func buildHandler(a *Application) http.Handler {
	r := router.New()

	// Outermost to innermost:
	//  1. metrics   — measures total latency
	//  2. recovery  — catches panics before they kill the goroutine
	//  3. request id — inject the id before anything logs
	//  4. logger    — per-request slog with request_id
	//  5. CORS
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	for _, fn := range a.routesFns {
		fn(r)
	}

	return r.Handler()
}
