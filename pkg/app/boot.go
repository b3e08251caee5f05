package app

import (
	"fmt"

	"github.com/shashiranjanraj/formbus/config"
	"github.com/shashiranjanraj/formbus/pkg/alter"
	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/container"
	"github.com/shashiranjanraj/formbus/pkg/database"
	"github.com/shashiranjanraj/formbus/pkg/event"
	"github.com/shashiranjanraj/formbus/pkg/formcache"
	"github.com/shashiranjanraj/formbus/pkg/logger"
	"github.com/shashiranjanraj/formbus/pkg/storage"
	"github.com/shashiranjanraj/formbus/pkg/ws"
)

// Boot initialises every subsystem and registers the application's
// listeners. Safe to call once; Serve calls it for you.
func (a *Application) Boot() error {
	if a.booted {
		return nil
	}

	if err := config.Load(); err != nil {
		return fmt.Errorf("app: load config: %w", err)
	}

	// The module works without a database (submissions simply are not
	// persisted), so a connection failure downgrades to a warning.
	if err := database.Connect(); err != nil {
		logger.Warn("app: database unavailable, persistence disabled", "error", err)
	}

	formcache.Connect()
	storage.Connect()
	bindServices()

	bus := container.Make(container.KeyBus).(*event.Bus)
	feed := container.Make(container.KeyFeed).(*ws.Feed)
	go feed.Run()

	for _, fn := range a.listenerFns {
		fn(bus, feed)
	}

	if database.DB != nil && len(a.models) > 0 {
		if err := database.DB.AutoMigrate(a.models...); err != nil {
			return fmt.Errorf("app: auto-migrate: %w", err)
		}
	}

	a.booted = true
	return nil
}

// bindServices registers the shared services in the container. Singletons:
// one bus, one dispatcher, one builder, one feed per process.
func bindServices() {
	container.Singleton(container.KeyBus, func() interface{} {
		return event.Default
	})
	container.Singleton(container.KeyDispatcher, func() interface{} {
		return alter.NewDispatcher(container.Make(container.KeyBus).(*event.Bus))
	})
	container.Singleton(container.KeyBuilder, func() interface{} {
		return builder.New(container.Make(container.KeyDispatcher).(*alter.Dispatcher))
	})
	container.Singleton(container.KeyFeed, func() interface{} {
		return ws.NewFeed()
	})
}
