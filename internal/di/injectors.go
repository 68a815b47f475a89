//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"launchpad/internal"
	"launchpad/internal/backend"
	"launchpad/internal/controllers"
	"launchpad/internal/history"
	"launchpad/internal/providers"
	"launchpad/internal/registration"
	"launchpad/internal/services"
	"launchpad/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewCredentialProvider,
		providers.NewSettingsProvider,

		history.NewZstdCompressor,
		history.NewStore,
		backend.NewClient,
		backend.NewHistoryFetcher,
		backend.NewTokenSubmitter,

		registration.NewBridgePlatform,
		wire.Bind(new(registration.Platform), new(*registration.BridgePlatform)),
		registration.NewTracker,
		wire.Bind(new(registration.TrackerInterface), new(*registration.Tracker)),
		services.NewSyncService,
		wire.Bind(new(services.SyncServiceInterface), new(*services.SyncService)),

		controllers.NewApiController,
		controllers.NewRegistrationController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
