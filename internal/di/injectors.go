//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"runboard/internal"
	"runboard/internal/controllers"
	"runboard/internal/leaderboard"
	leaderboardInterfaces "runboard/internal/leaderboard/interfaces"
	"runboard/internal/providers"
	"runboard/internal/run"
	"runboard/internal/scheduler"
	"runboard/internal/services"
	"runboard/internal/storage"
	"runboard/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewCodec,
		storage.NewBlobStore,

		run.LoadItemCatalog,
		services.NewRunCore,
		services.NewRunSource,
		services.NewSettingsProvider,
		wire.Bind(new(leaderboardInterfaces.SettingsProviderInterface), new(*services.SettingsProvider)),

		leaderboard.LoadStatTargetTable,
		leaderboard.NewRecordStore,
		leaderboard.NewSnapshotStore,
		leaderboard.NewEngine,
		leaderboard.NewEntryCache,

		services.NewRunSessionService,
		scheduler.NewScheduler,
		controllers.NewRunController,
		controllers.NewLeaderboardController,
		controllers.NewAccountController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
