package internal

import (
	"net/http"
	"runboard/internal/controllers"
	"runboard/internal/providers"
)

func InitRoutes(runController *controllers.RunController, leaderboardController *controllers.LeaderboardController,
	accountController *controllers.AccountController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/run/start", http.HandlerFunc(runController.Start))
	routers.Post("/run/event", http.HandlerFunc(runController.Event))
	routers.Post("/run/tick", http.HandlerFunc(runController.Tick))
	routers.Post("/run/stage/complete", http.HandlerFunc(runController.CompleteStage))
	routers.Post("/run/finish", http.HandlerFunc(runController.Finish))
	routers.Get("/run/state", http.HandlerFunc(runController.State))

	routers.Get("/leaderboard/bounty", http.HandlerFunc(leaderboardController.Bounty))
	routers.Get("/leaderboard/speedrun", http.HandlerFunc(leaderboardController.SpeedRun))
	routers.Get("/settings", http.HandlerFunc(leaderboardController.GetSettings))
	routers.Post("/settings", http.HandlerFunc(leaderboardController.UpdateSettings))

	routers.Get("/snapshot", http.HandlerFunc(accountController.Snapshot))
	routers.Post("/snapshot/proof", http.HandlerFunc(accountController.EditProof))
	routers.Post("/snapshot/proof/confirm", http.HandlerFunc(accountController.ConfirmProof))
	routers.Get("/account", http.HandlerFunc(accountController.Account))
	routers.Post("/account/appeal", http.HandlerFunc(accountController.Appeal))
	return routers
}
