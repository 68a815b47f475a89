package internal

import (
	"launchpad/internal/controllers"
	"launchpad/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, registrationController *controllers.RegistrationController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/history", http.HandlerFunc(apiController.GetHistory))
	routers.Get("/history/groups", http.HandlerFunc(apiController.GetGroups))
	routers.Post("/foreground", http.HandlerFunc(apiController.Foreground))
	routers.Post("/notifications/open", http.HandlerFunc(apiController.OpenNotification))

	routers.Get("/state", http.HandlerFunc(registrationController.GetState))
	routers.Post("/registration/outcome", http.HandlerFunc(registrationController.ConsumeOutcome))
	routers.Post("/registration/request", http.HandlerFunc(registrationController.RequestRegistration))

	routers.Post("/platform/token", http.HandlerFunc(registrationController.PlatformToken))
	routers.Post("/platform/failure", http.HandlerFunc(registrationController.PlatformFailure))
	routers.Post("/platform/status", http.HandlerFunc(registrationController.PlatformStatus))
	routers.Get("/platform/requests", http.HandlerFunc(registrationController.PlatformRequests))
	return routers
}
