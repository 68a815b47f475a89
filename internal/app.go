package internal

import (
	"context"
	"fmt"
	"launchpad/internal/controllers"
	"launchpad/internal/history"
	"launchpad/internal/providers"
	"launchpad/internal/registration"
	"launchpad/internal/services"
	"launchpad/internal/structures"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer  *http.Server
	logger     providers.Logger
	compressor history.CompressorInterface
}

func NewApp(
	apiController *controllers.ApiController,
	registrationController *controllers.RegistrationController,
	healthController *controllers.HealthController,
	service services.SyncServiceInterface,
	tracker registration.TrackerInterface,
	store history.StoreInterface,
	compressor history.CompressorInterface,
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) (*App, error) {
	// Inner mux: control surface routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:     logger,
		compressor: compressor,
	}

	alerts, unsubscribe := tracker.Subscribe()
	defer unsubscribe()
	go watchRegistration(alerts, logger)

	tracker.Bootstrap()
	// launch counts as the first foreground transition
	service.Trigger()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	foreground := make(chan os.Signal, 1)
	if len(foregroundSignals) > 0 {
		signal.Notify(foreground, foregroundSignals...)
	}
	defer signal.Stop(foreground)

	var runErr error
loop:
	for {
		select {
		case <-foreground:
			logger.Infof(providers.TypeApp, "Foreground signal received")
			service.Trigger()
		case <-stop:
			logger.Infof(providers.TypeApp, "Shutdown signal received")
			break loop
		case err := <-serverErr:
			runErr = fmt.Errorf("server error: %w", err)
			break loop
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}

	service.Close()
	tracker.Close()
	store.Wait()

	if runErr != nil {
		return nil, runErr
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

// watchRegistration raises the user-facing alert for failed registrations.
func watchRegistration(changes <-chan registration.Change, logger providers.Logger) {
	for change := range changes {
		if change.Alert {
			logger.Errorf(providers.TypeRegistration, "Push registration failed, notifications will not be delivered")
		}
	}
}

// Close releases what the app still holds after it stopped.
func (a *App) Close() {
	a.compressor.Close()
	a.logger.Close()
}
