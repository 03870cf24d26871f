package cmd

import (
	"github.com/futurehomeno/cliffhanger/bootstrap"
	cliffCfg "github.com/futurehomeno/cliffhanger/config"
	"github.com/futurehomeno/cliffhanger/lifecycle"
	"github.com/futurehomeno/cliffhanger/manifest"
	"github.com/futurehomeno/cliffhanger/notification"
	cliffRouter "github.com/futurehomeno/cliffhanger/router"
	"github.com/futurehomeno/cliffhanger/task"
	"github.com/futurehomeno/fimpgo"
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/api"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/app"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/config"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/metrics"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/registry"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/report"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/routing"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/session"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/tasks"
)

// services is a container for services that are common dependencies.
var services = &serviceContainer{}

// serviceContainer is a type representing a dependency injection container to be used during bootstrap of the application.
type serviceContainer struct {
	configService *config.Service
	lifecycle     *lifecycle.Lifecycle
	mqtt          *fimpgo.MqttTransport

	application    app.Application
	manifestLoader manifest.Loader
	transport      api.Transport
	authenticator  api.Authenticator
	securityClient api.SecurityClient
	vehicleClient  api.VehicleClient
	store          registry.Store
	reporter       report.Reporter
	session        session.Session
	metricsServer  *metrics.Server
}

func resetContainer() {
	services = &serviceContainer{}
}

// getConfigService initiates a configuration service and loads the config.
func getConfigService() *config.Service {
	if services.configService == nil {
		workDir := bootstrap.GetConfigurationDirectory()
		cfg := config.New(workDir)
		services.configService = config.NewService(cliffCfg.NewStorage(cfg, workDir))

		err := services.configService.Load()
		if err != nil {
			log.WithError(err).Fatal("failed to load configuration")
		}
	}

	return services.configService
}

// getLifecycle creates or returns existing lifecycle service.
func getLifecycle() *lifecycle.Lifecycle {
	if services.lifecycle == nil {
		services.lifecycle = lifecycle.New()
	}

	return services.lifecycle
}

// getMQTT creates or returns existing MQTT broker service.
func getMQTT(cfg *config.Config) *fimpgo.MqttTransport {
	if services.mqtt == nil {
		services.mqtt = fimpgo.NewMqttTransport(
			cfg.MQTTServerURI,
			cfg.MQTTClientIDPrefix,
			cfg.MQTTUsername,
			cfg.MQTTPassword,
			true,
			1,
			1,
		)
	}

	services.mqtt.SetDefaultSource(routing.ResourceName)

	return services.mqtt
}

// getApplication creates or returns existing application.
func getApplication(cfg *config.Config) app.Application {
	if services.application == nil {
		services.application = app.New(
			getConfigService(),
			getLifecycle(),
			getManifestLoader(),
			getSession(cfg),
		)
	}

	return services.application
}

// getManifestLoader creates or returns existing application manifestLoader.
func getManifestLoader() manifest.Loader {
	if services.manifestLoader == nil {
		services.manifestLoader = manifest.NewLoader(getConfigService().GetWorkDir())
	}

	return services.manifestLoader
}

// getTransport creates or returns existing cookie aware HTTP transport shared by both portals.
func getTransport() api.Transport {
	if services.transport == nil {
		transport, err := api.NewTransport(getConfigService().GetHTTPTimeout)
		if err != nil {
			log.WithError(err).Fatal("failed to create HTTP transport")
		}

		services.transport = transport
	}

	return services.transport
}

// getAuthenticator creates or returns existing portal authenticator.
func getAuthenticator(cfg *config.Config) api.Authenticator {
	if services.authenticator == nil {
		services.authenticator = api.NewAuthenticator(
			getTransport(),
			getConfigService(),
			notification.NewNotification(getMQTT(cfg)),
			getMQTT(cfg),
			routing.ServiceName,
		)
	}

	return services.authenticator
}

// getSecurityClient creates or returns existing home-security client.
func getSecurityClient() api.SecurityClient {
	if services.securityClient == nil {
		services.securityClient = api.NewSecurityClient(
			getTransport(),
			getConfigService().GetMyPagesURL(),
			api.NewEndpoints(getConfigService().GetAPIServers()),
		)
	}

	return services.securityClient
}

// getVehicleClient creates or returns existing connected-car client.
func getVehicleClient() api.VehicleClient {
	if services.vehicleClient == nil {
		services.vehicleClient = api.NewVehicleClient(getTransport())
	}

	return services.vehicleClient
}

// getStore creates or returns existing device store.
func getStore() registry.Store {
	if services.store == nil {
		services.store = registry.NewStore()
	}

	return services.store
}

// getReporter creates or returns existing FIMP reporter.
func getReporter(cfg *config.Config) report.Reporter {
	if services.reporter == nil {
		services.reporter = report.NewReporter(getMQTT(cfg), routing.ServiceName)
	}

	return services.reporter
}

// getSession creates or returns existing session, with the reporter registered as its first listener.
func getSession(cfg *config.Config) session.Session {
	if services.session == nil {
		services.session = session.New(
			getConfigService(),
			getAuthenticator(cfg),
			getSecurityClient(),
			getVehicleClient(),
			getStore(),
		)

		services.session.RegisterListener(getReporter(cfg))
	}

	return services.session
}

// getMetricsServer creates or returns existing metrics listener.
func getMetricsServer() *metrics.Server {
	if services.metricsServer == nil {
		services.metricsServer = metrics.NewServer(getConfigService().GetMetricsAddress())
	}

	return services.metricsServer
}

// newRouting creates new set of routing.
func newRouting(cfg *config.Config) []*cliffRouter.Routing {
	return routing.New(
		getConfigService(),
		getLifecycle(),
		getApplication(cfg),
		getSession(cfg),
	)
}

// newTasks creates new set of tasks.
func newTasks(cfg *config.Config) []*task.Task {
	return tasks.New(
		getLifecycle(),
		getApplication(cfg),
	)
}
