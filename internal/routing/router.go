package routing

import (
	"github.com/futurehomeno/cliffhanger/app"
	cliffConfig "github.com/futurehomeno/cliffhanger/config"
	"github.com/futurehomeno/cliffhanger/lifecycle"
	"github.com/futurehomeno/cliffhanger/router"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/config"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/session"
)

const (
	// ServiceName is the name of the adapter service.
	ServiceName = "vwcarnet"
	// ResourceName is the default source of published messages.
	ResourceName = "vwcarnet"
)

// New returns a new routing table.
func New(
	cfgSrv *config.Service,
	appLifecycle *lifecycle.Lifecycle,
	application app.App,
	sess session.Session,
) []*router.Routing {
	return router.Combine(
		[]*router.Routing{
			cliffConfig.RouteCmdLogSetLevel(ServiceName, cfgSrv.SetLogLevel),
			cliffConfig.RouteCmdConfigSetDuration(ServiceName, "refresh_interval", cfgSrv.SetRefreshInterval),
			cliffConfig.RouteCmdConfigSetDuration(ServiceName, "http_timeout", cfgSrv.SetHTTPTimeout),
			cliffConfig.RouteCmdConfigSetDuration(ServiceName, "command_refresh_delay", cfgSrv.SetCommandRefreshDelay),
			cliffConfig.RouteCmdConfigSetString(ServiceName, "portal_url", cfgSrv.SetPortalURL),
			cliffConfig.RouteCmdConfigSetString(ServiceName, "pin_codes", cfgSrv.SetPinCodes),
		},
		app.RouteApp(ServiceName, appLifecycle, cfgSrv, config.Factory, nil, application),
		[]*router.Routing{
			RouteCmdChannelSet(sess),
			RouteCmdDevicesGetReport(sess),
		},
	)
}
