package tracking

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/cherrytrack/internal/config"
)

// Module exposes the tracking client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewKuaidi100Client(
		Credentials{Customer: p.Config.TrackingCustomer, Key: p.Config.TrackingKey},
		Options{
			Endpoint:    p.Config.TrackingEndpoint,
			CarrierCode: p.Config.TrackingCarrierCode,
			CarrierName: p.Config.TrackingCarrierName,
			Timeout:     p.Config.TrackingTimeout,
		},
		p.Logger,
	)
}
