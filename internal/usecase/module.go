package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/cherrytrack/internal/config"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newPasscodes,
	NewAuthUseCase,
	NewOrderUseCase,
)

func newPasscodes(cfg *config.Config) Passcodes {
	return Passcodes{
		model.RoleAdmin:     cfg.AdminPasscode,
		model.RoleLogistics: cfg.LogisticsPasscode,
	}
}
