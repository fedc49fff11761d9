package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/cherrytrack/internal/config"
)

// Module provides passcode checks and role tokens via fx.
var Module = fx.Options(
	fx.Provide(newPasscodeVerifier),
	fx.Provide(newTokenStrategy),
)

func newPasscodeVerifier() PasscodeVerifier {
	return NewPasscodeMatcher()
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewJWTStrategy(p.Config.TokenSecret, Options{TTL: p.Config.TokenTTL})
}
