package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

type Params struct {
	fx.In

	Client *unologin.Client
	Config Config
	Log    *zap.Logger `optional:"true"`
}

// ProvideAuthentication wires the HTTP layer from the container's client and
// config.
func ProvideAuthentication(p Params) *Middleware {
	if p.Config.DevBypass && p.Log != nil {
		p.Log.Warn("auth dev bypass enabled; X-Dev-AsuId headers are trusted")
	}
	return New(p.Client, p.Config, p.Log)
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
