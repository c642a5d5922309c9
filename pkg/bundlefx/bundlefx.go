// bundlefx/bundlefx.go
package bundlefx

import (
	"go.uber.org/fx"

	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/logger"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/metrics"
)

// Module provides the HTTP middleware for apps that build their own router.
// The app supplies *unologin.Client and auth.Config.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
	fx.Invoke(func(a *auth.Middleware) { a.OnOutcome(metrics.ObserveAuthOutcome) }),
)
