// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AllowDemo {
		logger.Warn("demo mode is enabled; sample-data endpoints are mounted")
	}
	if appCfg.CloudinaryCloudName == "" {
		logger.Warn("cloudinary is not configured; video uploads will be rejected")
	}
	return nil
}
