// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	authfeature "github.com/dalemusser/mentorhub/internal/app/features/auth"
	demofeature "github.com/dalemusser/mentorhub/internal/app/features/demo"
	groupsfeature "github.com/dalemusser/mentorhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/mentorhub/internal/app/features/health"
	notificationsfeature "github.com/dalemusser/mentorhub/internal/app/features/notifications"
	pingfeature "github.com/dalemusser/mentorhub/internal/app/features/ping"
	requestsfeature "github.com/dalemusser/mentorhub/internal/app/features/requests"
	teachersfeature "github.com/dalemusser/mentorhub/internal/app/features/teachers"
	groupstore "github.com/dalemusser/mentorhub/internal/app/store/groups"
	notificationstore "github.com/dalemusser/mentorhub/internal/app/store/notifications"
	requeststore "github.com/dalemusser/mentorhub/internal/app/store/requests"
	userstore "github.com/dalemusser/mentorhub/internal/app/store/users"
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/dalemusser/mentorhub/internal/app/system/media"
	"github.com/dalemusser/mentorhub/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. MentorHub builds the token manager and
// media host, wires the stores and the notifier, and mounts the JSON API
// under /api with the health endpoint alongside.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens := auth.NewTokenManager(appCfg.TokenSecret, appCfg.TokenTTL)

	host, err := media.New(
		appCfg.CloudinaryCloudName,
		appCfg.CloudinaryAPIKey,
		appCfg.CloudinaryAPISecret,
		appCfg.UploadTimeout,
		logger,
	)
	if err != nil {
		logger.Error("media host init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)
	groups := groupstore.New(deps.MongoDatabase)
	notifications := notificationstore.New(deps.MongoDatabase)
	notifier := notify.New(notifications, logger)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(appCfg.CORSAllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Access-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		api.Mount("/ping", pingfeature.Routes(pingfeature.NewHandler(appCfg.PingMessage)))

		authHandler := authfeature.NewHandler(users, tokens, logger)
		api.Mount("/auth", authfeature.Routes(authHandler, tokens))

		teachersHandler := teachersfeature.NewHandler(users, logger)
		api.Mount("/teachers", teachersfeature.Routes(teachersHandler))

		requestsHandler := requestsfeature.NewHandler(requests, users, notifier, logger)
		api.Mount("/requests", requestsfeature.Routes(requestsHandler, tokens))

		groupsHandler := groupsfeature.NewHandler(groups, requests, users, host, notifier, logger)
		api.Mount("/groups", groupsfeature.Routes(groupsHandler, tokens))

		notificationsHandler := notificationsfeature.NewHandler(notifications, logger)
		api.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, tokens))

		if appCfg.AllowDemo {
			demoHandler := demofeature.NewHandler(users, logger)
			api.Mount("/demo", demofeature.Routes(demoHandler))
		}
	})

	return r, nil
}

// splitOrigins turns the comma-separated config value into the slice the
// CORS middleware wants. Blank entries are dropped.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
