package app

import (
	"github.com/yungbote/pitchbridge/internal/http"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, clients Clients, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           clients.Metrics,
		SessionMiddleware: middleware.Session,
		HealthHandler:     handlers.Health,
		SessionHandler:    handlers.Session,
		FeedHandler:       handlers.Feed,
		DirectoryHandler:  handlers.Directory,
		ProfileHandler:    handlers.Profile,
		NDAHandler:        handlers.NDA,
		AdminHandler:      handlers.Admin,
	})
}
