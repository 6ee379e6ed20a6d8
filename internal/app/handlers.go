package app

import (
	httpH "github.com/yungbote/pitchbridge/internal/http/handlers"
	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

type Middleware struct {
	Session *httpMW.SessionMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Session   *httpH.SessionHandler
	Feed      *httpH.FeedHandler
	Directory *httpH.DirectoryHandler
	Profile   *httpH.ProfileHandler
	NDA       *httpH.NDAHandler
	Admin     *httpH.AdminHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(cfg.BackendMode),
		Session:   httpH.NewSessionHandler(services.Session),
		Feed:      httpH.NewFeedHandler(services.Feed),
		Directory: httpH.NewDirectoryHandler(services.Directory),
		Profile:   httpH.NewProfileHandler(services.Profile, services.Avatar),
		NDA:       httpH.NewNDAHandler(services.NDA),
		Admin:     httpH.NewAdminHandler(services.Admin),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, store session.Store) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Session: httpMW.NewSessionMiddleware(log, store, httpMW.SessionConfig{
			TTL:    cfg.SessionTTL,
			Secure: cfg.SessionCookieSecure,
		}),
	}
}
