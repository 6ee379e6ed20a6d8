package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pitchbridge/internal/http/handlers"
	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/observability"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// Metrics, when set, is recorded per request and served at /metrics.
	Metrics *observability.Metrics

	SessionMiddleware *httpMW.SessionMiddleware

	HealthHandler    *httpH.HealthHandler
	SessionHandler   *httpH.SessionHandler
	FeedHandler      *httpH.FeedHandler
	DirectoryHandler *httpH.DirectoryHandler
	ProfileHandler   *httpH.ProfileHandler
	NDAHandler       *httpH.NDAHandler
	AdminHandler     *httpH.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.SessionMiddleware != nil {
		api.Use(cfg.SessionMiddleware.Load())
	}
	{
		// Session (public)
		if cfg.SessionHandler != nil {
			api.GET("/session", cfg.SessionHandler.Current)
			api.POST("/auth/signup", cfg.SessionHandler.SignUp)
			api.POST("/auth/login", cfg.SessionHandler.Login)
			api.POST("/auth/logout", cfg.SessionHandler.Logout)
		}
	}

	protected := api.Group("/")
	protected.Use(httpMW.RequireSignedIn())
	{
		// Feed
		if cfg.FeedHandler != nil {
			protected.GET("/feed", cfg.FeedHandler.List)
			protected.POST("/ideas", cfg.FeedHandler.Create)
			protected.POST("/ideas/:id/like", cfg.FeedHandler.Like)
		}

		// Directory
		if cfg.DirectoryHandler != nil {
			protected.GET("/investors", cfg.DirectoryHandler.List)
			protected.GET("/investors/preview", cfg.DirectoryHandler.Preview)
			protected.POST("/investors/:id/connect", cfg.DirectoryHandler.Connect)
		}

		// Profile
		if cfg.ProfileHandler != nil {
			protected.GET("/profile/ideas", cfg.ProfileHandler.OwnIdeas)
			protected.GET("/avatars/:id", cfg.ProfileHandler.Avatar)
		}

		// NDA / invest modal
		if cfg.NDAHandler != nil {
			protected.POST("/ideas/:id/access", cfg.NDAHandler.Open)
			protected.POST("/nda/confirm", cfg.NDAHandler.Confirm)
			protected.DELETE("/nda/modal", cfg.NDAHandler.Close)
		}
	}

	admin := api.Group("/admin")
	admin.Use(httpMW.RequireAdmin())
	{
		if cfg.AdminHandler != nil {
			admin.GET("/dashboard", cfg.AdminHandler.Dashboard)
			admin.POST("/investors/:id/approve", cfg.AdminHandler.Approve)
			admin.POST("/investors/:id/deny", cfg.AdminHandler.Deny)
			admin.POST("/connect-requests/:id/schedule", cfg.AdminHandler.Schedule)
		}
	}

	return r
}
