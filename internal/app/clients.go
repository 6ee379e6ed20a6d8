package app

import (
	"fmt"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/backend/rest"
	"github.com/yungbote/pitchbridge/internal/backend/sqlstore"
	"github.com/yungbote/pitchbridge/internal/observability"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

type Clients struct {
	Backend  backend.Client
	Sessions session.Store
	Metrics  *observability.Metrics

	closers []func() error
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.MetricsEnabled {
		out.Metrics = observability.NewMetrics()
	}

	// Backend
	b, err := openBackend(log, cfg)
	if err != nil {
		return Clients{}, err
	}
	out.closers = append(out.closers, b.Close)
	out.Backend = instrumentBackend(b, out.Metrics)

	// Sessions
	if cfg.RedisAddr != "" {
		rs, err := session.NewRedisStore(log, cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init redis session store: %w", err)
		}
		out.closers = append(out.closers, rs.Close)
		out.Sessions = rs
	} else {
		log.Warn("REDIS_ADDR not set; sessions are kept in memory")
		out.Sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	return out, nil
}

func openBackend(log *logger.Logger, cfg Config) (backend.Client, error) {
	switch cfg.BackendMode {
	case BackendREST:
		c, err := rest.New(rest.Config{
			URL:     cfg.SupabaseURL,
			AnonKey: cfg.SupabaseAnonKey,
			Timeout: cfg.BackendTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init rest backend: %w", err)
		}
		log.Info("Using REST backend", "url", cfg.SupabaseURL)
		return c, nil
	case BackendSQL:
		s, err := sqlstore.Open(log, sqlstore.Config{
			Driver:       cfg.DatabaseDriver,
			DSN:          cfg.DatabaseDSN,
			JWTSecretKey: cfg.JWTSecretKey,
			AccessTTL:    cfg.AccessTokenTTL,
			RefreshTTL:   cfg.RefreshTokenTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init sql backend: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.BackendMode)
	}
}

// Close releases clients in reverse order of creation.
func (c *Clients) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}
