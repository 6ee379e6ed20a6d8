// Package sqlstore is a self-hosted implementation of the backend contract on
// gorm. It serves the same auth and table surface as the managed service so the
// shell can run against a local postgres or sqlite database.
package sqlstore

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver       string
	DSN          string
	JWTSecretKey string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	// PasswordCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	PasswordCost int
	// Quiet silences gorm's own logger.
	Quiet bool
}

type Store struct {
	db     *gorm.DB
	log    *logger.Logger
	cfg    Config
	tables map[string]*table
}

var _ backend.Client = (*Store)(nil)
var _ backend.Incrementer = (*Store)(nil)

func Open(log *logger.Logger, cfg Config) (*Store, error) {
	serviceLog := log.With("service", "SQLStore")

	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return nil, fmt.Errorf("sqlstore: JWT secret key is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = bcrypt.DefaultCost
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:pitchbridge.db?_foreign_keys=on"
		}
		dialector = sqlite.Open(dsn)
		cfg.Driver = DriverSQLite
	default:
		return nil, fmt.Errorf("sqlstore: unknown driver %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		stdLogger(),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	if cfg.Quiet {
		gormLog = gormLogger.Discard
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		// One writer at a time; an in-memory database also lives and dies with its connection.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	s := &Store{db: db, log: serviceLog, cfg: cfg}
	if err := s.registerTables(); err != nil {
		return nil, err
	}
	serviceLog.Info("SQL backend ready", "driver", cfg.Driver)
	return s, nil
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func stdLogger() *log.Logger {
	return log.New(os.Stdout, "\r\n", log.LstdFlags)
}

var schemaCache sync.Map

func parseSchema(model any) (*schema.Schema, error) {
	return schema.Parse(model, &schemaCache, schema.NamingStrategy{})
}
