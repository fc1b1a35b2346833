// Package app bootstraps the ledger core for an embedding caller. There is
// no network or CLI surface here: the presentation layer is an external
// collaborator that receives a wired Core and drives it directly.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/seyilawal/easyremit/internal/config"
	"github.com/seyilawal/easyremit/internal/db"
	"github.com/seyilawal/easyremit/internal/ident"
	"github.com/seyilawal/easyremit/internal/observability"
	"github.com/seyilawal/easyremit/internal/repository"
	"github.com/seyilawal/easyremit/internal/service"
	"github.com/seyilawal/easyremit/internal/session"
	"github.com/seyilawal/easyremit/internal/store"
)

// Core is the assembled ledger: everything the UI collaborator needs.
type Core struct {
	Config         *config.Config
	Logger         *zap.Logger
	Accounts       *repository.AccountRepository
	Transfers      *service.TransferEngine
	Reconciliation *service.ReconciliationService

	pool *pgxpool.Pool
}

// Bootstrap loads configuration, connects to the database, applies
// migrations and wires the core components.
func Bootstrap(ctx context.Context) (*Core, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	observability.Init()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	st := store.New(pool, cfg.StoreMaxAttempts, cfg.StoreRetryBase)
	ids := ident.NewGenerator(cfg.IDSuffixWidth)
	accounts := repository.NewAccountRepository(st, ids, cfg.PIIKey, cfg.PIIIV, cfg.StartingGrant, logger)

	core := &Core{
		Config:         cfg,
		Logger:         logger,
		Accounts:       accounts,
		Transfers:      service.NewTransferEngine(st, logger),
		Reconciliation: service.NewReconciliationService(st, logger),
		pool:           pool,
	}
	logger.Info("ledger core ready")
	return core, nil
}

// NewSession returns a fresh session context for one caller. Each UI
// collaborator owns its own context; the core never shares one across
// callers.
func (c *Core) NewSession() *session.Context {
	return session.NewContext()
}

// Close releases the database pool and flushes the logger.
func (c *Core) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
