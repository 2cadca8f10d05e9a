package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httpadapter "github.com/PabloGalante/tasktalk/internal/adapters/http"
	"github.com/PabloGalante/tasktalk/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/tasktalk/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/tasktalk/internal/adapters/storage/memory"
	sqlstore "github.com/PabloGalante/tasktalk/internal/adapters/storage/sql"
	"github.com/PabloGalante/tasktalk/internal/app/chat"
	"github.com/PabloGalante/tasktalk/internal/app/classifier"
	"github.com/PabloGalante/tasktalk/internal/app/responder"
	"github.com/PabloGalante/tasktalk/internal/config"
	"github.com/PabloGalante/tasktalk/internal/domain"
	"github.com/PabloGalante/tasktalk/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", zap.Error(err))
		}
	}()

	var drafter domain.Drafter
	if cfg.Drafter == config.DrafterVertex {
		logger.Info("using Vertex drafter", zap.String("model", cfg.ModelName))
		drafter, err = llm.NewVertexDrafter(ctx, llm.VertexConfig{
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			Model:     cfg.ModelName,
		})
		if err != nil {
			return fmt.Errorf("initialize Vertex drafter: %w", err)
		}
	}

	metrics := observability.NewMetrics()
	svc := chat.NewService(store, classifier.New(), responder.New(drafter), metrics)
	handler := httpadapter.NewServer(svc, logger, metrics)

	if err := httpadapter.Run(ctx, cfg.Addr(), handler, cfg.ShutdownTimeout, logger); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("application exited cleanly")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageFirestore:
		logger.Info("using Firestore storage", zap.String("project", cfg.GCPProjectID))
		return firestorestore.NewStore(ctx, cfg.GCPProjectID)
	case config.StorageSQLite:
		logger.Info("using SQLite storage")
		return sqlstore.Open(ctx, sqlstore.DialectSQLite, cfg.DatabaseDSN, logger)
	case config.StoragePostgres:
		logger.Info("using PostgreSQL storage")
		return sqlstore.Open(ctx, sqlstore.DialectPostgres, cfg.DatabaseDSN, logger)
	default:
		logger.Info("using in-memory storage")
		return memstore.NewStore(), nil
	}
}
