package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/config"
	"github.com/luizfelipehx/vales-analytics/internal/fetcher"
	"github.com/luizfelipehx/vales-analytics/internal/ingest"
	httpadapter "github.com/luizfelipehx/vales-analytics/internal/interfaces/http"
	"github.com/luizfelipehx/vales-analytics/internal/repository"
	"github.com/luizfelipehx/vales-analytics/internal/service"
	"github.com/luizfelipehx/vales-analytics/internal/store"
	"github.com/luizfelipehx/vales-analytics/internal/worker"
	"github.com/luizfelipehx/vales-analytics/pkg/database"
	"github.com/luizfelipehx/vales-analytics/pkg/utils"
)

func main() {
	// Local overrides for development; missing .env is fine.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Vales Analytics",
		zap.Int("port", cfg.Server.Port),
		zap.String("workbook_url", cfg.Workbook.URL))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pipeline := ingest.NewPipeline(ingest.Config{
		SheetNames:    cfg.Ingest.SheetNames,
		SheetKeywords: cfg.Ingest.SheetKeywords,
		SummaryLabels: cfg.Ingest.SummaryLabels,
	}, logger)

	downloader := fetcher.NewDownloader(cfg.Workbook.FetchTimeout, logger)
	archive := repository.NewArchive(db, logger)
	snapshots := store.NewSnapshotStore()

	dashboard := service.NewDashboardService(
		service.Config{
			WorkbookURL:   cfg.Workbook.URL,
			FetchAttempts: cfg.Workbook.FetchAttempts,
		},
		pipeline,
		downloader,
		archive,
		snapshots,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := worker.NewManager(logger)
	if cfg.Refresh.Enabled {
		manager.Register(worker.NewRefreshPoller(dashboard, cfg.Refresh.Interval, logger))
	}
	if err := manager.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}
	defer manager.StopAll()

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, dashboard, logger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited")
}
