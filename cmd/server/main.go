package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/database"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/logging"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/pricesource"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // Sync fails on stderr in some terminals
	zap.ReplaceGlobals(logger)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Connected to database",
		zap.String("path", cfg.Database.Path),
		zap.String("version", version.Version))

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	rules := valuation.Rules{
		FeeRate:      cfg.Rules.FeeRate,
		FeeDiscount:  cfg.Rules.FeeDiscount,
		StockTaxRate: cfg.Rules.StockTaxRate,
		BondTaxRate:  valuation.DefaultBondTaxRate,
	}

	quotes, err := pricesource.NewChainFromNames(
		logger.Named("pricesource"),
		cfg.PriceSource.Sources,
		cfg.PriceSource.Proxies,
		cfg.PriceSource.Timeout,
	)
	if err != nil {
		logger.Fatal("Failed to configure price sources", zap.Error(err))
	}

	// Create services
	settingsService := service.NewSettingsService(db, settingRepo, model.Settings{
		MonthlyDividendGoal: cfg.Portfolio.MonthlyDividendGoal,
		TargetStockFraction: cfg.Portfolio.TargetStockFraction,
	})
	holdingService := service.NewHoldingService(
		db,
		holdingRepo,
		rules,
		quotes,
		cfg.PriceSource.Timeout,
		logger,
	)
	portfolioService := service.NewPortfolioService(
		holdingService,
		settingsService,
	)
	dividendService := service.NewDividendService(
		dividendRepo,
		holdingRepo,
		settingsService,
	)
	snapshotService := service.NewSnapshotService(
		db,
		holdingRepo,
		dividendRepo,
		settingRepo,
		rules,
		logger,
	)
	backupService, err := service.NewBackupService(snapshotService, cfg.Backup, logger.Named("backup"))
	if err != nil {
		logger.Fatal("Failed to configure backups", zap.Error(err))
	}
	systemService := service.NewSystemService(db, backupService.Enabled())

	if err := backupService.Start(); err != nil {
		logger.Fatal("Failed to start backup scheduler", zap.Error(err))
	}
	defer backupService.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Holding:   holdingService,
		Portfolio: portfolioService,
		Settings:  settingsService,
		Dividend:  dividendService,
		Snapshot:  snapshotService,
		Backup:    backupService,
	}, cfg, logger.Named("http"))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("Server exited")
}
