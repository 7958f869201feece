package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"trademaster/internal/config"
	cronrunner "trademaster/internal/cron"
	"trademaster/internal/db"
	"trademaster/internal/handler"
	"trademaster/internal/logger"
	gormrepository "trademaster/internal/repository/gorm"
	"trademaster/internal/service"
	"trademaster/internal/store"
)

func main() {
	cfgPath := os.Getenv("TM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TM_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	repo := gormrepository.New(dbConn.Gorm)
	tradeStore := store.New(repo, logger)

	tradeSvc := &service.TradeService{
		Store:    tradeStore,
		Logger:   logger,
		Currency: cfg.App.Currency,
	}
	backupSvc := &service.BackupService{Store: tradeStore, Repo: repo, Logger: logger}
	statsSvc := &service.StatsService{Logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.PopulateDefaults {
		seedIfEmpty(ctx, tradeSvc, logger)
	}

	// The stats cache rides the store subscription; every write triggers a
	// full recompute over the latest collection.
	unsubscribeStats := statsSvc.Start(ctx, tradeStore)
	defer unsubscribeStats()

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(requestLogMiddleware(logger))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	tradeHandler := &handler.TradeHandler{Repo: repo, Service: tradeSvc}
	tradeHandler.Register(engine)
	statsHandler := &handler.StatsHandler{Stats: statsSvc}
	statsHandler.Register(engine)
	backupHandler := &handler.BackupHandler{Backup: backupSvc}
	backupHandler.Register(engine)
	planHandler := &handler.PlanHandler{Repo: repo}
	planHandler.Register(engine)
	streamHandler := &handler.StreamHandler{Store: tradeStore, Logger: logger}
	streamHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err := cronRunner.Add(cfg.Cron.StatsSummary, func(ctx context.Context) {
			snap := statsSvc.Latest()
			if snap == nil {
				return
			}
			logger.Info("stats summary",
				zap.Int("trades", snap.TotalTrades),
				zap.Float64("total_pnl", snap.TotalPnL),
				zap.Float64("win_rate", snap.WinRate),
				zap.Float64("avg_r", snap.AvgR),
			)
		})
		if err != nil {
			logger.Warn("cron register stats summary failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// seedIfEmpty populates a brand-new store with the default trades, the same
// behavior the original UI had on first load against an empty backend.
func seedIfEmpty(ctx context.Context, svc *service.TradeService, logger *zap.Logger) {
	trades, err := svc.Store.Trades(ctx)
	if err != nil {
		logger.Warn("seed check failed", zap.Error(err))
		return
	}
	if len(trades) > 0 {
		return
	}
	if err := svc.ResetToDefaults(ctx); err != nil {
		logger.Warn("seeding defaults failed", zap.Error(err))
		return
	}
	logger.Info("seeded empty store with default trades")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func requestLogMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if strings.HasPrefix(c.Request.URL.Path, "/healthz") {
			return
		}
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
