package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/handler"
	"github.com/payorbit/wallet-panel-api/internal/middleware"
	"github.com/payorbit/wallet-panel-api/internal/repository"
	"github.com/payorbit/wallet-panel-api/internal/selection"
	"github.com/payorbit/wallet-panel-api/internal/service"
	"github.com/payorbit/wallet-panel-api/internal/session"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
	"github.com/payorbit/wallet-panel-api/pkg/cache"
	"github.com/payorbit/wallet-panel-api/pkg/config"
	"github.com/payorbit/wallet-panel-api/pkg/database"
	"github.com/payorbit/wallet-panel-api/pkg/export"
	"github.com/payorbit/wallet-panel-api/pkg/logger"
	corsmiddleware "github.com/payorbit/wallet-panel-api/pkg/middleware/cors"
	reqidmiddleware "github.com/payorbit/wallet-panel-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	store := tokenstore.NewRedisStore(redisClient)
	resolver := session.NewResolver(cfg.JWT.Secret)

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logr, metrics.ObserveUpstreamRequest)

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.BalanceTTL, logr, cfg.Cache.Enabled)

	coordinator := selection.NewCoordinator(cacheRepo, cfg.Session.SelectionTTL)

	var auditRepo *repository.AuditRepository
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		auditRepo = repository.NewAuditRepository(db)
	}

	authSvc := service.NewAuthService(client, store, resolver, logr, cfg.Session.TTL)
	walletSvc := service.NewWalletService(client, cacheSvc, logr)
	partySvc := service.NewPartyService(client, logr)
	selectionSvc := service.NewSelectionService(coordinator, partySvc, logr)
	dashboardSvc := service.NewDashboardService(walletSvc, partySvc, logr)
	fundRequestSvc := service.NewFundRequestService(client, logr)

	var recorder service.AuditRecorder
	if auditRepo != nil {
		recorder = auditRepo
	}
	mutationSvc := service.NewMutationService(client, walletSvc, selectionSvc, recorder, logr)

	respond := handler.NewResponder(store, logr)
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, respond),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc, respond),
		Party:       handler.NewPartyHandler(partySvc, selectionSvc, respond),
		Mutation:    handler.NewMutationHandler(mutationSvc, respond),
		FundRequest: handler.NewFundRequestHandler(fundRequestSvc, respond),
	}
	if cfg.Export.Enabled {
		handlers.Wallet = handler.NewWalletHandler(walletSvc, export.NewCSVExporter(), export.NewPDFExporter(), respond)
	} else {
		handlers.Wallet = handler.NewWalletHandler(walletSvc, nil, nil, respond)
	}
	if auditRepo != nil {
		handlers.Audit = handler.NewAuditHandler(auditRepo, respond)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler.Register(r, cfg.APIPrefix, handlers, store, resolver, logr)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
