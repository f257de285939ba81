package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/cache"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/config"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/handler"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/hub"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/party"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/registry"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/repository"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/service"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/database"
	pkglog "github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "nuvix-server",
	})
	logger := pkglog.L()

	// Connect to database using GORM
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db,
		&domain.ProfileModel{},
		&domain.FriendshipModel{},
		&domain.DirectMessageModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database migration completed")

	// Repositories
	profileRepo := repository.NewGormProfileRepository(db)
	friendshipRepo := repository.NewGormFriendshipRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	// Redis conversation cache
	convCache, err := cache.NewRedisConversationCache(cfg.Redis, cfg.Cache.Prefix)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer convCache.Close()
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis cache connected")

	// Realtime core
	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	partyStore := party.NewStore()
	coordinator := party.NewCoordinator(partyStore, wsHub)
	onlineRegistry := registry.NewMemoryRegistry()

	// Services
	partySvc := service.NewPartyService(wsHub, coordinator, onlineRegistry)
	dmSvc := service.NewDirectMessageService(wsHub, onlineRegistry, messageRepo, convCache)
	socialSvc := service.NewSocialService(profileRepo, friendshipRepo)
	historySvc := service.NewHistoryService(messageRepo, convCache, cfg.Cache.TTL)

	// Handlers
	wsHandler := handler.NewWSHandler(wsHub, partySvc, dmSvc, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(socialSvc, historySvc)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	wsHandler.RegisterRoutes(r)
	httpHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("nuvix-server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("nuvix-server stopped")
}
