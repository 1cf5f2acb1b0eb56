package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"social-service/internal/auth"
	"social-service/internal/config"
	"social-service/internal/db"
	grpcsvc "social-service/internal/grpc"
	"social-service/internal/handlers"
	"social-service/internal/logger"
	"social-service/internal/metrics"
	"social-service/internal/middleware"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/services"
	"social-service/internal/storage"
	"social-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	defer func() { _ = log.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	avatars, err := storage.NewDiskAvatarStore(cfg.AvatarDir)
	if err != nil {
		log.Fatal("failed to prepare avatar storage", zap.Error(err))
	}

	publisher := rabbitmq.Connect(log, cfg.AMQPURL, cfg.EventsExchange)
	defer publisher.Close()

	auditPublisher := rabbitmq.Connect(log, cfg.AMQPURL, cfg.LogsExchange)
	defer auditPublisher.Close()

	observability.InitMetrics(prometheus.DefaultRegisterer)
	metrics.RegisterSocialMetrics()

	userRepo := repositories.NewUserRepository(database)
	friendshipRepo := repositories.NewFriendshipRepository(database)
	messageRepo := repositories.NewMessageRepository(database)

	accountService := services.NewAccountService(userRepo, auth.NewPasswordHasher(cfg.BcryptCost), cfg.JWTSecret, cfg.JWTTTL, publisher, log)
	userService := services.NewUserService(userRepo, avatars, cfg.AvatarMaxBytes, log)
	friendshipService := services.NewFriendshipService(friendshipRepo, userRepo, publisher, log)
	messageService := services.NewMessageService(messageRepo, friendshipRepo, publisher, log)

	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, cfg.ServiceName, cfg.Environment, log)

	if _, err := grpcsvc.StartGRPCServer(ctx, cfg.GRPCAddr, friendshipService, userService, log); err != nil {
		log.Fatal("failed to start gRPC server", zap.Error(err))
	}

	r := gin.New()
	// in-memory buffering only; UploadProfilePicture caps the body itself
	r.MaxMultipartMemory = cfg.AvatarMaxBytes
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(storage.AvatarURLPrefix, avatars.Dir())

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:        handlers.NewAuthHandler(accountService, auditEmitter, log),
		Users:       handlers.NewUserHandler(userService, log),
		Friendships: handlers.NewFriendshipHandler(friendshipService, auditEmitter, log),
		Messages:    handlers.NewMessageHandler(messageService, auditEmitter, log),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}
