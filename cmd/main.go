package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	contactapp "github.com/muhammadheryan/crm/application/contact"
	statsapp "github.com/muhammadheryan/crm/application/stats"
	userapp "github.com/muhammadheryan/crm/application/user"
	"github.com/muhammadheryan/crm/cmd/config"
	redisclient "github.com/muhammadheryan/crm/cmd/redis"
	_ "github.com/muhammadheryan/crm/docs"
	contactRepo "github.com/muhammadheryan/crm/repository/contact"
	redisRepo "github.com/muhammadheryan/crm/repository/redis"
	txRepo "github.com/muhammadheryan/crm/repository/tx"
	userRepo "github.com/muhammadheryan/crm/repository/user"
	"github.com/muhammadheryan/crm/thirdparty/objectstore"
	"github.com/muhammadheryan/crm/thirdparty/rabbitmq"
	"github.com/muhammadheryan/crm/transport"
	"github.com/muhammadheryan/crm/utils/logger"
	"github.com/muhammadheryan/crm/utils/token"
	"go.uber.org/zap"
)

// @title CRM API
// @version 1.0
// @description Contact tracking API for sales employees and their admins
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment, cfg.Log.File); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}
	defer db.Close()

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Redis only backs login throttling
	if cfg.RedisEnabled() {
		if err := redisclient.New(cfg); err != nil {
			logger.Fatal("err connect redis", zap.Error(err))
		}
		defer func() {
			_ = redisclient.Close()
		}()
	} else {
		logger.Warn("REDIS_HOST is empty, login throttling disabled")
	}

	var store objectstore.ObjectStore
	if cfg.StorageEnabled() {
		s3Store, err := objectstore.NewS3Store(ctx, objectstore.Options{
			Endpoint:  cfg.Storage.S3Endpoint,
			Region:    cfg.Storage.S3Region,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			Bucket:    cfg.Storage.S3Bucket,
		})
		if err != nil {
			logger.Fatal("err init object store", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			logger.Fatal("err ensure bucket", zap.String("bucket", cfg.Storage.S3Bucket), zap.Error(err))
		}
		store = s3Store
	} else {
		logger.Warn("S3_ENDPOINT is empty, profile pictures disabled")
	}

	statsLoc, err := cfg.Stats.Location()
	if err != nil {
		logger.Fatal("err stats timezone", zap.Error(err))
	}

	// Initialize repositories
	UserRepo := userRepo.NewUserRepository(db)
	ContactRepo := contactRepo.NewContactRepository(db)
	TxRepo := txRepo.NewTxRepository(db)
	RedisRepo := redisRepo.NewRepository()

	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)

	// Replaced profile pictures are deleted through a delayed queue
	var userOpts []userapp.Option
	if cfg.RabbitMQEnabled() && store != nil {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
		if err != nil {
			logger.Fatal("err connect rabbitmq publisher", zap.Error(err))
		}
		defer publisher.Close()

		consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password,
			userapp.PictureCleanupHandler(UserRepo, store))
		if err != nil {
			logger.Fatal("err connect rabbitmq consumer", zap.Error(err))
		}
		defer consumer.Close()
		if err := consumer.Start(ctx); err != nil {
			logger.Fatal("err start picture cleanup consumer", zap.Error(err))
		}

		userOpts = append(userOpts, userapp.WithPictureCleanup(publisher))
	} else {
		logger.Warn("RABBITMQ_HOST or storage is not set, replaced profile pictures are kept")
	}

	// Initialize application layers
	UserApp := userapp.NewUserApp(cfg, UserRepo, RedisRepo, tokens, store, userOpts...)
	ContactApp := contactapp.NewContactApp(ContactRepo)
	StatsApp := statsapp.NewStatsApp(TxRepo, UserRepo, ContactRepo, statsLoc)

	httpTransport := transport.NewTransport(UserApp, ContactApp, StatsApp, transport.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
}
