package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/sixcities/rental-api/internal/api"
	"github.com/sixcities/rental-api/internal/api/handler"
	"github.com/sixcities/rental-api/internal/core/ports"
	"github.com/sixcities/rental-api/internal/core/service"
	"github.com/sixcities/rental-api/internal/infrastructure/config"
	mongodb "github.com/sixcities/rental-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sixcities/rental-api/internal/infrastructure/db/redis"
	"github.com/sixcities/rental-api/internal/infrastructure/queue"
	"github.com/sixcities/rental-api/internal/infrastructure/storage"
	"github.com/sixcities/rental-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Configuration is read from the environment
after loading the optional dotenv files given by --env-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, envFiles)
		},
	}
}

func runServe(ctx context.Context, dotenvFiles []string) error {
	cfg, err := config.Load(ctx, dotenvFiles...)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "load configuration").Wrap(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "sixcities",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting sixcities")

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to mongodb").Wrap(err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return oops.Code("DB_INDEX_FAILED").With("operation", "create mongodb indexes").Wrap(err)
	}

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return oops.Code("CACHE_CONNECT_FAILED").With("operation", "connect to redis").Wrap(err)
	}
	defer redisClient.Close()

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn, logger.Component("token"))
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "create token service").Wrap(err)
	}
	passwords, err := service.NewPasswordService(cfg.Auth.PasswordCost, logger.Component("password"))
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "create password service").Wrap(err)
	}
	throttle := redisdb.NewLoginThrottle(redisClient, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)

	userRepo := mongodb.NewUserRepository(db)
	offerRepo := mongodb.NewOfferRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	users := service.NewUserService(userRepo, passwords, tokens, throttle, logger.Component("users"))
	offers := service.NewOfferService(offerRepo, commentRepo, logger.Component("offers"))

	dispatcher := queue.NewStatsDispatcher(cfg.Stats.Workers, offers, logger.Component("stats"))
	dispatcher.Start(ctx)
	comments := service.NewCommentService(commentRepo, offerRepo, dispatcher, logger.Component("comments"))

	fileStore, staticDir, err := newFileStorage(ctx, cfg.Upload)
	if err != nil {
		return oops.Code("STORAGE_INIT_FAILED").With("driver", cfg.Upload.Driver).Wrap(err)
	}

	router := api.NewRouter(api.Dependencies{
		Users:          users,
		Offers:         offers,
		Comments:       comments,
		Tokens:         tokens,
		UserOwners:     ports.OwnerLookupFunc(users.OwnerOf),
		OfferOwners:    offers,
		Storage:        fileStore,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		StaticDir:      staticDir,
		Health: map[string]handler.Pinger{
			"mongodb": mongodb.Pinger{Client: mongoClient},
			"redis":   redisdb.Pinger{Client: redisClient},
		},
		Log: logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return oops.Code("HTTP_LISTEN_FAILED").With("addr", srv.Addr).Wrap(err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	return shutdown(srv, dispatcher, log)
}

func shutdown(srv *http.Server, dispatcher *queue.StatsDispatcher, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	dispatcher.Wait()
	if err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// newFileStorage picks the avatar store. The returned directory is non-empty
// only for the local driver, whose files the router serves itself.
func newFileStorage(ctx context.Context, cfg config.UploadConfig) (ports.FileStorage, string, error) {
	switch cfg.Driver {
	case config.UploadDriverS3:
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		return s3, "", nil
	default:
		local, err := storage.NewLocal(cfg.Dir)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	}
}
