package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	grpcctx "github.com/dtroode/gatekeeper-server/internal/api/grpc/context"
	"github.com/dtroode/gatekeeper-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/gatekeeper-server/internal/api/grpc/server"
	"github.com/dtroode/gatekeeper-server/internal/config"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/mail"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/password"
	"github.com/dtroode/gatekeeper-server/internal/repository/postgres"
	redisrepo "github.com/dtroode/gatekeeper-server/internal/repository/redis"
	"github.com/dtroode/gatekeeper-server/internal/server"
	"github.com/dtroode/gatekeeper-server/internal/service"
	"github.com/dtroode/gatekeeper-server/internal/storage/minio"
	"github.com/dtroode/gatekeeper-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.ConnectAttempts, cfg.Database.ConnectDelay)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	cache := redisrepo.NewCache(redisClient, "gatekeeper")
	if err := cache.Ping(ctx); err != nil {
		logger.Fatal("failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
	}

	var attachments model.Storage
	if cfg.Storage.Endpoint != "" {
		storageClient, err := minio.New(ctx, minio.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		attachments = storageClient
	} else {
		logger.Warn("attachment storage disabled, MINIO_ENDPOINT is empty")
	}

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	emailJobRepo := postgres.NewEmailJobRepository(db)

	accessTTL, err := token.ParseTTL(cfg.JWT.ExpiresIn)
	if err != nil {
		logger.Fatal("invalid access token lifetime", "error", err)
	}
	refreshTTL, err := token.ParseTTL(cfg.JWT.RefreshExpiresIn)
	if err != nil {
		logger.Fatal("invalid refresh token lifetime", "error", err)
	}
	tokenManager, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.RefreshSecret, accessTTL, refreshTTL)
	if err != nil {
		logger.Fatal("failed to initialize token signer", "error", err)
	}

	ledger, err := service.NewTokenLedger(refreshTokenRepo, token.NewHasher(cfg.Token.HashKey), cfg.JWT.RefreshExpiresIn, logger)
	if err != nil {
		logger.Fatal("failed to initialize token ledger", "error", err)
	}

	passwordHasher, err := password.NewBcrypt(cfg.Password.BcryptCost, cfg.Password.MaxConcurrent)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	queue := mail.NewQueue(emailJobRepo, mail.QueueOptions{
		Attempts:    cfg.MailQueue.Attempts,
		BackoffBase: cfg.MailQueue.BackoffBase,
	}, logger)

	dispatcher := service.NewDispatcher(queue, attachments, service.DispatcherOptions{
		AppName:         cfg.App.Name,
		FrontendURL:     cfg.App.FrontendURL,
		SupportEmail:    cfg.App.SupportEmail,
		DefaultLanguage: cfg.App.DefaultLanguage,
		CodeTTL:         cfg.Security.CodeTTL,
	}, logger)

	authService := service.NewAuth(userRepo, ledger, tokenManager, passwordHasher, cache, dispatcher, service.AuthOptions{
		MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
		LockoutDuration:  cfg.Security.LockoutDuration,
		CodeTTL:          cfg.Security.CodeTTL,
	}, logger)
	userService := service.NewUsers(userRepo, ledger, logger)

	worker, err := newMailWorker(cfg, queue, attachments, logger)
	if err != nil {
		logger.Fatal("failed to initialize mail worker", "error", err)
	}

	ctxMgr := grpcctx.NewManager(cfg.App.DefaultLanguage)
	r := router.New(router.Services{
		Auth:    authService,
		Account: authService,
		Users:   userService,
		Mail:    dispatcher,
		Tokens:  authService,
	}, ctxMgr, logger,
		router.WithReflection(cfg.GRPC.EnableReflection),
		router.WithLanguages("en", "es"),
	)
	grpcServer := grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := worker.Run(ctx); err != nil {
			logger.Error("mail worker stopped", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ledger.RunCleanup(ctx, cfg.Token.CleanupInterval); err != nil {
			logger.Error("token cleanup stopped", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newMailWorker(cfg *config.Config, queue *mail.Queue, attachments model.Storage, logger *logger.Logger) (*mail.Worker, error) {
	templates, err := mail.NewRenderer()
	if err != nil {
		return nil, err
	}

	var sender mail.Sender
	if cfg.SMTP.Enabled() {
		sender, err = mail.NewSMTPSender(mail.SMTPOptions{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("SMTP_HOST is empty, emails will be logged instead of sent")
		sender = mail.NewLogSender(logger)
	}

	metrics, err := mail.NewMetrics(otel.Meter(mail.MeterName))
	if err != nil {
		return nil, err
	}

	return mail.NewWorker(queue, sender, templates, attachments, metrics, mail.WorkerOptions{
		RatePerSecond: cfg.MailQueue.RatePerSecond,
		LeaseTimeout:  cfg.MailQueue.LeaseTimeout,
		PollInterval:  cfg.MailQueue.PollInterval,
	}, logger), nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
