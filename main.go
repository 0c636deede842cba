package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/client"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/handler"
	"github.com/stcker/backend/internal/logging"
	"github.com/stcker/backend/internal/ratelimit"
	"github.com/stcker/backend/internal/service"
	"github.com/stcker/backend/internal/session"
	"github.com/stcker/backend/internal/token"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB 연결
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()
	database := db.New(pool)
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	redisClient, err := db.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()
	if cfg.IsTesting() {
		if err := redisClient.FlushAll(ctx).Err(); err != nil {
			return err
		}
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		ActionSecret:  cfg.Auth.ActionSecret,
	})
	if err != nil {
		return err
	}

	// 외부 클라이언트 (Google, S3는 설정이 없으면 비활성화)
	mailer := client.NewLogMailer(logger.Named("mail"))
	slackClient := client.NewSlackClient(cfg.Slack)

	var google service.GoogleAuth
	if googleClient, err := client.NewGoogleClient(ctx, cfg.Google); err != nil {
		logger.Warn("google sign-in disabled", zap.Error(err))
	} else {
		google = googleClient
	}

	var objects service.ObjectStore
	if s3Client, err := client.NewS3Client(ctx, cfg.AWS); err != nil {
		logger.Warn("image storage disabled", zap.Error(err))
	} else {
		objects = s3Client
	}

	var notifier service.Notifier
	if slackClient.IsConfigured() {
		notifier = slackClient
	}

	// 서비스 계층
	authService := service.NewAuthService(database, tokens, mailer, cfg, logger.Named("auth"))
	socialService := service.NewSocialService(database, google, authService)
	userService := service.NewUserService(database, database)
	productService := service.NewProductService(database, objects, logger.Named("product"))
	requestService := service.NewRequestService(database, mailer, notifier, cfg.Mail, logger.Named("request"))
	orderService := service.NewOrderService(database, database, database, mailer, cfg, logger.Named("order"))

	cookies := cfg.Cookies()
	allowedDomain := ""
	if cfg.IsProduction() {
		allowedDomain = cfg.Auth.CookieDomain
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := handler.NewRouter(handler.RouterDeps{
		Logger:         logger,
		Cookies:        cookies,
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedDomain:  allowedDomain,
		TrustedProxies: cfg.TrustedProxies,
		Refresher:      session.NewRefresher(tokens, userService, logger.Named("session")),
		Limiter:        ratelimit.New(redisClient),
		Auth:           handler.NewAuthHandler(authService, cookies),
		Social:         handler.NewSocialHandler(socialService, cookies),
		User:           handler.NewUserHandler(userService),
		Product:        handler.NewProductHandler(productService),
		Request:        handler.NewRequestHandler(requestService),
		Order:          handler.NewOrderHandler(orderService),
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
