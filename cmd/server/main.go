package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	_ "yoohoo/docs" // swagger docs

	"yoohoo/internal/auth"
	"yoohoo/internal/billing"
	"yoohoo/internal/cache"
	"yoohoo/internal/config"
	"yoohoo/internal/db"
	"yoohoo/internal/featureflags"
	"yoohoo/internal/handler"
	"yoohoo/internal/jobs"
	"yoohoo/internal/logger"
	"yoohoo/internal/model"
	"yoohoo/internal/notify"
	"yoohoo/internal/repository"
	"yoohoo/internal/router"
	"yoohoo/internal/service"
	"yoohoo/internal/storage"
)

// @title yoohoo.guru API
// @version 1.0
// @description Skill-sharing marketplace API: profiles, skill matching, exchanges, compliance, badges, insurance, odd jobs, guru sites and payments.
// @host localhost:3001
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a Firebase ID token.
func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(model.All()...); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unavailable, caching disabled until it recovers", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	exchangeRepo := repository.NewExchangeRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	documentRepo := repository.NewDocumentRepository(gormDB)
	badgeRepo := repository.NewBadgeRepository(gormDB)
	verificationRepo := repository.NewVerificationRepository(gormDB)
	waiverRepo := repository.NewWaiverRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	insuranceRepo := repository.NewInsuranceRepository(gormDB)
	angelRepo := repository.NewAngelRepository(gormDB)
	guruRepo := repository.NewGuruRepository(gormDB)

	// External collaborators
	verifier := newVerifier(ctx, cfg, log)
	gateway := newGateway(cfg, log)
	store := newStore(ctx, cfg, log)
	mailer := newMailer(cfg, log)

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using an ephemeral secret; admin sessions will not survive restarts")
	}
	jwtService := auth.NewJWTService(secret)
	tokenStore := auth.NewTokenStore(cacheClient)
	flags := featureflags.FromEnv(os.Getenv, cfg.Env)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, mailer, log)
	userService := service.NewUserService(userRepo, exchangeRepo, cacheClient)
	skillService := service.NewSkillService(userRepo, cacheClient)
	exchangeService := service.NewExchangeService(exchangeRepo, userRepo, messageRepo, notificationService, cacheClient, log)
	complianceService := service.NewComplianceService(userRepo, documentRepo, badgeRepo, verificationRepo)
	documentService := service.NewDocumentService(documentRepo, store, log)
	badgeService := service.NewBadgeService(badgeRepo, documentRepo)
	liabilityService := service.NewLiabilityService(waiverRepo)
	paymentService := service.NewPaymentService(gateway, userRepo, paymentRepo, exchangeRepo, cfg.StripePublishableKey, service.PriceIDs{
		GuruPass:          cfg.StripeGuruPassPriceID,
		SkillVerification: cfg.StripeSkillVerificationPriceID,
		TrustSafety:       cfg.StripeTrustSafetyPriceID,
	}, log)
	payoutService := service.NewPayoutService(gateway, userRepo, cfg.PublicBaseURL, log)
	webhookService := service.NewWebhookService(cfg.StripeWebhookSecret, userRepo, paymentRepo, exchangeRepo, notificationService, cacheClient, log)
	authService := service.NewAuthService(cfg.AdminKey, jwtService, tokenStore, log)
	adminService := service.NewAdminService(flags, userRepo, exchangeRepo, documentRepo, badgeRepo, log)
	categoryService := service.NewCategoryService(categoryRepo)
	insuranceService := service.NewInsuranceService(insuranceRepo, documentRepo, notificationService, log)
	angelService := service.NewAngelService(angelRepo, userRepo, notificationService, log)
	guruService := service.NewGuruSiteService(guruRepo, log)

	if n, err := categoryService.Seed(ctx); err != nil {
		log.Warn("category seed failed", zap.Error(err))
	} else {
		log.Debug("categories seeded", zap.Int("count", n))
	}

	// Handlers
	handlers := router.Handlers{
		Health: handler.NewHealthHandler(cfg.Env, map[string]handler.HealthCheck{
			"database": sqlDB.PingContext,
			"redis":    cacheClient.Ping,
		}),
		Auth:         handler.NewAuthHandler(userService, verifier),
		Admin:        handler.NewAdminHandler(authService, adminService, cfg.IsProduction()),
		Users:        handler.NewUserHandler(userService),
		Skills:       handler.NewSkillHandler(skillService),
		Exchanges:    handler.NewExchangeHandler(exchangeService),
		Notification: handler.NewNotificationHandler(notificationService),
		Compliance:   handler.NewComplianceHandler(complianceService, documentService, badgeService, liabilityService),
		Payments:     handler.NewPaymentHandler(paymentService, payoutService, webhookService),
		Categories:   handler.NewCategoryHandler(categoryService),
		Insurance:    handler.NewInsuranceHandler(insuranceService),
		Angels:       handler.NewAngelHandler(angelService),
		Gurus:        handler.NewGuruHandler(guruService),
	}

	e := echo.New()
	router.Register(e, cfg, log, router.Security{
		Verifier:   verifier,
		JWT:        jwtService,
		TokenStore: tokenStore,
	}, handlers)

	var scheduler *jobs.Scheduler
	if cfg.JobsEnabled {
		scheduler, err = jobs.New(skillService, exchangeService, insuranceService, guruService, cfg.ExchangePendingTTL, log)
		if err != nil {
			log.Fatal("scheduler init", zap.Error(err))
		}
		scheduler.Start()
	}

	go func() {
		addr := ":" + cfg.Port
		log.Info("server listening",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("swagger", swaggerURL(cfg)),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

// newVerifier returns nil when Firebase is mocked or cannot start outside
// production; every authenticated route then answers 401.
func newVerifier(ctx context.Context, cfg *config.Config, log *zap.Logger) auth.TokenVerifier {
	if cfg.UseMocks == "true" {
		log.Warn("USE_MOCKS=true, Firebase token verification disabled")
		return nil
	}
	v, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		if cfg.IsProduction() {
			log.Fatal("firebase init", zap.Error(err))
		}
		log.Warn("firebase unavailable, authenticated routes disabled", zap.Error(err))
		return nil
	}
	return v
}

func newGateway(cfg *config.Config, log *zap.Logger) billing.Gateway {
	if !cfg.StripeEnabled() {
		log.Warn("STRIPE_SECRET_KEY not set, payment routes will answer 503")
		return nil
	}
	return billing.NewStripeGateway(cfg.StripeSecretKey)
}

func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) storage.DocumentStore {
	if !cfg.StorageEnabled() {
		log.Warn("object storage not configured, document uploads disabled")
		return nil
	}
	s, err := storage.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Error("object storage init failed, document uploads disabled", zap.Error(err))
		return nil
	}
	return s
}

func newMailer(cfg *config.Config, log *zap.Logger) notify.Mailer {
	if !cfg.MailEnabled() {
		return notify.NopMailer{Log: log}
	}
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		log.Warn("invalid SMTP_PORT, falling back to 587", zap.String("port", cfg.SMTPPort))
		port = 587
	}
	return notify.NewSMTPMailer(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderEmail)
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.Port
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
