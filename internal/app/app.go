package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amplifyd_backend/internal/auth"
	"amplifyd_backend/internal/config"
	"amplifyd_backend/internal/email"
	"amplifyd_backend/internal/handlers"
	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/middleware"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/payments"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/routes"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/storage"
	"amplifyd_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Run wires the whole application and blocks until shutdown.
func Run() error {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)

	db, err := OpenDatabase(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" && cfg.Email.SMTPUsername != "" {
		emailProvider = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
	} else {
		logger.Warn("smtp not configured, emails are logged only")
		emailProvider = &email.NoopProvider{}
	}

	var paymentProvider payments.CheckoutProvider
	if cfg.Stripe.SecretKey != "" {
		sp, err := payments.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)
		if err != nil {
			return fmt.Errorf("init stripe: %w", err)
		}
		paymentProvider = sp
	} else {
		logger.Warn("stripe not configured, running payments in demo mode")
	}

	svc := services.NewServiceContainer(cfg, store, emailProvider, paymentProvider)

	if err := seedFirstAdmin(db, svc.Repos.Users); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	router := SetupRouter(cfg, db, svc, store, paymentProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.NewReconcileWorker(db, svc.Repos.Transactions, svc.Submissions, 5*time.Minute).Start(ctx)
	go workers.NewReferralWorker(db, svc.Referrals, 15*time.Minute).Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// OpenDatabase connects with error translation enabled so duplicate-key
// violations surface as gorm.ErrDuplicatedKey.
func OpenDatabase(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// Migrate applies the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.ReviewerProfile{},
		&models.ReviewPackage{},
		&models.Transaction{},
		&models.Submission{},
		&models.Review{},
		&models.Earning{},
		&models.Payout{},
		&models.PayoutReview{},
		&models.ReferralCode{},
		&models.AppSettings{},
	)
}

// SetupRouter builds the gin engine with the full middleware chain and
// every route mounted. Tests call this directly with their own db.
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	svc *services.ServiceContainer,
	store storage.Storage,
	paymentProvider payments.CheckoutProvider,
) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.DB(db),
	)

	h := handlers.NewAppHandlers(cfg, svc, store, paymentProvider)
	routes.RegisterRoutes(r, h, cfg.Storage.Type == "local")
	return r
}

// seedFirstAdmin creates the bootstrap admin account when the users
// table is empty, using ADMIN_EMAIL/ADMIN_PASSWORD from the environment.
func seedFirstAdmin(db *gorm.DB, users repositories.UserRepository) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Warn("no users and no ADMIN_EMAIL/ADMIN_PASSWORD set, skipping admin seed")
		return nil
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := users.Create(db, admin); err != nil {
		return err
	}
	logger.Info("seeded first admin", "email", adminEmail)
	return nil
}
