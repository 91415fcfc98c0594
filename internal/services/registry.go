package services

import (
	"time"

	"amplifyd_backend/internal/config"
	"amplifyd_backend/internal/email"
	"amplifyd_backend/internal/payments"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/storage"
)

// ServiceContainer wires every service with its repositories once at
// startup. Handlers receive the container and pull what they need.
type ServiceContainer struct {
	Auth         AuthService
	Reviewers    ReviewerService
	Uploads      UploadService
	Checkout     CheckoutService
	Webhooks     WebhookService
	Submissions  SubmissionService
	Reviews      ReviewService
	Earnings     EarningsService
	Referrals    ReferralService
	Settings     SettingsService
	Notification NotificationService

	// Repos kept visible for workers and seed routines.
	Repos RepositoryContainer
}

type RepositoryContainer struct {
	Users        repositories.UserRepository
	Reviewers    repositories.ReviewerRepository
	Transactions repositories.TransactionRepository
	Submissions  repositories.SubmissionRepository
	Reviews      repositories.ReviewRepository
	Earnings     repositories.EarningRepository
	Payouts      repositories.PayoutRepository
	Referrals    repositories.ReferralCodeRepository
	Settings     repositories.SettingsRepository
}

func NewServiceContainer(
	cfg *config.Config,
	store storage.Storage,
	emailProvider email.Provider,
	paymentProvider payments.CheckoutProvider,
) *ServiceContainer {
	repos := RepositoryContainer{
		Users:        repositories.NewUserRepository(),
		Reviewers:    repositories.NewReviewerRepository(),
		Transactions: repositories.NewTransactionRepository(),
		Submissions:  repositories.NewSubmissionRepository(),
		Reviews:      repositories.NewReviewRepository(),
		Earnings:     repositories.NewEarningRepository(),
		Payouts:      repositories.NewPayoutRepository(),
		Referrals:    repositories.NewReferralCodeRepository(),
		Settings:     repositories.NewSettingsRepository(),
	}

	notifier := NewNotificationService(emailProvider, repos.Users, cfg.Server.BaseURL)
	submissions := NewSubmissionService(repos.Transactions, repos.Submissions, repos.Reviewers, notifier)
	referrals := NewReferralService(repos.Referrals, cfg.Referral.MaxPerHour, cfg.Referral.MaxPerDay)

	return &ServiceContainer{
		Auth:         NewAuthService(repos.Users, repos.Referrals, repos.Settings, referrals),
		Reviewers:    NewReviewerService(repos.Reviewers, repos.Users),
		Uploads:      NewUploadService(store, time.Duration(cfg.Upload.GrantValidity)*time.Minute),
		Checkout:     NewCheckoutService(paymentProvider, repos.Transactions, repos.Reviewers, submissions, cfg.Stripe.SuccessURL),
		Webhooks:     NewWebhookService(repos.Transactions, submissions),
		Submissions:  submissions,
		Reviews:      NewReviewService(repos.Reviews, repos.Submissions, notifier),
		Earnings:     NewEarningsService(repos.Earnings, repos.Payouts, repos.Reviews, repos.Reviewers),
		Referrals:    referrals,
		Settings:     NewSettingsService(repos.Settings),
		Notification: notifier,
		Repos:        repos,
	}
}
