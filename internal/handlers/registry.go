package handlers

import (
	"amplifyd_backend/internal/config"
	"amplifyd_backend/internal/payments"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/storage"
	"amplifyd_backend/internal/validator"
)

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth        *AuthHandler
	Reviewers   *ReviewerHandler
	Uploads     *UploadHandler
	Checkout    *CheckoutHandler
	Webhooks    *WebhookHandler
	Submissions *SubmissionHandler
	Earnings    *EarningsHandler
	Referrals   *ReferralHandler
	Settings    *SettingsHandler
	Files       *FileHandler
}

func NewAppHandlers(
	cfg *config.Config,
	svc *services.ServiceContainer,
	store storage.Storage,
	paymentProvider payments.CheckoutProvider,
) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		Auth:        NewAuthHandler(base, svc.Auth),
		Reviewers:   NewReviewerHandler(base, svc.Reviewers),
		Uploads:     NewUploadHandler(base, svc.Uploads),
		Checkout:    NewCheckoutHandler(base, svc.Checkout),
		Webhooks:    NewWebhookHandler(base, paymentProvider, svc.Webhooks),
		Submissions: NewSubmissionHandler(base, svc.Submissions, svc.Reviews),
		Earnings:    NewEarningsHandler(base, svc.Earnings),
		Referrals:   NewReferralHandler(base, svc.Referrals),
		Settings:    NewSettingsHandler(base, svc.Settings),
		Files:       NewFileHandler(base, store, cfg.Upload.MaxSize),
	}
}
