package workers

import (
	"context"
	"time"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/services"

	"gorm.io/gorm"
)

// ReferralWorker expires invite codes past their 24h window so lookups
// never have to reason about stale active rows.
type ReferralWorker struct {
	db        *gorm.DB
	referrals services.ReferralService
	interval  time.Duration
}

func NewReferralWorker(db *gorm.DB, referrals services.ReferralService, interval time.Duration) *ReferralWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReferralWorker{db: db, referrals: referrals, interval: interval}
}

// Start blocks until ctx is cancelled; run it in its own goroutine.
func (w *ReferralWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("referral worker started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("referral worker stopped")
			return
		case <-ticker.C:
			if _, err := w.referrals.ExpireStale(ctx, w.db); err != nil {
				logger.WorkerLog("referral", "expire stale codes", err)
			}
		}
	}
}
