package workers

import (
	"context"
	"time"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/services/dto"

	"gorm.io/gorm"
)

const reconcileBatchSize = 50

// ReconcileWorker sweeps completed transactions that still have no
// submission. This recovers payments whose webhook materialization kept
// failing past the processor's retry window.
type ReconcileWorker struct {
	db              *gorm.DB
	transactionRepo repositories.TransactionRepository
	submissions     services.SubmissionService
	interval        time.Duration
}

func NewReconcileWorker(
	db *gorm.DB,
	transactionRepo repositories.TransactionRepository,
	submissions services.SubmissionService,
	interval time.Duration,
) *ReconcileWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ReconcileWorker{
		db:              db,
		transactionRepo: transactionRepo,
		submissions:     submissions,
		interval:        interval,
	}
}

// Start blocks until ctx is cancelled; run it in its own goroutine.
func (w *ReconcileWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("reconcile worker started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ReconcileWorker) sweep(ctx context.Context) {
	txns, err := w.transactionRepo.FindUnmaterialized(w.db, reconcileBatchSize)
	if err != nil {
		logger.WorkerLog("reconcile", "list unmaterialized", err)
		return
	}
	for i := range txns {
		txn := &txns[i]
		meta := dto.SubmissionMetadata{
			ArtistName:   txn.ArtistName,
			SongTitle:    txn.SongTitle,
			ContactEmail: txn.ContactEmail,
			AudioURL:     txn.AudioURL,
			Genre:        txn.Genre,
			ReviewerID:   txn.ReviewerID,
			PackageKey:   txn.PackageKey,
		}
		_, err := w.submissions.MaterializeSubmission(ctx, w.db, meta,
			txn.StripeSessionID, txn.StripePaymentIntentID, txn.Amount, txn.Currency)
		if err != nil {
			logger.WorkerLog("reconcile", "materialize "+txn.StripeSessionID, err)
			continue
		}
		logger.Info("recovered stranded payment", "session_id", txn.StripeSessionID)
	}
}
