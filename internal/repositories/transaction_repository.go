package repositories

import (
	"errors"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionExists   = errors.New("transaction already exists for this session")
)

type TransactionRepository interface {
	Create(db *gorm.DB, txn *models.Transaction) error
	FindBySessionID(db *gorm.DB, sessionID string) (*models.Transaction, error)
	FindByPaymentIntentID(db *gorm.DB, paymentIntentID string) (*models.Transaction, error)

	// MarkCompleted transitions pending -> completed, recording the payment
	// reference. Returns false when no pending row matched (already
	// terminal or unknown), which callers treat as a safe no-op.
	MarkCompleted(db *gorm.DB, sessionID, paymentIntentID string) (bool, error)

	// MarkCancelled transitions pending -> cancelled.
	MarkCancelled(db *gorm.DB, sessionID string) (bool, error)

	// MarkFailed records a failure reason. Guarded so that a transaction
	// that already owns a submission is never flipped to failed.
	MarkFailed(db *gorm.DB, sessionID, reason string) (bool, error)
	MarkFailedByPaymentIntent(db *gorm.DB, paymentIntentID, reason string) (bool, error)

	// ClaimSubmission is the idempotent materialization step: inside one
	// database transaction it locks the row for the session, returns the
	// already-linked submission if the claim was won earlier, and
	// otherwise inserts sub and sets the back-reference. The bool reports
	// whether sub was inserted by this call.
	ClaimSubmission(db *gorm.DB, sessionID string, sub *models.Submission) (*models.Submission, bool, error)

	// FindUnmaterialized returns completed transactions that still have
	// no submission, for the reconcile sweeper.
	FindUnmaterialized(db *gorm.DB, limit int) ([]models.Transaction, error)
}

type transactionRepository struct{}

func NewTransactionRepository() TransactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(db *gorm.DB, txn *models.Transaction) error {
	if err := db.Create(txn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTransactionExists
		}
		return err
	}
	return nil
}

func (r *transactionRepository) FindBySessionID(db *gorm.DB, sessionID string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := db.First(&txn, "stripe_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindByPaymentIntentID(db *gorm.DB, paymentIntentID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := db.Order("created_at DESC").First(&txn, "stripe_payment_intent_id = ?", paymentIntentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) MarkCompleted(db *gorm.DB, sessionID, paymentIntentID string) (bool, error) {
	updates := map[string]interface{}{"status": models.TransactionStatusCompleted}
	if paymentIntentID != "" {
		updates["stripe_payment_intent_id"] = paymentIntentID
	}

	result := db.Model(&models.Transaction{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, models.TransactionStatusPending).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}

func (r *transactionRepository) MarkCancelled(db *gorm.DB, sessionID string) (bool, error) {
	result := db.Model(&models.Transaction{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, models.TransactionStatusPending).
		Update("status", models.TransactionStatusCancelled)
	return result.RowsAffected > 0, result.Error
}

func (r *transactionRepository) MarkFailed(db *gorm.DB, sessionID, reason string) (bool, error) {
	result := db.Model(&models.Transaction{}).
		Where("stripe_session_id = ? AND submission_id IS NULL AND status IN ?",
			sessionID,
			[]models.TransactionStatus{models.TransactionStatusPending, models.TransactionStatusCompleted}).
		Updates(map[string]interface{}{
			"status":         models.TransactionStatusFailed,
			"failure_reason": reason,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *transactionRepository) MarkFailedByPaymentIntent(db *gorm.DB, paymentIntentID, reason string) (bool, error) {
	result := db.Model(&models.Transaction{}).
		Where("stripe_payment_intent_id = ? AND status = ?", paymentIntentID, models.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":         models.TransactionStatusFailed,
			"failure_reason": reason,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *transactionRepository) ClaimSubmission(db *gorm.DB, sessionID string, sub *models.Submission) (*models.Submission, bool, error) {
	var existing *models.Submission
	created := false

	err := db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&txn, "stripe_session_id = ?", sessionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if txn.SubmissionID != nil {
			// Claim was won by the other producer; hand back its result.
			var won models.Submission
			if err := tx.First(&won, "id = ?", *txn.SubmissionID).Error; err != nil {
				return err
			}
			existing = &won
			return nil
		}

		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", txn.ID).
			Update("submission_id", sub.ID).Error; err != nil {
			return err
		}

		existing = sub
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return existing, created, nil
}

func (r *transactionRepository) FindUnmaterialized(db *gorm.DB, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := db.Where("status = ? AND submission_id IS NULL", models.TransactionStatusCompleted).
		Order("created_at ASC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}
