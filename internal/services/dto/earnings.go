package dto

import (
	"time"

	"amplifyd_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type RecordEarningRequest struct {
	ReviewerID string `json:"reviewer_id" validate:"required"`
	ReviewID   string `json:"review_id" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Type       string `json:"type" validate:"omitempty,oneof=review bonus"`
}

type CreatePayoutRequest struct {
	ReviewerID    string   `json:"reviewer_id" validate:"required"`
	AmountInCents int64    `json:"amount_in_cents" validate:"required,gt=0"`
	PaymentMethod string   `json:"payment_method" validate:"required,max=60"`
	ReviewIDs     []string `json:"review_ids" validate:"required,min=1,dive,required"`
}

type AdvancePayoutRequest struct {
	Status string `json:"status" validate:"required,is-payout-status"`
}

// ======================
// Response DTOs
// ======================

type EarningResponse struct {
	Success    bool   `json:"success"`
	EarningsID string `json:"earnings_id"`
	Amount     int64  `json:"amount"`
	ReviewerID string `json:"reviewer_id"`
	ReviewID   string `json:"review_id"`
}

type PayoutResponse struct {
	ID            string              `json:"id"`
	ReviewerID    string              `json:"reviewer_id"`
	Amount        int64               `json:"amount"`
	Status        models.PayoutStatus `json:"status"`
	Date          time.Time           `json:"date"`
	PaymentMethod string              `json:"payment_method"`
	Reviews       []PayoutReviewItem  `json:"reviews"`
}

type PayoutReviewItem struct {
	ReviewID string `json:"review_id"`
	Fee      int64  `json:"fee"`
}

func NewPayoutResponse(p *models.Payout) *PayoutResponse {
	resp := &PayoutResponse{
		ID:            p.ID,
		ReviewerID:    p.ReviewerID,
		Amount:        p.Amount,
		Status:        p.Status,
		Date:          p.Date,
		PaymentMethod: p.PaymentMethod,
	}
	for _, pr := range p.Reviews {
		resp.Reviews = append(resp.Reviews, PayoutReviewItem{ReviewID: pr.ReviewID, Fee: pr.Fee})
	}
	return resp
}
