package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the business domains:
// payments, submissions, reviews, earnings, payouts, referrals, uploads.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound et al)
// into a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists marks a creation blocked by an idempotency or
// uniqueness check.
func ErrAlreadyExists(domain, message string) *AppError {
	return New(CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrFailedPrecondition marks a valid request that the current state
// forbids, e.g. re-reviewing a completed submission or moving a payout
// backwards.
func ErrFailedPrecondition(domain, message string) *AppError {
	return New(CodeFailedPrecondition, domain, message, http.StatusConflict)
}

// ErrInvalidArgument marks malformed or missing input, detected before
// any write.
func ErrInvalidArgument(domain, message string) *AppError {
	return New(CodeValidationFailed, domain, message, http.StatusBadRequest)
}

// ErrLimitExceeded marks a rate-limit rejection.
func ErrLimitExceeded(domain, message string) *AppError {
	return New(CodeLimitExceeded, domain, message, http.StatusTooManyRequests)
}

// ErrExternalService wraps a payment-processor or storage failure.
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// --- Predefined errors ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidWebhookSignature = New(
	CodeUnauthorized,
	"payments",
	"Webhook signature verification failed",
	http.StatusBadRequest,
)

var ErrEarningAlreadyRecorded = New(
	CodeAlreadyExists,
	"earnings",
	"An earning already exists for this review",
	http.StatusConflict,
)

var ErrSubmissionAlreadyReviewed = New(
	CodeFailedPrecondition,
	"reviews",
	"Submission has already been reviewed",
	http.StatusConflict,
)

var ErrReferralCodeInvalid = New(
	CodeValidationFailed,
	"referrals",
	"Referral code is invalid, used or expired",
	http.StatusBadRequest,
)
