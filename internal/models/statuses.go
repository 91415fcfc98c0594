package models

type UserStatus string
type UserRole string
type SubmissionStatus string
type TransactionStatus string
type PayoutStatus string
type ReferralCodeStatus string
type ApplicationMode string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleArtist   UserRole = "artist"
	UserRoleReviewer UserRole = "reviewer"
	UserRoleAdmin    UserRole = "admin"

	SubmissionStatusPending    SubmissionStatus = "pending"
	SubmissionStatusInProgress SubmissionStatus = "in-progress"
	SubmissionStatusReviewed   SubmissionStatus = "reviewed"
	SubmissionStatusRejected   SubmissionStatus = "rejected"

	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"

	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusInTransit PayoutStatus = "in-transit"
	PayoutStatusPaid      PayoutStatus = "paid"

	ReferralCodeStatusActive  ReferralCodeStatus = "active"
	ReferralCodeStatusUsed    ReferralCodeStatus = "used"
	ReferralCodeStatusExpired ReferralCodeStatus = "expired"

	ApplicationModeOpen       ApplicationMode = "open"
	ApplicationModeInviteOnly ApplicationMode = "invite-only"
)

// IsTerminal reports whether a transaction status permits no further
// transitions.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// CanAdvanceTo enforces the pending -> in-transit -> paid payout progression.
func (s PayoutStatus) CanAdvanceTo(next PayoutStatus) bool {
	switch s {
	case PayoutStatusPending:
		return next == PayoutStatusInTransit
	case PayoutStatusInTransit:
		return next == PayoutStatusPaid
	default:
		return false
	}
}
