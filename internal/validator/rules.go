package validator

import (
	"log"

	"amplifyd_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the domain validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-payout-status", validatePayoutStatus)
	mustRegister("is-application-mode", validateApplicationMode)
	mustRegister("is-review-format", validateReviewFormat)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // emptiness is for 'required'
	}

	switch models.UserRole(value) {
	case models.UserRoleArtist, models.UserRoleReviewer, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validatePayoutStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	switch models.PayoutStatus(value) {
	case models.PayoutStatusPending, models.PayoutStatusInTransit, models.PayoutStatusPaid:
		return true
	default:
		return false
	}
}

func validateApplicationMode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	switch models.ApplicationMode(value) {
	case models.ApplicationModeOpen, models.ApplicationModeInviteOnly:
		return true
	default:
		return false
	}
}

func validateReviewFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", models.ReviewFormatWritten, models.ReviewFormatAudio, models.ReviewFormatChart, models.ReviewFormatVideo:
		return true
	default:
		return false
	}
}
