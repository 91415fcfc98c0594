package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"omitempty,is-user-role"`
	Status string `json:"status" validate:"omitempty,is-payout-status"`
	Mode   string `json:"mode" validate:"omitempty,is-application-mode"`
	Format string `json:"format" validate:"omitempty,is-review-format"`
}

func TestValidateAcceptsValidInput(t *testing.T) {
	v := New()

	err := v.Validate(&sampleInput{
		Email:  "artist@example.com",
		Role:   "reviewer",
		Status: "in-transit",
		Mode:   "invite-only",
		Format: "written",
	})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&sampleInput{Email: "not-an-email"})
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, ve.Errors, "email")
	assert.Equal(t, "Must be a valid email address", ve.Errors["email"])
}

func TestCustomRulesRejectUnknownValues(t *testing.T) {
	v := New()

	cases := []struct {
		name  string
		input sampleInput
		field string
	}{
		{"role", sampleInput{Email: "a@b.com", Role: "superuser"}, "role"},
		{"payout status", sampleInput{Email: "a@b.com", Status: "refunded"}, "status"},
		{"application mode", sampleInput{Email: "a@b.com", Mode: "closed"}, "mode"},
		{"review format", sampleInput{Email: "a@b.com", Format: "hologram"}, "format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(&tc.input)
			require.Error(t, err)

			ve, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Contains(t, ve.Errors, tc.field)
		})
	}
}

func TestCustomRulesTreatEmptyAsAbsent(t *testing.T) {
	v := New()

	err := v.Validate(&sampleInput{Email: "a@b.com"})
	assert.NoError(t, err)
}
