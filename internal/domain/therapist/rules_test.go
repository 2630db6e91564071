package therapist

import (
	"fmt"
	"testing"
	"time"

	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateField_Messages(t *testing.T) {
	rules := NewFieldRules()

	cases := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"empty name", FieldFullName, "", "name is required"},
		{"short name", FieldFullName, "A", "name must be at least 2 characters"},
		{"empty phone", FieldPhone, "", "phone number is required"},
		{"bad email", FieldEmail, "anna@", "email address is not valid"},
		{"short address", FieldAddress, "12", "address must be at least 5 characters"},
		{"empty year", FieldWorkStartYear, "", "work start year is required"},
		{"short year", FieldWorkStartYear, "201", "work start year must be a 4-digit year"},
		{"non-numeric year", FieldWorkStartYear, "20ab", "work start year must be a 4-digit year"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := rules.ValidateField(tc.field, tc.value)
			require.ErrorIs(t, err, apperror.ErrInvalidInput)
			assert.Equal(t, tc.message, apperror.UserMessage(err, ""))
		})
	}
}

func TestValidateField_ValidValues(t *testing.T) {
	rules := NewFieldRules()

	assert.NoError(t, rules.ValidateField(FieldFullName, "Dr. Anna Silva"))
	assert.NoError(t, rules.ValidateField(FieldPhone, "0771234567"))
	assert.NoError(t, rules.ValidateField(FieldEmail, "anna@example.com"))
	assert.NoError(t, rules.ValidateField(FieldAddress, "12 Lake Road, Colombo"))
	assert.NoError(t, rules.ValidateField(FieldWorkStartYear, "2012"))
}

func TestValidateField_YearBoundary(t *testing.T) {
	rules := NewFieldRules()

	current := fmt.Sprintf("%d", time.Now().Year())
	assert.NoError(t, rules.ValidateField(FieldWorkStartYear, current))

	future := fmt.Sprintf("%d", time.Now().Year()+1)
	err := rules.ValidateField(FieldWorkStartYear, future)
	require.Error(t, err)
	assert.Equal(t, "work start year cannot be in the future", apperror.UserMessage(err, ""))
}

func TestValidateField_NICHasNoRules(t *testing.T) {
	rules := NewFieldRules()

	assert.NoError(t, rules.ValidateField(FieldNICNumber, ""))
	assert.NoError(t, rules.ValidateField(FieldNICNumber, "912345678V"))
}

func TestValidateField_UnknownFieldIgnored(t *testing.T) {
	rules := NewFieldRules()
	assert.NoError(t, rules.ValidateField("specialty", "anything"))
}

func TestValidatePatch(t *testing.T) {
	rules := NewFieldRules()

	patch := NewPatch()
	patch.Set(FieldPhone, "0771234567")
	patch.Set(FieldNICNumber, "")
	assert.NoError(t, rules.ValidatePatch(patch))

	patch.Set(FieldEmail, "broken")
	err := rules.ValidatePatch(patch)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
