package client

import (
	"fmt"
	"testing"
	"time"

	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *Record {
	return &Record{
		ID:            "b7a9c921-8a3e-4c3e-9b21-0a2c1d3e4f50",
		FullName:      "Dr. Anna Silva",
		Phone:         "0771234567",
		Email:         "anna@example.com",
		Address:       "12 Lake Road, Colombo",
		NICNumber:     "912345678V",
		WorkStartYear: "2012",
		ImagePath:     "/uploads/anna.png",
	}
}

func TestForm_UnchangedFieldIsNotAChange(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleTherapist)

	// Re-entering the identical value marks presence but is not a change.
	require.NoError(t, form.SetField(therapist.FieldPhone, "0771234567"))
	assert.False(t, form.HasChanges())
	assert.Empty(t, form.Changes())

	require.NoError(t, form.SetField(therapist.FieldPhone, "0779999999"))
	assert.True(t, form.HasChanges())
	assert.Equal(t, map[string]string{therapist.FieldPhone: "0779999999"}, form.Changes())
}

func TestForm_ExplicitClearIsCarried(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleTherapist)

	require.NoError(t, form.ClearField(therapist.FieldAddress))

	changes := form.Changes()
	value, carried := changes[therapist.FieldAddress]
	require.True(t, carried)
	assert.Equal(t, "", value)

	// An untouched field must never appear, even though it shares the empty
	// comparison path.
	_, present := changes[therapist.FieldEmail]
	assert.False(t, present)
}

func TestForm_RoleEditability(t *testing.T) {
	record := sampleRecord()

	therapistForm := NewForm(record, auth.RoleTherapist)
	err := therapistForm.SetField(therapist.FieldNICNumber, "000000000V")
	assert.ErrorIs(t, err, apperror.ErrPermission)
	assert.Equal(t, "912345678V", therapistForm.Value(therapist.FieldNICNumber))

	adminForm := NewForm(record, auth.RoleAdmin)
	require.NoError(t, adminForm.SetField(therapist.FieldNICNumber, "000000000V"))

	viewerForm := NewForm(record, "viewer")
	err = viewerForm.SetField(therapist.FieldFullName, "Someone Else")
	assert.ErrorIs(t, err, apperror.ErrPermission)
	err = viewerForm.SetImage(&UploadCandidate{})
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

func TestForm_UnknownField(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleTherapist)
	err := form.SetField("specialty", "cardiology")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestForm_ValidateMessages(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleAdmin)

	require.NoError(t, form.ClearField(therapist.FieldFullName))
	require.NoError(t, form.SetField(therapist.FieldEmail, "not-an-email"))
	require.NoError(t, form.SetField(therapist.FieldWorkStartYear, "20"))

	problems := form.Validate()
	assert.Equal(t, "name is required", problems[therapist.FieldFullName])
	assert.Equal(t, "email address is not valid", problems[therapist.FieldEmail])
	assert.Equal(t, "work start year must be a 4-digit year", problems[therapist.FieldWorkStartYear])
	assert.NotContains(t, problems, therapist.FieldPhone)
	assert.NotContains(t, problems, therapist.FieldAddress)
}

func TestForm_FutureYearRejected(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleTherapist)

	future := fmt.Sprintf("%d", time.Now().Year()+1)
	require.NoError(t, form.SetField(therapist.FieldWorkStartYear, future))

	err := form.ValidateField(therapist.FieldWorkStartYear)
	require.Error(t, err)
	assert.Equal(t, "work start year cannot be in the future", apperror.UserMessage(err, ""))

	current := fmt.Sprintf("%d", time.Now().Year())
	require.NoError(t, form.SetField(therapist.FieldWorkStartYear, current))
	assert.NoError(t, form.ValidateField(therapist.FieldWorkStartYear))
}

func TestForm_ImageCountsAsChange(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleTherapist)
	assert.False(t, form.HasChanges())

	candidate, err := NewUploadCandidate("avatar.png", "image/png", []byte("png"))
	require.NoError(t, err)
	require.NoError(t, form.SetImage(candidate))
	assert.True(t, form.HasChanges())
	assert.Empty(t, form.Changes())

	form.ClearImage()
	assert.False(t, form.HasChanges())
}

func TestForm_ResetSnapshot(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleTherapist)
	require.NoError(t, form.SetField(therapist.FieldPhone, "0770000000"))
	require.True(t, form.HasChanges())

	form.ResetSnapshot()
	assert.False(t, form.HasChanges())
	assert.Equal(t, "0770000000", form.Value(therapist.FieldPhone))

	// Editing again compares against the new snapshot.
	require.NoError(t, form.SetField(therapist.FieldPhone, "0770000000"))
	assert.False(t, form.HasChanges())
}

func TestForm_ApplyRecord(t *testing.T) {
	form := NewForm(sampleRecord(), auth.RoleTherapist)
	require.NoError(t, form.SetField(therapist.FieldFullName, "Dr. A. Silva"))

	updated := sampleRecord()
	updated.FullName = "Dr. Anna B. Silva"
	form.ApplyRecord(updated)

	assert.Equal(t, "Dr. Anna B. Silva", form.Value(therapist.FieldFullName))
	assert.False(t, form.HasChanges())
}
