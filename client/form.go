package client

import (
	"fmt"

	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
)

// formFields lists the editable text fields in display order.
var formFields = []string{
	therapist.FieldFullName,
	therapist.FieldPhone,
	therapist.FieldEmail,
	therapist.FieldAddress,
	therapist.FieldNICNumber,
	therapist.FieldWorkStartYear,
}

// Form mirrors a loaded record into editable state and tracks per-field
// dirtiness against the last-synchronized snapshot.
type Form struct {
	rules    *therapist.FieldRules
	editable map[string]bool
	fields   map[string]string
	present  map[string]bool
	snapshot map[string]string
	image    *UploadCandidate
}

// NewForm copies the record into editable defaults and records them as the
// current snapshot. Missing optional values become empty strings and the
// image always starts empty.
func NewForm(record *Record, role string) *Form {
	fields := map[string]string{
		therapist.FieldFullName:      record.FullName,
		therapist.FieldPhone:         record.Phone,
		therapist.FieldEmail:         record.Email,
		therapist.FieldAddress:       record.Address,
		therapist.FieldNICNumber:     record.NICNumber,
		therapist.FieldWorkStartYear: record.WorkStartYear,
	}

	snapshot := make(map[string]string, len(fields))
	for k, v := range fields {
		snapshot[k] = v
	}

	return &Form{
		rules:    therapist.NewFieldRules(),
		editable: therapist.EditableFields(role),
		fields:   fields,
		present:  make(map[string]bool),
		snapshot: snapshot,
	}
}

func (f *Form) Editable(field string) bool {
	return f.editable[field]
}

func (f *Form) Value(field string) string {
	return f.fields[field]
}

// SetField records a new value and marks the field present, so setting a
// field to empty reads as an explicit clear rather than an omission.
func (f *Form) SetField(field, value string) error {
	if _, known := f.fields[field]; !known {
		return apperror.NewInvalidInput(fmt.Sprintf("unknown field '%s'", field), nil)
	}
	if !f.editable[field] {
		return apperror.NewPermissionDenied(fmt.Sprintf("field '%s' is not editable", field))
	}
	f.fields[field] = value
	f.present[field] = true
	return nil
}

func (f *Form) ClearField(field string) error {
	return f.SetField(field, "")
}

func (f *Form) SetImage(candidate *UploadCandidate) error {
	if !f.editable[therapist.FieldImage] {
		return apperror.NewPermissionDenied("the profile image is not editable")
	}
	f.image = candidate
	return nil
}

func (f *Form) ClearImage() {
	f.image = nil
}

func (f *Form) Image() *UploadCandidate {
	return f.image
}

// ValidateField checks the current value of one field.
func (f *Form) ValidateField(field string) error {
	return f.rules.ValidateField(field, f.fields[field])
}

// Validate runs every field rule and maps field names to messages. Fields
// validate independently; one failure does not hide another.
func (f *Form) Validate() map[string]string {
	problems := make(map[string]string)
	for _, field := range formFields {
		if err := f.rules.ValidateField(field, f.fields[field]); err != nil {
			problems[field] = apperror.UserMessage(err, "value is not valid")
		}
	}
	return problems
}

// HasChanges reports whether anything differs from the snapshot. Text fields
// compare by value; the image compares the candidate object itself, and the
// snapshot image is always empty.
func (f *Form) HasChanges() bool {
	if f.image != nil {
		return true
	}
	for field := range f.present {
		if f.fields[field] != f.snapshot[field] {
			return true
		}
	}
	return false
}

// Changes returns the explicitly set fields whose values differ from the
// snapshot. An empty value is carried through as a clear.
func (f *Form) Changes() map[string]string {
	changes := make(map[string]string)
	for field := range f.present {
		if f.fields[field] != f.snapshot[field] {
			changes[field] = f.fields[field]
		}
	}
	return changes
}

// ResetSnapshot re-synchronizes the snapshot with the current values after a
// successful submit and discards the pending image.
func (f *Form) ResetSnapshot() {
	for k, v := range f.fields {
		f.snapshot[k] = v
	}
	f.present = make(map[string]bool)
	f.image = nil
}

// ApplyRecord overwrites the form with a server-returned record and resets
// the snapshot to it.
func (f *Form) ApplyRecord(record *Record) {
	f.fields[therapist.FieldFullName] = record.FullName
	f.fields[therapist.FieldPhone] = record.Phone
	f.fields[therapist.FieldEmail] = record.Email
	f.fields[therapist.FieldAddress] = record.Address
	f.fields[therapist.FieldNICNumber] = record.NICNumber
	f.fields[therapist.FieldWorkStartYear] = record.WorkStartYear
	f.ResetSnapshot()
}
