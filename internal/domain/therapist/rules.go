package therapist

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mindcare/therapist-api/pkg/apperror"
)

// Image upload constraints. The size boundary is inclusive.
const MaxImageBytes = 5 << 20

var AllowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/gif":  true,
}

var fourDigitYear = regexp.MustCompile(`^\d{4}$`)

// FieldRules validates individual profile fields. The same rules run in the
// client form and in the update handler, so both sides agree on what a valid
// profile looks like.
type FieldRules struct {
	validate *validator.Validate
}

var fieldTags = map[string]string{
	FieldFullName:      "required,min=2",
	FieldPhone:         "required",
	FieldEmail:         "required,email",
	FieldAddress:       "required,min=5",
	FieldNICNumber:     "",
	FieldWorkStartYear: "required,year4,notfuture",
}

var fieldMessages = map[string]map[string]string{
	FieldFullName: {
		"required": "name is required",
		"min":      "name must be at least 2 characters",
	},
	FieldPhone: {
		"required": "phone number is required",
	},
	FieldEmail: {
		"required": "email is required",
		"email":    "email address is not valid",
	},
	FieldAddress: {
		"required": "address is required",
		"min":      "address must be at least 5 characters",
	},
	FieldWorkStartYear: {
		"required":  "work start year is required",
		"year4":     "work start year must be a 4-digit year",
		"notfuture": "work start year cannot be in the future",
	},
}

func NewFieldRules() *FieldRules {
	v := validator.New()
	v.RegisterValidation("year4", func(fl validator.FieldLevel) bool {
		return fourDigitYear.MatchString(fl.Field().String())
	})
	v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		year, err := strconv.Atoi(fl.Field().String())
		if err != nil {
			// year4 reports the pattern failure
			return true
		}
		return year <= time.Now().Year()
	})
	return &FieldRules{validate: v}
}

// ValidateField checks one field value and returns a *apperror.AppError with
// a field-specific message on failure.
func (r *FieldRules) ValidateField(field, value string) error {
	tag, known := fieldTags[field]
	if !known || tag == "" {
		return nil
	}

	err := r.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	message := "value is not valid"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if m, found := fieldMessages[field][verrs[0].Tag()]; found {
			message = m
		}
	}
	return apperror.NewInvalidInput(message, err)
}

// ValidatePatch checks every field present in the patch. The image is not a
// patch field and is validated separately against the upload constraints.
func (r *FieldRules) ValidatePatch(patch *Patch) error {
	for _, field := range patch.Fields() {
		value, _ := patch.Get(field)
		if err := r.ValidateField(field, value); err != nil {
			return err
		}
	}
	return nil
}
