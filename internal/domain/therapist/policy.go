package therapist

// EditableFields returns the set of profile fields a caller with the given
// role may change. Editability is a per-field capability, not a blanket flag
// on the whole form.
func EditableFields(role string) map[string]bool {
	switch role {
	case "admin":
		return map[string]bool{
			FieldFullName:      true,
			FieldPhone:         true,
			FieldEmail:         true,
			FieldAddress:       true,
			FieldNICNumber:     true,
			FieldWorkStartYear: true,
			FieldImage:         true,
		}
	case "therapist":
		// Therapists manage their own contact details and picture. The
		// national ID is set during onboarding and stays admin-only.
		return map[string]bool{
			FieldFullName:      true,
			FieldPhone:         true,
			FieldEmail:         true,
			FieldAddress:       true,
			FieldWorkStartYear: true,
			FieldImage:         true,
		}
	default:
		return map[string]bool{}
	}
}
