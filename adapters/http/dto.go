package http

import (
	"time"

	"github.com/mindcare/therapist-api/internal/domain/therapist"
)

// Therapist DTOs. The wire names mirror the profiles table: full_name,
// phone, email, address, nic_number, work_start_year, image_path.
type TherapistDTO struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	NICNumber     string    `json:"nic_number"`
	WorkStartYear string    `json:"work_start_year"`
	ImagePath     *string   `json:"image_path"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty"`
	ImageStatus   string    `json:"image_status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToTherapistDTO(t *therapist.Therapist) TherapistDTO {
	return TherapistDTO{
		ID:            t.ID.String(),
		FullName:      t.FullName,
		Phone:         t.Phone,
		Email:         t.Email,
		Address:       t.Address,
		NICNumber:     t.NICNumber,
		WorkStartYear: t.WorkStartYear,
		ImagePath:     t.ImagePath,
		ThumbnailPath: t.ThumbnailPath,
		ImageStatus:   string(t.ImageStatus),
		UpdatedAt:     t.UpdatedAt,
	}
}
