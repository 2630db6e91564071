package therapist

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ImageStatus string

const (
	ImageStatusNone    ImageStatus = "none"
	ImageStatusPending ImageStatus = "pending"
	ImageStatusReady   ImageStatus = "ready"
)

// Field names as they appear on the wire and in the profiles table.
const (
	FieldFullName      = "full_name"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldAddress       = "address"
	FieldNICNumber     = "nic_number"
	FieldWorkStartYear = "work_start_year"
	FieldImage         = "image"
)

type Therapist struct {
	ID            uuid.UUID   `json:"id"`
	FullName      string      `json:"full_name"`
	Phone         string      `json:"phone"`
	Email         string      `json:"email"`
	Address       string      `json:"address"`
	NICNumber     string      `json:"nic_number"`
	WorkStartYear string      `json:"work_start_year"`
	ImagePath     *string     `json:"image_path"`
	ThumbnailPath *string     `json:"thumbnail_path"`
	ImageStatus   ImageStatus `json:"image_status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Therapist, error)
	Save(ctx context.Context, t *Therapist) error
	// ApplyPatch writes only the fields present in the patch and returns the
	// resulting row. An empty value in the patch clears the column.
	ApplyPatch(ctx context.Context, id uuid.UUID, patch *Patch) (*Therapist, error)
	UpdateImage(ctx context.Context, id uuid.UUID, imagePath, thumbnailPath string, status ImageStatus) error
}
