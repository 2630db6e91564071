package profile

import (
	"context"
	"errors"

	"github.com/mindcare/therapist-api/adapters/event"
	"github.com/mindcare/therapist-api/internal/application/service"
	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/logger"
	"go.uber.org/zap"
)

type ProcessImageUseCase struct {
	therapistRepo therapist.Repository
	uploader      service.Uploader
	logger        logger.Logger
}

func NewProcessImageUseCase(r therapist.Repository, u service.Uploader, log logger.Logger) *ProcessImageUseCase {
	return &ProcessImageUseCase{therapistRepo: r, uploader: u, logger: log}
}

// Execute builds the display and thumbnail renditions for a freshly uploaded
// profile image and marks the image ready.
func (uc *ProcessImageUseCase) Execute(ctx context.Context, payload event.ProfileEventPayload) error {
	l := uc.logger.With(zap.String("therapist_id", payload.TherapistID.String()), zap.String("event_type", string(payload.EventType)))

	if payload.EventType != event.ProfileEventTypeImageUploaded {
		return nil
	}
	l.Info("Worker UseCase processing profile image event")

	t, err := uc.therapistRepo.FindByID(ctx, payload.TherapistID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			l.Warn("Therapist not found, skipping event")
			return nil
		}
		return apperror.NewInternal("failed to get therapist", err)
	}

	if t.ImageStatus == therapist.ImageStatusReady {
		l.Info("Profile image already in 'ready' state, skipping")
		return nil
	}

	cldClient := uc.uploader.GetClient()
	if cldClient == nil {
		return apperror.NewInternal("could not get cloudinary client from uploader", nil)
	}

	imgAsset, err := cldClient.Image(payload.ImagePublicID)
	if err != nil {
		return apperror.NewInternal("failed to create cloudinary asset", err)
	}

	imgAsset.Transformation = "c_limit,w_1200"
	displayURL, err := imgAsset.String()
	if err != nil {
		return apperror.NewInternal("failed to build display image URL", err)
	}

	imgAsset.Transformation = "c_fill,g_auto,w_400,h_400"
	thumbURL, err := imgAsset.String()
	if err != nil {
		return apperror.NewInternal("failed to build thumbnail URL", err)
	}

	if err := uc.therapistRepo.UpdateImage(ctx, t.ID, displayURL, thumbURL, therapist.ImageStatusReady); err != nil {
		return apperror.NewInternal("failed to update profile image to 'ready'", err)
	}

	l.Info("Successfully processed profile image", zap.String("status", string(therapist.ImageStatusReady)))
	return nil
}
