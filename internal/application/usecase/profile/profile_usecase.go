package profile

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mindcare/therapist-api/adapters/event"
	"github.com/mindcare/therapist-api/adapters/persistence"
	"github.com/mindcare/therapist-api/internal/application/service"
	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/auth"
	"github.com/mindcare/therapist-api/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	therapistRepo therapist.Repository
	cache         *persistence.TherapistCache
	rules         *therapist.FieldRules
	uploader      service.Uploader
	kafkaClient   *event.KafkaProducerClient
	logger        logger.Logger
}

func NewProfileUseCase(
	repo therapist.Repository,
	cache *persistence.TherapistCache,
	uploader service.Uploader,
	kafkaClient *event.KafkaProducerClient,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		therapistRepo: repo,
		cache:         cache,
		rules:         therapist.NewFieldRules(),
		uploader:      uploader,
		kafkaClient:   kafkaClient,
		logger:        log,
	}
}

type GetProfileInput struct {
	TherapistID uuid.UUID
}

type GetProfileOutput struct {
	Therapist *therapist.Therapist
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteGetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("therapist_id", input.TherapistID.String()))

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, input.TherapistID)
		if err != nil {
			uc.logger.Warn("Therapist cache lookup failed, reading from database", zap.Error(err))
		} else if cached != nil {
			return &GetProfileOutput{Therapist: cached}, nil
		}
	}

	t, err := uc.therapistRepo.FindByID(ctx, input.TherapistID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get therapist profile failed: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, t); err != nil {
			uc.logger.Warn("Failed to cache therapist record", zap.String("therapist_id", t.ID.String()), zap.Error(err))
		}
	}

	return &GetProfileOutput{Therapist: t}, nil
}

type UpdateProfileInput struct {
	TherapistID uuid.UUID
	Caller      *auth.CustomClaims
	Patch       *therapist.Patch
	Image       io.Reader
	ImageSize   int64
	ImageType   string
}

type UpdateProfileOutput struct {
	Therapist *therapist.Therapist
	Message   string
}

func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteUpdateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("therapist_id", input.TherapistID.String()))

	if input.Caller == nil {
		return nil, apperror.NewAuthMissing("profile updates require a bearer token")
	}
	if input.Caller.Role != auth.RoleAdmin && input.Caller.TherapistID != input.TherapistID {
		return nil, apperror.NewPermissionDenied("callers may only update their own profile")
	}

	editable := therapist.EditableFields(input.Caller.Role)
	for _, field := range input.Patch.Fields() {
		if !editable[field] {
			return nil, apperror.NewPermissionDenied(fmt.Sprintf("field '%s' is not editable for role '%s'", field, input.Caller.Role))
		}
	}
	if input.Image != nil && !editable[therapist.FieldImage] {
		return nil, apperror.NewPermissionDenied(fmt.Sprintf("field 'image' is not editable for role '%s'", input.Caller.Role))
	}

	if err := uc.rules.ValidatePatch(input.Patch); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if input.Patch.IsEmpty() && input.Image == nil {
		return nil, apperror.NewInvalidInput("no changed fields were submitted", nil)
	}

	updated, err := uc.therapistRepo.ApplyPatch(ctx, input.TherapistID, input.Patch)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if input.Image != nil {
		updated, err = uc.attachImage(ctx, updated, input)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, updated); err != nil {
			uc.logger.Warn("Failed to refresh therapist cache after update", zap.String("therapist_id", updated.ID.String()), zap.Error(err))
		}
	}

	if uc.kafkaClient != nil {
		go func() {
			payload := event.ProfileEventPayload{
				EventType:   event.ProfileEventTypeUpdated,
				TherapistID: updated.ID,
			}
			if err := uc.kafkaClient.PublishProfileEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'profile.updated' event", err, zap.String("therapist_id", updated.ID.String()))
			}
		}()
	}

	return &UpdateProfileOutput{
		Therapist: updated,
		Message:   "Profile updated successfully",
	}, nil
}

func (uc *ProfileUseCase) attachImage(ctx context.Context, current *therapist.Therapist, input UpdateProfileInput) (*therapist.Therapist, error) {
	if input.ImageSize > therapist.MaxImageBytes {
		return nil, apperror.NewInvalidInput("image must be 5 MB or smaller", nil)
	}
	if !therapist.AllowedImageTypes[input.ImageType] {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("image type '%s' is not supported", input.ImageType), nil)
	}

	folder := fmt.Sprintf("therapists/%s/avatar", current.ID.String())
	publicID := uuid.New().String()

	imageURL, err := uc.uploader.Upload(ctx, input.Image, folder, publicID)
	if err != nil {
		return nil, apperror.NewInternal("failed to upload profile image", err)
	}

	if err := uc.therapistRepo.UpdateImage(ctx, current.ID, imageURL, "", therapist.ImageStatusPending); err != nil {
		go uc.uploader.Delete(context.Background(), publicID)
		return nil, err
	}

	current.ImagePath = &imageURL
	current.ThumbnailPath = nil
	current.ImageStatus = therapist.ImageStatusPending

	if uc.kafkaClient != nil {
		go func() {
			payload := event.ProfileEventPayload{
				EventType:     event.ProfileEventTypeImageUploaded,
				TherapistID:   current.ID,
				ImagePublicID: publicID,
				ImageURL:      imageURL,
			}
			if err := uc.kafkaClient.PublishProfileEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'profile.image.uploaded' event", err, zap.String("therapist_id", current.ID.String()))
			}
		}()
	}

	return current, nil
}
