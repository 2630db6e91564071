package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	profileUC "github.com/mindcare/therapist-api/internal/application/usecase/profile"
	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/logger"
)

type TherapistHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewTherapistHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *TherapistHandler {
	return &TherapistHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *TherapistHandler) GetTherapist(c *gin.Context) {
	therapistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid therapist ID", err))
		return
	}

	input := profileUC.GetProfileInput{TherapistID: therapistID}
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ToTherapistDTO(output.Therapist)})
}

// patchable fields in the order they appear on the form
var patchableFields = []string{
	therapist.FieldFullName,
	therapist.FieldPhone,
	therapist.FieldEmail,
	therapist.FieldAddress,
	therapist.FieldNICNumber,
	therapist.FieldWorkStartYear,
}

func (h *TherapistHandler) UpdateTherapist(c *gin.Context) {
	claims, ok := GetClaimsFromGinContext(c)
	if !ok {
		c.Error(apperror.NewAuthMissing("caller claims not found in context"))
		return
	}

	therapistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid therapist ID", err))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.Error(apperror.NewInvalidInput("request body must be multipart form data", err))
		return
	}

	// A key that is present with an empty value is an explicit clear, so the
	// patch is built from key presence rather than value truthiness.
	patch := therapist.NewPatch()
	for _, field := range patchableFields {
		if values, present := form.Value[field]; present {
			value := ""
			if len(values) > 0 {
				value = values[0]
			}
			patch.Set(field, value)
		}
	}

	input := profileUC.UpdateProfileInput{
		TherapistID: therapistID,
		Caller:      claims,
		Patch:       patch,
	}

	if files := form.File[therapist.FieldImage]; len(files) > 0 {
		fileHeader := files[0]
		file, err := fileHeader.Open()
		if err != nil {
			c.Error(apperror.NewInternal("failed to open uploaded image", err))
			return
		}
		defer file.Close()

		input.Image = file
		input.ImageSize = fileHeader.Size
		input.ImageType = fileHeader.Header.Get("Content-Type")
	}

	output, err := h.profileUseCase.ExecuteUpdateProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    ToTherapistDTO(output.Therapist),
		"message": output.Message,
	})
}
