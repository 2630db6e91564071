package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
)

// UpdateProfile submits the changed fields, plus an optional image, as an
// authenticated multipart PUT. Every present change is sent, including
// explicit empty values; only a strict 2xx counts as success. On success the
// returned record is merged into the shared cache for this identifier.
func (c *Client) UpdateProfile(ctx context.Context, therapistID string, changes map[string]string, image *UploadCandidate) (*Record, string, error) {
	token, ok := c.store.Token()
	if !ok {
		return nil, "", apperror.NewAuthMissing("no credential token in storage")
	}

	if len(changes) == 0 && image == nil {
		return nil, "", apperror.NewInvalidInput("nothing to submit", nil)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, value := range changes {
		if err := writer.WriteField(field, value); err != nil {
			return nil, "", apperror.NewInternal("failed to encode form field", err)
		}
	}
	if image != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, therapist.FieldImage, image.Name))
		header.Set("Content-Type", image.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", apperror.NewInternal("failed to create image part", err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", apperror.NewInternal("failed to write image part", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", apperror.NewInternal("failed to finish multipart body", err)
	}

	url := fmt.Sprintf("%s/api/therapists/%s", c.baseURL, therapistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return nil, "", apperror.NewTransport("failed to build update request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", apperror.NewTransport("update request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", apperror.NewAppError(apperror.ErrTransport, "profile update rejected", serverDetail(respBody, resp.StatusCode), nil)
	}

	record, err := normalizeRecord(respBody)
	if err != nil {
		return nil, "", err
	}

	c.cache.Set(therapistID, record)
	return record, serverMessage(respBody), nil
}

func readBody(resp *http.Response) ([]byte, error) {
	body := &bytes.Buffer{}
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, apperror.NewTransport("failed to read update response", err)
	}
	return body.Bytes(), nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
