package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/logger"
	"go.uber.org/zap"
)

// Record is the normalized profile shape regardless of whether the server
// wrapped it under a data key.
type Record struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	NICNumber     string `json:"nic_number"`
	WorkStartYear string `json:"work_start_year"`
	ImagePath     string `json:"image_path"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	resolver   *IdentityResolver
	cache      *RecordCache
	logger     logger.Logger
}

func NewClient(baseURL string, store TokenStore, fallbackID string, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		resolver:   NewIdentityResolver(store, fallbackID),
		cache:      NewRecordCache(),
		logger:     log,
	}
}

func (c *Client) Resolver() *IdentityResolver {
	return c.resolver
}

func (c *Client) Cache() *RecordCache {
	return c.cache
}

// ResolveImageURL turns any stored image reference into a displayable URL.
// Every reference, whatever its origin, goes through here.
func (c *Client) ResolveImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// FetchProfile loads the profile record for the given identifier, retrying
// exactly once on failure.
func (c *Client) FetchProfile(ctx context.Context, therapistID string) (*Record, error) {
	record, err := c.fetchOnce(ctx, therapistID)
	if err != nil {
		c.logger.Warn("Profile fetch failed, retrying once", zap.String("therapist_id", therapistID), zap.Error(err))
		record, err = c.fetchOnce(ctx, therapistID)
	}
	if err != nil {
		return nil, err
	}

	c.cache.Set(therapistID, record)
	return record, nil
}

func (c *Client) fetchOnce(ctx context.Context, therapistID string) (*Record, error) {
	url := fmt.Sprintf("%s/api/therapists/%s", c.baseURL, therapistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperror.NewTransport("failed to build profile request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewTransport("profile request failed", err)
	}
	defer resp.Body.Close()

	// Server errors are transport failures; anything below that threshold
	// carries a body worth inspecting.
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, apperror.NewTransport(fmt.Sprintf("server returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewTransport("failed to read profile response", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NewNotFound("therapist", therapistID)
	}

	if looksLikeMarkup(resp.Header.Get("Content-Type"), body) {
		return nil, apperror.NewInvalidResponse("response body is markup, not a profile record", nil)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperror.NewAppError(apperror.ErrTransport, "profile request rejected", serverDetail(body, resp.StatusCode), nil)
	}

	return normalizeRecord(body)
}

// normalizeRecord accepts both a wrapped `{"data": {...}}` payload and a
// bare record object and produces the same Record either way.
func normalizeRecord(body []byte) (*Record, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperror.NewInvalidResponse("response body is not a JSON object", err)
	}

	payload := body
	if data, wrapped := envelope["data"]; wrapped {
		payload = data
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apperror.NewInvalidResponse("response carries no object payload", nil)
	}

	record := &Record{}
	if err := json.Unmarshal(trimmed, record); err != nil {
		return nil, apperror.NewInvalidResponse("payload does not match the profile record shape", err)
	}
	return record, nil
}

func looksLikeMarkup(contentType string, body []byte) bool {
	if strings.Contains(contentType, "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// serverDetail digs the most specific error message out of a response body.
func serverDetail(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
